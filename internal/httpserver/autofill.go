package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
)

type autoFillRequest struct {
	ProductID string `json:"productId"`
}

// autoFillHandler serves POST /api/products/auto-fill-metadata. An empty
// update set still answers 200: the record was already complete.
func autoFillHandler(svc AutoFillService, logger *log.Logger, releaseMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req autoFillRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: productId"})
			return
		}

		updates, err := svc.Run(c.Request.Context(), req.ProductID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			case errors.Is(err, domain.ErrNotConfigured):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not have a download file path configured"})
			default:
				logger.Printf("autofill: product=%s error=%v", req.ProductID, err)
				body := gin.H{"error": "Failed to auto-fill metadata"}
				if !releaseMode {
					body["details"] = err.Error()
				}
				c.JSON(http.StatusInternalServerError, body)
			}
			return
		}

		message := "Product metadata auto-filled successfully"
		if len(updates) == 0 {
			message = "Product metadata is already complete"
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": message,
			"updates": updates,
		})
	}
}
