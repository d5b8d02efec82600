package httpserver

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	"storefront-api/internal/storage"
)

type downloadRequest struct {
	ProductID string `json:"productId"`
}

// issueDownloadHandler serves POST /api/download: mints a signed grant and
// triggers the bookkeeping side effects.
func issueDownloadHandler(svc DownloadService, logger *log.Logger, releaseMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req downloadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		if req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: productId"})
			return
		}

		grant, err := svc.Issue(c.Request.Context(), req.ProductID)
		if err != nil {
			respondDownloadError(c, logger, req.ProductID, err, releaseMode)
			return
		}
		c.JSON(http.StatusOK, grant)
	}
}

// peekDownloadHandler serves GET /api/download: the read-only variant with
// no bookkeeping side effects.
func peekDownloadHandler(svc DownloadService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Query("productId")
		if productID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: productId"})
			return
		}

		grant, err := svc.Peek(c.Request.Context(), productID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound),
				errors.Is(err, domain.ErrNotConfigured),
				errors.Is(err, storage.ErrObjectNotFound):
				logger.Printf("download: peek product=%s error=%v", productID, err)
				c.JSON(http.StatusNotFound, gin.H{"error": "Product or download file not found"})
			case errors.Is(err, domain.ErrStorageUnavailable):
				respondStorageUnavailable(c, logger, err)
			default:
				logger.Printf("download: peek product=%s error=%v", productID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL"})
			}
			return
		}
		c.JSON(http.StatusOK, grant)
	}
}

// respondDownloadError maps the issuance error taxonomy to HTTP. Storage
// paths and raw error internals stay in server logs; clients only see the
// sanitized messages.
func respondDownloadError(c *gin.Context, logger *log.Logger, productID string, err error, releaseMode bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: productId"})
	case errors.Is(err, domain.ErrNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not have a download file configured"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		respondStorageUnavailable(c, logger, err)
	case errors.Is(err, storage.ErrObjectNotFound):
		// The error carries the resolved storage key; keep that server-side.
		logger.Printf("download: issue product=%s error=%v", productID, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Download file not found"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product not found: %s", productID)})
	default:
		logger.Printf("download: issue product=%s error=%v", productID, err)
		body := gin.H{"error": "Failed to generate download URL"}
		if !releaseMode {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

func respondStorageUnavailable(c *gin.Context, logger *log.Logger, err error) {
	logger.Printf("download: storage unavailable error=%v", err)
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "Download service is not configured",
		"details": "Storage settings are missing. Contact administrator.",
	})
}
