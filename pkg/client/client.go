// Package client is a thin wrapper around the storefront API for Go
// callers. It surfaces the server's error payloads as typed errors instead
// of leaving callers to inspect status codes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Grant mirrors the issuance response.
type Grant struct {
	DownloadURL string    `json:"downloadUrl"`
	ExpiresIn   int       `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
	FileName    string    `json:"fileName"`
}

// AutoFillResult mirrors the auto-fill response.
type AutoFillResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Updates map[string]any `json:"updates"`
}

// APIError is a non-2xx answer from the server, carrying the
// human-readable message meant for display.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Message, e.Details, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Client calls the storefront API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestDownload asks for a signed download grant. This is the mutating
// path: the server also updates its bookkeeping.
func (c *Client) RequestDownload(ctx context.Context, productID string) (*Grant, error) {
	var grant Grant
	if err := c.postJSON(ctx, "/api/download", map[string]string{"productId": productID}, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// PeekDownload asks for a grant without triggering any bookkeeping.
func (c *Client) PeekDownload(ctx context.Context, productID string) (*Grant, error) {
	u := c.baseURL + "/api/download?productId=" + url.QueryEscape(productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var grant Grant
	if err := c.do(req, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// AutoFillMetadata runs the metadata backfill for one product.
func (c *Client) AutoFillMetadata(ctx context.Context, productID string) (*AutoFillResult, error) {
	var res AutoFillResult
	if err := c.postJSON(ctx, "/api/products/auto-fill-metadata", map[string]string{"productId": productID}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Details = payload.Details
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
