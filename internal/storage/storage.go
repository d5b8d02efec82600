// Package storage abstracts the S3-compatible object store holding the
// private download files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrObjectNotFound indicates the requested key does not exist in the store.
var ErrObjectNotFound = errors.New("object not found")

// ConfigError reports object-store configuration that is missing or
// unusable. Missing lists every absent environment variable so a single
// failure names the full gap.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required R2 environment variables: %s", strings.Join(e.Missing, ", "))
}

// ObjectMetadata is what the store reports about an object.
type ObjectMetadata struct {
	Size         int64
	ContentType  string
	LastModified time.Time
}

// ObjectStore is the surface the download flow needs from the store.
type ObjectStore interface {
	// Metadata checks existence and returns size and content type.
	// Returns ErrObjectNotFound when the key is absent.
	Metadata(ctx context.Context, key string) (*ObjectMetadata, error)

	// PresignGet returns a time-limited URL granting credential-less read
	// access to one object. Returns ErrObjectNotFound when the key is
	// absent.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
}

// Config holds the object-store settings. Endpoint wins over AccountID when
// both are set; otherwise the endpoint is derived from the account.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	AccountID       string
	Timeout         time.Duration
}

// Validate checks every required setting and reports all gaps at once, so
// a misconfigured deployment fails at startup with the complete list.
func (c Config) Validate() error {
	var missing []string
	if c.AccessKeyID == "" {
		missing = append(missing, "R2_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "R2_SECRET_ACCESS_KEY")
	}
	if c.Bucket == "" {
		missing = append(missing, "R2_BUCKET_NAME")
	}
	if c.Endpoint == "" && c.AccountID == "" {
		missing = append(missing, "R2_ENDPOINT or R2_ACCOUNT_ID")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// EndpointURL resolves the store endpoint from the explicit setting or the
// account identifier.
func (c Config) EndpointURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}
