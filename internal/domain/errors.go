package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest indicates a malformed or incomplete caller request.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotConfigured indicates the product exists but has no download
	// file path. A content-authoring gap, not a transient condition.
	ErrNotConfigured = errors.New("download file not configured")

	// ErrStorageUnavailable indicates the object store client cannot be
	// used, typically because of missing configuration.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
