package product

import (
	"context"

	"storefront-api/internal/domain"
)

// MetadataPatch is a partial update of a product's file metadata. Nil
// fields are left untouched; the whole patch is applied in one write.
type MetadataPatch struct {
	FileSize   *int64
	FileFormat *string
	MimeType   *string
	IsNew      *bool
}

// Empty reports whether the patch changes nothing.
func (p MetadataPatch) Empty() bool {
	return p.FileSize == nil && p.FileFormat == nil && p.MimeType == nil && p.IsNew == nil
}

type Repository interface {
	// GetBySlugOrID looks a product up by either identifier. When a slug
	// and an id both match, the slug match wins.
	GetBySlugOrID(ctx context.Context, identifier string) (*domain.Product, error)

	// Upsert creates or replaces a product by slug. Content-authoring path.
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)

	// UpdateMetadata applies a metadata patch in a single write.
	UpdateMetadata(ctx context.Context, id string, patch MetadataPatch) error

	// IncrementDownloads bumps the download counter by one. Best effort;
	// callers treat it as advisory bookkeeping, not a ledger.
	IncrementDownloads(ctx context.Context, id string) error
}
