// Package autofill backfills product file metadata from the object store
// and the derivation rules. Maintenance path, not the issuance hot path.
package autofill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/filemeta"
	productrepo "storefront-api/internal/repository/product"
	"storefront-api/internal/storage"
)

// Updates maps changed field names to their new values. An empty map is a
// valid, successful outcome: the record was already complete.
type Updates map[string]any

type Service struct {
	products    productrepo.Repository
	store       storage.ObjectStore
	logger      *log.Logger
	callTimeout time.Duration
	now         func() time.Time
}

func New(products productrepo.Repository, store storage.ObjectStore, logger *log.Logger, callTimeout time.Duration) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	return &Service{
		products:    products,
		store:       store,
		logger:      logger,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// Run computes and applies every missing metadata field for one product in
// a single catalog write, returning the set of fields changed.
//
// An object absent from the store is not fatal: the record may reference a
// file that content authoring has not uploaded yet, so the size update is
// simply skipped.
func (s *Service) Run(ctx context.Context, productID string) (Updates, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: productId is required", domain.ErrInvalidRequest)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	p, err := s.products.GetBySlugOrID(lookupCtx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %q: %w", productID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("catalog lookup %q: %w", productID, err)
	}
	if !p.HasFile() {
		return nil, fmt.Errorf("product %q: %w", productID, domain.ErrNotConfigured)
	}
	filePath := p.File.FilePath

	var patch productrepo.MetadataPatch
	updates := Updates{}

	meta := s.metadataSafe(ctx, filePath)
	if meta != nil {
		if p.File.FileSize == 0 || p.File.FileSize != meta.Size {
			size := meta.Size
			patch.FileSize = &size
			updates["downloadFile.fileSize"] = size
		}
		if meta.ContentType != "" && p.File.MimeType == "" {
			mime := meta.ContentType
			patch.MimeType = &mime
			updates["downloadFile.mimeType"] = mime
		}
	} else {
		s.logger.Printf("autofill: object missing key=%s, skipping size update", filePath)
	}

	derivedFormat := filemeta.DeriveFormat(filePath, p.File.FileName)
	if derivedFormat != "" && p.File.FileFormat == "" {
		f := derivedFormat
		patch.FileFormat = &f
		updates["downloadFile.fileFormat"] = f
	}

	if p.File.MimeType == "" && patch.MimeType == nil {
		format := p.File.FileFormat
		if format == "" {
			format = derivedFormat
		}
		if mime := filemeta.DeriveMimeType(format); mime != "" {
			patch.MimeType = &mime
			updates["downloadFile.mimeType"] = mime
		}
	}

	// Only ever set isNew to true, and never override an author's explicit
	// choice in either direction.
	if p.IsNew == nil && !p.CreatedAt.IsZero() && filemeta.IsNew(p.CreatedAt, s.now()) {
		isNew := true
		patch.IsNew = &isNew
		updates["isNew"] = true
	}

	if patch.Empty() {
		return updates, nil
	}

	writeCtx, cancelWrite := context.WithTimeout(ctx, s.callTimeout)
	defer cancelWrite()

	if err := s.products.UpdateMetadata(writeCtx, p.ID, patch); err != nil {
		return nil, fmt.Errorf("apply metadata updates for %q: %w", productID, err)
	}
	s.logger.Printf("autofill: product=%s fields=%d", p.Slug, len(updates))
	return updates, nil
}

func (s *Service) metadataSafe(ctx context.Context, key string) *storage.ObjectMetadata {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	meta, err := s.store.Metadata(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Printf("autofill: metadata fetch key=%s error=%v", key, err)
		}
		return nil
	}
	return meta
}
