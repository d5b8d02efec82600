// Package download issues time-limited grants for product files. The
// caller only ever supplies an opaque product identifier; the storage key
// stays server-side, which closes path-traversal and bucket-enumeration
// vectors regardless of how keys are laid out.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/filemeta"
	productrepo "storefront-api/internal/repository/product"
	"storefront-api/internal/storage"
	"storefront-api/internal/tasks"
)

type Service struct {
	products    productrepo.Repository
	store       storage.ObjectStore
	runner      *tasks.Runner
	logger      *log.Logger
	callTimeout time.Duration
	now         func() time.Time
}

func New(products productrepo.Repository, store storage.ObjectStore, runner *tasks.Runner, logger *log.Logger, callTimeout time.Duration) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	return &Service{
		products:    products,
		store:       store,
		runner:      runner,
		logger:      logger,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// Issue produces a download grant for the identified product and kicks off
// the bookkeeping side effects. Free products need no purchase check; this
// path has no purchase gate at all.
//
// Only the signed-URL path is request-fatal. Metadata fetch, metadata
// backfill and the counter increment are advisory: their failures are
// logged and discarded.
func (s *Service) Issue(ctx context.Context, productID string) (*domain.DownloadGrant, error) {
	p, err := s.lookup(ctx, productID)
	if err != nil {
		return nil, err
	}
	filePath := p.File.FilePath

	// Best effort; a store hiccup here must not abort issuance.
	meta := s.metadataSafe(ctx, filePath)

	derivedFormat := filemeta.DeriveFormat(filePath, p.File.FileName)
	format := p.File.FileFormat
	if format == "" {
		format = derivedFormat
	}
	derivedMime := filemeta.DeriveMimeType(format)

	if meta != nil && (p.File.FileSize == 0 || p.File.FileFormat == "" || p.File.MimeType == "") {
		patch := backfillPatch(p, meta, derivedFormat, derivedMime)
		id := p.ID
		s.runner.Go("metadata-backfill", func(ctx context.Context) error {
			return s.products.UpdateMetadata(ctx, id, patch)
		})
	}

	grant, err := s.sign(ctx, p)
	if err != nil {
		return nil, err
	}

	id := p.ID
	s.runner.Go("download-counter", func(ctx context.Context) error {
		return s.products.IncrementDownloads(ctx, id)
	})

	return grant, nil
}

// Peek is the read-only variant: same grant, no bookkeeping side effects.
func (s *Service) Peek(ctx context.Context, productID string) (*domain.DownloadGrant, error) {
	p, err := s.lookup(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, p)
}

func (s *Service) lookup(ctx context.Context, productID string) (*domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: productId is required", domain.ErrInvalidRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	p, err := s.products.GetBySlugOrID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %q: %w", productID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("catalog lookup %q: %w", productID, err)
	}
	if !p.HasFile() {
		return nil, fmt.Errorf("product %q: %w", productID, domain.ErrNotConfigured)
	}
	return p, nil
}

func (s *Service) sign(ctx context.Context, p *domain.Product) (*domain.DownloadGrant, error) {
	filePath := p.File.FilePath

	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	url, err := s.store.PresignGet(ctx, filePath, domain.GrantTTL)
	if err != nil {
		var cfgErr *storage.ConfigError
		switch {
		case errors.As(err, &cfgErr):
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		case errors.Is(err, storage.ErrObjectNotFound):
			// The resolved path goes into the error for operator logs;
			// the HTTP layer keeps it out of client responses.
			return nil, fmt.Errorf("file %q: %w", filePath, err)
		default:
			return nil, fmt.Errorf("presign %q: %w", filePath, err)
		}
	}

	fileName := p.File.FileName
	if fileName == "" {
		fileName = path.Base(filePath)
	}

	now := s.now()
	return &domain.DownloadGrant{
		URL:       url,
		ExpiresIn: int(domain.GrantTTL.Seconds()),
		ExpiresAt: now.Add(domain.GrantTTL),
		FileName:  fileName,
	}, nil
}

func (s *Service) metadataSafe(ctx context.Context, key string) *storage.ObjectMetadata {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	meta, err := s.store.Metadata(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Printf("download: metadata fetch key=%s error=%v", key, err)
		}
		return nil
	}
	return meta
}

func backfillPatch(p *domain.Product, meta *storage.ObjectMetadata, derivedFormat, derivedMime string) productrepo.MetadataPatch {
	var patch productrepo.MetadataPatch

	size := meta.Size
	patch.FileSize = &size

	if p.File.FileFormat == "" && derivedFormat != "" {
		f := derivedFormat
		patch.FileFormat = &f
	}
	if p.File.MimeType == "" {
		mime := meta.ContentType
		if mime == "" {
			mime = derivedMime
		}
		if mime == "" {
			mime = "application/octet-stream"
		}
		patch.MimeType = &mime
	}
	return patch
}
