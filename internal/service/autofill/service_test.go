package autofill

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
	productrepo "storefront-api/internal/repository/product"
	"storefront-api/internal/storage"
)

type stubRepo struct {
	product   *domain.Product
	getErr    error
	lastPatch *productrepo.MetadataPatch
	updateErr error
}

func (s *stubRepo) GetBySlugOrID(_ context.Context, _ string) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.product, nil
}

func (s *stubRepo) Upsert(_ context.Context, _ domain.Product) (*domain.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRepo) UpdateMetadata(_ context.Context, _ string, patch productrepo.MetadataPatch) error {
	s.lastPatch = &patch
	return s.updateErr
}

func (s *stubRepo) IncrementDownloads(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

type stubStore struct {
	meta    *storage.ObjectMetadata
	metaErr error
}

func (s *stubStore) Metadata(_ context.Context, _ string) (*storage.ObjectMetadata, error) {
	if s.metaErr != nil {
		return nil, s.metaErr
	}
	return s.meta, nil
}

func (s *stubStore) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubStore) Put(context.Context, string, io.Reader, string) error {
	return errors.New("not implemented")
}

var testNow = time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

func newService(repo *stubRepo, store *stubStore) *Service {
	svc := New(repo, store, nil, time.Second)
	svc.now = func() time.Time { return testNow }
	return svc
}

func bareProduct() *domain.Product {
	return &domain.Product{
		ID:        "p1",
		Slug:      "wedding-templates",
		Title:     "Wedding Templates",
		CreatedAt: testNow.AddDate(0, -2, 0),
		File: &domain.DownloadFile{
			FilePath: "products/wedding-templates/pack.zip",
		},
	}
}

func TestRunFillsEverythingMissing(t *testing.T) {
	repo := &stubRepo{product: bareProduct()}
	store := &stubStore{meta: &storage.ObjectMetadata{Size: 2048, ContentType: "application/zip"}}
	svc := newService(repo, store)

	updates, err := svc.Run(context.Background(), "wedding-templates")
	require.NoError(t, err)

	assert.Equal(t, Updates{
		"downloadFile.fileSize":   int64(2048),
		"downloadFile.fileFormat": ".zip",
		"downloadFile.mimeType":   "application/zip",
	}, updates)

	require.NotNil(t, repo.lastPatch)
	assert.Nil(t, repo.lastPatch.IsNew, "old products stay un-flagged")
}

func TestRunAlreadyComplete(t *testing.T) {
	p := bareProduct()
	p.File.FileSize = 2048
	p.File.FileFormat = ".zip"
	p.File.MimeType = "application/zip"
	repo := &stubRepo{product: p}
	store := &stubStore{meta: &storage.ObjectMetadata{Size: 2048, ContentType: "application/zip"}}
	svc := newService(repo, store)

	updates, err := svc.Run(context.Background(), "wedding-templates")
	require.NoError(t, err)
	assert.Empty(t, updates, "empty update set is a successful outcome")
	assert.Nil(t, repo.lastPatch, "no catalog write when nothing changed")
}

func TestRunRefreshesStaleSize(t *testing.T) {
	p := bareProduct()
	p.File.FileSize = 1000
	p.File.FileFormat = ".zip"
	p.File.MimeType = "application/zip"
	repo := &stubRepo{product: p}
	store := &stubStore{meta: &storage.ObjectMetadata{Size: 4096}}
	svc := newService(repo, store)

	updates, err := svc.Run(context.Background(), "wedding-templates")
	require.NoError(t, err)
	assert.Equal(t, Updates{"downloadFile.fileSize": int64(4096)}, updates)
}

func TestRunObjectMissingSkipsSizeOnly(t *testing.T) {
	repo := &stubRepo{product: bareProduct()}
	store := &stubStore{metaErr: storage.ErrObjectNotFound}
	svc := newService(repo, store)

	updates, err := svc.Run(context.Background(), "wedding-templates")
	require.NoError(t, err, "a not-yet-uploaded file is not fatal during authoring")

	assert.NotContains(t, updates, "downloadFile.fileSize")
	assert.Equal(t, ".zip", updates["downloadFile.fileFormat"])
	assert.Equal(t, "application/zip", updates["downloadFile.mimeType"], "derived from extension when the store has nothing")
}

func TestRunSetsIsNewForRecentProduct(t *testing.T) {
	p := bareProduct()
	p.CreatedAt = testNow.AddDate(0, 0, -3)
	repo := &stubRepo{product: p}
	store := &stubStore{meta: &storage.ObjectMetadata{Size: 10}}
	svc := newService(repo, store)

	updates, err := svc.Run(context.Background(), "wedding-templates")
	require.NoError(t, err)
	assert.Equal(t, true, updates["isNew"])
}

func TestRunNeverOverridesAuthorIsNew(t *testing.T) {
	explicit := false
	p := bareProduct()
	p.CreatedAt = testNow.AddDate(0, 0, -3)
	p.IsNew = &explicit
	repo := &stubRepo{product: p}
	store := &stubStore{meta: &storage.ObjectMetadata{Size: 10}}
	svc := newService(repo, store)

	updates, err := svc.Run(context.Background(), "wedding-templates")
	require.NoError(t, err)
	assert.NotContains(t, updates, "isNew")
}

func TestRunProductNotFound(t *testing.T) {
	repo := &stubRepo{getErr: domain.ErrNotFound}
	svc := newService(repo, &stubStore{})

	_, err := svc.Run(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunNoFilePath(t *testing.T) {
	p := bareProduct()
	p.File = nil
	repo := &stubRepo{product: p}
	svc := newService(repo, &stubStore{})

	_, err := svc.Run(context.Background(), "wedding-templates")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
