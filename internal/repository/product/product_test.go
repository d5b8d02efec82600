package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
	"storefront-api/internal/migrate"
)

func TestPostgres_GetBySlugOrID(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)

	first, err := repo.Upsert(ctx, domain.Product{
		Slug:       "color-grading-pack",
		Title:      "Color Grading Pack",
		PriceCents: 2900,
		File:       &domain.DownloadFile{FilePath: "products/color-grading-pack/pack.zip"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	bySlug, err := repo.GetBySlugOrID(ctx, "color-grading-pack")
	if err != nil {
		t.Fatalf("GetBySlugOrID by slug: %v", err)
	}
	if bySlug.ID != first.ID {
		t.Fatalf("expected id %s, got %s", first.ID, bySlug.ID)
	}

	byID, err := repo.GetBySlugOrID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetBySlugOrID by id: %v", err)
	}
	if byID.Slug != "color-grading-pack" {
		t.Fatalf("expected slug match, got %s", byID.Slug)
	}

	// A product whose slug equals another product's id wins the lookup.
	shadow, err := repo.Upsert(ctx, domain.Product{
		Slug:  first.ID,
		Title: "Shadow Product",
	})
	if err != nil {
		t.Fatalf("Upsert shadow: %v", err)
	}
	got, err := repo.GetBySlugOrID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetBySlugOrID shadowed: %v", err)
	}
	if got.ID != shadow.ID {
		t.Fatalf("expected slug match to win, got id %s", got.ID)
	}

	if _, err := repo.GetBySlugOrID(ctx, "no-such-product"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_UpdateMetadata(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)

	p, err := repo.Upsert(ctx, domain.Product{
		Slug:  "transition-pack",
		Title: "Transition Pack",
		File:  &domain.DownloadFile{FilePath: "products/transition-pack/pack.zip"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	size := int64(1024)
	format := ".zip"
	if err := repo.UpdateMetadata(ctx, p.ID, MetadataPatch{FileSize: &size, FileFormat: &format}); err != nil {
		t.Fatalf("UpdateMetadata: %v", err)
	}

	// A later patch with nil fields must leave earlier values in place.
	mime := "application/zip"
	if err := repo.UpdateMetadata(ctx, p.ID, MetadataPatch{MimeType: &mime}); err != nil {
		t.Fatalf("UpdateMetadata mime: %v", err)
	}

	got, err := repo.GetBySlugOrID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetBySlugOrID: %v", err)
	}
	if got.File == nil {
		t.Fatalf("expected file metadata")
	}
	if got.File.FileSize != 1024 || got.File.FileFormat != ".zip" || got.File.MimeType != "application/zip" {
		t.Fatalf("unexpected metadata %+v", got.File)
	}

	err = repo.UpdateMetadata(ctx, "00000000-0000-0000-0000-000000000000", MetadataPatch{FileSize: &size})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_IncrementDownloads(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)

	p, err := repo.Upsert(ctx, domain.Product{Slug: "title-pack", Title: "Title Pack"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := repo.IncrementDownloads(ctx, p.ID); err != nil {
		t.Fatalf("IncrementDownloads: %v", err)
	}
	if err := repo.IncrementDownloads(ctx, p.ID); err != nil {
		t.Fatalf("IncrementDownloads: %v", err)
	}

	got, err := repo.GetBySlugOrID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetBySlugOrID: %v", err)
	}
	if got.Downloads != 2 {
		t.Fatalf("expected 2 downloads, got %d", got.Downloads)
	}

	err = repo.IncrementDownloads(ctx, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}
