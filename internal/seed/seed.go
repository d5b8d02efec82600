package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Slug       string
	Title      string
	PriceCents int64
	FilePath   string
	FileName   string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Slug:       "cinematic-lut-pack",
			Title:      "Cinematic LUT Pack",
			PriceCents: 0,
			FilePath:   "products/cinematic-lut-pack/luts.zip",
			FileName:   "Cinematic LUT Pack.zip",
		},
		{
			Slug:       "wedding-project-templates",
			Title:      "Wedding Project Templates",
			PriceCents: 4900,
			FilePath:   "products/wedding-project-templates/templates.zip",
			FileName:   "Wedding Project Templates.zip",
		},
		{
			Slug:       "film-grain-overlays",
			Title:      "Film Grain Overlays 4K",
			PriceCents: 1900,
			FilePath:   "products/film-grain-overlays/overlays.mp4",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (slug, title, price_cents, file_path, file_name)
VALUES ($1, $2, $3, $4, NULLIF($5, ''))
ON CONFLICT (slug) DO UPDATE
SET title = EXCLUDED.title,
    price_cents = EXCLUDED.price_cents,
    file_path = EXCLUDED.file_path,
    file_name = EXCLUDED.file_name
`
	_, err := pool.Exec(ctx, q, p.Slug, p.Title, p.PriceCents, p.FilePath, p.FileName)
	if err != nil {
		return err
	}
	return nil
}
