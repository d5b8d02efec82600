package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `
id::text, slug, title, price_cents, downloads, is_new, created_at,
COALESCE(file_path, ''), COALESCE(file_name, ''), COALESCE(file_size, 0),
COALESCE(file_format, ''), COALESCE(mime_type, '')
`

func (r *postgresRepo) GetBySlugOrID(ctx context.Context, identifier string) (*domain.Product, error) {
	// Slug takes priority when both a slug and an id match the identifier.
	q := `
SELECT ` + productColumns + `
FROM products
WHERE slug = $1 OR id::text = $1
ORDER BY (slug = $1) DESC
LIMIT 1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get identifier=%s not found", identifier)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get identifier=%s error=%v", identifier, err)
		return nil, err
	}
	r.logger.Printf("product repo: get identifier=%s slug=%s", identifier, p.Slug)
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (slug, title, price_cents, is_new, file_path, file_name, file_size, file_format, mime_type)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, 0), NULLIF($8, ''), NULLIF($9, ''))
ON CONFLICT (slug) DO UPDATE SET
    title = EXCLUDED.title,
    price_cents = EXCLUDED.price_cents,
    is_new = EXCLUDED.is_new,
    file_path = EXCLUDED.file_path,
    file_name = EXCLUDED.file_name,
    file_size = EXCLUDED.file_size,
    file_format = EXCLUDED.file_format,
    mime_type = EXCLUDED.mime_type
RETURNING ` + productColumns + `
`
	var (
		filePath, fileName, fileFormat, mimeType string
		fileSize                                 int64
	)
	if product.File != nil {
		filePath = product.File.FilePath
		fileName = product.File.FileName
		fileSize = product.File.FileSize
		fileFormat = product.File.FileFormat
		mimeType = product.File.MimeType
	}

	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		product.Slug,
		product.Title,
		product.PriceCents,
		product.IsNew,
		filePath,
		fileName,
		fileSize,
		fileFormat,
		mimeType,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", product.Slug, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted slug=%s id=%s", res.Slug, res.ID)
	return res, nil
}

func (r *postgresRepo) UpdateMetadata(ctx context.Context, id string, patch MetadataPatch) error {
	const q = `
UPDATE products
SET file_size = COALESCE($2, file_size),
    file_format = COALESCE($3, file_format),
    mime_type = COALESCE($4, mime_type),
    is_new = COALESCE($5, is_new)
WHERE id::text = $1
`
	tag, err := r.pool.Exec(ctx, q, id, patch.FileSize, patch.FileFormat, patch.MimeType, patch.IsNew)
	if err != nil {
		r.logger.Printf("product repo: update metadata id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.Printf("product repo: update metadata id=%s not found", id)
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) IncrementDownloads(ctx context.Context, id string) error {
	const q = `UPDATE products SET downloads = downloads + 1 WHERE id::text = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		r.logger.Printf("product repo: increment downloads id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p    domain.Product
		file domain.DownloadFile
	)
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.PriceCents, &p.Downloads, &p.IsNew, &p.CreatedAt,
		&file.FilePath, &file.FileName, &file.FileSize, &file.FileFormat, &file.MimeType,
	)
	if err != nil {
		return nil, err
	}
	if file.FilePath != "" || file.FileName != "" {
		p.File = &file
	}
	return &p, nil
}
