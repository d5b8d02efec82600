package domain

import "time"

// Product is a catalog record for a digital product. The catalog owns it;
// the download flow only reads it and backfills file metadata.
type Product struct {
	ID         string        `json:"id"`
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	PriceCents int64         `json:"priceCents"`
	Downloads  int64         `json:"downloads"`
	IsNew      *bool         `json:"isNew,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	File       *DownloadFile `json:"downloadFile,omitempty"`
}

// DownloadFile describes the deliverable behind a product. FilePath is the
// object-store key and must never reach a client.
type DownloadFile struct {
	FilePath   string `json:"-"`
	FileName   string `json:"fileName,omitempty"`
	FileSize   int64  `json:"fileSize,omitempty"`
	FileFormat string `json:"fileFormat,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
}

// Free reports whether the product is downloadable without a purchase.
func (p Product) Free() bool {
	return p.PriceCents == 0
}

// HasFile reports whether a download file path is configured.
func (p Product) HasFile() bool {
	return p.File != nil && p.File.FilePath != ""
}
