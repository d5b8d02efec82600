package domain

import "time"

// GrantTTL is the lifetime of every signed download URL. The object store
// owns enforcement; the application keeps no session state for a grant.
const GrantTTL = 600 * time.Second

// DownloadGrant is a time-limited permission to fetch one object. It is
// ephemeral and never persisted.
type DownloadGrant struct {
	URL       string    `json:"downloadUrl"`
	ExpiresIn int       `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
	FileName  string    `json:"fileName"`
}
