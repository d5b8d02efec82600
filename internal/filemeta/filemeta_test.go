package filemeta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFormat(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		fileName string
		want     string
	}{
		{"upper case folded", "products/x/My File.ZIP", "", ".zip"},
		{"no extension", "no-extension", "", ""},
		{"file name preferred", "products/pack.zip", "Pack Preview.mp4", ".mp4"},
		{"empty inputs", "", "", ""},
		{"digits in extension", "luts/cinematic.3dl", "", ".3dl"},
		{"trailing dot only", "products/archive.", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveFormat(tt.filePath, tt.fileName))
		})
	}
}

func TestDeriveMimeType(t *testing.T) {
	assert.Equal(t, "video/mp4", DeriveMimeType(".mp4"))
	assert.Equal(t, "application/zip", DeriveMimeType(".ZIP"))
	assert.Equal(t, "application/zip", DeriveMimeType("zip"))
	assert.Equal(t, "application/octet-stream", DeriveMimeType(".unknownext"))
	assert.Equal(t, "", DeriveMimeType(""))
}

func TestIsNew(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsNew(now.AddDate(0, 0, -13), now))
	assert.True(t, IsNew(now.Add(-14*24*time.Hour), now), "boundary at exactly 14 days counts as new")
	assert.False(t, IsNew(now.AddDate(0, 0, -15), now))
	assert.False(t, IsNew(time.Time{}, now), "zero createdAt is never new")
	assert.True(t, IsNew(now.AddDate(0, 0, 2), now), "future dates use the absolute difference")
}
