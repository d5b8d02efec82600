// Package filemeta derives file metadata from paths and names. All
// functions are pure: absent input degrades to zero values, never errors.
package filemeta

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// NewListingDays is the age threshold under which a listing counts as new.
const NewListingDays = 14

var extPattern = regexp.MustCompile(`(?i)\.([a-z0-9]+)$`)

// DeriveFormat extracts the trailing dot-extension from fileName, falling
// back to filePath. The result is lower-cased with a leading dot, e.g.
// ".zip". Returns "" when neither source carries an extension.
func DeriveFormat(filePath, fileName string) string {
	source := fileName
	if source == "" {
		source = filePath
	}
	if source == "" {
		return ""
	}
	m := extPattern.FindStringSubmatch(source)
	if m == nil {
		return ""
	}
	return "." + strings.ToLower(m[1])
}

// DeriveMimeType maps a dot-extension to a MIME type. Known extensions get
// their registered type, unknown ones fall back to a generic binary type,
// and an empty format yields "".
func DeriveMimeType(format string) string {
	if format == "" {
		return ""
	}
	ext := strings.TrimPrefix(strings.ToLower(format), ".")
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsNew reports whether createdAt lies within NewListingDays of now. The
// day difference is ceiling-rounded, so exactly 14 days still counts as
// new. A zero createdAt is never new.
func IsNew(createdAt, now time.Time) bool {
	if createdAt.IsZero() {
		return false
	}
	diff := math.Abs(now.Sub(createdAt).Hours())
	days := int(math.Ceil(diff / 24))
	return days <= NewListingDays
}

var mimeTypes = map[string]string{
	// Archives
	"zip": "application/zip",
	"rar": "application/x-rar-compressed",
	"7z":  "application/x-7z-compressed",
	"tar": "application/x-tar",
	"gz":  "application/gzip",

	// Video
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
	"mkv":  "video/x-matroska",
	"webm": "video/webm",
	"m4v":  "video/x-m4v",

	// Audio
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"aac":  "audio/aac",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
	"m4a":  "audio/mp4",

	// Images
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"bmp":  "image/bmp",

	// Documents
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",

	// Editing project files
	"aep":    "application/x-after-effects",
	"aepx":   "application/x-after-effects",
	"prproj": "application/x-premiere-pro",
	"fcp":    "application/x-final-cut-pro",
	"fcpxml": "application/xml",
	"psd":    "image/vnd.adobe.photoshop",
	"ai":     "application/postscript",
	"indd":   "application/x-indesign",

	// 3D / VFX
	"fbx":   "application/octet-stream",
	"obj":   "application/octet-stream",
	"dae":   "application/xml",
	"blend": "application/x-blender",
	"max":   "application/x-3ds-max",
	"c4d":   "application/x-cinema-4d",

	// Color grading LUTs
	"cube": "application/octet-stream",
	"3dl":  "application/octet-stream",
	"look": "application/octet-stream",

	// Text
	"txt":  "text/plain",
	"json": "application/json",
	"xml":  "application/xml",
	"csv":  "text/csv",
	"html": "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"ts":   "application/typescript",
}
