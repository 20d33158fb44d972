package domain

import "path"

// MIME types served by the capsule.
const (
	MIMEGemini      = "text/gemini"
	MIMEOctetStream = "application/octet-stream"
)

// assetTypes maps the extensions served as raw binary assets to their
// content type. Matching is case-sensitive.
var assetTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// MIMEType returns the content type for a binary asset path, falling back
// to application/octet-stream for unknown extensions.
func MIMEType(p SanitizedPath) string {
	if t, ok := assetTypes[path.Ext(string(p))]; ok {
		return t
	}
	return MIMEOctetStream
}

// IsAsset reports whether a request for p is served as a raw binary asset
// rather than as a converted markup page.
func IsAsset(p SanitizedPath) bool {
	_, ok := assetTypes[path.Ext(string(p))]
	return ok
}
