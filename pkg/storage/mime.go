package storage

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	// DefaultContentType is served when a name has no known extension.
	DefaultContentType = "text/plain; charset=utf-8"

	MIMEOctetStream = "application/octet-stream"

	sniffBytes = 512
)

var extTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".ico":  "image/x-icon",
	".avif": "image/avif",
	".pdf":  "application/pdf",
	".txt":  "text/plain; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".csv":  "text/csv; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".xml":  "application/xml",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// ContentTypeByName infers a MIME type from the extension of name.
func ContentTypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return DefaultContentType
	}
	if ct, ok := extTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return DefaultContentType
}

// IsImageType reports whether contentType names an image type.
func IsImageType(contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.HasPrefix(strings.TrimSpace(strings.ToLower(base)), "image/")
}

// sniffContentType detects the type from the leading bytes and rewinds rs.
func sniffContentType(rs io.ReadSeeker) string {
	buf := make([]byte, sniffBytes)
	n, _ := io.ReadFull(rs, buf)
	_, _ = rs.Seek(0, io.SeekStart)
	if n == 0 {
		return MIMEOctetStream
	}
	return http.DetectContentType(buf[:n])
}
