package middleware

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// compressibleTypes are the bodies this API produces that shrink well
var compressibleTypes = []string{
	"application/json",
	"application/yaml",
	"text/calendar",
	"text/plain",
}

// Compress negotiates br or gzip for text responses. Brotli is preferred
// when the client accepts both.
func Compress(level int) func(http.Handler) http.Handler {
	if level < 1 || level > 9 {
		level = 5
	}
	c := chimiddleware.NewCompressor(level, compressibleTypes...)
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c.Handler
}
