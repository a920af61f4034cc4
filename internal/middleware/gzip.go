package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

var compressor = chimw.Compress(5, "application/json", "text/plain", "text/html")

// WithGzip compresses JSON and text responses for clients that accept gzip.
func WithGzip(next http.Handler) http.Handler {
	return compressor(next)
}
