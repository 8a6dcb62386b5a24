// security.go - Response headers for a service that serves user uploads
package server

import "net/http"

// securityHeadersMiddleware adds security headers to all responses.
// Stored files are client-supplied bytes, so browsers must not sniff them
// into an executable type or render them inside another origin's frame.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")

		next.ServeHTTP(w, r)
	})
}
