// internal/handlers/http/cors_handler.go
package http

import "net/http"

// PreflightHandler mengembalikan 204 untuk OPTIONS.
// CORS headers are added by middleware.CORS before this runs.
func PreflightHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(http.StatusNoContent)
}
