// internal/app/routes.go
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"

	hh "mcp-docgate/internal/handlers/http"
	"mcp-docgate/internal/mcp"
	"mcp-docgate/internal/middleware"
)

// RegisterRoutes menambahkan semua route ke router root.
func RegisterRoutes(r *mux.Router, d Deps) {
	guard := middleware.APIKey(d.APIKeyHash)

	// Preflight catch-all. A matcher instead of Methods() so that unknown
	// paths still answer 404 rather than 405.
	r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return req.Method == http.MethodOptions
	}).HandlerFunc(hh.PreflightHandler)

	// --- root ---
	r.Handle("/", guard(http.HandlerFunc(d.Handler.StatusHandler))).Methods(http.MethodGet)
	r.Handle("/", guard(http.HandlerFunc(d.Handler.RPCHandler))).Methods(http.MethodPost)

	// --- health & ops ---
	r.HandleFunc("/health", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", hh.MetricsHandler(d.Gatherer)).Methods(http.MethodGet)
	r.HandleFunc("/.well-known/mcp", hh.DiscoveryHandler(d.Info.Name, d.Info.Version)).Methods(http.MethodGet)

	// --- alias tanpa prefix /mcp ---
	r.Handle("/tools", guard(http.HandlerFunc(d.Handler.ToolsHandler))).Methods(http.MethodGet)
	r.Handle("/call", guard(http.HandlerFunc(d.Handler.CallHandler))).Methods(http.MethodPost)
	r.Handle("/rpc", guard(http.HandlerFunc(d.Handler.RPCHandler))).Methods(http.MethodPost)

	// --- /mcp/* lewat chi ---
	cr := chi.NewRouter()
	cr.NotFound(notFound)
	cr.MethodNotAllowed(methodNotAllowed)
	RegisterToolRouters(cr, d.Handler, guard)
	r.PathPrefix("/mcp/").Handler(cr)

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
}

// RegisterToolRouters memasang tool surface di bawah /mcp.
func RegisterToolRouters(r chi.Router, h *mcp.Handler, guard func(http.Handler) http.Handler) {
	r.Route("/mcp", func(cr chi.Router) {
		cr.Use(guard)
		cr.Get("/tools", h.ToolsHandler)
		cr.Post("/call", h.CallHandler)
		cr.Post("/rpc", h.RPCHandler)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
