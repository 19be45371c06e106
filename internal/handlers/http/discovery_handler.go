// internal/handlers/http/discovery_handler.go
package http

import (
	"net/http"
	"strings"
)

type Endpoints struct {
	Tools string `json:"tools"`
	Call  string `json:"call"`
	RPC   string `json:"rpc"`
}

type Discovery struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Endpoints Endpoints `json:"endpoints"`
}

// DiscoveryHandler serves /.well-known/mcp with absolute endpoint URLs,
// honouring X-Forwarded-Proto and X-Forwarded-Host from a reverse proxy.
func DiscoveryHandler(name, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := BaseURL(r)
		writeJSON(w, http.StatusOK, Discovery{
			Name:    name,
			Version: version,
			Endpoints: Endpoints{
				Tools: base + "/mcp/tools",
				Call:  base + "/mcp/call",
				RPC:   base + "/mcp/rpc",
			},
		})
	}
}

// BaseURL rebuilds scheme://host as the client saw it.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := firstValue(r.Header.Get("X-Forwarded-Proto")); p != "" {
		scheme = strings.ToLower(p)
	}
	host := r.Host
	if h := firstValue(r.Header.Get("X-Forwarded-Host")); h != "" {
		host = h
	}
	return scheme + "://" + host
}

// proxies may append: "https, http"
func firstValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
