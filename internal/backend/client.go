// Package backend is the REST client for the document backend.
//
// Every tool call ends up here as one or more POST requests relative to the
// configured base URL (for example https://docs.example.com/api). The client
// picks its credential once: a static API token is sent as a Bearer header,
// otherwise the session token obtained by Login is sent as the authToken
// cookie.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"mcp-docgate/internal/util"
)

const (
	sessionCookie = "authToken"

	// maxErrorBody bounds how much of a failed response is kept in a BackendError.
	maxErrorBody = 2048
)

// Observer receives one call per backend round trip.
type Observer interface {
	ObserveBackend(path string, status int, duration time.Duration)
}

type Config struct {
	BaseURL string
	// Token is a static API token. When empty the client relies on Login.
	Token string

	Timeout  time.Duration
	MaxPages int

	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
	Observer   Observer
}

type Client struct {
	baseURL  string
	token    string
	session  string
	maxPages int

	http     *http.Client
	observer Observer
	log      *zap.Logger
}

func New(cfg Config, log *zap.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, util.ConfigError("backend base URL is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		baseURL:  base,
		token:    cfg.Token,
		maxPages: cfg.MaxPages,
		http:     hc,
		observer: cfg.Observer,
		log:      log.Named("backend"),
	}, nil
}

// Authenticated reports whether outbound calls carry a credential.
func (c *Client) Authenticated() bool {
	return c.token != "" || c.session != ""
}

// post sends an authenticated JSON request and returns the decoded payload.
func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	resp, raw, err := c.roundTrip(ctx, path, body, true)
	if err != nil {
		return nil, err
	}
	return decodeResponse(path, resp, raw)
}

func (c *Client) roundTrip(ctx context.Context, path string, body any, authenticated bool) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, nil, util.Wrap(util.KindInternal, err, "encode request body for %s", path)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, util.Wrap(util.KindConfig, err, "build request for %s", path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		c.authorize(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(path, 0, start)
		c.log.Warn("backend.request", zap.String("path", path), zap.Error(err))
		return nil, nil, util.Wrap(util.KindBackend, err, "request %s", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.observe(path, resp.StatusCode, start)
	if err != nil {
		return nil, nil, util.Wrap(util.KindBackend, err, "read response from %s", path)
	}

	c.log.Debug("backend.request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, raw, nil
}

func (c *Client) authorize(req *http.Request) {
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.session != "":
		req.Header.Set("Cookie", sessionCookie+"="+c.session)
	}
}

func (c *Client) observe(path string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveBackend(path, status, time.Since(start))
	}
}

// decodeResponse applies the response rules in order: HTML payloads are a
// configuration problem, non-2xx statuses are backend errors, and a top-level
// "data" field is unwrapped.
func decodeResponse(path string, resp *http.Response, raw []byte) (json.RawMessage, error) {
	if isHTML(resp.Header.Get("Content-Type"), raw) {
		return nil, util.ConfigError("backend returned an HTML page for %s; check that the base URL points at the API (for example https://host/api)", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, util.BackendError(resp.StatusCode, truncate(strings.TrimSpace(string(raw)), maxErrorBody))
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(trimmed) {
		e := util.BackendError(resp.StatusCode, truncate(string(trimmed), maxErrorBody))
		e.Message = "backend returned invalid JSON"
		return nil, e
	}
	return unwrapData(trimmed), nil
}

func unwrapData(body []byte) json.RawMessage {
	if body[0] != '{' {
		return json.RawMessage(body)
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return json.RawMessage(body)
	}
	if data, ok := envelope["data"]; ok {
		return data
	}
	return json.RawMessage(body)
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(body), utf8BOM))
	if len(head) > 64 {
		head = head[:64]
	}
	lower := strings.ToLower(string(head))
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

var utf8BOM = []byte("\xef\xbb\xbf")

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + fmt.Sprintf("… (%d bytes truncated)", len(s)-n)
}
