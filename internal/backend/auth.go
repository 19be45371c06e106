package backend

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"mcp-docgate/internal/util"
)

// Login exchanges email and password for a session token and keeps it for
// every later call. It is meant to run once during startup, before requests
// are served; the token is never refreshed.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if err := (validation.Errors{
		"email":    validation.Validate(strings.TrimSpace(email), validation.Required),
		"password": validation.Validate(password, validation.Required),
	}).Filter(); err != nil {
		return util.Wrap(util.KindValidation, err, "login")
	}
	if c.session != "" {
		return util.AuthError("session token already established")
	}

	resp, raw, err := c.roundTrip(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, false)
	if err != nil {
		return err
	}
	if isHTML(resp.Header.Get("Content-Type"), raw) {
		return util.ConfigError("login endpoint returned an HTML page; check that the base URL points at the API")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return util.Wrap(util.KindAuth,
			util.BackendError(resp.StatusCode, truncate(strings.TrimSpace(string(raw)), maxErrorBody)),
			"login rejected")
	}

	var token string
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			token = strings.TrimSpace(ck.Value)
			break
		}
	}
	if token == "" {
		return util.AuthError("login response did not set a usable %s cookie", sessionCookie)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return util.Wrap(util.KindAuth, err, "%s cookie is malformed", sessionCookie)
	}

	fields := []zap.Field{zap.String("email", email)}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fields = append(fields, zap.Time("expires_at", exp.Time), zap.Duration("valid_for", time.Until(exp.Time).Round(time.Second)))
	}
	c.log.Info("backend.login", fields...)

	c.session = token
	return nil
}
