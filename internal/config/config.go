// internal/config/config.go
// Configuration loader: environment variables and CLI flags through viper.
package config

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"mcp-docgate/internal/util"
)

const (
	DefaultPort     = 3000
	DefaultTimeout  = 30 * time.Second
	DefaultMaxPages = 100
	DefaultLogLevel = "info"
)

// CredentialKind says which credential authenticates outbound calls.
// It is decided once at startup.
type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialToken
	CredentialPassword
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialToken:
		return "token"
	case CredentialPassword:
		return "password"
	default:
		return "none"
	}
}

type Config struct {
	BaseURL  string
	Token    string
	Email    string
	Password string
	ReadOnly bool
	Port     int
	LogLevel string

	Timeout  time.Duration
	MaxPages int

	// APIKeyHash is a bcrypt hash guarding the tool endpoints. Empty disables the guard.
	APIKeyHash string

	// PortDefaulted is set when PORT was missing or unusable.
	PortDefaulted bool
}

// env bindings: viper key -> environment variable
var envKeys = map[string]string{
	"base_url":     "DOCMOST_URL",
	"token":        "DOCMOST_TOKEN",
	"email":        "DOCMOST_EMAIL",
	"password":     "DOCMOST_PASSWORD",
	"read_only":    "READ_ONLY",
	"port":         "PORT",
	"timeout":      "DOCMOST_TIMEOUT",
	"max_pages":    "DOCMOST_MAX_PAGES",
	"api_key_hash": "GATEWAY_API_KEY_HASH",
	"log_level":    "LOG_LEVEL",
}

// NewViper returns a viper instance with defaults and env bindings set.
// Callers may bind CLI flags on top before calling FromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("read_only", "false")
	v.SetDefault("timeout", DefaultTimeout.String())
	v.SetDefault("max_pages", DefaultMaxPages)
	v.SetDefault("log_level", DefaultLogLevel)
	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
	return v
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return FromViper(NewViper())
}

func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		BaseURL:    strings.TrimRight(strings.TrimSpace(v.GetString("base_url")), "/"),
		Token:      strings.TrimSpace(v.GetString("token")),
		Email:      strings.TrimSpace(v.GetString("email")),
		Password:   v.GetString("password"),
		ReadOnly:   parseBoolish(v.GetString("read_only")),
		LogLevel:   strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		MaxPages:   v.GetInt("max_pages"),
		APIKeyHash: strings.TrimSpace(v.GetString("api_key_hash")),
	}

	c.Port, c.PortDefaulted = parsePort(v.GetString("port"))

	c.Timeout = DefaultTimeout
	if d, err := time.ParseDuration(strings.TrimSpace(v.GetString("timeout"))); err == nil && d > 0 {
		c.Timeout = d
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks required values. Failures are ConfigErrors.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required.Error("DOCMOST_URL is required"), validation.By(httpURL)),
		validation.Field(&c.Email, validation.When(c.Token == "" && c.Password != "", validation.Required.Error("DOCMOST_EMAIL is required when DOCMOST_PASSWORD is set"))),
		validation.Field(&c.Password, validation.When(c.Token == "" && c.Email != "", validation.Required.Error("DOCMOST_PASSWORD is required when DOCMOST_EMAIL is set"))),
	)
	if err != nil {
		return util.Wrap(util.KindConfig, err, "invalid configuration")
	}
	if c.Credential() == CredentialNone {
		return util.ConfigError("either DOCMOST_TOKEN or DOCMOST_EMAIL and DOCMOST_PASSWORD must be set")
	}
	return nil
}

// Credential picks the authoritative credential source. A static token wins
// over an email/password pair.
func (c *Config) Credential() CredentialKind {
	switch {
	case c.Token != "":
		return CredentialToken
	case c.Email != "" && c.Password != "":
		return CredentialPassword
	default:
		return CredentialNone
	}
}

// HasBothCredentials is true when a token and a login pair were both supplied.
func (c *Config) HasBothCredentials() bool {
	return c.Token != "" && c.Email != "" && c.Password != ""
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https scheme")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

func parsePort(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > 65535 {
		return DefaultPort, true
	}
	return n, false
}

func parseBoolish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	}
	return false
}
