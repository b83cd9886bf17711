package cookie

import (
	"net/http"
	"strings"
)

// Config holds cookie manager configuration.
type Config struct {
	Secrets string `env:"COOKIE_SECRETS,required"` // comma-separated, first one encrypts
	Domain  string `env:"COOKIE_DOMAIN" envDefault:""`
	Secure  bool   `env:"COOKIE_SECURE" envDefault:"true"`
}

func (c Config) secrets() []string {
	var out []string
	for s := range strings.SplitSeq(c.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NewFromConfig creates a Manager with Path=/, HttpOnly and SameSite=Strict
// defaults plus the domain and Secure flag from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	base := []Option{
		WithPath("/"),
		WithHTTPOnly(true),
		WithSameSite(http.SameSiteStrictMode),
		WithSecure(cfg.Secure),
	}
	if cfg.Domain != "" {
		base = append(base, WithDomain(cfg.Domain))
	}
	return New(cfg.secrets(), append(base, opts...)...)
}
