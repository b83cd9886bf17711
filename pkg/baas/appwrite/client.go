// Package appwrite implements the baas contract against the Appwrite REST
// API.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/drive/pkg/baas"
)

const (
	headerProject  = "X-Appwrite-Project"
	headerKey      = "X-Appwrite-Key"
	headerSession  = "X-Appwrite-Session"
	headerResponse = "X-Appwrite-Response-Format"
	responseFormat = "1.6.0"
)

var (
	ErrMissingEndpoint = errors.New("appwrite: endpoint is required")
	ErrMissingProject  = errors.New("appwrite: project id is required")
	ErrMissingAPIKey   = errors.New("appwrite: api key is required")
	ErrMissingSecret   = errors.New("appwrite: session secret is required")
)

// Factory builds admin and session clients sharing one http.Client.
type Factory struct {
	cfg  Config
	http *http.Client
}

type Option func(*Factory)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Factory) { f.http = c }
}

func New(cfg Config, opts ...Option) (*Factory, error) {
	switch {
	case cfg.Endpoint == "":
		return nil, ErrMissingEndpoint
	case cfg.ProjectID == "":
		return nil, ErrMissingProject
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	f := &Factory{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Admin returns a client authenticated with the API key.
func (f *Factory) Admin(context.Context) (*baas.Client, error) {
	if f.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return f.client(headerKey, f.cfg.APIKey), nil
}

// Session returns a client acting as the owner of secret.
func (f *Factory) Session(_ context.Context, secret string) (*baas.Client, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return f.client(headerSession, secret), nil
}

func (f *Factory) client(authHeader, authValue string) *baas.Client {
	t := &transport{
		factory:    f,
		authHeader: authHeader,
		authValue:  authValue,
	}
	return &baas.Client{
		Account:   &accountService{t: t},
		Databases: &databaseService{t: t},
	}
}

type transport struct {
	factory    *Factory
	authHeader string
	authValue  string
}

// call sends one request. body is JSON-encoded when non-nil; out receives
// the decoded response when non-nil.
func (t *transport) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := t.factory.cfg.Endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("appwrite: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("appwrite: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerProject, t.factory.cfg.ProjectID)
	req.Header.Set(headerResponse, responseFormat)
	req.Header.Set(t.authHeader, t.authValue)

	resp, err := t.factory.http.Do(req)
	if err != nil {
		return fmt.Errorf("appwrite: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("appwrite: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &baas.Error{}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Code = resp.StatusCode
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("appwrite: decode response: %w", err)
	}
	return nil
}
