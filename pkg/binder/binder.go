package binder

import (
	"mime"
	"net/http"
	"strings"
)

// Binder populates v from r.
type Binder func(r *http.Request, v any) error

// mediaType returns the lowercased media type without parameters.
func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		if idx := strings.Index(ct, ";"); idx != -1 {
			ct = ct[:idx]
		}
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}
