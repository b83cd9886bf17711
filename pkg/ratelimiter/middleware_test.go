package ratelimiter_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/drive/pkg/ratelimiter"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	newHandler := func(t *testing.T, store ratelimiter.Store) http.Handler {
		t.Helper()
		b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
		require.NoError(t, err)
		return ratelimiter.Middleware(b, ratelimiter.ByIP)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
	}
	request := func(addr string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/sign-in", nil)
		r.RemoteAddr = addr
		return r
	}

	t.Run("limits per client address", func(t *testing.T) {
		t.Parallel()
		h := newHandler(t, ratelimiter.NewMemoryStore())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request("10.0.0.1:1234"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

		// another port on the same host shares the bucket
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, request("10.0.0.1:5678"))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, request("10.0.0.2:1234"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		t.Parallel()
		h := newHandler(t, failingStore{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request("10.0.0.1:1234"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestComposite(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/otp/verify", nil)
	r.RemoteAddr = "192.0.2.7:4000"

	t.Run("joins parts", func(t *testing.T) {
		t.Parallel()
		key := ratelimiter.Composite(ratelimiter.ByIP, ratelimiter.ByPath)(r)
		assert.Equal(t, "192.0.2.7:/otp/verify", key)
	})

	t.Run("skips empty parts", func(t *testing.T) {
		t.Parallel()
		empty := func(*http.Request) string { return "" }
		assert.Equal(t, "192.0.2.7", ratelimiter.Composite(empty, ratelimiter.ByIP)(r))
		assert.Empty(t, ratelimiter.Composite(empty)(r))
	})

	t.Run("hashes long keys", func(t *testing.T) {
		t.Parallel()
		long := func(*http.Request) string { return strings.Repeat("x", 80) }
		key := ratelimiter.Composite(long)(r)
		assert.NotEmpty(t, key)
		assert.LessOrEqual(t, len(key), 13)
		assert.Equal(t, key, ratelimiter.Composite(long)(r))
	})

	t.Run("bare remote addr", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "pipe"
		assert.Equal(t, "pipe", ratelimiter.ByIP(req))
	})
}
