package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/drive/handler"
	"github.com/dmitrymomot/drive/pkg/binder"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/validator"
)

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func datastarRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(handler.DataStarRequestHeader, "true")
	return req
}

type emailRequest struct {
	Email string `form:"email" json:"email"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	echo := handler.HandlerFunc[emailRequest](func(_ handler.Context, req emailRequest) handler.Response {
		return handler.Templ(text("hello " + req.Email))
	})

	t.Run("binds form", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(echo, handler.WithBinders[emailRequest](binder.Form(), binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a@b.co"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello a@b.co", rec.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("skips inapplicable binder", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(echo, handler.WithBinders[emailRequest](binder.Form(), binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"j@b.co"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, "hello j@b.co", rec.Body.String())
	})

	t.Run("bind error is bad request", func(t *testing.T) {
		t.Parallel()
		var got error
		h := handler.Wrap(echo,
			handler.WithBinders[emailRequest](binder.JSON()),
			handler.WithErrorHandler[emailRequest](func(_ handler.Context, err error) { got = err }),
		)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		h(httptest.NewRecorder(), req)

		assert.ErrorIs(t, got, handler.ErrBadRequest)
		assert.ErrorIs(t, got, binder.ErrFailedToParseJSON)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(handler.HandlerFunc[emailRequest](func(handler.Context, emailRequest) handler.Response { return nil }))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("error response reaches the error handler", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(handler.HandlerFunc[emailRequest](func(handler.Context, emailRequest) handler.Response {
			return handler.Error(handler.ErrConflict)
		}))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("context carries request values", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		h := handler.Wrap(handler.HandlerFunc[emailRequest](func(ctx handler.Context, _ emailRequest) handler.Response {
			v, _ := ctx.Value(key{}).(string)
			return handler.Templ(text(v))
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), key{}, "from-ctx"))
		rec := httptest.NewRecorder()
		h(rec, req)
		assert.Equal(t, "from-ctx", rec.Body.String())
	})
}

func TestTemplResponses(t *testing.T) {
	t.Parallel()

	t.Run("partial for datastar", func(t *testing.T) {
		t.Parallel()
		resp := handler.TemplPartial(text("<div id=\"form\">partial</div>"), text("full"), handler.WithTarget("#form"))

		rec := httptest.NewRecorder()
		require.NoError(t, resp.Render(rec, datastarRequest(http.MethodPost, "/", nil)))
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "datastar-patch-elements")
		assert.Contains(t, rec.Body.String(), "partial")
		assert.Contains(t, rec.Body.String(), "#form")
	})

	t.Run("full for browser", func(t *testing.T) {
		t.Parallel()
		resp := handler.TemplPartial(text("partial"), text("full"))

		rec := httptest.NewRecorder()
		require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, "full", rec.Body.String())
	})

	t.Run("status", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, handler.TemplStatus(http.StatusConflict, text("x")).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("partial status applies to full render only", func(t *testing.T) {
		t.Parallel()
		resp := handler.TemplPartialStatus(http.StatusUnprocessableEntity, text("partial"), text("full"))

		rec := httptest.NewRecorder()
		require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "full", rec.Body.String())

		rec = httptest.NewRecorder()
		require.NoError(t, resp.Render(rec, datastarRequest(http.MethodPost, "/", nil)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "partial")
	})

	t.Run("multi", func(t *testing.T) {
		t.Parallel()
		resp := handler.TemplMulti(
			handler.Patch(text("<p id=\"a\">a</p>")),
			handler.Patch(text("<p id=\"b\">b</p>")),
		)
		rec := httptest.NewRecorder()
		require.NoError(t, resp.Render(rec, datastarRequest(http.MethodPost, "/", nil)))
		assert.Equal(t, 2, strings.Count(rec.Body.String(), "event: datastar-patch-elements"))
	})
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Redirect("/sign-in").Render(rec, httptest.NewRequest(http.MethodPost, "/sign-out", nil)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sign-in", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	require.NoError(t, handler.Redirect("/sign-in").Render(rec, datastarRequest(http.MethodPost, "/sign-out", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/sign-in")
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, handler.IsDataStar(plain))

	assert.True(t, handler.IsDataStar(datastarRequest(http.MethodGet, "/", nil)))

	accept := httptest.NewRequest(http.MethodGet, "/", nil)
	accept.Header.Set("Accept", "text/event-stream, text/html")
	assert.True(t, handler.IsDataStar(accept))

	assert.True(t, handler.IsDataStar(httptest.NewRequest(http.MethodGet, "/?datastar=%7B%7D", nil)))
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	errDomain := errors.New("user exists")
	cfg := handler.ErrorHandlerConfig{
		ErrorPage: func(p handler.ErrorPageParams) templ.Component { return text("page: " + p.Error) },
		ErrorToast: func(p handler.ErrorToastParams) templ.Component {
			return text("<div id=\"toast\">" + p.Type + ": " + p.Message + "</div>")
		},
		Classify: func(err error) (handler.HTTPError, bool) {
			if errors.Is(err, errDomain) {
				return handler.NewHTTPError(http.StatusConflict, "Account exists"), true
			}
			return handler.HTTPError{}, false
		},
	}
	eh := handler.NewErrorHandler(logger.Discard(), cfg)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "generic", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBody: "page: An error occurred processing your request"},
		{name: "http error", err: handler.ErrNotFound, wantStatus: http.StatusNotFound, wantBody: "page: Not found"},
		{name: "classified", err: errDomain, wantStatus: http.StatusConflict, wantBody: "page: Account exists"},
		{
			name:       "validation",
			err:        validator.ValidationErrors{{Field: "email", Message: "Please enter a valid email address"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "page: Please enter a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			rec := httptest.NewRecorder()
			eh(handler.NewContext(rec, req), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}

	t.Run("toast for datastar", func(t *testing.T) {
		t.Parallel()
		req := datastarRequest(http.MethodPost, "/x", nil)
		rec := httptest.NewRecorder()
		eh(handler.NewContext(rec, req), errDomain)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "warning: Account exists")
		assert.Contains(t, rec.Body.String(), "#toast-container")
	})

	t.Run("plain text without page", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		handler.NewErrorHandler(nil, handler.ErrorHandlerConfig{})(
			handler.NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil)), handler.ErrUnauthorized)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unauthorized")
	})
}
