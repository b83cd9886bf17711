package views

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/drive/handler"
)

func ErrorPage(p handler.ErrorPageParams) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<main class="error"><h1>%d %s</h1><p>%s</p>`,
			p.StatusCode, http.StatusText(p.StatusCode), esc(p.Error)); err != nil {
			return err
		}
		if p.RequestID != "" {
			if _, err := fmt.Fprintf(w, `<p class="request-id">Request ID: %s</p>`, esc(p.RequestID)); err != nil {
				return err
			}
		}
		if p.RetryURL != "" {
			if _, err := fmt.Fprintf(w, `<a href="%s">Try again</a>`, esc(p.RetryURL)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	})
	return Layout("Error", body)
}

func ErrorToast(p handler.ErrorToastParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		kind := p.Type
		if kind == "" {
			kind = "error"
		}
		_, err := fmt.Fprintf(w, `<div class="toast toast-%s" role="alert">%s</div>`, esc(kind), esc(p.Message))
		return err
	})
}
