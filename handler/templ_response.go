package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

type TemplOption = datastar.PatchElementOption

// WithTarget sets the CSS selector the patch is applied to.
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

// TemplPatch is one element of a TemplMulti response.
type TemplPatch struct {
	Component templ.Component
	Options   []TemplOption
}

func Patch(component templ.Component, opts ...TemplOption) TemplPatch {
	return TemplPatch{Component: component, Options: opts}
}

type templResponse struct {
	status  int
	patches []TemplPatch
	full    templ.Component
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		for _, p := range t.patches {
			if err := sse.PatchElementTempl(p.Component, p.Options...); err != nil {
				return err
			}
		}
		return nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	if t.full != nil {
		return t.full.Render(r.Context(), w)
	}
	for _, p := range t.patches {
		if err := p.Component.Render(r.Context(), w); err != nil {
			return err
		}
	}
	return nil
}

// Templ renders component as HTML, or as an SSE element patch for datastar
// requests.
func Templ(component templ.Component, opts ...TemplOption) Response {
	return templResponse{patches: []TemplPatch{Patch(component, opts...)}}
}

// TemplStatus is Templ with an explicit status for non-datastar requests.
// SSE responses are always sent with 200.
func TemplStatus(status int, component templ.Component, opts ...TemplOption) Response {
	return templResponse{status: status, patches: []TemplPatch{Patch(component, opts...)}}
}

// TemplPartial sends partial to datastar requests and full to everything
// else. It is how a form handler answers both an enhanced submit and a
// plain one.
func TemplPartial(partial, full templ.Component, opts ...TemplOption) Response {
	return templResponse{patches: []TemplPatch{Patch(partial, opts...)}, full: full}
}

// TemplPartialStatus is TemplPartial with a status for the full render.
func TemplPartialStatus(status int, partial, full templ.Component, opts ...TemplOption) Response {
	return templResponse{status: status, patches: []TemplPatch{Patch(partial, opts...)}, full: full}
}

// TemplMulti sends each patch as its own SSE event, or concatenates them as
// HTML.
func TemplMulti(patches ...TemplPatch) Response {
	return templResponse{patches: patches}
}
