package auth

import (
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/drive/handler"
	"github.com/dmitrymomot/drive/svc/users"
)

// Home serves the signed-in landing page. Mount it behind RequireUser.
type Home struct {
	views *Views
}

func NewHome(views *Views) *Home {
	return &Home{views: views}
}

func (h *Home) Routes(r chi.Router) {
	r.Get(HomePath, handler.Wrap(h.home))
}

func (h *Home) home(ctx handler.Context, _ struct{}) handler.Response {
	return handler.Templ(h.views.Home(HomeParams{User: users.GetUserFromContext(ctx)}))
}
