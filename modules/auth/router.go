package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routable registers its routes on a router.
type Routable interface {
	Routes(r chi.Router)
}

// RouterOptions configures Router. Protected routes are served behind
// Guard; a nil Guard leaves them open.
type RouterOptions struct {
	Public    []Routable
	Protected []Routable
	Guard     func(http.Handler) http.Handler
}

// Router assembles the application routes.
//
// Example:
//
//	authSvc := auth.NewService(usersSvc, cookies, views, errorHandler)
//	r.Mount("/", auth.Router(auth.RouterOptions{
//	    Public:    []auth.Routable{authSvc},
//	    Protected: []auth.Routable{auth.NewHome(views)},
//	    Guard:     auth.RequireUser(usersSvc, log),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	for _, m := range opts.Public {
		m.Routes(r)
	}
	r.Group(func(g chi.Router) {
		if opts.Guard != nil {
			g.Use(opts.Guard)
		}
		for _, m := range opts.Protected {
			m.Routes(g)
		}
	})
	return r
}
