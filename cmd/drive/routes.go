package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/drive/handler"
	"github.com/dmitrymomot/drive/modules/auth"
	"github.com/dmitrymomot/drive/pkg/httpserver"
	"github.com/dmitrymomot/drive/pkg/requestid"
	"github.com/dmitrymomot/drive/web/views"
)

const readinessTimeout = 5 * time.Second

// newRouter assembles the HTTP surface: health probes, metrics and the auth
// module with the protected dashboard.
func newRouter(log *slog.Logger, userSvc auth.UserService, authSvc *auth.Service, checks []httpserver.Check) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, readinessTimeout, checks...))
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/", auth.Router(auth.RouterOptions{
		Public:    []auth.Routable{authSvc},
		Protected: []auth.Routable{auth.NewHome(views.Auth())},
		Guard:     auth.RequireUser(userSvc, log),
	}))
	return r
}

func newErrorHandler(log *slog.Logger) handler.ErrorHandler {
	return handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
		ErrorPage:  views.ErrorPage,
		ErrorToast: views.ErrorToast,
		Classify:   auth.Classify,
	})
}
