package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/drive/handler"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/svc/users"
)

// CurrentUserResolver resolves the signed-in user of a request.
type CurrentUserResolver interface {
	GetCurrentUser(ctx context.Context, r *http.Request) (*users.User, error)
}

// RequireUser redirects visitors without a resolvable user to the sign-in
// page and stores the user in the request context otherwise.
func RequireUser(resolver CurrentUserResolver, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.GetCurrentUser(r.Context(), r)
			if err != nil && !errors.Is(err, users.ErrNoSession) {
				log.WarnContext(r.Context(), "failed to resolve current user", logger.Error(err))
			}
			if err != nil || user == nil {
				if rerr := handler.Redirect(SignInPath).Render(w, r); rerr != nil {
					log.ErrorContext(r.Context(), "failed to redirect to sign-in", logger.Error(rerr))
				}
				return
			}
			next.ServeHTTP(w, r.WithContext(users.SetUserToContext(r.Context(), user)))
		})
	}
}
