package users

import "context"

type userContextKey struct{}

// SetUserToContext stores the current user for downstream handlers.
func SetUserToContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext returns the user stored by SetUserToContext, or nil.
func GetUserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
