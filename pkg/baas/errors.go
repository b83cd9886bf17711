package baas

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("baas: not found")
	ErrUnauthorized = errors.New("baas: unauthorized")
	ErrConflict     = errors.New("baas: conflict")
	ErrInvalidToken = errors.New("baas: invalid token")
	ErrRateLimited  = errors.New("baas: rate limited")
	ErrInvalidQuery = errors.New("baas: invalid query")
)

// Error types reported by the platform.
const (
	TypeUserInvalidToken      = "user_invalid_token"
	TypeUserUnauthorized      = "user_unauthorized"
	TypeUserNotFound          = "user_not_found"
	TypeUserAlreadyExists     = "user_already_exists"
	TypeUserSessionNotFound   = "user_session_not_found"
	TypeDocumentNotFound      = "document_not_found"
	TypeDocumentAlreadyExists = "document_already_exists"
	TypeGeneralRateLimit      = "general_rate_limit_exceeded"
	TypeGeneralArgument       = "general_argument_invalid"
)

// Error is a failure reported by the platform.
type Error struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Code, e.Type)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// Is maps the platform error onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidToken:
		return e.Type == TypeUserInvalidToken
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrConflict:
		return e.Code == http.StatusConflict
	case ErrRateLimited:
		return e.Code == http.StatusTooManyRequests
	}
	return false
}

func NewError(code int, typ, message string) *Error {
	return &Error{Code: code, Type: typ, Message: message}
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
