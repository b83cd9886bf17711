package auth

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/drive/handler"
	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/svc/users"
)

const (
	msgGeneric        = "Failed to process request. Please try again."
	msgNoAccountID    = "Authentication succeeded but no account ID received"
	msgPendingExpired = "Your verification code has expired. Please sign in again."
)

var domainErrors = []error{
	users.ErrUserNotFound,
	users.ErrUserAlreadyExists,
	users.ErrInvalidCredentials,
	users.ErrAccountIDMissing,
	users.ErrNoSession,
}

var genericErrors = []error{
	users.ErrCreateAccount,
	users.ErrSendOTP,
	users.ErrSignIn,
	users.ErrVerifyOTP,
	users.ErrSignOut,
	users.ErrGetUser,
}

// Classify maps users errors onto HTTP statuses for handler.NewErrorHandler.
func Classify(err error) (handler.HTTPError, bool) {
	var ve *users.VerificationError
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		return handler.NewHTTPError(http.StatusNotFound, users.ErrUserNotFound.Error()), true
	case errors.Is(err, users.ErrUserAlreadyExists):
		return handler.NewHTTPError(http.StatusConflict, users.ErrUserAlreadyExists.Error()), true
	case errors.Is(err, users.ErrNoSession), errors.Is(err, users.ErrInvalidCredentials):
		return handler.NewHTTPError(http.StatusUnauthorized, message(err)), true
	case errors.As(err, &ve):
		switch ve.Reason {
		case users.ReasonRateLimited:
			return handler.NewHTTPError(http.StatusTooManyRequests, ve.Error()), true
		case users.ReasonBackend:
			return handler.NewHTTPError(http.StatusBadGateway, ve.Error()), true
		}
		return handler.NewHTTPError(http.StatusUnauthorized, ve.Error()), true
	case errors.Is(err, baas.ErrRateLimited):
		return handler.NewHTTPError(http.StatusTooManyRequests, message(err)), true
	}

	if _, ok := baas.AsError(err); ok {
		return handler.NewHTTPError(http.StatusBadGateway, message(err)), true
	}
	for _, target := range genericErrors {
		if errors.Is(err, target) {
			return handler.NewHTTPError(http.StatusBadGateway, target.Error()), true
		}
	}
	return handler.HTTPError{}, false
}

func status(err error) int {
	if he, ok := Classify(err); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}

// message is the text shown inline in a form or modal for err.
func message(err error) string {
	var ve *users.VerificationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	if be, ok := baas.AsError(err); ok && be.Message != "" {
		return be.Message
	}
	for _, target := range genericErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return msgGeneric
}
