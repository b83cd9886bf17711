package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/logger"
)

var (
	ErrInvalidConfig = errors.New("users: database and collection ids are required")
	ErrNoBackend     = errors.New("users: backend factory and session transport are required")

	ErrUserAlreadyExists  = errors.New("User already exists")
	ErrUserNotFound       = errors.New("User not found")
	ErrAccountIDMissing   = errors.New("failed to create account id")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrNoSession          = errors.New("No active session")

	ErrCreateAccount = errors.New("Failed to create account")
	ErrSendOTP       = errors.New("Failed to send OTP")
	ErrSignIn        = errors.New("Failed to sign in user")
	ErrVerifyOTP     = errors.New("Failed to verify OTP")
	ErrSignOut       = errors.New("Failed to sign out user")
	ErrGetUser       = errors.New("Failed to load user")
)

var userFacing = []error{
	ErrUserAlreadyExists,
	ErrUserNotFound,
	ErrAccountIDMissing,
	ErrInvalidCredentials,
	ErrNoSession,
}

// VerificationReason classifies a rejected passcode.
type VerificationReason string

const (
	ReasonInvalidCode    VerificationReason = "invalid_code"
	ReasonUnknownAccount VerificationReason = "unknown_account"
	ReasonRateLimited    VerificationReason = "rate_limited"
	ReasonBackend        VerificationReason = "backend"
)

// VerificationError is returned by VerifySecret for any failure. No cookie is
// written when it is returned.
type VerificationError struct {
	Reason VerificationReason
	Err    error
}

func (e *VerificationError) Error() string {
	switch e.Reason {
	case ReasonInvalidCode:
		return "Invalid or expired verification code"
	case ReasonUnknownAccount:
		return "Unknown account, request a new code"
	case ReasonRateLimited:
		return "Too many attempts, try again later"
	}
	return ErrVerifyOTP.Error()
}

func (e *VerificationError) Unwrap() error { return e.Err }

// Rejected reports whether the passcode itself was refused, as opposed to
// the platform failing.
func (e *VerificationError) Rejected() bool {
	return e.Reason != ReasonBackend
}

func newVerificationError(err error) *VerificationError {
	reason := ReasonBackend
	switch {
	case errors.Is(err, baas.ErrInvalidToken), errors.Is(err, baas.ErrUnauthorized):
		reason = ReasonInvalidCode
	case errors.Is(err, baas.ErrNotFound):
		reason = ReasonUnknownAccount
	case errors.Is(err, baas.ErrRateLimited):
		reason = ReasonRateLimited
	}
	return &VerificationError{Reason: reason, Err: err}
}

// handleError logs err and returns it unchanged when it already carries a
// user-facing message, otherwise joined with generic.
func (s *Service) handleError(ctx context.Context, generic, err error, attrs ...slog.Attr) error {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, logger.Error(err))
	for _, a := range attrs {
		args = append(args, a)
	}
	s.log.ErrorContext(ctx, generic.Error(), args...)

	if hasUserMessage(err) {
		return err
	}
	return errors.Join(generic, err)
}

func hasUserMessage(err error) bool {
	for _, target := range userFacing {
		if errors.Is(err, target) {
			return true
		}
	}
	var ve *VerificationError
	if errors.As(err, &ve) {
		return true
	}
	if be, ok := baas.AsError(err); ok && be.Message != "" {
		return true
	}
	return false
}
