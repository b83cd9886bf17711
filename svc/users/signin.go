package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/logger"
)

// SignInUser issues a passcode to a registered user and returns the account
// id stored on the user document, which may be empty for documents written
// without one. Unknown emails get ErrUserNotFound and no passcode.
func (s *Service) SignInUser(ctx context.Context, in SignInInput) (_ *AccountResult, err error) {
	ctx, span := startSpan(ctx, "users.sign_in")
	defer func() {
		signIns.WithLabelValues(result(err)).Inc()
		endSpan(span, err)
	}()

	admin, err := s.backend.Admin(ctx)
	if err != nil {
		return nil, s.handleError(ctx, ErrSignIn, err, logger.Email(in.Email))
	}

	user, err := s.findOne(ctx, admin, baas.Equal("email", in.Email))
	if err != nil {
		return nil, s.handleError(ctx, ErrSignIn, err, logger.Email(in.Email))
	}
	if user == nil {
		return nil, s.handleError(ctx, ErrSignIn, ErrUserNotFound, logger.Email(in.Email))
	}

	if s.verifyPassword {
		if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
			return nil, s.handleError(ctx, ErrSignIn, ErrInvalidCredentials, logger.UserID(user.ID))
		}
	}

	if _, err := s.issuePasscode(ctx, admin, in.Email); err != nil {
		return nil, s.handleError(ctx, ErrSignIn, err, logger.UserID(user.ID))
	}
	return &AccountResult{AccountID: user.AccountID}, nil
}
