package users

import (
	"context"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/logger"
)

// SendEmailOTP asks the platform to mail a passcode to email and returns the
// account id the passcode belongs to. The email is not validated here.
func (s *Service) SendEmailOTP(ctx context.Context, email string) (_ string, err error) {
	ctx, span := startSpan(ctx, "users.send_email_otp")
	defer func() { endSpan(span, err) }()

	admin, err := s.backend.Admin(ctx)
	if err != nil {
		return "", s.handleError(ctx, ErrSendOTP, err, logger.Email(email))
	}
	accountID, err := s.issuePasscode(ctx, admin, email)
	if err != nil {
		return "", s.handleError(ctx, ErrSendOTP, err, logger.Email(email))
	}
	return accountID, nil
}

func (s *Service) issuePasscode(ctx context.Context, admin *baas.Client, email string) (_ string, err error) {
	defer func() { passcodesIssued.WithLabelValues(result(err)).Inc() }()

	token, err := admin.Account.CreateEmailToken(ctx, baas.UniqueID, email)
	if err != nil {
		return "", err
	}
	s.log.DebugContext(ctx, "passcode requested", logger.AccountID(token.UserID), logger.Email(email))
	return token.UserID, nil
}
