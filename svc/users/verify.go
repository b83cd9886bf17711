package users

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/drive/pkg/logger"
)

// VerifySecret exchanges a passcode for a session and writes the session
// cookie. Every failure is a *VerificationError and leaves w untouched.
func (s *Service) VerifySecret(ctx context.Context, w http.ResponseWriter, in VerifyInput) (_ *VerifyResult, err error) {
	ctx, span := startSpan(ctx, "users.verify_secret")
	defer func() {
		verifications.WithLabelValues(result(err)).Inc()
		endSpan(span, err)
	}()

	admin, err := s.backend.Admin(ctx)
	if err != nil {
		return nil, s.handleError(ctx, ErrVerifyOTP, &VerificationError{Reason: ReasonBackend, Err: err}, logger.AccountID(in.AccountID))
	}

	sess, err := admin.Account.CreateSession(ctx, in.AccountID, in.Code)
	if err != nil {
		return nil, s.handleError(ctx, ErrVerifyOTP, newVerificationError(err), logger.AccountID(in.AccountID))
	}

	var ttl time.Duration
	if !sess.Expire.IsZero() {
		ttl = max(time.Until(sess.Expire), 0)
	}
	if err := s.transport.SetToken(w, sess.Secret, ttl); err != nil {
		return nil, s.handleError(ctx, ErrVerifyOTP, &VerificationError{Reason: ReasonBackend, Err: err}, logger.AccountID(in.AccountID))
	}

	s.log.InfoContext(ctx, "session started", logger.AccountID(in.AccountID), logger.SessionID(sess.ID))
	return &VerifyResult{SessionID: sess.ID}, nil
}
