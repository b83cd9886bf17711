package email

import (
	"context"
	"time"

	"github.com/dmitrymomot/drive/pkg/email/templates"
)

const (
	OTPSubject = "Your sign-in code"
	OTPTag     = "otp"
)

// OTPParams renders the passcode message for to.
func OTPParams(ctx context.Context, to, code string, ttl time.Duration) (SendEmailParams, error) {
	body, err := templates.Render(ctx, templates.OTPCode(code, ttl))
	if err != nil {
		return SendEmailParams{}, err
	}
	return SendEmailParams{
		SendTo:   to,
		Subject:  OTPSubject,
		BodyHTML: body,
		Tag:      OTPTag,
	}, nil
}
