package users

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drive_users_registrations_total",
		Help: "Account registrations by result",
	}, []string{"result"})

	passcodesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drive_users_passcodes_issued_total",
		Help: "Passcode issuance requests by result",
	}, []string{"result"})

	signIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drive_users_sign_ins_total",
		Help: "Sign-in attempts by result",
	}, []string{"result"})

	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drive_users_passcode_verifications_total",
		Help: "Passcode verifications by result",
	}, []string{"result"})

	signOuts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drive_users_sign_outs_total",
		Help: "Sign-outs by result",
	}, []string{"result"})
)

func result(err error) string {
	var ve *VerificationError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUserAlreadyExists):
		return "conflict"
	case errors.Is(err, ErrUserNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrNoSession):
		return "no_session"
	case errors.As(err, &ve) && ve.Rejected():
		return "rejected"
	}
	return "error"
}
