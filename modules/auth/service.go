package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/drive/handler"
	"github.com/dmitrymomot/drive/pkg/cookie"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/svc/users"
)

// CodeLength is the number of digits in a passcode.
const CodeLength = 6

const (
	SignInPath = "/sign-in"
	SignUpPath = "/sign-up"
	HomePath   = "/"

	FormTarget  = "#auth-form"
	ModalTarget = "#otp-modal"
)

// UserService is the subset of users.Service the module drives.
type UserService interface {
	CreateAccount(ctx context.Context, in users.SignUpInput) (*users.AccountResult, error)
	SignInUser(ctx context.Context, in users.SignInInput) (*users.AccountResult, error)
	SendEmailOTP(ctx context.Context, email string) (string, error)
	VerifySecret(ctx context.Context, w http.ResponseWriter, in users.VerifyInput) (*users.VerifyResult, error)
	GetCurrentUser(ctx context.Context, r *http.Request) (*users.User, error)
	SignOutUser(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

type Views struct {
	// AuthPage is the full sign-in or sign-up page, with the passcode modal
	// open when Modal is set.
	AuthPage func(AuthPageParams) templ.Component
	// AuthForm renders the element with id auth-form.
	AuthForm func(FormParams) templ.Component
	// OTPModal renders the element with id otp-modal.
	OTPModal func(OTPModalParams) templ.Component
	Home     func(HomeParams) templ.Component
}

type AuthPageParams struct {
	Form  FormParams
	Modal *OTPModalParams
}

// FormParams carries the submitted values back to the form. Passwords are
// never echoed.
type FormParams struct {
	Type      FormType
	Email     string
	FirstName string
	LastName  string
	Errors    map[string]string // first message per field
	Message   string
}

type OTPModalParams struct {
	Email  string
	Error  string
	Notice string
}

type HomeParams struct {
	User *users.User
}

type Service struct {
	users        UserService
	cookies      *cookie.Manager
	views        *Views
	errorHandler handler.ErrorHandler
	limit        func(http.Handler) http.Handler
	log          *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRateLimit guards the form and passcode POST routes with mw, e.g.
// ratelimiter.Middleware keyed by client address.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(s *Service) { s.limit = mw }
}

func NewService(
	userSvc UserService,
	cookies *cookie.Manager,
	views *Views,
	errorHandler handler.ErrorHandler,
	opts ...Option,
) *Service {
	s := &Service{
		users:        userSvc,
		cookies:      cookies,
		views:        views,
		errorHandler: errorHandler,
		log:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("auth"))
	return s
}
