package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/drive/handler"
	"github.com/dmitrymomot/drive/pkg/binder"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/validator"
	"github.com/dmitrymomot/drive/svc/users"
)

// Routes registers the public authentication routes on r.
func (s *Service) Routes(r chi.Router) {
	limited := r
	if s.limit != nil {
		limited = r.With(s.limit)
	}

	r.Get(SignInPath, handler.Wrap(s.signInPage))
	limited.Post(SignInPath, handler.Wrap(s.signIn,
		handler.WithBinders[SignInForm](binder.Form(), binder.JSON()),
		handler.WithErrorHandler[SignInForm](s.errorHandler),
	))

	r.Get(SignUpPath, handler.Wrap(s.signUpPage))
	limited.Post(SignUpPath, handler.Wrap(s.signUp,
		handler.WithBinders[SignUpForm](binder.Form(), binder.JSON()),
		handler.WithErrorHandler[SignUpForm](s.errorHandler),
	))

	limited.Post("/otp/verify", handler.Wrap(s.verify,
		handler.WithBinders[VerifyForm](binder.Form(), binder.JSON()),
		handler.WithErrorHandler[VerifyForm](s.errorHandler),
	))
	limited.Post("/otp/resend", handler.Wrap(s.resend,
		handler.WithErrorHandler[struct{}](s.errorHandler),
	))

	signOut := handler.Wrap(s.signOut, handler.WithErrorHandler[struct{}](s.errorHandler))
	r.Get("/sign-out", signOut)
	r.Post("/sign-out", signOut)
}

func (s *Service) signInPage(handler.Context, struct{}) handler.Response {
	return handler.Templ(s.views.AuthPage(AuthPageParams{Form: FormParams{Type: FormSignIn}}))
}

func (s *Service) signUpPage(handler.Context, struct{}) handler.Response {
	return handler.Templ(s.views.AuthPage(AuthPageParams{Form: FormParams{Type: FormSignUp}}))
}

func (s *Service) signIn(ctx handler.Context, form SignInForm) handler.Response {
	return s.submit(ctx, form, FormParams{Type: FormSignIn, Email: form.Email})
}

func (s *Service) signUp(ctx handler.Context, form SignUpForm) handler.Response {
	return s.submit(ctx, form, FormParams{
		Type:      FormSignUp,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
}

// submit validates form, starts the passcode challenge and opens the modal.
func (s *Service) submit(ctx handler.Context, form Form, fp FormParams) handler.Response {
	if err := form.Validate(); err != nil {
		fp.Errors = validator.ExtractValidationErrors(err).Map()
		return s.renderForm(http.StatusUnprocessableEntity, fp)
	}

	var (
		res *users.AccountResult
		err error
	)
	switch f := form.(type) {
	case SignInForm:
		res, err = s.users.SignInUser(ctx, users.SignInInput{Email: f.Email, Password: f.Password})
	case SignUpForm:
		res, err = s.users.CreateAccount(ctx, users.SignUpInput{
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Email:     f.Email,
			Password:  f.Password,
		})
	}
	if err != nil {
		fp.Message = message(err)
		return s.renderForm(status(err), fp)
	}
	if res == nil || res.AccountID == "" {
		fp.Message = msgNoAccountID
		return s.renderForm(http.StatusBadGateway, fp)
	}

	if err := s.setPending(ctx.ResponseWriter(), pending{AccountID: res.AccountID, Email: form.email(), Form: form.Type()}); err != nil {
		return handler.Error(err)
	}

	modal := OTPModalParams{Email: form.email()}
	return handler.TemplPartial(
		s.views.OTPModal(modal),
		s.views.AuthPage(AuthPageParams{Form: fp, Modal: &modal}),
		handler.WithTarget(ModalTarget),
	)
}

func (s *Service) verify(ctx handler.Context, form VerifyForm) handler.Response {
	p, err := s.getPending(ctx.Request())
	if err != nil {
		return s.renderModal(http.StatusUnauthorized, FormSignIn, OTPModalParams{Error: msgPendingExpired})
	}

	modal := OTPModalParams{Email: p.Email}
	if err := form.Validate(); err != nil {
		modal.Error = validator.ExtractValidationErrors(err).First("code")
		return s.renderModal(http.StatusUnprocessableEntity, p.Form, modal)
	}

	if _, err := s.users.VerifySecret(ctx, ctx.ResponseWriter(), users.VerifyInput{AccountID: p.AccountID, Code: form.Code}); err != nil {
		modal.Error = message(err)
		return s.renderModal(status(err), p.Form, modal)
	}

	s.clearPending(ctx.ResponseWriter())
	return handler.Redirect(HomePath)
}

func (s *Service) resend(ctx handler.Context, _ struct{}) handler.Response {
	p, err := s.getPending(ctx.Request())
	if err != nil {
		return s.renderModal(http.StatusUnauthorized, FormSignIn, OTPModalParams{Error: msgPendingExpired})
	}

	modal := OTPModalParams{Email: p.Email}
	accountID, err := s.users.SendEmailOTP(ctx, p.Email)
	if err != nil {
		modal.Error = message(err)
		return s.renderModal(status(err), p.Form, modal)
	}

	if accountID != "" && accountID != p.AccountID {
		p.AccountID = accountID
		if err := s.setPending(ctx.ResponseWriter(), p); err != nil {
			return handler.Error(err)
		}
	}

	modal.Notice = "A new code has been sent to " + p.Email
	return s.renderModal(http.StatusOK, p.Form, modal)
}

// signOut always lands on the sign-in page; failures are only logged.
func (s *Service) signOut(ctx handler.Context, _ struct{}) handler.Response {
	if err := s.users.SignOutUser(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil && !errors.Is(err, users.ErrNoSession) {
		s.log.WarnContext(ctx, "sign out failed", logger.Error(err))
	}
	s.clearPending(ctx.ResponseWriter())
	return handler.Redirect(SignInPath)
}

func (s *Service) renderForm(code int, fp FormParams) handler.Response {
	return handler.TemplPartialStatus(code,
		s.views.AuthForm(fp),
		s.views.AuthPage(AuthPageParams{Form: fp}),
		handler.WithTarget(FormTarget),
	)
}

func (s *Service) renderModal(code int, form FormType, modal OTPModalParams) handler.Response {
	if form == "" {
		form = FormSignIn
	}
	return handler.TemplPartialStatus(code,
		s.views.OTPModal(modal),
		s.views.AuthPage(AuthPageParams{Form: FormParams{Type: form, Email: modal.Email}, Modal: &modal}),
		handler.WithTarget(ModalTarget),
	)
}
