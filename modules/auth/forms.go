package auth

import "github.com/dmitrymomot/drive/pkg/validator"

type FormType string

const (
	FormSignIn FormType = "sign-in"
	FormSignUp FormType = "sign-up"
)

// Form is either a SignInForm or a SignUpForm.
type Form interface {
	Type() FormType
	Validate() error
	email() string
}

type SignInForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (SignInForm) Type() FormType  { return FormSignIn }
func (f SignInForm) email() string { return f.Email }

func (f SignInForm) Validate() error {
	return validator.Apply(
		validator.ValidEmail("email", f.Email).WithMessage("Please enter a valid email address"),
		validator.MinLen("password", f.Password, 8).WithMessage("Password must be at least 8 characters"),
	)
}

type SignUpForm struct {
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	FirstName       string `form:"firstName" json:"firstName"`
	LastName        string `form:"lastName" json:"lastName"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

func (SignUpForm) Type() FormType  { return FormSignUp }
func (f SignUpForm) email() string { return f.Email }

func (f SignUpForm) Validate() error {
	return validator.Apply(
		validator.ValidEmail("email", f.Email).WithMessage("Please enter a valid email address"),
		validator.MinLen("password", f.Password, 8).WithMessage("Password must be at least 8 characters"),
		validator.MinLen("firstName", f.FirstName, 2).WithMessage("First name must be at least 2 characters"),
		validator.MinLen("lastName", f.LastName, 2).WithMessage("Last name must be at least 2 characters"),
		validator.MinLen("confirmPassword", f.ConfirmPassword, 8).WithMessage("Please confirm your password"),
		validator.Equal("confirmPassword", f.ConfirmPassword, f.Password).WithMessage("Passwords don't match"),
	)
}

// VerifyForm is the passcode modal submission.
type VerifyForm struct {
	Code string `form:"code" json:"code"`
}

func (f VerifyForm) Validate() error {
	return validator.Apply(
		validator.ValidOTP("code", f.Code, CodeLength).WithMessage("Enter the 6-digit code from the email"),
	)
}
