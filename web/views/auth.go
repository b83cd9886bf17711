package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/drive/modules/auth"
)

// Auth returns the views consumed by the auth module.
func Auth() *auth.Views {
	return &auth.Views{
		AuthPage: AuthPage,
		AuthForm: AuthForm,
		OTPModal: OTPModal,
		Home:     Home,
	}
}

func AuthPage(p auth.AuthPageParams) templ.Component {
	title := "Sign In"
	if p.Form.Type == auth.FormSignUp {
		title = "Sign Up"
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var modal templ.Component = templ.Raw(`<div id="otp-modal"></div>`)
		if p.Modal != nil {
			modal = OTPModal(*p.Modal)
		}
		return write(ctx, w, `<main class="auth">`, AuthForm(p.Form), modal, `</main>`)
	})
	return Layout(title, body)
}

type field struct {
	name, label, kind, value string
}

// AuthForm renders the sign-in or sign-up form.
func AuthForm(p auth.FormParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signUp := p.Type == auth.FormSignUp
		title, action := "Sign In", auth.SignInPath
		if signUp {
			title, action = "Sign Up", auth.SignUpPath
		}

		fields := []field{}
		if signUp {
			fields = append(fields,
				field{"firstName", "First Name", "text", p.FirstName},
				field{"lastName", "Last Name", "text", p.LastName},
			)
		}
		fields = append(fields,
			field{"email", "Email", "email", p.Email},
			field{"password", "Password", "password", ""},
		)
		if signUp {
			fields = append(fields, field{"confirmPassword", "Confirm Password", "password", ""})
		}

		if _, err := fmt.Fprintf(w,
			`<form id="auth-form" class="auth-form" method="post" action="%s" data-on-submit="@post('%s', {contentType: 'form'})"><h1>%s</h1>`,
			action, action, title); err != nil {
			return err
		}
		for _, f := range fields {
			if _, err := fmt.Fprintf(w,
				`<label for="%s">%s</label><input id="%s" name="%s" type="%s" value="%s">`,
				f.name, f.label, f.name, f.name, f.kind, esc(f.value)); err != nil {
				return err
			}
			if msg := p.Errors[f.name]; msg != "" {
				if _, err := fmt.Fprintf(w, `<p class="field-error">%s</p>`, esc(msg)); err != nil {
					return err
				}
			}
		}
		if p.Message != "" {
			if _, err := fmt.Fprintf(w, `<p class="form-error">%s</p>`, esc(p.Message)); err != nil {
				return err
			}
		}

		footer := `<p>Don't have an account? <a href="/sign-up">Sign Up</a></p>`
		if signUp {
			footer = `<p>Already have an account? <a href="/sign-in">Sign In</a></p>`
		}
		return write(ctx, w, `<button type="submit">`+title+`</button>`, footer, `</form>`)
	})
}

// OTPModal renders the passcode dialog.
func OTPModal(p auth.OTPModalParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div id="otp-modal"><dialog open class="otp-modal">
<h2>Enter your OTP</h2>
<p>A code is been sent at your <strong>%s</strong></p>
<form method="post" action="/otp/verify" data-on-submit="@post('/otp/verify', {contentType: 'form'})">
<input name="code" inputmode="numeric" autocomplete="one-time-code" pattern="[0-9]{%d}" maxlength="%d">
<button type="submit">Submit</button>
</form>`, esc(p.Email), auth.CodeLength, auth.CodeLength); err != nil {
			return err
		}
		if p.Error != "" {
			if _, err := fmt.Fprintf(w, `<p class="form-error">%s</p>`, esc(p.Error)); err != nil {
				return err
			}
		}
		if p.Notice != "" {
			if _, err := fmt.Fprintf(w, `<p class="notice">%s</p>`, esc(p.Notice)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<form method="post" action="/otp/resend" data-on-submit="@post('/otp/resend', {contentType: 'form'})">
<p>Didn't get a code ? <button type="submit" class="link">Click to resend</button></p>
</form>
</dialog></div>`)
		return err
	})
}
