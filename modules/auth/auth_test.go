package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/drive/handler"
	"github.com/dmitrymomot/drive/modules/auth"
	"github.com/dmitrymomot/drive/pkg/cookie"
	"github.com/dmitrymomot/drive/pkg/ratelimiter"
	"github.com/dmitrymomot/drive/svc/users"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) CreateAccount(ctx context.Context, in users.SignUpInput) (*users.AccountResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*users.AccountResult)
	return r, args.Error(1)
}

func (m *mockUsers) SignInUser(ctx context.Context, in users.SignInInput) (*users.AccountResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*users.AccountResult)
	return r, args.Error(1)
}

func (m *mockUsers) SendEmailOTP(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockUsers) VerifySecret(ctx context.Context, w http.ResponseWriter, in users.VerifyInput) (*users.VerifyResult, error) {
	args := m.Called(ctx, w, in)
	r, _ := args.Get(0).(*users.VerifyResult)
	return r, args.Error(1)
}

func (m *mockUsers) GetCurrentUser(ctx context.Context, r *http.Request) (*users.User, error) {
	args := m.Called(ctx, r)
	u, _ := args.Get(0).(*users.User)
	return u, args.Error(1)
}

func (m *mockUsers) SignOutUser(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return m.Called(ctx, w, r).Error(0)
}

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

func testViews() *auth.Views {
	form := func(p auth.FormParams) string {
		var b strings.Builder
		fmt.Fprintf(&b, "form:%s email=%s", p.Type, p.Email)
		for _, field := range []string{"email", "password", "firstName", "lastName", "confirmPassword"} {
			if msg, ok := p.Errors[field]; ok {
				fmt.Fprintf(&b, " err[%s]=%s", field, msg)
			}
		}
		if p.Message != "" {
			fmt.Fprintf(&b, " msg=%s", p.Message)
		}
		return b.String()
	}
	modal := func(p auth.OTPModalParams) string {
		return fmt.Sprintf("modal email=%s error=%s notice=%s", p.Email, p.Error, p.Notice)
	}
	return &auth.Views{
		AuthPage: func(p auth.AuthPageParams) templ.Component {
			s := "page " + form(p.Form)
			if p.Modal != nil {
				s += " | " + modal(*p.Modal)
			}
			return text("%s", s)
		},
		AuthForm: func(p auth.FormParams) templ.Component { return text("%s", form(p)) },
		OTPModal: func(p auth.OTPModalParams) templ.Component { return text("%s", modal(p)) },
		Home: func(p auth.HomeParams) templ.Component {
			return text("home %s", p.User.FullName())
		},
	}
}

type fixture struct {
	users  *mockUsers
	router http.Handler
}

func newFixture(t *testing.T, opts ...auth.Option) *fixture {
	t.Helper()

	cookies, err := cookie.New([]string{strings.Repeat("k", 32)})
	require.NoError(t, err)

	mu := &mockUsers{}
	t.Cleanup(func() { mu.AssertExpectations(t) })

	views := testViews()
	svc := auth.NewService(mu, cookies, views, handler.NewErrorHandler(nil, handler.ErrorHandlerConfig{Classify: auth.Classify}), opts...)

	return &fixture{
		users: mu,
		router: auth.Router(auth.RouterOptions{
			Public:    []auth.Routable{svc},
			Protected: []auth.Routable{auth.NewHome(views)},
			Guard:     auth.RequireUser(mu, nil),
		}),
	}
}

func (f *fixture) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func pendingCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.PendingCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.PendingCookieName)
	return nil
}

func signUpValues() url.Values {
	return url.Values{
		"email":           {"ada@example.com"},
		"password":        {"password123"},
		"confirmPassword": {"password123"},
		"firstName":       {"Ada"},
		"lastName":        {"Lovelace"},
	}
}

func TestPages(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(http.MethodGet, auth.SignInPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page form:sign-in email=", rec.Body.String())

	rec = f.do(http.MethodGet, auth.SignUpPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page form:sign-up email=", rec.Body.String())
}

func TestSignUp(t *testing.T) {
	t.Parallel()

	t.Run("validation errors are shown inline", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		values := signUpValues()
		values.Set("email", "not-an-email")
		values.Set("confirmPassword", "password124")
		values.Set("firstName", "A")

		rec := f.do(http.MethodPost, auth.SignUpPath, values)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "err[email]=Please enter a valid email address")
		assert.Contains(t, body, "err[firstName]=First name must be at least 2 characters")
		assert.Contains(t, body, "err[confirmPassword]=Passwords don't match")
		assert.NotContains(t, body, "err[lastName]")
		f.users.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})

	t.Run("success opens the passcode modal", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.users.On("CreateAccount", mock.Anything, users.SignUpInput{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Password:  "password123",
		}).Return(&users.AccountResult{AccountID: "acc-1"}, nil).Once()

		rec := f.do(http.MethodPost, auth.SignUpPath, signUpValues())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "modal email=ada@example.com")
		assert.NotContains(t, rec.Body.String(), "password123")

		c := pendingCookie(t, rec)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.NotContains(t, c.Value, "acc-1")
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.users.On("CreateAccount", mock.Anything, mock.Anything).
			Return(nil, users.ErrUserAlreadyExists).Once()

		rec := f.do(http.MethodPost, auth.SignUpPath, signUpValues())
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "msg=User already exists")
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("missing account id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.users.On("CreateAccount", mock.Anything, mock.Anything).
			Return(&users.AccountResult{}, nil).Once()

		rec := f.do(http.MethodPost, auth.SignUpPath, signUpValues())
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "msg=Authentication succeeded but no account ID received")
	})
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	values := url.Values{"email": {"ada@example.com"}, "password": {"password123"}}

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.users.On("SignInUser", mock.Anything, users.SignInInput{Email: "ada@example.com", Password: "password123"}).
			Return(nil, users.ErrUserNotFound).Once()

		rec := f.do(http.MethodPost, auth.SignInPath, values)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "form:sign-in email=ada@example.com msg=User not found")
	})

	t.Run("backend failure shows the generic message", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.users.On("SignInUser", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		rec := f.do(http.MethodPost, auth.SignInPath, values)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "msg=Failed to process request. Please try again.")
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(http.MethodPost, auth.SignInPath, url.Values{"email": {"ada@example.com"}, "password": {"short"}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "err[password]=Password must be at least 8 characters")
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	signIn := func(t *testing.T, f *fixture) *http.Cookie {
		t.Helper()
		f.users.On("SignInUser", mock.Anything, mock.Anything).
			Return(&users.AccountResult{AccountID: "acc-1"}, nil).Once()
		rec := f.do(http.MethodPost, auth.SignInPath, url.Values{"email": {"ada@example.com"}, "password": {"password123"}})
		require.Equal(t, http.StatusOK, rec.Code)
		return pendingCookie(t, rec)
	}

	t.Run("correct code redirects home", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		pc := signIn(t, f)

		f.users.On("VerifySecret", mock.Anything, mock.Anything, users.VerifyInput{AccountID: "acc-1", Code: "123456"}).
			Return(&users.VerifyResult{SessionID: "sess-1"}, nil).Once()

		rec := f.do(http.MethodPost, "/otp/verify", url.Values{"code": {"123456"}}, pc)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, auth.HomePath, rec.Header().Get("Location"))

		var cleared bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.PendingCookieName {
				cleared = c.MaxAge < 0
			}
		}
		assert.True(t, cleared)
	})

	t.Run("wrong code keeps the modal open", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		pc := signIn(t, f)

		f.users.On("VerifySecret", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &users.VerificationError{Reason: users.ReasonInvalidCode}).Once()

		rec := f.do(http.MethodPost, "/otp/verify", url.Values{"code": {"000000"}}, pc)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "modal email=ada@example.com error=")
	})

	t.Run("malformed code", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		pc := signIn(t, f)

		rec := f.do(http.MethodPost, "/otp/verify", url.Values{"code": {"12ab"}}, pc)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "error=Enter the 6-digit code from the email")
	})

	t.Run("without pending challenge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/otp/verify", url.Values{"code": {"123456"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "has expired")
	})

	t.Run("resend updates the account id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		pc := signIn(t, f)

		f.users.On("SendEmailOTP", mock.Anything, "ada@example.com").Return("acc-2", nil).Once()

		rec := f.do(http.MethodPost, "/otp/resend", nil, pc)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "notice=A new code has been sent to ada@example.com")

		f.users.On("VerifySecret", mock.Anything, mock.Anything, users.VerifyInput{AccountID: "acc-2", Code: "654321"}).
			Return(&users.VerifyResult{SessionID: "sess-2"}, nil).Once()

		rec = f.do(http.MethodPost, "/otp/verify", url.Values{"code": {"654321"}}, pendingCookie(t, rec))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	newLimited := func(t *testing.T) *fixture {
		t.Helper()
		bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Capacity: 1, RefillRate: 1, RefillInterval: time.Hour,
		})
		require.NoError(t, err)
		return newFixture(t, auth.WithRateLimit(ratelimiter.Middleware(bucket, ratelimiter.ByIP)))
	}

	t.Run("second submission from one address is refused", func(t *testing.T) {
		t.Parallel()
		f := newLimited(t)
		f.users.On("SignInUser", mock.Anything, users.SignInInput{Email: "ada@example.com", Password: "password123"}).
			Return(&users.AccountResult{AccountID: "a1"}, nil).Once()

		values := url.Values{"email": {"ada@example.com"}, "password": {"password123"}}
		rec := f.do(http.MethodPost, auth.SignInPath, values)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(http.MethodPost, auth.SignInPath, values)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		rec = f.do(http.MethodPost, "/otp/verify", url.Values{"code": {"123456"}})
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		f.users.AssertNumberOfCalls(t, "SignInUser", 1)
	})

	t.Run("pages stay reachable", func(t *testing.T) {
		t.Parallel()
		f := newLimited(t)

		for range 3 {
			rec := f.do(http.MethodGet, auth.SignInPath, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name   string
		method string
		err    error
	}{
		{"post", http.MethodPost, nil},
		{"get", http.MethodGet, nil},
		{"failure still redirects", http.MethodPost, users.ErrSignOut},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			f.users.On("SignOutUser", mock.Anything, mock.Anything, mock.Anything).Return(tc.err).Once()

			rec := f.do(tc.method, "/sign-out", nil)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, auth.SignInPath, rec.Header().Get("Location"))
		})
	}
}

func TestHomeRequiresUser(t *testing.T) {
	t.Parallel()

	t.Run("anonymous visitor", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.users.On("GetCurrentUser", mock.Anything, mock.Anything).Return(nil, users.ErrNoSession).Once()

		rec := f.do(http.MethodGet, auth.HomePath, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, auth.SignInPath, rec.Header().Get("Location"))
	})

	t.Run("session without user document", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.users.On("GetCurrentUser", mock.Anything, mock.Anything).Return(nil, nil).Once()

		rec := f.do(http.MethodGet, auth.HomePath, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("signed in", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.users.On("GetCurrentUser", mock.Anything, mock.Anything).
			Return(&users.User{FirstName: "Ada", LastName: "Lovelace"}, nil).Once()

		rec := f.do(http.MethodGet, auth.HomePath, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "home Ada Lovelace", rec.Body.String())
	})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", users.ErrUserNotFound, http.StatusNotFound},
		{"conflict", fmt.Errorf("persist: %w", users.ErrUserAlreadyExists), http.StatusConflict},
		{"no session", users.ErrNoSession, http.StatusUnauthorized},
		{"invalid credentials", users.ErrInvalidCredentials, http.StatusUnauthorized},
		{"rejected code", &users.VerificationError{Reason: users.ReasonInvalidCode}, http.StatusUnauthorized},
		{"rate limited", &users.VerificationError{Reason: users.ReasonRateLimited}, http.StatusTooManyRequests},
		{"verification backend", &users.VerificationError{Reason: users.ReasonBackend}, http.StatusBadGateway},
		{"generic", errors.Join(users.ErrSendOTP, errors.New("dial tcp")), http.StatusBadGateway},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			he, ok := auth.Classify(tc.err)
			require.True(t, ok)
			assert.Equal(t, tc.code, he.Code)
		})
	}

	_, ok := auth.Classify(errors.New("unknown"))
	assert.False(t, ok)
}
