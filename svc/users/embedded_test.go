package users_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/drive/pkg/baas/embedded"
	"github.com/dmitrymomot/drive/pkg/email"
	"github.com/dmitrymomot/drive/pkg/session"
	"github.com/dmitrymomot/drive/svc/users"
)

var passcodeRe = regexp.MustCompile(`letter-spacing:8px">(\d+)</p>`)

type outbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (o *outbox) SendEmail(_ context.Context, p email.SendEmailParams) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m := passcodeRe.FindStringSubmatch(p.BodyHTML); len(m) == 2 {
		o.codes[p.SendTo] = m[1]
	}
	return nil
}

func (o *outbox) code(addr string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.codes[addr]
}

func newEmbeddedService(t *testing.T) (*users.Service, *outbox) {
	t.Helper()

	sessions := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = sessions.Close() })

	cfg := embedded.DefaultConfig()
	cfg.Secret = "0123456789abcdef0123456789abcdef"
	cfg.RateLimit = 0

	box := &outbox{codes: map[string]string{}}
	docs := embedded.NewMemoryDocuments(embedded.UniqueIndex{Database: "main", Collection: "users", Attribute: "email"})
	platform, err := embedded.New(cfg, docs, embedded.NewMemoryChallenges(), sessions, box)
	require.NoError(t, err)

	svc, err := users.New(platform, newTransport(t), testConfig)
	require.NoError(t, err)
	return svc, box
}

func TestService_EmbeddedFlow(t *testing.T) {
	t.Parallel()

	svc, box := newEmbeddedService(t)
	ctx := context.Background()
	input := users.SignUpInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Password: "password1"}

	reg, err := svc.CreateAccount(ctx, input)
	require.NoError(t, err)
	require.NotEmpty(t, reg.AccountID)

	_, err = svc.CreateAccount(ctx, input)
	assert.Equal(t, users.ErrUserAlreadyExists, err)

	// sign-in reissues a passcode for the same account
	signIn, err := svc.SignInUser(ctx, users.SignInInput{Email: input.Email})
	require.NoError(t, err)
	assert.Equal(t, reg.AccountID, signIn.AccountID)

	_, err = svc.VerifySecret(ctx, httptest.NewRecorder(), users.VerifyInput{AccountID: reg.AccountID, Code: "not-it"})
	var ve *users.VerificationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, users.ReasonInvalidCode, ve.Reason)

	rec := httptest.NewRecorder()
	_, err = svc.VerifySecret(ctx, rec, users.VerifyInput{AccountID: reg.AccountID, Code: box.code(input.Email)})
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	user, err := svc.GetCurrentUser(ctx, r)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, input.Email, user.Email)
	assert.Equal(t, reg.AccountID, user.AccountID)
	assert.Equal(t, users.DefaultAvatarURL, user.Avatar)
	assert.Empty(t, user.Password)

	require.NoError(t, svc.SignOutUser(ctx, httptest.NewRecorder(), r))
	_, err = svc.GetCurrentUser(ctx, r)
	assert.ErrorIs(t, err, users.ErrNoSession)
}

func TestService_ConcurrentRegistration(t *testing.T) {
	t.Parallel()

	svc, _ := newEmbeddedService(t)
	ctx := context.Background()

	const n = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateAccount(ctx, users.SignUpInput{FirstName: "Race", LastName: "Condition", Email: "race@example.com", Password: "password1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, users.ErrUserAlreadyExists):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)

	user, err := svc.GetUserByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
}
