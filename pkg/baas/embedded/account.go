package embedded

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/email"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/session"
)

// account serves both admin clients (secretHash empty) and session clients.
type account struct {
	p          *Platform
	secretHash string
}

func (a *account) CreateEmailToken(ctx context.Context, userID, addr string) (*baas.Token, error) {
	p := a.p
	if !strings.Contains(addr, "@") {
		return nil, baas.NewError(http.StatusBadRequest, baas.TypeGeneralArgument, "Invalid `email` param: Value must be a valid email address")
	}

	if p.limiter != nil {
		res, err := p.limiter.Allow(ctx, "otp:"+addr)
		if err != nil {
			return nil, errInternal("rate limit", err)
		}
		if !res.Allowed() {
			p.log.WarnContext(ctx, "passcode rate limit exceeded", logger.Email(addr))
			return nil, baas.NewError(http.StatusTooManyRequests, baas.TypeGeneralRateLimit, "Rate limit for the current endpoint has been exceeded. Please try again after some time.")
		}
	}

	acct, err := p.ensureAccount(ctx, userID, addr)
	if err != nil {
		return nil, err
	}

	code, err := generateCode(p.cfg.CodeLength)
	if err != nil {
		return nil, errInternal("generate code", err)
	}
	expires := p.now().Add(p.cfg.CodeTTL)
	if err := p.challenges.SaveChallenge(ctx, Challenge{
		AccountID: acct.ID,
		Email:     addr,
		CodeHash:  hashCode(p.key, acct.ID, code),
		ExpiresAt: expires,
	}); err != nil {
		return nil, errInternal("save challenge", err)
	}

	params, err := email.OTPParams(ctx, addr, code, p.cfg.CodeTTL)
	if err != nil {
		return nil, errInternal("render passcode email", err)
	}
	if err := p.sender.SendEmail(ctx, params); err != nil {
		_ = p.challenges.DeleteChallenge(ctx, acct.ID)
		return nil, errInternal("send passcode", err)
	}

	p.log.InfoContext(ctx, "passcode issued", logger.AccountID(acct.ID), logger.Email(addr))
	return &baas.Token{
		ID:     ulid.Make().String(),
		UserID: acct.ID,
		Expire: expires,
	}, nil
}

func (a *account) CreateSession(ctx context.Context, userID, secret string) (*baas.Session, error) {
	p := a.p

	// Reserve the attempt before comparing so concurrent guesses cannot
	// exceed MaxAttempts comparisons.
	n, err := p.challenges.IncrementAttempts(ctx, userID)
	if errors.Is(err, ErrChallengeNotFound) {
		return nil, errInvalidToken("Invalid token passed in the request.")
	}
	if err != nil {
		return nil, errInternal("reserve attempt", err)
	}
	if n > p.cfg.MaxAttempts {
		_ = p.challenges.DeleteChallenge(ctx, userID)
		return nil, errInvalidToken("Invalid token passed in the request.")
	}

	ch, err := p.challenges.GetChallenge(ctx, userID)
	if errors.Is(err, ErrChallengeNotFound) {
		return nil, errInvalidToken("Invalid token passed in the request.")
	}
	if err != nil {
		return nil, errInternal("load challenge", err)
	}

	if ch.IsExpired(p.now()) {
		_ = p.challenges.DeleteChallenge(ctx, userID)
		return nil, errInvalidToken("The token has expired.")
	}

	if !codeMatches(p.key, ch, secret) {
		if n >= p.cfg.MaxAttempts {
			_ = p.challenges.DeleteChallenge(ctx, userID)
			p.log.WarnContext(ctx, "passcode attempts exhausted", logger.AccountID(userID))
		}
		return nil, errInvalidToken("Invalid token passed in the request.")
	}

	if err := p.challenges.DeleteChallenge(ctx, userID); err != nil {
		return nil, errInternal("consume challenge", err)
	}

	sess, plain, err := session.New(userID, p.cfg.SessionTTL)
	if err != nil {
		return nil, errInternal("create session", err)
	}
	if err := p.sessions.Create(ctx, sess); err != nil {
		return nil, errInternal("store session", err)
	}

	p.log.InfoContext(ctx, "session created", logger.AccountID(userID), logger.SessionID(sess.ID))
	return &baas.Session{
		ID:     sess.ID,
		UserID: userID,
		Secret: plain,
		Expire: sess.ExpiresAt,
	}, nil
}

func (a *account) Get(ctx context.Context) (*baas.Account, error) {
	sess, err := a.current(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := a.p.docs.Get(ctx, SystemDatabase, AccountsCollection, sess.AccountID)
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, errUnauthorized()
	}
	if err != nil {
		return nil, errInternal("load account", err)
	}

	var acct baas.Account
	if err := doc.Decode(&acct); err != nil {
		return nil, errInternal("decode account", err)
	}
	return &acct, nil
}

func (a *account) DeleteSession(ctx context.Context, sessionID string) error {
	sess, err := a.current(ctx)
	if err != nil {
		return err
	}
	if sessionID != baas.CurrentSession && sessionID != sess.ID {
		return baas.NewError(http.StatusNotFound, baas.TypeUserSessionNotFound, "The current user session could not be found.")
	}
	if err := a.p.sessions.Delete(ctx, a.secretHash); err != nil {
		return errInternal("delete session", err)
	}
	a.p.log.InfoContext(ctx, "session deleted", logger.AccountID(sess.AccountID), logger.SessionID(sess.ID))
	return nil
}

func (a *account) current(ctx context.Context) (*session.Session, error) {
	if a.secretHash == "" {
		return nil, errUnauthorized()
	}
	sess, err := a.p.sessions.Get(ctx, a.secretHash)
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionExpired):
		return nil, errUnauthorized()
	case err != nil:
		return nil, errInternal("load session", err)
	}
	return sess, nil
}

// ensureAccount returns the account for addr, creating it when missing. A
// concurrent creation for the same email resolves to the stored account.
func (p *Platform) ensureAccount(ctx context.Context, userID, addr string) (*baas.Document, error) {
	existing, err := p.findAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if userID != baas.UniqueID && userID != "" && userID != existing.ID {
			return nil, baas.NewError(http.StatusConflict, baas.TypeUserAlreadyExists, "A user with the same id, email, or phone already exists in this project.")
		}
		return existing, nil
	}

	doc := baas.Document{
		ID:         newID(userID),
		Database:   SystemDatabase,
		Collection: AccountsCollection,
		CreatedAt:  p.now().UTC(),
		UpdatedAt:  p.now().UTC(),
		Data: map[string]any{
			"email":             addr,
			"name":              "",
			"emailVerification": false,
		},
	}
	switch err := p.docs.Insert(ctx, doc); {
	case errors.Is(err, ErrDuplicate):
		existing, err := p.findAccount(ctx, addr)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, baas.NewError(http.StatusConflict, baas.TypeUserAlreadyExists, "A user with the same id, email, or phone already exists in this project.")
		}
		return existing, nil
	case err != nil:
		return nil, errInternal("create account", err)
	}
	p.log.InfoContext(ctx, "account created", logger.AccountID(doc.ID), logger.Email(addr))
	return &doc, nil
}

func (p *Platform) findAccount(ctx context.Context, addr string) (*baas.Document, error) {
	docs, err := p.docs.Find(ctx, SystemDatabase, AccountsCollection, []baas.Filter{{
		Method:    baas.MethodEqual,
		Attribute: "email",
		Values:    []any{addr},
	}})
	if err != nil {
		return nil, errInternal("find account", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}
