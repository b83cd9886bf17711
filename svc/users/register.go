package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/statemachine"
)

var (
	stateStart             = statemachine.StringState("start")
	stateDuplicateChecked  = statemachine.StringState("duplicate_checked")
	stateOTPIssued         = statemachine.StringState("otp_issued")
	stateDocumentPersisted = statemachine.StringState("document_persisted")
	stateComplete          = statemachine.StringState("complete")
	stateAborted           = statemachine.StringState("aborted")

	eventCheckDuplicate = statemachine.StringEvent("check_duplicate")
	eventIssueOTP       = statemachine.StringEvent("issue_otp")
	eventPersist        = statemachine.StringEvent("persist_document")
	eventComplete       = statemachine.StringEvent("complete")
	eventAbort          = statemachine.StringEvent("abort")
)

var registrationSteps = []statemachine.Event{eventCheckDuplicate, eventIssueOTP, eventPersist, eventComplete}

// registration is the data threaded through the registration machine.
type registration struct {
	admin     *baas.Client
	input     SignUpInput
	accountID string
	user      *User
	err       error
}

func (s *Service) registrationMachine() statemachine.StateMachine {
	return statemachine.MustNew(stateStart,
		statemachine.WithTransition(stateStart, stateDuplicateChecked, eventCheckDuplicate,
			statemachine.WithAction(step(s.checkDuplicate))),
		statemachine.WithTransition(stateDuplicateChecked, stateOTPIssued, eventIssueOTP,
			statemachine.WithAction(step(s.issueRegistrationOTP))),
		statemachine.WithTransition(stateOTPIssued, stateDocumentPersisted, eventPersist,
			statemachine.WithGuard(accountIssued),
			statemachine.WithAction(step(s.persistUser))),
		statemachine.WithTransition(stateDocumentPersisted, stateComplete, eventComplete),
		statemachine.WithTransitionFrom(
			[]statemachine.State{stateStart, stateDuplicateChecked, stateOTPIssued, stateDocumentPersisted},
			stateAborted, eventAbort),
		statemachine.WithHook(func(ctx context.Context, from, to statemachine.State, event statemachine.Event) {
			s.log.DebugContext(ctx, "registration step",
				logger.Event(event.Name()),
				logger.State(to.Name()),
			)
		}),
	)
}

// accountIssued blocks persisting a user the platform gave no account id.
func accountIssued(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	return data.(*registration).accountID != ""
}

func step(fn func(context.Context, *registration) error) statemachine.Action {
	return func(ctx context.Context, _, _ statemachine.State, _ statemachine.Event, data any) error {
		reg := data.(*registration)
		if err := fn(ctx, reg); err != nil {
			reg.err = err
			return err
		}
		return nil
	}
}

// CreateAccount registers a new user: it rejects a taken email, has the
// platform mail a passcode and stores the user document. The passcode is not
// revoked when a later step fails.
func (s *Service) CreateAccount(ctx context.Context, in SignUpInput) (_ *AccountResult, err error) {
	ctx, span := startSpan(ctx, "users.create_account")
	defer func() {
		registrations.WithLabelValues(result(err)).Inc()
		endSpan(span, err)
	}()

	admin, err := s.backend.Admin(ctx)
	if err != nil {
		return nil, s.handleError(ctx, ErrCreateAccount, err, logger.Email(in.Email))
	}

	reg := &registration{admin: admin, input: in}
	sm := s.registrationMachine()
	for _, ev := range registrationSteps {
		if ferr := sm.Fire(ctx, ev, reg); ferr != nil {
			switch {
			case reg.err != nil:
				ferr = reg.err
			case statemachine.IsRejected(ferr):
				ferr = ErrAccountIDMissing
			}
			failedAt := sm.Current().Name()
			_ = sm.Fire(ctx, eventAbort, reg)
			return nil, s.handleError(ctx, ErrCreateAccount, ferr, logger.Email(in.Email), logger.State(failedAt))
		}
	}

	s.log.InfoContext(ctx, "account registered",
		logger.AccountID(reg.accountID),
		logger.UserID(reg.user.ID),
		logger.Email(in.Email),
	)
	return &AccountResult{AccountID: reg.accountID}, nil
}

func (s *Service) checkDuplicate(ctx context.Context, reg *registration) error {
	existing, err := s.findOne(ctx, reg.admin, baas.Equal("email", reg.input.Email))
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserAlreadyExists
	}
	return nil
}

func (s *Service) issueRegistrationOTP(ctx context.Context, reg *registration) error {
	accountID, err := s.issuePasscode(ctx, reg.admin, reg.input.Email)
	if err != nil {
		return err
	}
	reg.accountID = accountID
	return nil
}

func (s *Service) persistUser(ctx context.Context, reg *registration) error {
	data := map[string]any{
		"firstName": reg.input.FirstName,
		"lastName":  reg.input.LastName,
		"email":     reg.input.Email,
		"avatar":    s.cfg.avatar(),
		"accountId": reg.accountID,
	}
	if s.verifyPassword {
		hash, err := s.hashPassword(reg.input.Password)
		if err != nil {
			return err
		}
		data["password"] = hash
	}

	doc, err := reg.admin.Databases.CreateDocument(ctx, s.cfg.DatabaseID, s.cfg.CollectionID, baas.UniqueID, data)
	if errors.Is(err, baas.ErrConflict) {
		return ErrUserAlreadyExists
	}
	if err != nil {
		return err
	}

	var user User
	if err := doc.Decode(&user); err != nil {
		return err
	}
	reg.user = &user
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	cost := s.bcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
