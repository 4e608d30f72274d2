package sessionService

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/shopspring/decimal"
)

const minPasswordLength = 8

type LedgerApi interface {
	Authenticate(ctx context.Context, mobileNumber, mpin string) (model.LoginResult, error)
	Signup(ctx context.Context, req model.SignupRequest) (string, error)
	Explore(ctx context.Context) (model.Catalog, error)
	FetchBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	FetchPortfolio(ctx context.Context, accountID string) ([]model.Holding, error)
}

// Guard reports whether an executor may be about to change the state a sync would overwrite.
type Guard interface {
	IsSubmitting() bool
	Generation() uint64
	// Commit runs apply only if nothing is in flight and the generation is still the given one.
	// No settlement can start or finish while apply runs.
	Commit(generation uint64, apply func()) bool
}

type Animator interface {
	Animate(target decimal.Decimal) <-chan struct{}
}

type SessionService struct {
	ledger LedgerApi
}

func New(ledger LedgerApi) *SessionService {
	return &SessionService{ledger: ledger}
}

func (s *SessionService) Login(ctx context.Context, mobileNumber, mpin string) (session *model.SessionContext, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SessionService.Login"

	slog.Debug("Login start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("Login finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	mobileNumber = strings.TrimSpace(mobileNumber)
	if err := service.ValidateRequired("mobile number", mobileNumber); err != nil {
		return nil, err
	}
	if err := service.ValidateMPIN(mpin); err != nil {
		return nil, err
	}

	login, err := s.ledger.Authenticate(ctx, mobileNumber, mpin)
	if err != nil {
		slog.Error("got error from ledger.Authenticate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return model.NewSessionContext(login), nil
}

func (s *SessionService) Signup(ctx context.Context, req model.SignupRequest) (message string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SessionService.Signup"

	slog.Debug("Signup start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("Signup finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	if err := validateSignup(req); err != nil {
		return "", err
	}

	message, err = s.ledger.Signup(ctx, req)
	if err != nil {
		slog.Error("got error from ledger.Signup", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	return message, nil
}

func (s *SessionService) Explore(ctx context.Context) (model.Catalog, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SessionService.Explore"

	catalog, err := s.ledger.Explore(ctx)
	if err != nil {
		slog.Error("got error from ledger.Explore", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return catalog, nil
}

// LoadPortfolio replaces the session holdings with a fresh snapshot.
func (s *SessionService) LoadPortfolio(ctx context.Context, session *model.SessionContext) error {
	holdings, err := s.ledger.FetchPortfolio(ctx, session.AccountID())
	if err != nil {
		return err
	}
	session.ReplaceHoldings(holdings)
	return nil
}

// SyncBalance refreshes the confirmed balance and animates the displayed one towards it.
// It returns ErrSyncSkipped when guard settled or started a transfer while the fetch was running.
func (s *SessionService) SyncBalance(ctx context.Context, session *model.SessionContext, guard Guard, animator Animator) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SessionService.SyncBalance"

	if guard.IsSubmitting() {
		return service.ErrSyncSkipped
	}
	generation := guard.Generation()

	balance, err := s.ledger.FetchBalance(ctx, session.AccountID())
	if err != nil {
		slog.Warn("can't sync balance", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	committed := guard.Commit(generation, func() {
		if balance.Equal(session.ConfirmedBalance()) {
			return
		}
		session.SetConfirmedBalance(balance)
		animator.Animate(balance)
	})
	if !committed {
		slog.Debug("balance sync skipped", slog.String("rqID", rqID), slog.String("op", op))
		return service.ErrSyncSkipped
	}

	return nil
}

// SyncPortfolio overwrites the holdings with the backend snapshot unless a trade is settling.
func (s *SessionService) SyncPortfolio(ctx context.Context, session *model.SessionContext, guard Guard) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SessionService.SyncPortfolio"

	if guard.IsSubmitting() {
		return service.ErrSyncSkipped
	}
	generation := guard.Generation()

	holdings, err := s.ledger.FetchPortfolio(ctx, session.AccountID())
	if err != nil {
		slog.Warn("can't sync portfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if !guard.Commit(generation, func() { session.ReplaceHoldings(holdings) }) {
		slog.Debug("portfolio sync skipped", slog.String("rqID", rqID), slog.String("op", op))
		return service.ErrSyncSkipped
	}

	return nil
}

func validateSignup(req model.SignupRequest) error {
	if err := service.ValidateRequired("mobile number", req.MobileNumber); err != nil {
		return err
	}
	if err := service.ValidateRequired("name", req.Name); err != nil {
		return err
	}
	if err := service.ValidateRequired("email", req.Email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return service.NewValidationError("email", "is not a valid address")
	}
	if len(req.Password) < minPasswordLength {
		return service.NewValidationError("password", "must be at least 8 characters")
	}
	return service.ValidateMPIN(req.MPIN)
}
