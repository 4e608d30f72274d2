package transferService

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KotFed0t/finfusion/internal/metrics"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerApi interface {
	Transfer(ctx context.Context, req model.TransferRequest) (model.TransferReceipt, error)
}

type Metrics interface {
	ObserveTransfer(outcome string, duration time.Duration)
}

// Form holds the user inputs between submissions. It survives a failure and is cleared on settlement.
type Form struct {
	Contact  *model.Contact
	Amount   string
	MPIN     string
	Category string
}

type Outcome struct {
	State            service.State
	Receiver         model.Contact
	Amount           decimal.Decimal
	TransactionID    string
	Message          string
	ConfirmedBalance decimal.Decimal
	// Animation is closed once the displayed balance has reached ConfirmedBalance.
	Animation <-chan struct{}
}

// TransferService is the transfer executor. The balance is only touched after the backend accepted
// the transfer, so funds are never shown as spent before they are.
type TransferService struct {
	session  *model.SessionContext
	ledger   LedgerApi
	animator *BalanceAnimator
	metrics  Metrics

	mu         sync.Mutex
	state      service.State
	form       Form
	generation atomic.Uint64
}

func New(session *model.SessionContext, ledger LedgerApi, animator *BalanceAnimator, m Metrics) *TransferService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &TransferService{
		session:  session,
		ledger:   ledger,
		animator: animator,
		metrics:  m,
	}
}

// Execute fills the form with the given inputs and submits it.
func (s *TransferService) Execute(ctx context.Context, contact *model.Contact, amountInput, mpinInput, category string) (Outcome, error) {
	s.SetForm(Form{Contact: contact, Amount: amountInput, MPIN: mpinInput, Category: category})
	return s.Submit(ctx)
}

func (s *TransferService) SetForm(form Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if form.Contact != nil {
		contact := *form.Contact
		form.Contact = &contact
	}
	s.form = form
}

func (s *TransferService) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *TransferService) State() service.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *TransferService) IsSubmitting() bool {
	return s.State() == service.StateSubmitting
}

// Generation increases every time a settlement changed the confirmed balance.
func (s *TransferService) Generation() uint64 {
	return s.generation.Load()
}

// Commit runs apply under the executor lock when no submission is in flight
// and no settlement happened since generation was read.
func (s *TransferService) Commit(generation uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == service.StateSubmitting || s.generation.Load() != generation {
		return false
	}
	apply()
	return true
}

// Submit validates the current form and sends it to the ledger.
func (s *TransferService) Submit(ctx context.Context) (outcome Outcome, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TransferService.Submit"
	startedAt := time.Now()

	slog.Debug("Submit start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Info("Submit failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("state", outcome.State.String()), slog.String("err", err.Error()))
		} else {
			slog.Debug("Submit completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("transactionID", outcome.TransactionID))
		}
	}()

	s.mu.Lock()
	if s.state == service.StateSubmitting {
		s.mu.Unlock()
		return Outcome{State: service.StateSubmitting}, service.ErrSubmissionInFlight
	}
	form := s.form
	prevState := s.state

	amount, err := validate(form)
	if err != nil {
		s.mu.Unlock()
		s.metrics.ObserveTransfer(metrics.OutcomeInvalid, time.Since(startedAt))
		return Outcome{State: prevState, Message: service.UserMessage(err, service.MsgTransferFailed)}, err
	}
	s.state = service.StateSubmitting
	s.mu.Unlock()

	req := model.TransferRequest{
		ClientRequestID: uuid.NewString(),
		SenderID:        s.session.AccountID(),
		ReceiverID:      form.Contact.MobileNumber,
		Amount:          amount,
		Category:        form.Category,
		MPIN:            form.MPIN,
	}

	receipt, err := s.ledger.Transfer(ctx, req)
	if err != nil {
		s.mu.Lock()
		s.state = service.StateFailed
		s.mu.Unlock()

		s.metrics.ObserveTransfer(failureOutcome(err), time.Since(startedAt))
		return Outcome{
			State:            service.StateFailed,
			Receiver:         *form.Contact,
			Amount:           amount,
			Message:          service.UserMessage(err, service.MsgTransferFailed),
			ConfirmedBalance: s.session.ConfirmedBalance(),
		}, err
	}

	s.mu.Lock()
	confirmed := s.session.DebitConfirmedBalance(amount)
	s.generation.Add(1)
	s.state = service.StateSettled
	s.form = Form{}
	s.mu.Unlock()

	s.metrics.ObserveTransfer(metrics.OutcomeSettled, time.Since(startedAt))

	return Outcome{
		State:            service.StateSettled,
		Receiver:         *form.Contact,
		Amount:           amount,
		TransactionID:    receipt.TransactionID,
		Message:          receipt.Message,
		ConfirmedBalance: confirmed,
		Animation:        s.animator.Animate(confirmed),
	}, nil
}

func validate(form Form) (decimal.Decimal, error) {
	if err := service.ValidateMPIN(form.MPIN); err != nil {
		return decimal.Decimal{}, err
	}

	amount, err := service.ParsePositiveAmount(form.Amount)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if form.Contact == nil || form.Contact.MobileNumber == "" {
		return decimal.Decimal{}, service.NewValidationError("contact", "must be selected")
	}

	if err := service.ValidateRequired("category", form.Category); err != nil {
		return decimal.Decimal{}, err
	}

	return amount, nil
}

func failureOutcome(err error) string {
	if service.IsRejected(err) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeFailed
}
