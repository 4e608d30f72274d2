package transferService

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/finfusion/internal/externalApi"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

type ledgerStub struct {
	mu      sync.Mutex
	calls   []model.TransferRequest
	err     error
	receipt model.TransferReceipt
	entered chan struct{}
	release chan struct{}
}

func (l *ledgerStub) Transfer(ctx context.Context, req model.TransferRequest) (model.TransferReceipt, error) {
	l.mu.Lock()
	l.calls = append(l.calls, req)
	l.mu.Unlock()

	if l.entered != nil {
		l.entered <- struct{}{}
	}
	if l.release != nil {
		<-l.release
	}
	return l.receipt, l.err
}

func (l *ledgerStub) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func newSession(balance string) *model.SessionContext {
	return model.NewSessionContext(model.LoginResult{
		AccountID:    "9000000001",
		Name:         "Asha",
		WalletAmount: decimal.RequireFromString(balance),
		Contacts:     []model.Contact{{MobileNumber: "9000000002", Name: "Ravi"}},
	})
}

func newService(session *model.SessionContext, ledger LedgerApi) *TransferService {
	animator := NewBalanceAnimator(session, clockwork.NewFakeClock(), 0, 0, nil)
	return New(session, ledger, animator, nil)
}

var ravi = &model.Contact{MobileNumber: "9000000002", Name: "Ravi"}

func TestExecute_SettledDebitsConfirmedBalance(t *testing.T) {
	session := newSession("1000.00")
	ledger := &ledgerStub{receipt: model.TransferReceipt{TransactionID: "tx-1", Message: "Transfer successful"}}
	svc := newService(session, ledger)

	outcome, err := svc.Execute(context.Background(), ravi, "500.00", "123456", "Food")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-outcome.Animation

	if outcome.State != service.StateSettled {
		t.Errorf("state = %s, want settled", outcome.State)
	}
	if !session.ConfirmedBalance().Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("confirmed balance = %s, want 500", session.ConfirmedBalance())
	}
	if !session.DisplayedBalance().Equal(session.ConfirmedBalance()) {
		t.Errorf("displayed %s != confirmed %s", session.DisplayedBalance(), session.ConfirmedBalance())
	}
	if outcome.TransactionID != "tx-1" {
		t.Errorf("transaction id = %q", outcome.TransactionID)
	}

	form := svc.Form()
	if form.Contact != nil || form.Amount != "" || form.MPIN != "" || form.Category != "" {
		t.Errorf("form not cleared: %+v", form)
	}

	req := ledger.calls[0]
	if req.SenderID != "9000000001" || req.ReceiverID != "9000000002" || req.Category != "Food" {
		t.Errorf("unexpected request %+v", req)
	}
	if req.ClientRequestID == "" {
		t.Errorf("client request id not set")
	}
}

func TestExecute_ShortMPINNeverCallsLedger(t *testing.T) {
	session := newSession("1000.00")
	ledger := &ledgerStub{}
	svc := newService(session, ledger)

	_, err := svc.Execute(context.Background(), ravi, "500.00", "12345", "Food")

	var validationErr *service.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ledger.callCount() != 0 {
		t.Errorf("ledger called %d times", ledger.callCount())
	}
	if svc.State() != service.StateIdle {
		t.Errorf("state = %s, want idle", svc.State())
	}
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name     string
		contact  *model.Contact
		amount   string
		category string
		field    string
	}{
		{name: "no contact", contact: nil, amount: "10", category: "Food", field: "contact"},
		{name: "zero amount", contact: ravi, amount: "0", category: "Food", field: "amount"},
		{name: "garbage amount", contact: ravi, amount: "ten", category: "Food", field: "amount"},
		{name: "blank category", contact: ravi, amount: "10", category: "  ", field: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &ledgerStub{}
			svc := newService(newSession("100"), ledger)

			_, err := svc.Execute(context.Background(), tt.contact, tt.amount, "123456", tt.category)

			var validationErr *service.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("field = %q, want %q", validationErr.Field, tt.field)
			}
			if ledger.callCount() != 0 {
				t.Errorf("ledger called")
			}
		})
	}
}

func TestExecute_FailureKeepsBalanceAndInputs(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "rejected with message", err: externalApi.Rejected(400, "Insufficient balance"), message: "Insufficient balance"},
		{name: "rejected without message", err: externalApi.Rejected(500, ""), message: service.MsgTransferFailed},
		{name: "unreachable", err: externalApi.Unreachable(errors.New("timeout")), message: service.MsgNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newSession("1000.00")
			svc := newService(session, &ledgerStub{err: tt.err})

			outcome, err := svc.Execute(context.Background(), ravi, "500.00", "123456", "Food")
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if outcome.State != service.StateFailed {
				t.Errorf("state = %s, want failed", outcome.State)
			}
			if outcome.Message != tt.message {
				t.Errorf("message = %q, want %q", outcome.Message, tt.message)
			}
			if !session.ConfirmedBalance().Equal(decimal.RequireFromString("1000")) {
				t.Errorf("confirmed balance changed to %s", session.ConfirmedBalance())
			}
			if !session.DisplayedBalance().Equal(decimal.RequireFromString("1000")) {
				t.Errorf("displayed balance changed to %s", session.DisplayedBalance())
			}

			form := svc.Form()
			if form.Contact == nil || form.Amount != "500.00" || form.MPIN != "123456" || form.Category != "Food" {
				t.Errorf("inputs not kept: %+v", form)
			}
			if svc.Generation() != 0 {
				t.Errorf("generation = %d, want 0", svc.Generation())
			}
		})
	}
}

func TestExecute_RetryAfterFailureUsesNewRequestID(t *testing.T) {
	session := newSession("1000.00")
	ledger := &ledgerStub{err: externalApi.Unreachable(errors.New("timeout"))}
	svc := newService(session, ledger)

	_, _ = svc.Execute(context.Background(), ravi, "100", "123456", "Food")
	ledger.err = nil
	if _, err := svc.Submit(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}

	if ledger.calls[0].ClientRequestID == ledger.calls[1].ClientRequestID {
		t.Errorf("retry reused request id %q", ledger.calls[0].ClientRequestID)
	}
	if !session.ConfirmedBalance().Equal(decimal.NewFromInt(900)) {
		t.Errorf("confirmed balance = %s, want 900", session.ConfirmedBalance())
	}
}

func TestExecute_RejectsWhileSubmitting(t *testing.T) {
	session := newSession("1000.00")
	ledger := &ledgerStub{entered: make(chan struct{}), release: make(chan struct{})}
	svc := newService(session, ledger)

	result := make(chan error, 1)
	go func() {
		_, err := svc.Execute(context.Background(), ravi, "100", "123456", "Food")
		result <- err
	}()

	<-ledger.entered
	if !svc.IsSubmitting() {
		t.Errorf("expected submitting state")
	}

	_, err := svc.Execute(context.Background(), ravi, "100", "123456", "Food")
	if !errors.Is(err, service.ErrSubmissionInFlight) {
		t.Errorf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(ledger.release)
	if err := <-result; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if ledger.callCount() != 1 {
		t.Errorf("ledger called %d times, want 1", ledger.callCount())
	}
	if svc.Generation() != 1 {
		t.Errorf("generation = %d, want 1", svc.Generation())
	}
}

func TestCommit_RefusedWhileSubmittingOrAfterSettlement(t *testing.T) {
	session := newSession("1000.00")
	ledger := &ledgerStub{entered: make(chan struct{}), release: make(chan struct{})}
	svc := newService(session, ledger)

	before := svc.Generation()

	result := make(chan error, 1)
	go func() {
		_, err := svc.Execute(context.Background(), ravi, "100", "123456", "Food")
		result <- err
	}()

	<-ledger.entered
	applied := false
	if svc.Commit(before, func() { applied = true }) || applied {
		t.Fatal("commit ran while a transfer was in flight")
	}

	close(ledger.release)
	if err := <-result; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.Commit(before, func() { applied = true }) || applied {
		t.Fatal("commit ran with a generation read before the settlement")
	}
	if !svc.Commit(svc.Generation(), func() { applied = true }) || !applied {
		t.Fatal("commit refused with the current generation")
	}
}

func TestCommit_SettlementWaitsForApply(t *testing.T) {
	session := newSession("1000.00")
	ledger := &ledgerStub{}
	svc := newService(session, ledger)

	result := make(chan error, 1)
	committed := svc.Commit(svc.Generation(), func() {
		go func() {
			_, err := svc.Execute(context.Background(), ravi, "100", "123456", "Food")
			result <- err
		}()
		time.Sleep(20 * time.Millisecond)
		if ledger.callCount() != 0 {
			t.Error("transfer started while a sync was being applied")
		}
		session.SetConfirmedBalance(decimal.NewFromInt(2000))
	})
	if !committed {
		t.Fatal("commit refused")
	}

	if err := <-result; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.ConfirmedBalance().Equal(decimal.NewFromInt(1900)) {
		t.Errorf("confirmed = %s, want the settlement applied on top of the sync", session.ConfirmedBalance())
	}
}

func TestBalanceAnimator_InterpolatesAndSettles(t *testing.T) {
	session := newSession("1000")
	session.SetConfirmedBalance(decimal.NewFromInt(500))
	clock := clockwork.NewFakeClock()

	var mu sync.Mutex
	var frames []decimal.Decimal
	animator := NewBalanceAnimator(session, clock, time.Second, 100*time.Millisecond, func(b decimal.Decimal) {
		mu.Lock()
		frames = append(frames, b)
		mu.Unlock()
	})

	done := animator.Animate(decimal.NewFromInt(500))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker not started: %v", err)
	}

	clock.Advance(500 * time.Millisecond)
	waitFor(t, func() bool { return session.DisplayedBalance().Equal(decimal.NewFromInt(750)) })

	clock.Advance(500 * time.Millisecond)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("animation did not finish")
	}

	if !session.DisplayedBalance().Equal(decimal.NewFromInt(500)) {
		t.Errorf("displayed = %s, want 500", session.DisplayedBalance())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(frames) < 2 || !frames[len(frames)-1].Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected frames %v", frames)
	}
}

func TestBalanceAnimator_SettleStopsAnimation(t *testing.T) {
	session := newSession("1000")
	session.SetConfirmedBalance(decimal.NewFromInt(400))
	clock := clockwork.NewFakeClock()
	animator := NewBalanceAnimator(session, clock, time.Second, 100*time.Millisecond, nil)

	done := animator.Animate(decimal.NewFromInt(400))
	animator.Settle()

	select {
	case <-done:
	default:
		t.Fatal("animation still running after Settle")
	}
	if !session.DisplayedBalance().Equal(decimal.NewFromInt(400)) {
		t.Errorf("displayed = %s, want 400", session.DisplayedBalance())
	}
}

func TestBalanceAnimator_SupersedeStartsFromDisplayed(t *testing.T) {
	session := newSession("1000")
	session.SetConfirmedBalance(decimal.NewFromInt(500))
	clock := clockwork.NewFakeClock()
	animator := NewBalanceAnimator(session, clock, time.Second, 100*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	first := animator.Animate(decimal.NewFromInt(500))
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker not started: %v", err)
	}
	clock.Advance(500 * time.Millisecond)
	waitFor(t, func() bool { return session.DisplayedBalance().Equal(decimal.NewFromInt(750)) })

	session.SetConfirmedBalance(decimal.NewFromInt(250))
	second := animator.Animate(decimal.NewFromInt(250))

	select {
	case <-first:
	default:
		t.Fatal("first animation still running after being superseded")
	}
	if !session.DisplayedBalance().Equal(decimal.NewFromInt(750)) {
		t.Fatalf("displayed = %s, want 750 right after supersede", session.DisplayedBalance())
	}

	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("second ticker not started: %v", err)
	}
	// halfway from 750 to 250
	clock.Advance(500 * time.Millisecond)
	waitFor(t, func() bool { return session.DisplayedBalance().Equal(decimal.NewFromInt(500)) })

	clock.Advance(500 * time.Millisecond)
	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("second animation did not finish")
	}

	if !session.DisplayedBalance().Equal(decimal.NewFromInt(250)) || !session.ConfirmedBalance().Equal(decimal.NewFromInt(250)) {
		t.Errorf("displayed = %s confirmed = %s, want 250 both", session.DisplayedBalance(), session.ConfirmedBalance())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
