package tradeService

import (
	"context"
	"log/slog"
	"strings"
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
	SubmitTrade(ctx context.Context, req model.TradeRequest) (model.TradeReceipt, error)
	FetchPortfolio(ctx context.Context, accountID string) ([]model.Holding, error)
}

type Metrics interface {
	ObserveTrade(side, outcome string, duration time.Duration)
}

type Outcome struct {
	State         service.State
	Side          model.Side
	Symbol        string
	Quantity      int
	PricePerShare decimal.Decimal
	Message       string
	// Reconciled is false when the portfolio re-fetch after a settled trade failed
	// and the optimistic holdings are still shown.
	Reconciled bool
	Holding    model.Holding
}

// TradeService is the trade executor. Unlike transfers, a settled trade is reflected locally
// right away and then overwritten by the authoritative portfolio.
type TradeService struct {
	session *model.SessionContext
	ledger  LedgerApi
	metrics Metrics

	mu         sync.Mutex
	state      service.State
	generation atomic.Uint64
}

func New(session *model.SessionContext, ledger LedgerApi, m Metrics) *TradeService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &TradeService{
		session: session,
		ledger:  ledger,
		metrics: m,
	}
}

func (s *TradeService) State() service.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *TradeService) IsSubmitting() bool {
	return s.State() == service.StateSubmitting
}

// Generation increases every time a settled trade changed the local portfolio.
func (s *TradeService) Generation() uint64 {
	return s.generation.Load()
}

// Commit runs apply under the executor lock when no submission is in flight
// and no settlement happened since generation was read.
func (s *TradeService) Commit(generation uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == service.StateSubmitting || s.generation.Load() != generation {
		return false
	}
	apply()
	return true
}

func (s *TradeService) Execute(ctx context.Context, side model.Side, symbol, companyName string, quantity int, pricePerShare decimal.Decimal) (outcome Outcome, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeService.Execute"
	startedAt := time.Now()
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	slog.Debug("Execute start", slog.String("rqID", rqID), slog.String("op", op), slog.String("side", string(side)), slog.String("symbol", symbol), slog.Int("quantity", quantity))
	defer func() {
		if err != nil {
			slog.Info("Execute failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("state", outcome.State.String()), slog.String("err", err.Error()))
		} else {
			slog.Debug("Execute completed", slog.String("rqID", rqID), slog.String("op", op), slog.Bool("reconciled", outcome.Reconciled))
		}
	}()

	outcome = Outcome{Side: side, Symbol: symbol, Quantity: quantity, PricePerShare: pricePerShare}

	s.mu.Lock()
	if s.state == service.StateSubmitting {
		s.mu.Unlock()
		outcome.State = service.StateSubmitting
		return outcome, service.ErrSubmissionInFlight
	}
	outcome.State = s.state

	if err := s.validate(side, symbol, quantity, pricePerShare); err != nil {
		s.mu.Unlock()
		s.metrics.ObserveTrade(string(side), metrics.OutcomeInvalid, time.Since(startedAt))
		outcome.Message = service.UserMessage(err, service.MsgTradeFailed)
		return outcome, err
	}
	s.state = service.StateSubmitting
	s.mu.Unlock()

	if companyName == "" {
		if h, ok := s.session.Holding(symbol); ok {
			companyName = h.Name
		}
	}

	receipt, err := s.ledger.SubmitTrade(ctx, model.TradeRequest{
		ClientRequestID: uuid.NewString(),
		AccountID:       s.session.AccountID(),
		Symbol:          symbol,
		CompanyName:     companyName,
		Quantity:        quantity,
		PricePerShare:   pricePerShare,
		Side:            side,
	})
	if err != nil {
		s.setState(service.StateFailed)
		s.metrics.ObserveTrade(string(side), failureOutcome(err), time.Since(startedAt))
		outcome.State = service.StateFailed
		outcome.Message = service.UserMessage(err, service.MsgTradeFailed)
		return outcome, err
	}

	s.session.UpdateHoldings(func(holdings []model.Holding) []model.Holding {
		return ApplyTrade(holdings, side, symbol, companyName, quantity, pricePerShare)
	})
	s.generation.Add(1)

	outcome.Reconciled = s.reconcile(ctx)
	outcome.State = service.StateSettled
	outcome.Message = receipt.Message
	outcome.Holding, _ = s.session.Holding(symbol)

	s.setState(service.StateSettled)
	s.metrics.ObserveTrade(string(side), metrics.OutcomeSettled, time.Since(startedAt))

	return outcome, nil
}

// reconcile overwrites the local portfolio with the backend snapshot. The backend always wins.
func (s *TradeService) reconcile(ctx context.Context) bool {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradeService.reconcile"

	holdings, err := s.ledger.FetchPortfolio(ctx, s.session.AccountID())
	if err != nil {
		slog.Warn("can't reconcile portfolio, keeping optimistic holdings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return false
	}

	s.session.ReplaceHoldings(holdings)
	return true
}

func (s *TradeService) validate(side model.Side, symbol string, quantity int, pricePerShare decimal.Decimal) error {
	if _, err := model.ParseSide(string(side)); err != nil {
		return service.NewValidationError("side", "must be buy or sell")
	}
	if err := service.ValidateRequired("symbol", symbol); err != nil {
		return err
	}
	if err := service.ValidatePositiveQuantity(quantity); err != nil {
		return err
	}
	if err := service.ValidatePositiveDecimal("price", pricePerShare); err != nil {
		return err
	}

	if side == model.SideSell {
		held := 0
		if h, ok := s.session.Holding(symbol); ok {
			held = h.Quantity
		}
		if quantity > held {
			return &service.InsufficientHoldingError{Symbol: symbol, Held: held, Requested: quantity}
		}
	}

	return nil
}

func (s *TradeService) setState(state service.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// ApplyTrade returns holdings with the signed quantity delta applied to symbol and its total value
// recomputed at the holding's own price per share. Buying an unheld symbol appends a new holding
// priced at pricePerShare. A holding that reaches zero shares is kept.
func ApplyTrade(holdings []model.Holding, side model.Side, symbol, companyName string, quantity int, pricePerShare decimal.Decimal) []model.Holding {
	delta := side.Sign() * quantity

	for i := range holdings {
		if holdings[i].Symbol != symbol {
			continue
		}
		holdings[i].Quantity += delta
		if holdings[i].Quantity < 0 {
			holdings[i].Quantity = 0
		}
		if holdings[i].PricePerShare.IsZero() {
			holdings[i].PricePerShare = pricePerShare
		}
		holdings[i].Revalue()
		return holdings
	}

	if delta <= 0 {
		return holdings
	}

	h := model.Holding{
		Symbol:        symbol,
		Name:          companyName,
		Quantity:      delta,
		PricePerShare: pricePerShare,
	}
	h.Revalue()
	return append(holdings, h)
}

func failureOutcome(err error) string {
	if service.IsRejected(err) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeFailed
}
