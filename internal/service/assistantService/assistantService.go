package assistantService

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/finfusion/internal/metrics"
	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/utils"
)

const Greeting = "Hello, how can I help you?"

type LedgerApi interface {
	FetchFinancialSummary(ctx context.Context, accountID string) (model.FinancialSummary, error)
}

type Relay interface {
	Relay(ctx context.Context, prompt string) (string, error)
}

type Metrics interface {
	ObserveAsk(outcome string, duration time.Duration)
}

// Reply is the pair of transcript entries produced by one question.
type Reply struct {
	Question model.ChatMessage
	Answer   model.ChatMessage
	Failed   bool
}

// AssistantService assembles the conversational context for one chat session.
// Only one question is in flight at a time, so replies land in submission order.
type AssistantService struct {
	ledger       LedgerApi
	relay        Relay
	metrics      Metrics
	conversation *model.Conversation
	inFlight     chan struct{}
}

func New(ledger LedgerApi, relay Relay, m Metrics) *AssistantService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &AssistantService{
		ledger:       ledger,
		relay:        relay,
		metrics:      m,
		conversation: model.NewConversation(Greeting),
		inFlight:     make(chan struct{}, 1),
	}
}

func (s *AssistantService) Conversation() *model.Conversation {
	return s.conversation
}

// Ask waits for the previous question to be answered, then runs the pipeline.
// Waiting ends early when ctx is done, in which case nothing is appended.
func (s *AssistantService) Ask(ctx context.Context, text, accountID string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, service.NewValidationError("message", "is empty")
	}

	select {
	case s.inFlight <- struct{}{}:
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
	defer func() { <-s.inFlight }()

	return s.ask(ctx, text, accountID)
}

// TryAsk is Ask without queueing: it fails with ErrAwaitingResponse while a question is in flight.
func (s *AssistantService) TryAsk(ctx context.Context, text, accountID string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, service.NewValidationError("message", "is empty")
	}

	select {
	case s.inFlight <- struct{}{}:
	default:
		return Reply{}, service.ErrAwaitingResponse
	}
	defer func() { <-s.inFlight }()

	return s.ask(ctx, text, accountID)
}

func (s *AssistantService) AskAbout(ctx context.Context, topic Topic, accountID string) (Reply, error) {
	return s.Ask(ctx, topic.Question(), accountID)
}

// ask runs fetch summary -> enrich -> relay. Every exit appends exactly one assistant message.
func (s *AssistantService) ask(ctx context.Context, text, accountID string) (reply Reply, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AssistantService.ask"
	startedAt := time.Now()

	slog.Debug("ask start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("ask failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			s.metrics.ObserveAsk(metrics.OutcomeFailed, time.Since(startedAt))
		} else {
			slog.Debug("ask completed", slog.String("rqID", rqID), slog.String("op", op))
			s.metrics.ObserveAsk(metrics.OutcomeSettled, time.Since(startedAt))
		}
	}()

	s.conversation.SetAwaitingResponse(true)
	defer s.conversation.SetAwaitingResponse(false)

	reply.Question = s.conversation.Append(model.SenderUser, text)

	summary, err := s.ledger.FetchFinancialSummary(ctx, accountID)
	if err != nil {
		reply.Answer = s.conversation.Append(model.SenderAssistant, service.MsgAssistantFailed)
		reply.Failed = true
		return reply, fmt.Errorf("fetch financial summary: %w", err)
	}

	answer, err := s.relay.Relay(ctx, BuildPrompt(text, summary))
	if err != nil {
		reply.Answer = s.conversation.Append(model.SenderAssistant, service.MsgAssistantFailed)
		reply.Failed = true
		return reply, fmt.Errorf("relay prompt: %w", err)
	}

	reply.Answer = s.conversation.Append(model.SenderAssistant, answer)
	return reply, nil
}

// BuildPrompt appends the summary to the user's text as context for the model.
func BuildPrompt(text string, summary model.FinancialSummary) string {
	return text + "\n\nContext (my financial summary, JSON): " + serializeSummary(summary)
}

func serializeSummary(summary model.FinancialSummary) string {
	if len(summary.Raw) > 0 {
		buf := bytes.Buffer{}
		if err := json.Compact(&buf, summary.Raw); err == nil {
			return buf.String()
		}
		return string(summary.Raw)
	}

	doc := map[string]json.RawMessage{}
	for key, value := range map[string]json.RawMessage{
		"breakdown_of_cost":   summary.BreakdownOfCost,
		"net_worth_value":     summary.NetWorthValue,
		"portfolio_breakdown": summary.PortfolioBreakdown,
		"performance_metrics": summary.PerformanceMetrics,
	} {
		if len(value) > 0 {
			doc[key] = value
		}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(out)
}
