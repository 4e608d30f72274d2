package service

import (
	"errors"
	"fmt"

	"github.com/KotFed0t/finfusion/internal/externalApi"
)

var (
	ErrSubmissionInFlight = errors.New("error submission already in flight")
	ErrAwaitingResponse   = errors.New("error awaiting response to previous question")
	ErrSyncSkipped        = errors.New("error sync skipped while an operation is settling")
)

const (
	MsgTransferFailed  = "Failed to complete the transaction."
	MsgTradeFailed     = "Failed to complete the trade."
	MsgNetworkError    = "Network error. Try again."
	MsgAssistantFailed = "Sorry, there was an error processing your request."
)

// ValidationError is a failed local precondition. It never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

type InsufficientHoldingError struct {
	Symbol    string
	Held      int
	Requested int
}

func (e *InsufficientHoldingError) Error() string {
	return fmt.Sprintf("insufficient holding of %s: held %d, requested %d", e.Symbol, e.Held, e.Requested)
}

// UserMessage turns an operation error into text fit for the user.
// Backend messages are passed through, unreachable errors get the network message.
func UserMessage(err error, fallback string) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	var holdingErr *InsufficientHoldingError
	if errors.As(err, &holdingErr) {
		return holdingErr.Error()
	}

	var opErr *externalApi.OperationError
	if errors.As(err, &opErr) {
		if opErr.Kind == externalApi.KindUnreachable {
			return MsgNetworkError
		}
		if opErr.Message != "" {
			return opErr.Message
		}
	}

	return fallback
}

func IsRejected(err error) bool {
	return errors.Is(err, externalApi.ErrRejected)
}
