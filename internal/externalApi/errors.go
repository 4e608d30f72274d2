package externalApi

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrRejected    = errors.New("rejected by remote service")
	ErrUnreachable = errors.New("remote service unreachable")
)

type Kind int

const (
	KindRejected Kind = iota + 1
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// OperationError is returned by every remote call. Rejected carries the HTTP status and
// the backend message when the backend sent one; Unreachable means no response arrived.
type OperationError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	switch {
	case e.Kind == KindRejected && e.Message != "":
		return fmt.Sprintf("rejected with status %d: %s", e.Status, e.Message)
	case e.Kind == KindRejected:
		return fmt.Sprintf("rejected with status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("unreachable: %s", e.Err.Error())
	default:
		return "unreachable"
	}
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (e *OperationError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return e.Kind == KindRejected
	case ErrUnreachable:
		return e.Kind == KindUnreachable
	}
	return false
}

func Rejected(status int, message string) *OperationError {
	return &OperationError{Kind: KindRejected, Status: status, Message: message}
}

func RejectedWithErr(status int, message string, err error) *OperationError {
	return &OperationError{Kind: KindRejected, Status: status, Message: message, Err: err}
}

func Unreachable(err error) *OperationError {
	return &OperationError{Kind: KindUnreachable, Err: err}
}

// BackendMessage extracts the "message" field, or "error" when message is absent,
// from a JSON error body. Anything else yields "".
func BackendMessage(body []byte) string {
	msg := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}
	if err := json.Unmarshal(body, &msg); err != nil {
		return ""
	}
	if msg.Message != "" {
		return msg.Message
	}
	return msg.Error
}
