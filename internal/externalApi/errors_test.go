package externalApi

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestOperationErrorIs(t *testing.T) {
	rejected := fmt.Errorf("transfer: %w", Rejected(400, "insufficient funds"))
	if !errors.Is(rejected, ErrRejected) {
		t.Error("expected rejected error to match ErrRejected")
	}
	if errors.Is(rejected, ErrUnreachable) {
		t.Error("rejected error must not match ErrUnreachable")
	}

	unreachable := Unreachable(context.DeadlineExceeded)
	if !errors.Is(unreachable, ErrUnreachable) {
		t.Error("expected unreachable error to match ErrUnreachable")
	}
	if !errors.Is(unreachable, context.DeadlineExceeded) {
		t.Error("expected cause to be unwrapped")
	}

	var opErr *OperationError
	if !errors.As(rejected, &opErr) || opErr.Message != "insufficient funds" || opErr.Status != 400 {
		t.Errorf("unexpected operation error %+v", opErr)
	}
}

func TestOperationErrorMessage(t *testing.T) {
	cases := []struct {
		err  *OperationError
		want string
	}{
		{err: Rejected(400, "bad"), want: "rejected with status 400: bad"},
		{err: Rejected(500, ""), want: "rejected with status 500"},
		{err: Unreachable(errors.New("dial tcp")), want: "unreachable: dial tcp"},
		{err: Unreachable(nil), want: "unreachable"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestBackendMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{body: `{"message": "Insufficient balance"}`, want: "Insufficient balance"},
		{body: `{"error": "User not found"}`, want: "User not found"},
		{body: `{"message": "first", "error": "second"}`, want: "first"},
		{body: `{}`, want: ""},
		{body: `<html>bad gateway</html>`, want: ""},
		{body: ``, want: ""},
	}

	for _, tt := range tests {
		if got := BackendMessage([]byte(tt.body)); got != tt.want {
			t.Errorf("BackendMessage(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
