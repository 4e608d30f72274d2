package service

import (
	"errors"
	"testing"

	"github.com/KotFed0t/finfusion/internal/externalApi"
	"github.com/shopspring/decimal"
)

func TestValidateMPIN(t *testing.T) {
	tests := []struct {
		mpin    string
		wantErr bool
	}{
		{mpin: "123456", wantErr: false},
		{mpin: "000000", wantErr: false},
		{mpin: "12345", wantErr: true},
		{mpin: "1234567", wantErr: true},
		{mpin: "12a456", wantErr: true},
		{mpin: "", wantErr: true},
		{mpin: "١٢٣٤٥٦", wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateMPIN(tt.mpin)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMPIN(%q) err = %v, wantErr %v", tt.mpin, err, tt.wantErr)
		}
		var validationErr *ValidationError
		if err != nil && !errors.As(err, &validationErr) {
			t.Errorf("ValidateMPIN(%q) returned %T, want *ValidationError", tt.mpin, err)
		}
	}
}

func TestParsePositiveAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "500.00", want: "500"},
		{input: " 0.1 ", want: "0.1"},
		{input: "0", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePositiveAmount(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePositiveAmount(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if !tt.wantErr && !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParsePositiveAmount(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "backend message", err: externalApi.Rejected(400, "Insufficient balance"), want: "Insufficient balance"},
		{name: "rejected without message", err: externalApi.Rejected(500, ""), want: MsgTransferFailed},
		{name: "unreachable", err: externalApi.Unreachable(errors.New("dial tcp")), want: MsgNetworkError},
		{name: "unknown", err: errors.New("boom"), want: MsgTransferFailed},
		{name: "validation", err: NewValidationError("amount", "must be positive"), want: "invalid amount: must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, MsgTransferFailed); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
