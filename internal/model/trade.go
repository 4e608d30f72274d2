package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func ParseSide(s string) (Side, error) {
	switch side := Side(s); side {
	case SideBuy, SideSell:
		return side, nil
	default:
		return "", fmt.Errorf("unknown trade side %q", s)
	}
}

// Sign is +1 for a buy and -1 for a sell.
func (s Side) Sign() int {
	if s == SideSell {
		return -1
	}
	return 1
}

type TradeRequest struct {
	ClientRequestID string
	AccountID       string
	Symbol          string
	CompanyName     string
	Quantity        int
	PricePerShare   decimal.Decimal
	Side            Side
}

type TradeReceipt struct {
	Message string
}
