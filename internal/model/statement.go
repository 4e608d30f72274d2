package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Statement struct {
	AccountID   string
	DisplayName string
	Currency    string
	Balance     decimal.Decimal
	Holdings    []Holding
	GeneratedAt time.Time
}
