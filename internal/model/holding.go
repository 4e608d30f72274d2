package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

type PricePoint struct {
	Time  time.Time
	Label string // raw timestamp as sent by the backend
	Price decimal.Decimal
}

type Holding struct {
	Symbol        string
	Name          string
	Quantity      int
	PricePerShare decimal.Decimal
	TotalValue    decimal.Decimal
	Sentiment     string
	LastRefreshed string
	PriceHistory  map[Period][]PricePoint
}

func (h Holding) History(period Period) []PricePoint {
	return append([]PricePoint(nil), h.PriceHistory[period]...)
}

// Revalue recomputes TotalValue from Quantity and PricePerShare.
func (h *Holding) Revalue() {
	h.TotalValue = h.PricePerShare.Mul(decimal.NewFromInt(int64(h.Quantity)))
}

func (h Holding) Clone() Holding {
	if h.PriceHistory == nil {
		return h
	}
	history := make(map[Period][]PricePoint, len(h.PriceHistory))
	for period, points := range h.PriceHistory {
		history[period] = append([]PricePoint(nil), points...)
	}
	h.PriceHistory = history
	return h
}
