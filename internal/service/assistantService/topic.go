package assistantService

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/finfusion/internal/model"
)

// Topic is something the user can ask about without typing the question.
type Topic interface {
	Question() string
}

type HoldingTopic struct {
	Holding model.Holding
}

func (t HoldingTopic) Question() string {
	h := t.Holding
	q := fmt.Sprintf("Tell me about my holding in %s (%s): %d shares at %s per share, total value %s.",
		h.Name, h.Symbol, h.Quantity, h.PricePerShare.StringFixed(2), h.TotalValue.StringFixed(2))
	if h.Sentiment != "" {
		q += fmt.Sprintf(" Market sentiment is %s.", h.Sentiment)
	}
	return q + " Should I buy more, hold or sell?"
}

type CompanyTopic struct {
	Company model.Company
}

func (t CompanyTopic) Question() string {
	c := t.Company
	q := fmt.Sprintf("Tell me about %s (%s).", c.CompanyName, c.TickerSymbol)
	if c.Information != "" {
		q += " " + c.Information
	}
	return q + " Is it a good fit for my portfolio?"
}

type CategoryTopic struct {
	Name      string
	Companies []model.Company
}

func (t CategoryTopic) Question() string {
	names := make([]string, 0, len(t.Companies))
	for _, c := range t.Companies {
		names = append(names, fmt.Sprintf("%s (%s)", c.CompanyName, c.TickerSymbol))
	}
	q := fmt.Sprintf("Tell me about investing in the %s category.", t.Name)
	if len(names) > 0 {
		q += " It includes " + strings.Join(names, ", ") + "."
	}
	return q
}
