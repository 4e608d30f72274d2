package cliConverter

import (
	"strings"
	"testing"
	"time"

	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/internal/service/assistantService"
	"github.com/KotFed0t/finfusion/internal/service/transferService"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{amount: "1000.50", code: "USD", want: "$1,000.50"},
		{amount: "0.1", code: "USD", want: "$0.10"},
		{amount: "12.5", code: "XXX-NOT-A-CODE", want: "12.50 XXX-NOT-A-CODE"},
	}

	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.amount), tt.code); got != tt.want {
			t.Errorf("FormatMoney(%s, %s) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}

func TestPortfolioText(t *testing.T) {
	h := model.Holding{
		Symbol:        "TCS",
		Name:          "Tata Consultancy",
		Quantity:      2,
		PricePerShare: decimal.NewFromInt(100),
		Sentiment:     "Bullish",
		PriceHistory: map[model.Period][]model.PricePoint{
			model.PeriodWeek: {
				{Time: time.Now(), Price: decimal.NewFromInt(80)},
				{Time: time.Now(), Price: decimal.NewFromInt(100)},
			},
		},
	}
	h.Revalue()

	text := PortfolioText([]model.Holding{h}, model.PeriodWeek, "USD")

	for _, want := range []string{"TCS (Tata Consultancy)", "Quantity: 2", "Value: $200.00", "Weekly: 80.00 → 100.00 (+25.00%)", "Total: $200.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("portfolio text missing %q:\n%s", want, text)
		}
	}
}

func TestTransferOutcomeText(t *testing.T) {
	settled := transferService.Outcome{
		State:            service.StateSettled,
		Receiver:         model.Contact{Name: "Ravi", MobileNumber: "9000000002"},
		Amount:           decimal.NewFromInt(500),
		ConfirmedBalance: decimal.NewFromInt(500),
	}
	if got := TransferOutcomeText(settled, "USD"); !strings.Contains(got, "Sent $500.00 to Ravi") {
		t.Errorf("unexpected text %q", got)
	}

	failed := transferService.Outcome{State: service.StateFailed, Message: "Insufficient balance"}
	if got := TransferOutcomeText(failed, "USD"); got != "❌ Insufficient balance\n" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestAskAboutTopic(t *testing.T) {
	holdings := []model.Holding{{Symbol: "TCS", Name: "Tata Consultancy"}}
	catalog := model.Catalog{"Tech": {{CompanyName: "Infosys", TickerSymbol: "INFY"}}}

	if topic, ok := AskAboutTopic("tcs", holdings, catalog); !ok {
		t.Error("holding not found")
	} else if _, isHolding := topic.(assistantService.HoldingTopic); !isHolding {
		t.Errorf("expected HoldingTopic, got %T", topic)
	}

	if topic, ok := AskAboutTopic("INFY", holdings, catalog); !ok {
		t.Error("company not found")
	} else if _, isCompany := topic.(assistantService.CompanyTopic); !isCompany {
		t.Errorf("expected CompanyTopic, got %T", topic)
	}

	if topic, ok := AskAboutTopic("tech", holdings, catalog); !ok {
		t.Error("category not found")
	} else if _, isCategory := topic.(assistantService.CategoryTopic); !isCategory {
		t.Errorf("expected CategoryTopic, got %T", topic)
	}

	if _, ok := AskAboutTopic("NOPE", holdings, catalog); ok {
		t.Error("unexpected topic for unknown symbol")
	}
}

func TestMarkdownRenderer(t *testing.T) {
	r, err := NewMarkdownRenderer("notty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := r.Render("You saved **200** this month.")
	if !strings.Contains(out, "200") || !strings.Contains(out, "saved") {
		t.Errorf("unexpected render %q", out)
	}
}
