package cliConverter

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/service"
	"github.com/KotFed0t/finfusion/internal/service/assistantService"
	"github.com/KotFed0t/finfusion/internal/service/tradeService"
	"github.com/KotFed0t/finfusion/internal/service/transferService"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount with the currency symbol and grouping of code.
// Unknown currency codes fall back to the plain amount followed by the code.
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), code)
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, code).Display()
}

func BalanceText(session *model.SessionContext, currency string) string {
	return fmt.Sprintf("👤 %s (%s)\n💰 Balance: %s\n", session.DisplayName(), session.AccountID(), FormatMoney(session.DisplayedBalance(), currency))
}

func ContactsText(contacts, recent []model.Contact) string {
	var sb strings.Builder

	sb.WriteString("📇 Contacts:\n")
	if len(contacts) == 0 {
		sb.WriteString("   no contacts\n")
	}
	for _, c := range contacts {
		sb.WriteString(fmt.Sprintf("   ▸ %s %s\n", c.Name, c.MobileNumber))
	}

	if len(recent) > 0 {
		sb.WriteString("\n🕑 Recent:\n")
		for _, c := range recent {
			sb.WriteString(fmt.Sprintf("   ▸ %s %s\n", c.Name, c.MobileNumber))
		}
	}

	return sb.String()
}

func TransferOutcomeText(outcome transferService.Outcome, currency string) string {
	if outcome.State != service.StateSettled {
		return "❌ " + outcome.Message + "\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Sent %s to %s (%s)\n", FormatMoney(outcome.Amount, currency), outcome.Receiver.Name, outcome.Receiver.MobileNumber))
	if outcome.TransactionID != "" {
		sb.WriteString(fmt.Sprintf("   ▸ Transaction: %s\n", outcome.TransactionID))
	}
	sb.WriteString(fmt.Sprintf("   ▸ New balance: %s\n", FormatMoney(outcome.ConfirmedBalance, currency)))
	return sb.String()
}

func TradeOutcomeText(outcome tradeService.Outcome, currency string) string {
	if outcome.State != service.StateSettled {
		return "❌ " + outcome.Message + "\n"
	}

	verb := "Bought"
	if outcome.Side == model.SideSell {
		verb = "Sold"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ %s %d %s at %s\n", verb, outcome.Quantity, outcome.Symbol, FormatMoney(outcome.PricePerShare, currency)))
	if outcome.Message != "" {
		sb.WriteString(fmt.Sprintf("   ▸ %s\n", outcome.Message))
	}
	sb.WriteString(fmt.Sprintf("   ▸ Now holding %d shares worth %s\n", outcome.Holding.Quantity, FormatMoney(outcome.Holding.TotalValue, currency)))
	if !outcome.Reconciled {
		sb.WriteString("   ▸ Portfolio not refreshed yet, values are provisional\n")
	}
	return sb.String()
}

func PortfolioText(holdings []model.Holding, period model.Period, currency string) string {
	if len(holdings) == 0 {
		return "📊 Portfolio is empty\n"
	}

	var sb strings.Builder
	total := decimal.Zero

	sb.WriteString("📊 Portfolio:\n\n")
	for i, h := range holdings {
		total = total.Add(h.TotalValue)

		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, h.Symbol, h.Name))
		sb.WriteString(fmt.Sprintf("   ▸ Quantity: %d\n", h.Quantity))
		sb.WriteString(fmt.Sprintf("   ▸ Price: %s\n", FormatMoney(h.PricePerShare, currency)))
		sb.WriteString(fmt.Sprintf("   ▸ Value: %s\n", FormatMoney(h.TotalValue, currency)))
		if h.Sentiment != "" {
			sb.WriteString(fmt.Sprintf("   ▸ Sentiment: %s\n", h.Sentiment))
		}
		if points := h.History(period); len(points) > 0 {
			sb.WriteString(fmt.Sprintf("   ▸ %s: %s\n", periodTitle(period), historyLine(points)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("💰 Total: %s\n", FormatMoney(total, currency)))

	return sb.String()
}

func CatalogText(catalog model.Catalog) string {
	var sb strings.Builder
	for _, name := range catalog.CategoryNames() {
		sb.WriteString(fmt.Sprintf("🏷 %s\n", name))
		for _, c := range catalog[name] {
			sb.WriteString(fmt.Sprintf("   ▸ %s (%s)\n", c.CompanyName, c.TickerSymbol))
		}
	}
	return sb.String()
}

func TranscriptLine(msg model.ChatMessage) string {
	if msg.Sender == model.SenderUser {
		return "you> " + msg.Text
	}
	return "assistant> " + msg.Text
}

func periodTitle(period model.Period) string {
	switch period {
	case model.PeriodWeek:
		return "Weekly"
	case model.PeriodMonth:
		return "Monthly"
	default:
		return "Daily"
	}
}

// historyLine shows first, last and the change between them.
func historyLine(points []model.PricePoint) string {
	first, last := points[0].Price, points[len(points)-1].Price
	line := fmt.Sprintf("%s → %s", first.StringFixed(2), last.StringFixed(2))
	if first.IsZero() {
		return line
	}
	change := last.Sub(first).Div(first).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("%s (%+.2f%%)", line, change.InexactFloat64())
}

// AskAboutTopic resolves "/about <symbol>" against holdings first, then the explore catalog.
func AskAboutTopic(symbol string, holdings []model.Holding, catalog model.Catalog) (assistantService.Topic, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, h := range holdings {
		if h.Symbol == symbol {
			return assistantService.HoldingTopic{Holding: h}, true
		}
	}
	if company, ok := catalog.FindCompany(symbol); ok {
		return assistantService.CompanyTopic{Company: company}, true
	}
	for _, name := range catalog.CategoryNames() {
		if strings.EqualFold(name, symbol) {
			return assistantService.CategoryTopic{Name: name, Companies: catalog[name]}, true
		}
	}
	return nil, false
}
