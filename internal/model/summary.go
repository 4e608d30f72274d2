package model

import "encoding/json"

// FinancialSummary keeps the backend document as is. It is only ever used as
// assistant context and is never shown to the user.
type FinancialSummary struct {
	BreakdownOfCost    json.RawMessage
	NetWorthValue      json.RawMessage
	PortfolioBreakdown json.RawMessage
	PerformanceMetrics json.RawMessage
	Raw                json.RawMessage
}
