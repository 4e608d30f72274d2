package ledgerModel

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	MobileNumber string `json:"mobile_number"`
	MPIN         string `json:"mpin"`
}

type LoginResponse struct {
	User           User      `json:"user"`
	Contacts       []Contact `json:"contacts"`
	RecentContacts []Contact `json:"recent_contacts"`
}

type User struct {
	Name         string          `json:"name"`
	WalletAmount decimal.Decimal `json:"wallet_amount"`
}

type Contact struct {
	MobileNumber string `json:"mobile_number"`
	Name         string `json:"name"`
}

type SignupRequest struct {
	MobileNumber string `json:"mobile_number"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	MPIN         string `json:"mpin"`
}

// MessageResponse is the generic body of both failures and message-only successes.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Amounts are sent as JSON numbers, json.Number keeps them exact.
type TransferRequest struct {
	ClientRequestID      string      `json:"client_request_id"`
	SenderMobileNumber   string      `json:"sender_mobile_number"`
	ReceiverMobileNumber string      `json:"receiver_mobile_number"`
	Amount               json.Number `json:"amount"`
	Category             string      `json:"category"`
}

type TransferResponse struct {
	TransactionID json.RawMessage `json:"transaction_id"`
	Message       string          `json:"message"`
}

type MobileNumberRequest struct {
	MobileNumber string `json:"mobile_number"`
}

type WalletAmountResponse struct {
	WalletAmount *decimal.Decimal `json:"wallet_amount"`
}

type PortfolioResponse struct {
	Portfolio []Holding `json:"portfolio"`
}

type Holding struct {
	Symbol          string          `json:"Symbol"`
	Name            string          `json:"Name"`
	TotalPrice      decimal.Decimal `json:"Total Price"`
	PricePerShare   decimal.Decimal `json:"Price Per Share"`
	NumberOfShares  decimal.Decimal `json:"Number of Shares"`
	MarketSentiment string          `json:"Market Sentiment"`
	LastRefreshed   string          `json:"Last Refreshed"`
	ShowMore        ShowMore        `json:"ShowMore"`
}

type ShowMore struct {
	Graph Graph `json:"Graph"`
}

type Graph struct {
	Daily   []PricePoint `json:"Daily"`
	Weekly  []PricePoint `json:"Weekly"`
	Monthly []PricePoint `json:"Monthly"`
}

type PricePoint struct {
	Time  string          `json:"Time"`
	Price decimal.Decimal `json:"Price"`
}

type TradeRequest struct {
	ClientRequestID string      `json:"client_request_id"`
	MobileNumber    string      `json:"mobile_number"`
	StockSymbol     string      `json:"stock_symbol"`
	CompanyName     string      `json:"company_name"`
	Quantity        int         `json:"quantity"`
	PricePerShare   json.Number `json:"price_per_share"`
}

// SummaryRequest carries the account under both names the backend accepts.
type SummaryRequest struct {
	Number       string `json:"number"`
	MobileNumber string `json:"mobile_number"`
}

type SummaryResponse struct {
	BreakdownOfCost    json.RawMessage `json:"breakdown_of_cost"`
	NetWorthValue      json.RawMessage `json:"net_worth_value"`
	PortfolioBreakdown json.RawMessage `json:"portfolio_breakdown"`
	PerformanceMetrics json.RawMessage `json:"performance_metrics"`
}

type ExploreResponse struct {
	Categories map[string][]Company `json:"categories"`
}

type Company struct {
	CompanyName  string `json:"company_name"`
	TickerSymbol string `json:"ticker_symbol"`
	Information  string `json:"information"`
}

type AssistantRequest struct {
	Payload string `json:"payload"`
}

type AssistantResponse struct {
	Text string `json:"text"`
}
