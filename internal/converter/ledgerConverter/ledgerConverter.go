package ledgerConverter

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/model/ledgerModel"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func ConvertLogin(mobileNumber string, resp ledgerModel.LoginResponse) model.LoginResult {
	return model.LoginResult{
		AccountID:      mobileNumber,
		Name:           resp.User.Name,
		WalletAmount:   resp.User.WalletAmount,
		Contacts:       ConvertContacts(resp.Contacts),
		RecentContacts: ConvertContacts(resp.RecentContacts),
	}
}

func ConvertContacts(contacts []ledgerModel.Contact) []model.Contact {
	res := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		res = append(res, model.Contact{MobileNumber: c.MobileNumber, Name: c.Name})
	}
	return res
}

func ConvertSignup(req model.SignupRequest) ledgerModel.SignupRequest {
	return ledgerModel.SignupRequest{
		MobileNumber: req.MobileNumber,
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		MPIN:         req.MPIN,
	}
}

func ConvertTransferRequest(req model.TransferRequest) ledgerModel.TransferRequest {
	return ledgerModel.TransferRequest{
		ClientRequestID:      req.ClientRequestID,
		SenderMobileNumber:   req.SenderID,
		ReceiverMobileNumber: req.ReceiverID,
		Amount:               json.Number(req.Amount.String()),
		Category:             req.Category,
	}
}

// ConvertTransferResponse accepts the transaction id as either a JSON string or number.
func ConvertTransferResponse(resp ledgerModel.TransferResponse) model.TransferReceipt {
	receipt := model.TransferReceipt{Message: resp.Message}
	if len(resp.TransactionID) == 0 || string(resp.TransactionID) == "null" {
		return receipt
	}
	var id string
	if err := json.Unmarshal(resp.TransactionID, &id); err == nil {
		receipt.TransactionID = id
		return receipt
	}
	receipt.TransactionID = strings.TrimSpace(string(resp.TransactionID))
	return receipt
}

func ConvertTradeRequest(req model.TradeRequest) ledgerModel.TradeRequest {
	return ledgerModel.TradeRequest{
		ClientRequestID: req.ClientRequestID,
		MobileNumber:    req.AccountID,
		StockSymbol:     req.Symbol,
		CompanyName:     req.CompanyName,
		Quantity:        req.Quantity,
		PricePerShare:   json.Number(req.PricePerShare.String()),
	}
}

func ConvertHoldings(holdings []ledgerModel.Holding) []model.Holding {
	res := make([]model.Holding, 0, len(holdings))
	for _, h := range holdings {
		res = append(res, ConvertHolding(h))
	}
	return res
}

func ConvertHolding(h ledgerModel.Holding) model.Holding {
	return model.Holding{
		Symbol:        h.Symbol,
		Name:          h.Name,
		Quantity:      int(h.NumberOfShares.IntPart()),
		PricePerShare: h.PricePerShare,
		TotalValue:    h.TotalPrice,
		Sentiment:     h.MarketSentiment,
		LastRefreshed: h.LastRefreshed,
		PriceHistory: map[model.Period][]model.PricePoint{
			model.PeriodDay:   convertPricePoints(h.ShowMore.Graph.Daily),
			model.PeriodWeek:  convertPricePoints(h.ShowMore.Graph.Weekly),
			model.PeriodMonth: convertPricePoints(h.ShowMore.Graph.Monthly),
		},
	}
}

func convertPricePoints(points []ledgerModel.PricePoint) []model.PricePoint {
	res := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		res = append(res, model.PricePoint{
			Time:  parseTime(p.Time),
			Label: p.Time,
			Price: p.Price,
		})
	}
	return res
}

// parseTime returns the zero time for layouts it does not know, the raw label is kept anyway.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func ConvertSummary(raw []byte, resp ledgerModel.SummaryResponse) model.FinancialSummary {
	return model.FinancialSummary{
		BreakdownOfCost:    resp.BreakdownOfCost,
		NetWorthValue:      resp.NetWorthValue,
		PortfolioBreakdown: resp.PortfolioBreakdown,
		PerformanceMetrics: resp.PerformanceMetrics,
		Raw:                append(json.RawMessage(nil), raw...),
	}
}

func ConvertCatalog(resp ledgerModel.ExploreResponse) model.Catalog {
	catalog := make(model.Catalog, len(resp.Categories))
	for name, companies := range resp.Categories {
		converted := make([]model.Company, 0, len(companies))
		for _, c := range companies {
			converted = append(converted, model.Company{
				CompanyName:  c.CompanyName,
				TickerSymbol: c.TickerSymbol,
				Information:  c.Information,
			})
		}
		catalog[name] = converted
	}
	return catalog
}
