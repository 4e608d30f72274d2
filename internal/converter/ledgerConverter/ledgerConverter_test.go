package ledgerConverter

import (
	"encoding/json"
	"testing"

	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/internal/model/ledgerModel"
	"github.com/shopspring/decimal"
)

func TestConvertHoldingFromBackendKeys(t *testing.T) {
	raw := `{
		"Symbol": "TCS",
		"Name": "Tata Consultancy",
		"Total Price": 7000.5,
		"Price Per Share": "3500.25",
		"Number of Shares": 2,
		"Market Sentiment": "Bullish",
		"Last Refreshed": "2024-11-20",
		"ShowMore": {"Graph": {
			"Daily": [{"Time": "2024-11-20 10:00:00", "Price": 3490}, {"Time": "2024-11-20 11:00:00", "Price": 3500.25}],
			"Weekly": [{"Time": "2024-11-18", "Price": 3400}],
			"Monthly": []
		}}
	}`

	var h ledgerModel.Holding
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ConvertHolding(h)

	if got.Symbol != "TCS" || got.Name != "Tata Consultancy" {
		t.Errorf("unexpected identity %s / %s", got.Symbol, got.Name)
	}
	if got.Quantity != 2 {
		t.Errorf("expected 2 shares, got %d", got.Quantity)
	}
	if !got.PricePerShare.Equal(decimal.RequireFromString("3500.25")) {
		t.Errorf("unexpected price %s", got.PricePerShare)
	}
	if !got.TotalValue.Equal(decimal.RequireFromString("7000.5")) {
		t.Errorf("unexpected total %s", got.TotalValue)
	}
	if got.Sentiment != "Bullish" {
		t.Errorf("unexpected sentiment %q", got.Sentiment)
	}

	daily := got.History(model.PeriodDay)
	if len(daily) != 2 {
		t.Fatalf("expected 2 daily points, got %d", len(daily))
	}
	if daily[0].Time.IsZero() || daily[0].Time.Hour() != 10 {
		t.Errorf("expected parsed time, got %v", daily[0].Time)
	}
	if len(got.History(model.PeriodWeek)) != 1 {
		t.Errorf("expected 1 weekly point")
	}
	if len(got.History(model.PeriodMonth)) != 0 {
		t.Errorf("expected no monthly points")
	}
}

func TestConvertTransferResponseTransactionID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "string id", raw: `{"transaction_id": "tx-42"}`, want: "tx-42"},
		{name: "numeric id", raw: `{"transaction_id": 42}`, want: "42"},
		{name: "missing id", raw: `{"message": "ok"}`, want: ""},
		{name: "null id", raw: `{"transaction_id": null}`, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp ledgerModel.TransferResponse
			if err := json.Unmarshal([]byte(tc.raw), &resp); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ConvertTransferResponse(resp).TransactionID; got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestConvertTransferRequestKeepsExactAmount(t *testing.T) {
	req := model.TransferRequest{
		ClientRequestID: "id-1",
		SenderID:        "111",
		ReceiverID:      "222",
		Amount:          decimal.RequireFromString("0.10"),
		Category:        "Food",
	}

	body, err := json.Marshal(ConvertTransferRequest(req))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"client_request_id":"id-1","sender_mobile_number":"111","receiver_mobile_number":"222","amount":0.1,"category":"Food"}`
	if string(body) != want {
		t.Errorf("expected %s, got %s", want, body)
	}
}
