package model

import "github.com/shopspring/decimal"

// TransferRequest is built fresh for every submission. ClientRequestID lets the
// backend deduplicate a double submitted transfer.
type TransferRequest struct {
	ClientRequestID string
	SenderID        string
	ReceiverID      string
	Amount          decimal.Decimal
	Category        string
	MPIN            string
}

type TransferReceipt struct {
	TransactionID string
	Message       string
}
