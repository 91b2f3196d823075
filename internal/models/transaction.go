package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persistence shape of a committed transfer.
type Transaction struct {
	TransactionID           string          `db:"transaction_id"`
	SenderID                string          `db:"sender_id"`
	ReceiverID              string          `db:"receiver_id"`
	SourceAccountID         string          `db:"source_account_id"`
	DestinationAccountID    string          `db:"destination_account_id"`
	SourceAmount            decimal.Decimal `db:"source_amount"`
	SourceCurrencyCode      string          `db:"source_currency_code"`
	DestinationAmount       decimal.Decimal `db:"destination_amount"`
	DestinationCurrencyCode string          `db:"destination_currency_code"`
	ExchangeRate            decimal.Decimal `db:"exchange_rate"`
	Description             string          `db:"description"`
	Timestamp               time.Time       `db:"timestamp"`
}
