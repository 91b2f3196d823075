package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one committed transfer between two accounts.
// Records are append-only: never updated or deleted after commit.
// Invariant: DestinationAmount == SourceAmount * ExchangeRate, and
// ExchangeRate is exactly 1 iff both accounts share a currency.
type Transaction struct {
	TransactionID           string          `json:"transactionID"` // Primary Key (UUID)
	SenderID                string          `json:"senderID"`      // FK -> users.user_id
	ReceiverID              string          `json:"receiverID"`    // FK -> users.user_id
	SourceAccountID         string          `json:"sourceAccountID"`
	DestinationAccountID    string          `json:"destinationAccountID"`
	SourceAmount            decimal.Decimal `json:"sourceAmount"`
	SourceCurrencyCode      string          `json:"sourceCurrencyCode"`
	DestinationAmount       decimal.Decimal `json:"destinationAmount"`
	DestinationCurrencyCode string          `json:"destinationCurrencyCode"`
	ExchangeRate            decimal.Decimal `json:"exchangeRate"`
	Description             string          `json:"description,omitempty"`
	Timestamp               time.Time       `json:"timestamp"`
}

// IsOutgoingFor reports whether the transaction debits the given account.
func (t Transaction) IsOutgoingFor(accountID string) bool {
	return t.SourceAccountID == accountID
}
