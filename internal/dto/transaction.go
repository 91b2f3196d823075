package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yalapay/yala_backend/internal/core/domain"
)

// CreateTransferRequest defines the data needed to move money between accounts.
// The amount is denominated in the source account's currency.
type CreateTransferRequest struct {
	SourceAccountID      string          `json:"sourceAccountID" binding:"required"`
	DestinationAccountID string          `json:"destinationAccountID" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description          string          `json:"description" binding:"max=255"`
}

// TransactionResponse defines the data returned for a committed transfer.
type TransactionResponse struct {
	TransactionID           string          `json:"transactionID"`
	SenderID                string          `json:"senderID"`
	ReceiverID              string          `json:"receiverID"`
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

// ListTransactionsResponse wraps the list of transfers.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:           txn.TransactionID,
		SenderID:                txn.SenderID,
		ReceiverID:              txn.ReceiverID,
		SourceAccountID:         txn.SourceAccountID,
		DestinationAccountID:    txn.DestinationAccountID,
		SourceAmount:            txn.SourceAmount,
		SourceCurrencyCode:      txn.SourceCurrencyCode,
		DestinationAmount:       txn.DestinationAmount,
		DestinationCurrencyCode: txn.DestinationCurrencyCode,
		ExchangeRate:            txn.ExchangeRate,
		Description:             txn.Description,
		Timestamp:               txn.Timestamp,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to a slice of TransactionResponse DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}
