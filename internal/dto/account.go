package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yalapay/yala_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,uppercase,len=3"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID    string          `json:"accountID"`
	OwnerID      string          `json:"ownerID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountStatementResponse is the JSON rendition of an account statement.
type AccountStatementResponse struct {
	Account      AccountResponse       `json:"account"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ExportStatementRequest selects the attachment format for an emailed statement.
type ExportStatementRequest struct {
	Format string `json:"format" binding:"required,oneof=csv xml"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		OwnerID:      acc.OwnerID,
		CurrencyCode: acc.CurrencyCode,
		Balance:      acc.Balance,
		CreatedAt:    acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
