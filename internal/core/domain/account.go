package domain

import (
	"github.com/shopspring/decimal"
)

// Account is a currency-denominated balance held by one user.
// The balance never goes negative; only the transfer engine mutates it.
type Account struct {
	AccountID    string          `json:"accountID"` // Primary Key (UUID)
	OwnerID      string          `json:"ownerID"`   // FK -> users.user_id
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	AuditFields
}
