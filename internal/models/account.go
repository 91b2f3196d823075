package models

import (
	"github.com/shopspring/decimal"
)

// Account is the persistence shape of a user account.
type Account struct {
	AccountID    string          `db:"account_id"`
	OwnerID      string          `db:"owner_id"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	AuditFields
}
