package models

// Currency is the persistence shape of a supported currency.
type Currency struct {
	CurrencyCode string `db:"currency_code"`
	Name         string `db:"name"`
	AuditFields
}
