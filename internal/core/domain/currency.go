package domain

// Currency represents a supported currency in the domain.
// Currencies are seeded at startup and immutable afterwards.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Name         string `json:"name"`         // e.g., "US Dollar"
	AuditFields
}
