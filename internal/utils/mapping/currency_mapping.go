package mapping

import (
	"github.com/yalapay/yala_backend/internal/core/domain"
	"github.com/yalapay/yala_backend/internal/models"
)

func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode: d.CurrencyCode,
		Name:         d.Name,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Name:         m.Name,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrencySlice converts a slice of persistence currencies to domain currencies.
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	out := make([]domain.Currency, len(ms))
	for i, m := range ms {
		out[i] = ToDomainCurrency(m)
	}
	return out
}
