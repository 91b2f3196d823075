package mapping

import (
	"github.com/yalapay/yala_backend/internal/core/domain"
	"github.com/yalapay/yala_backend/internal/models"
)

func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		OwnerID:      d.OwnerID,
		CurrencyCode: d.CurrencyCode,
		Balance:      d.Balance,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		OwnerID:      m.OwnerID,
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAccount(m)
	}
	return out
}
