package mapping

import (
	"github.com/yalapay/yala_backend/internal/core/domain"
	"github.com/yalapay/yala_backend/internal/models"
)

func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:           d.TransactionID,
		SenderID:                d.SenderID,
		ReceiverID:              d.ReceiverID,
		SourceAccountID:         d.SourceAccountID,
		DestinationAccountID:    d.DestinationAccountID,
		SourceAmount:            d.SourceAmount,
		SourceCurrencyCode:      d.SourceCurrencyCode,
		DestinationAmount:       d.DestinationAmount,
		DestinationCurrencyCode: d.DestinationCurrencyCode,
		ExchangeRate:            d.ExchangeRate,
		Description:             d.Description,
		Timestamp:               d.Timestamp,
	}
}

func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:           m.TransactionID,
		SenderID:                m.SenderID,
		ReceiverID:              m.ReceiverID,
		SourceAccountID:         m.SourceAccountID,
		DestinationAccountID:    m.DestinationAccountID,
		SourceAmount:            m.SourceAmount,
		SourceCurrencyCode:      m.SourceCurrencyCode,
		DestinationAmount:       m.DestinationAmount,
		DestinationCurrencyCode: m.DestinationCurrencyCode,
		ExchangeRate:            m.ExchangeRate,
		Description:             m.Description,
		Timestamp:               m.Timestamp,
	}
}

func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainTransaction(m)
	}
	return out
}
