package notification

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yalapay/yala_backend/internal/core/domain"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
)

func transferNoticeFixture(outgoing bool) portssvc.TransferNotice {
	return portssvc.TransferNotice{
		RecipientEmail: "x@example.com",
		RecipientName:  "X Demo",
		Outgoing:       outgoing,
		Transaction: domain.Transaction{
			TransactionID:           "txn-1",
			SourceAccountID:         "acc-pen",
			DestinationAccountID:    "acc-usd",
			SourceAmount:            decimal.RequireFromString("100"),
			SourceCurrencyCode:      "PEN",
			DestinationAmount:       decimal.RequireFromString("350"),
			DestinationCurrencyCode: "USD",
			ExchangeRate:            decimal.RequireFromString("3.5"),
			Description:             "rent",
		},
	}
}

func TestRenderTransferBody_Outgoing(t *testing.T) {
	body := renderTransferBody(transferNoticeFixture(true))

	assert.Contains(t, body, "You sent")
	assert.Contains(t, body, "100 PEN")
	assert.Contains(t, body, "acc-pen")
	assert.Contains(t, body, "Applied exchange rate: 3.5")
	assert.Contains(t, body, "rent")
	assert.Contains(t, body, "txn-1")
	assert.NotContains(t, body, "You received")
}

func TestRenderTransferBody_Incoming(t *testing.T) {
	body := renderTransferBody(transferNoticeFixture(false))

	assert.Contains(t, body, "You received")
	assert.Contains(t, body, "350 USD")
	assert.Contains(t, body, "acc-usd")
	assert.NotContains(t, body, "You sent")
}

func TestRenderTransferBody_SameCurrencyOmitsRate(t *testing.T) {
	notice := transferNoticeFixture(true)
	notice.Transaction.SourceCurrencyCode = "PEN"
	notice.Transaction.DestinationCurrencyCode = "PEN"
	notice.Transaction.ExchangeRate = decimal.NewFromInt(1)

	body := renderTransferBody(notice)

	assert.NotContains(t, body, "Applied exchange rate")
}

func TestRenderWelcomeBody(t *testing.T) {
	body := renderWelcomeBody(domain.User{FullName: "X Demo", Email: "x@example.com"})

	assert.Contains(t, body, "Welcome, X Demo!")
}

func TestRenderStatementBody(t *testing.T) {
	body := renderStatementBody(portssvc.StatementNotice{RecipientName: "X Demo", AccountID: "acc-pen"})

	assert.Contains(t, body, "Hi X Demo")
	assert.Contains(t, body, "acc-pen")
}
