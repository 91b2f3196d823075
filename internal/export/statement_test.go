package export_test

import (
	"encoding/csv"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yalapay/yala_backend/internal/apperrors"
	"github.com/yalapay/yala_backend/internal/core/domain"
	"github.com/yalapay/yala_backend/internal/export"
)

func statementFixture() (domain.Account, []domain.Transaction) {
	account := domain.Account{
		AccountID:    "acc-pen",
		OwnerID:      "user-1",
		CurrencyCode: "PEN",
		Balance:      decimal.RequireFromString("100"),
	}
	txns := []domain.Transaction{
		{
			TransactionID:           "txn-out",
			SourceAccountID:         "acc-pen",
			DestinationAccountID:    "acc-usd",
			SourceAmount:            decimal.RequireFromString("10"),
			SourceCurrencyCode:      "PEN",
			DestinationAmount:       decimal.RequireFromString("2.7"),
			DestinationCurrencyCode: "USD",
			ExchangeRate:            decimal.RequireFromString("0.27"),
			Description:             "lunch",
			Timestamp:               time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		},
		{
			TransactionID:           "txn-in",
			SourceAccountID:         "acc-usd",
			DestinationAccountID:    "acc-pen",
			SourceAmount:            decimal.RequireFromString("1"),
			SourceCurrencyCode:      "USD",
			DestinationAmount:       decimal.RequireFromString("3.7"),
			DestinationCurrencyCode: "PEN",
			ExchangeRate:            decimal.RequireFromString("3.7"),
			Timestamp:               time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
		},
	}
	return account, txns
}

func TestRenderCSV(t *testing.T) {
	account, txns := statementFixture()

	content, err := export.Render(export.FormatCSV, account, txns)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(content))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"transaction_id", "timestamp", "direction", "amount", "currency", "exchange_rate", "counterparty_account_id", "description"}, records[0])

	// Outgoing row reports the debited source amount against the counterparty.
	assert.Equal(t, []string{"txn-out", "2026-03-14T12:00:00Z", "debit", "10", "PEN", "0.27", "acc-usd", "lunch"}, records[1])

	// Incoming row reports the credited destination amount.
	assert.Equal(t, []string{"txn-in", "2026-03-15T09:30:00Z", "credit", "3.7", "PEN", "3.7", "acc-usd", ""}, records[2])
}

func TestRenderXML(t *testing.T) {
	account, txns := statementFixture()

	content, err := export.Render(export.FormatXML, account, txns)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), xml.Header))

	var doc struct {
		AccountID    string `xml:"accountID,attr"`
		CurrencyCode string `xml:"currencyCode,attr"`
		Balance      string `xml:"balance"`
		Transactions []struct {
			TransactionID string `xml:"transactionID"`
			Direction     string `xml:"direction"`
			Amount        string `xml:"amount"`
		} `xml:"transactions>transaction"`
	}
	require.NoError(t, xml.Unmarshal(content, &doc))

	assert.Equal(t, "acc-pen", doc.AccountID)
	assert.Equal(t, "PEN", doc.CurrencyCode)
	assert.Equal(t, "100", doc.Balance)
	require.Len(t, doc.Transactions, 2)
	assert.Equal(t, "debit", doc.Transactions[0].Direction)
	assert.Equal(t, "10", doc.Transactions[0].Amount)
	assert.Equal(t, "credit", doc.Transactions[1].Direction)
	assert.Equal(t, "3.7", doc.Transactions[1].Amount)
}

func TestRenderUnknownFormat(t *testing.T) {
	account, txns := statementFixture()

	content, err := export.Render("pdf", account, txns)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, content)
}

func TestFilenameAndContentType(t *testing.T) {
	name := export.Filename("acc-pen", export.FormatCSV)
	assert.True(t, strings.HasPrefix(name, "statement_acc-pen_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))

	assert.Equal(t, "text/csv", export.ContentType(export.FormatCSV))
	assert.Equal(t, "application/xml", export.ContentType(export.FormatXML))
}
