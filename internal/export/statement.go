// Package export renders account statements as downloadable documents.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/yalapay/yala_backend/internal/apperrors"
	"github.com/yalapay/yala_backend/internal/core/domain"
)

const (
	FormatCSV = "csv"
	FormatXML = "xml"
)

// statementDocument is the XML layout of an exported statement.
type statementDocument struct {
	XMLName      xml.Name       `xml:"statement"`
	AccountID    string         `xml:"accountID,attr"`
	CurrencyCode string         `xml:"currencyCode,attr"`
	GeneratedAt  string         `xml:"generatedAt,attr"`
	Balance      string         `xml:"balance"`
	Transactions []statementRow `xml:"transactions>transaction"`
}

type statementRow struct {
	TransactionID string `xml:"transactionID"`
	Timestamp     string `xml:"timestamp"`
	Direction     string `xml:"direction"`
	Amount        string `xml:"amount"`
	CurrencyCode  string `xml:"currencyCode"`
	ExchangeRate  string `xml:"exchangeRate"`
	Counterparty  string `xml:"counterpartyAccountID"`
	Description   string `xml:"description,omitempty"`
}

// Render produces the statement in the requested format.
func Render(format string, account domain.Account, txns []domain.Transaction) ([]byte, error) {
	switch format {
	case FormatCSV:
		return renderCSV(account, txns)
	case FormatXML:
		return renderXML(account, txns)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}
}

// Filename returns the suggested attachment name for a rendered statement.
func Filename(accountID, format string) string {
	return fmt.Sprintf("statement_%s_%s.%s", accountID, time.Now().UTC().Format("20060102"), format)
}

// ContentType returns the MIME type for a rendered statement.
func ContentType(format string) string {
	switch format {
	case FormatXML:
		return "application/xml"
	default:
		return "text/csv"
	}
}

func renderCSV(account domain.Account, txns []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"transaction_id", "timestamp", "direction", "amount", "currency", "exchange_rate", "counterparty_account_id", "description"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write statement header: %w", err)
	}

	for _, txn := range txns {
		if err := w.Write(rowFor(account.AccountID, txn)); err != nil {
			return nil, fmt.Errorf("failed to write statement row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush statement: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXML(account domain.Account, txns []domain.Transaction) ([]byte, error) {
	doc := statementDocument{
		AccountID:    account.AccountID,
		CurrencyCode: account.CurrencyCode,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Balance:      account.Balance.String(),
		Transactions: make([]statementRow, 0, len(txns)),
	}
	for _, txn := range txns {
		row := rowFor(account.AccountID, txn)
		doc.Transactions = append(doc.Transactions, statementRow{
			TransactionID: row[0],
			Timestamp:     row[1],
			Direction:     row[2],
			Amount:        row[3],
			CurrencyCode:  row[4],
			ExchangeRate:  row[5],
			Counterparty:  row[6],
			Description:   row[7],
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal statement: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// rowFor flattens a transaction into statement columns from the point of view
// of the statement's account: outgoing rows carry the source amount, incoming
// rows the destination amount.
func rowFor(accountID string, txn domain.Transaction) []string {
	direction := "credit"
	amount := txn.DestinationAmount
	currency := txn.DestinationCurrencyCode
	counterparty := txn.SourceAccountID
	if txn.IsOutgoingFor(accountID) {
		direction = "debit"
		amount = txn.SourceAmount
		currency = txn.SourceCurrencyCode
		counterparty = txn.DestinationAccountID
	}
	return []string{
		txn.TransactionID,
		txn.Timestamp.UTC().Format(time.RFC3339),
		direction,
		amount.String(),
		currency,
		txn.ExchangeRate.String(),
		counterparty,
		txn.Description,
	}
}
