// Package notification delivers transactional emails in the background.
package notification

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/yalapay/yala_backend/internal/core/domain"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/internal/platform/metrics"
	"github.com/yalapay/yala_backend/pkg/config"
)

const queueCapacity = 256

type emailJob struct {
	kind    string
	message *gomail.Message
}

// EmailNotifier sends emails through SMTP from a single background worker.
// Enqueue methods never block: when the queue is full the email is dropped
// and logged, the triggering operation is unaffected.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger

	queue chan emailJob
	wg    sync.WaitGroup
}

// NewEmailNotifier builds the notifier and starts its delivery worker.
func NewEmailNotifier(cfg *config.Config, logger *slog.Logger) *EmailNotifier {
	n := &EmailNotifier{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
		logger: logger,
		queue:  make(chan emailJob, queueCapacity),
	}

	n.wg.Add(1)
	go n.deliverLoop()

	return n
}

var _ portssvc.NotifierSvc = (*EmailNotifier)(nil)

// NotifyWelcome enqueues the welcome email for a freshly registered user.
func (n *EmailNotifier) NotifyWelcome(user domain.User) {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "Welcome to YalaPay")
	m.SetBody("text/html", renderWelcomeBody(user))

	n.enqueue(emailJob{kind: "welcome", message: m})
}

// NotifyTransfer enqueues a transfer confirmation for one party.
func (n *EmailNotifier) NotifyTransfer(notice portssvc.TransferNotice) {
	subject := "You received a transfer"
	if notice.Outgoing {
		subject = "Your transfer was sent"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", notice.RecipientEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", renderTransferBody(notice))

	n.enqueue(emailJob{kind: "transfer", message: m})
}

// NotifyStatement enqueues a statement email with the rendered attachment.
func (n *EmailNotifier) NotifyStatement(notice portssvc.StatementNotice) {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", notice.RecipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("Account statement %s", notice.AccountID))
	m.SetBody("text/html", renderStatementBody(notice))
	m.Attach(notice.Filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(notice.Content)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {notice.ContentType}}),
	)

	n.enqueue(emailJob{kind: "statement", message: m})
}

// Close drains the queue and stops the delivery worker.
func (n *EmailNotifier) Close() {
	close(n.queue)
	n.wg.Wait()
}

func (n *EmailNotifier) enqueue(job emailJob) {
	select {
	case n.queue <- job:
	default:
		n.logger.Warn("Email queue full, dropping message", slog.String("kind", job.kind))
		metrics.EmailsSentTotal.WithLabelValues(job.kind, "dropped").Inc()
	}
}

func (n *EmailNotifier) deliverLoop() {
	defer n.wg.Done()

	for job := range n.queue {
		if err := n.dialer.DialAndSend(job.message); err != nil {
			n.logger.Error("Failed to send email",
				slog.String("kind", job.kind),
				slog.String("error", err.Error()))
			metrics.EmailsSentTotal.WithLabelValues(job.kind, "failed").Inc()
			continue
		}
		metrics.EmailsSentTotal.WithLabelValues(job.kind, "sent").Inc()
	}
}

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`
		<h2>Welcome, {{.Name}}!</h2>
		<p>Your YalaPay wallet is ready. You can now open accounts, hold
		balances in multiple currencies and send money to other users.</p>`))

	transferTmpl = template.Must(template.New("transfer").Parse(`
		<h2>Hi {{.Name}},</h2>
		{{if .Outgoing}}
		<p>You sent <strong>{{.SourceAmount}} {{.SourceCurrency}}</strong>
		from account {{.SourceAccount}}.</p>
		{{else}}
		<p>You received <strong>{{.DestinationAmount}} {{.DestinationCurrency}}</strong>
		on account {{.DestinationAccount}}.</p>
		{{end}}
		{{if .CrossCurrency}}<p>Applied exchange rate: {{.Rate}}</p>{{end}}
		{{if .Description}}<p>Note: {{.Description}}</p>{{end}}
		<p>Transaction reference: {{.TransactionID}}</p>`))

	statementTmpl = template.Must(template.New("statement").Parse(`
		<h2>Hi {{.Name}},</h2>
		<p>The statement you requested for account {{.AccountID}} is attached.</p>`))
)

func renderWelcomeBody(user domain.User) string {
	var b strings.Builder
	_ = welcomeTmpl.Execute(&b, struct{ Name string }{Name: user.FullName})
	return b.String()
}

func renderTransferBody(notice portssvc.TransferNotice) string {
	txn := notice.Transaction
	data := struct {
		Name                string
		Outgoing            bool
		SourceAmount        string
		SourceCurrency      string
		SourceAccount       string
		DestinationAmount   string
		DestinationCurrency string
		DestinationAccount  string
		CrossCurrency       bool
		Rate                string
		Description         string
		TransactionID       string
	}{
		Name:                notice.RecipientName,
		Outgoing:            notice.Outgoing,
		SourceAmount:        txn.SourceAmount.String(),
		SourceCurrency:      txn.SourceCurrencyCode,
		SourceAccount:       txn.SourceAccountID,
		DestinationAmount:   txn.DestinationAmount.String(),
		DestinationCurrency: txn.DestinationCurrencyCode,
		DestinationAccount:  txn.DestinationAccountID,
		CrossCurrency:       txn.SourceCurrencyCode != txn.DestinationCurrencyCode,
		Rate:                txn.ExchangeRate.String(),
		Description:         txn.Description,
		TransactionID:       txn.TransactionID,
	}

	var b strings.Builder
	_ = transferTmpl.Execute(&b, data)
	return b.String()
}

func renderStatementBody(notice portssvc.StatementNotice) string {
	var b strings.Builder
	_ = statementTmpl.Execute(&b, struct{ Name, AccountID string }{
		Name:      notice.RecipientName,
		AccountID: notice.AccountID,
	})
	return b.String()
}
