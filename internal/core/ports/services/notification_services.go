package services

import (
	"github.com/yalapay/yala_backend/internal/core/domain"
)

// TransferNotice carries the details for a transfer notification email.
type TransferNotice struct {
	RecipientEmail string
	RecipientName  string
	Outgoing       bool
	Transaction    domain.Transaction
}

// StatementNotice carries a rendered statement attachment for delivery.
type StatementNotice struct {
	RecipientEmail string
	RecipientName  string
	AccountID      string
	Filename       string
	ContentType    string
	Content        []byte
}

// NotifierSvc delivers emails asynchronously. Enqueue methods never block the
// caller and never fail the triggering operation; delivery errors are logged.
type NotifierSvc interface {
	// NotifyWelcome enqueues the welcome email for a freshly registered user.
	NotifyWelcome(user domain.User)

	// NotifyTransfer enqueues a transfer confirmation for one party.
	NotifyTransfer(n TransferNotice)

	// NotifyStatement enqueues a statement email with the rendered attachment.
	NotifyStatement(n StatementNotice)

	// Close drains the queue and stops the delivery worker.
	Close()
}
