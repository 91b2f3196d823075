package notification

import (
	"log/slog"

	"github.com/yalapay/yala_backend/internal/core/domain"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
)

// NoopNotifier is used when SMTP is not configured. It logs what would have
// been sent and otherwise does nothing.
type NoopNotifier struct {
	logger *slog.Logger
}

func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

var _ portssvc.NotifierSvc = (*NoopNotifier)(nil)

func (n *NoopNotifier) NotifyWelcome(user domain.User) {
	n.logger.Debug("Email delivery disabled, skipping welcome email", slog.String("user_id", user.UserID))
}

func (n *NoopNotifier) NotifyTransfer(notice portssvc.TransferNotice) {
	n.logger.Debug("Email delivery disabled, skipping transfer email",
		slog.String("transaction_id", notice.Transaction.TransactionID))
}

func (n *NoopNotifier) NotifyStatement(notice portssvc.StatementNotice) {
	n.logger.Debug("Email delivery disabled, skipping statement email",
		slog.String("account_id", notice.AccountID))
}

func (n *NoopNotifier) Close() {}
