package services

import (
	"context"

	"github.com/yalapay/yala_backend/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// ListAccountsForUser retrieves all accounts owned by a user.
	ListAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error)

	// GetAccountForUser retrieves one account, enforcing that the requesting
	// user owns it. Returns apperrors.ErrForbidden otherwise.
	GetAccountForUser(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error)

	// GetStatement retrieves an account together with its full transfer
	// history, newest first.
	GetStatement(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, []domain.Transaction, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new zero-balance account in the given currency.
	CreateAccount(ctx context.Context, ownerID string, currencyCode string, creatorUserID string) (*domain.Account, error)
}

// AccountExportSvc defines statement export operations
type AccountExportSvc interface {
	// ExportStatement renders the account statement in the given format
	// ("csv" or "xml") and returns the suggested filename with the content.
	ExportStatement(ctx context.Context, accountID string, requestingUserID string, format string) (filename string, content []byte, err error)

	// EmailStatement renders the statement and enqueues it for delivery to the
	// account owner's email address.
	EmailStatement(ctx context.Context, accountID string, requestingUserID string, format string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountExportSvc
}
