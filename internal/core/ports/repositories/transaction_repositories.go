package repositories

import (
	"context"

	"github.com/yalapay/yala_backend/internal/core/domain"
)

// TransactionReader defines read operations for transfer history
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transfer record.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionsByAccountID retrieves all transfers touching an account,
	// newest first.
	FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// FindTransactionsByUserID retrieves all transfers where the user is sender
	// or receiver, newest first.
	FindTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transfers
type TransactionWriter interface {
	// SaveTransfer atomically debits the source account, credits the destination
	// account and records the transfer, all within a single database transaction.
	// Returns apperrors.ErrInsufficientFunds if the source balance no longer
	// covers the amount once the row locks are held.
	SaveTransfer(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transfer-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
