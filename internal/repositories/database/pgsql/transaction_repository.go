package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yalapay/yala_backend/internal/apperrors"
	"github.com/yalapay/yala_backend/internal/core/domain"
	portsrepo "github.com/yalapay/yala_backend/internal/core/ports/repositories"
	"github.com/yalapay/yala_backend/internal/models"
	"github.com/yalapay/yala_backend/internal/utils/mapping"
)

const transactionColumns = `transaction_id, sender_id, receiver_id, source_account_id, destination_account_id,
		source_amount, source_currency_code, destination_amount, destination_currency_code,
		exchange_rate, description, timestamp`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxTransactionRepository creates a new repository for transfer records.
// It needs the account repository for the row locking and balance updates
// that happen inside the same database transaction.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// SaveTransfer commits the whole transfer atomically: both account rows are
// locked in account_id order, the source balance is re-checked under the lock,
// the balances move and the history record is inserted. Any failure rolls the
// whole thing back.
func (r *PgxTransactionRepository) SaveTransfer(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			slog.ErrorContext(ctx, "Failed to rollback transfer transaction", slog.String("error", rbErr.Error()))
		}
	}()

	accounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{txn.SourceAccountID, txn.DestinationAccountID})
	if err != nil {
		return err
	}

	source, ok := accounts[txn.SourceAccountID]
	if !ok {
		return fmt.Errorf("%w: source account %s", apperrors.ErrNotFound, txn.SourceAccountID)
	}
	if _, ok := accounts[txn.DestinationAccountID]; !ok {
		return fmt.Errorf("%w: destination account %s", apperrors.ErrNotFound, txn.DestinationAccountID)
	}

	// The service pre-checked the balance, but a concurrent transfer may have
	// drained the account since. This check under the row lock is the one
	// that guarantees the balance never goes negative.
	if source.Balance.LessThan(txn.SourceAmount) {
		return fmt.Errorf("%w: account %s holds %s %s", apperrors.ErrInsufficientFunds, source.AccountID, source.Balance, source.CurrencyCode)
	}

	balanceChanges := map[string]decimal.Decimal{
		txn.SourceAccountID:      txn.SourceAmount.Neg(),
		txn.DestinationAccountID: txn.DestinationAmount,
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, txn.SenderID, time.Now().UTC()); err != nil {
		return err
	}

	if err := r.insertTransaction(ctx, tx, txn); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) insertTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	modelTxn := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (transaction_id, sender_id, receiver_id, source_account_id, destination_account_id,
			source_amount, source_currency_code, destination_amount, destination_currency_code,
			exchange_rate, description, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	_, err := tx.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.SenderID,
		modelTxn.ReceiverID,
		modelTxn.SourceAccountID,
		modelTxn.DestinationAccountID,
		modelTxn.SourceAmount,
		modelTxn.SourceCurrencyCode,
		modelTxn.DestinationAmount,
		modelTxn.DestinationCurrencyCode,
		modelTxn.ExchangeRate,
		modelTxn.Description,
		modelTxn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction record: %w", err)
	}
	return nil
}

// FindTransactionByID retrieves a single transfer record.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE transaction_id = $1;`, transactionColumns)

	var modelTxn models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&modelTxn.TransactionID,
		&modelTxn.SenderID,
		&modelTxn.ReceiverID,
		&modelTxn.SourceAccountID,
		&modelTxn.DestinationAccountID,
		&modelTxn.SourceAmount,
		&modelTxn.SourceCurrencyCode,
		&modelTxn.DestinationAmount,
		&modelTxn.DestinationCurrencyCode,
		&modelTxn.ExchangeRate,
		&modelTxn.Description,
		&modelTxn.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	domainTxn := mapping.ToDomainTransaction(modelTxn)
	return &domainTxn, nil
}

// FindTransactionsByAccountID retrieves all transfers touching an account, newest first.
func (r *PgxTransactionRepository) FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE source_account_id = $1 OR destination_account_id = $1
		ORDER BY timestamp DESC;
	`, transactionColumns)

	return r.queryTransactions(ctx, query, accountID)
}

// FindTransactionsByUserID retrieves all transfers where the user is sender or receiver, newest first.
func (r *PgxTransactionRepository) FindTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY timestamp DESC;
	`, transactionColumns)

	return r.queryTransactions(ctx, query, userID)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, arg any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var modelTxns []models.Transaction
	for rows.Next() {
		var modelTxn models.Transaction
		if err := rows.Scan(
			&modelTxn.TransactionID,
			&modelTxn.SenderID,
			&modelTxn.ReceiverID,
			&modelTxn.SourceAccountID,
			&modelTxn.DestinationAccountID,
			&modelTxn.SourceAmount,
			&modelTxn.SourceCurrencyCode,
			&modelTxn.DestinationAmount,
			&modelTxn.DestinationCurrencyCode,
			&modelTxn.ExchangeRate,
			&modelTxn.Description,
			&modelTxn.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, modelTxn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nil
}
