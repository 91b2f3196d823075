package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/yalapay/yala_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories into a provider.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		UserRepo:        userRepo,
		CurrencyRepo:    currencyRepo,
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
	}
}
