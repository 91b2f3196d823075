package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yalapay/yala_backend/internal/apperrors"
	"github.com/yalapay/yala_backend/internal/core/domain"
	portsrepo "github.com/yalapay/yala_backend/internal/core/ports/repositories"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/internal/export"
	"github.com/yalapay/yala_backend/internal/middleware"
)

type accountService struct {
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	currencyRepo    portsrepo.CurrencyRepositoryFacade
	userRepo        portsrepo.UserRepositoryFacade
	notifier        portssvc.NotifierSvc
}

// NewAccountService creates a new instance of accountService.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	notifier portssvc.NotifierSvc,
) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		currencyRepo:    currencyRepo,
		userRepo:        userRepo,
		notifier:        notifier,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, ownerID string, currencyCode string, creatorUserID string) (*domain.Account, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency code %s", apperrors.ErrValidation, currencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency: %w", err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		OwnerID:      ownerID,
		CurrencyCode: currency.CurrencyCode,
		Balance:      decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

func (s *accountService) ListAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) GetAccountForUser(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.OwnerID != requestingUserID {
		return nil, fmt.Errorf("%w: account %s does not belong to the requesting user", apperrors.ErrForbidden, accountID)
	}
	return account, nil
}

func (s *accountService) GetStatement(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, []domain.Transaction, error) {
	account, err := s.GetAccountForUser(ctx, accountID, requestingUserID)
	if err != nil {
		return nil, nil, err
	}

	txns, err := s.transactionRepo.FindTransactionsByAccountID(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load account history: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return account, txns, nil
}

func (s *accountService) ExportStatement(ctx context.Context, accountID string, requestingUserID string, format string) (string, []byte, error) {
	account, txns, err := s.GetStatement(ctx, accountID, requestingUserID)
	if err != nil {
		return "", nil, err
	}

	content, err := export.Render(format, *account, txns)
	if err != nil {
		return "", nil, err
	}
	return export.Filename(accountID, format), content, nil
}

func (s *accountService) EmailStatement(ctx context.Context, accountID string, requestingUserID string, format string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	filename, content, err := s.ExportStatement(ctx, accountID, requestingUserID, format)
	if err != nil {
		return err
	}

	owner, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return fmt.Errorf("failed to load statement recipient: %w", err)
	}

	s.notifier.NotifyStatement(portssvc.StatementNotice{
		RecipientEmail: owner.Email,
		RecipientName:  owner.FullName,
		AccountID:      accountID,
		Filename:       filename,
		ContentType:    export.ContentType(format),
		Content:        content,
	})
	logger.Info("Statement export enqueued",
		slog.String("account_id", accountID),
		slog.String("format", format))
	return nil
}
