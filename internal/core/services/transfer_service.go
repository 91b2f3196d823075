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
	"github.com/yalapay/yala_backend/internal/dto"
	"github.com/yalapay/yala_backend/internal/middleware"
	"github.com/yalapay/yala_backend/internal/platform/metrics"
)

type transferService struct {
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	userRepo        portsrepo.UserRepositoryFacade
	exchangeSvc     portssvc.ExchangeSvcFacade
	notifier        portssvc.NotifierSvc
}

// NewTransferService creates a new instance of transferService.
func NewTransferService(
	accountRepo portsrepo.AccountRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	exchangeSvc portssvc.ExchangeSvcFacade,
	notifier portssvc.NotifierSvc,
) portssvc.TransferSvcFacade {
	return &transferService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		exchangeSvc:     exchangeSvc,
		notifier:        notifier,
	}
}

// CreateTransfer validates the transfer in a fixed precondition order, then
// hands the balance movement to the repository for an atomic commit. The
// repository re-checks sufficiency under row locks, so a concurrent transfer
// draining the source between the pre-check and the commit still fails cleanly.
func (s *transferService) CreateTransfer(ctx context.Context, initiatorUserID string, req dto.CreateTransferRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.accountRepo.FindAccountByID(ctx, req.SourceAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.TransfersTotal.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: source account %s", apperrors.ErrNotFound, req.SourceAccountID)
		}
		return nil, fmt.Errorf("failed to load source account: %w", err)
	}
	if source.OwnerID != initiatorUserID {
		metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: account %s does not belong to the requesting user", apperrors.ErrForbidden, req.SourceAccountID)
	}

	destination, err := s.accountRepo.FindAccountByID(ctx, req.DestinationAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.TransfersTotal.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: destination account %s", apperrors.ErrNotFound, req.DestinationAccountID)
		}
		return nil, fmt.Errorf("failed to load destination account: %w", err)
	}

	if req.SourceAccountID == req.DestinationAccountID {
		metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if source.Balance.LessThan(req.Amount) {
		metrics.TransfersTotal.WithLabelValues("insufficient_funds").Inc()
		return nil, fmt.Errorf("%w: account %s holds %s %s", apperrors.ErrInsufficientFunds, source.AccountID, source.Balance, source.CurrencyCode)
	}

	rate, provider, err := s.exchangeSvc.Resolve(ctx, source.CurrencyCode, destination.CurrencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateResolution) {
			metrics.TransfersTotal.WithLabelValues("rate_unavailable").Inc()
		} else {
			metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:           uuid.NewString(),
		SenderID:                source.OwnerID,
		ReceiverID:              destination.OwnerID,
		SourceAccountID:         source.AccountID,
		DestinationAccountID:    destination.AccountID,
		SourceAmount:            req.Amount,
		SourceCurrencyCode:      source.CurrencyCode,
		DestinationAmount:       req.Amount.Mul(rate),
		DestinationCurrencyCode: destination.CurrencyCode,
		ExchangeRate:            rate,
		Description:             req.Description,
		Timestamp:               time.Now().UTC(),
	}

	if err := s.transactionRepo.SaveTransfer(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			metrics.TransfersTotal.WithLabelValues("insufficient_funds").Inc()
		} else {
			metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		}
		logger.Error("Transfer commit failed",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("error", err.Error()))
		return nil, err
	}

	metrics.TransfersTotal.WithLabelValues("committed").Inc()
	metrics.TransferAmountTotal.WithLabelValues(txn.SourceCurrencyCode).Add(amountForMetric(txn.SourceAmount))
	logger.Info("Transfer committed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("source_account", txn.SourceAccountID),
		slog.String("destination_account", txn.DestinationAccountID),
		slog.String("amount", txn.SourceAmount.String()),
		slog.String("rate", txn.ExchangeRate.String()),
		slog.String("provider", provider))

	s.notifyParties(ctx, txn)

	return &txn, nil
}

func (s *transferService) ListTransfersForUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.FindTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// notifyParties enqueues the confirmation emails. Lookup failures only cost
// the email, never the committed transfer.
func (s *transferService) notifyParties(ctx context.Context, txn domain.Transaction) {
	logger := middleware.GetLoggerFromCtx(ctx)

	parties := []struct {
		userID   string
		outgoing bool
	}{
		{txn.SenderID, true},
		{txn.ReceiverID, false},
	}
	seen := make(map[string]bool, len(parties))
	for _, p := range parties {
		if seen[p.userID] {
			continue
		}
		seen[p.userID] = true

		user, err := s.userRepo.FindUserByID(ctx, p.userID)
		if err != nil {
			logger.Warn("Skipping transfer notification, user lookup failed",
				slog.String("user_id", p.userID),
				slog.String("error", err.Error()))
			continue
		}
		s.notifier.NotifyTransfer(portssvc.TransferNotice{
			RecipientEmail: user.Email,
			RecipientName:  user.FullName,
			Outgoing:       p.outgoing,
			Transaction:    txn,
		})
	}
}

func amountForMetric(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
