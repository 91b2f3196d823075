package services

import (
	"context"

	"github.com/yalapay/yala_backend/internal/core/domain"
	"github.com/yalapay/yala_backend/internal/dto"
)

// TransferSvcFacade coordinates money movement between accounts.
type TransferSvcFacade interface {
	// CreateTransfer validates and commits a transfer initiated by the given
	// user. The whole movement (debit, credit, history record) happens
	// atomically; on any failure no balance changes.
	CreateTransfer(ctx context.Context, initiatorUserID string, req dto.CreateTransferRequest) (*domain.Transaction, error)

	// ListTransfersForUser retrieves all transfers where the user is sender or
	// receiver, newest first.
	ListTransfersForUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}
