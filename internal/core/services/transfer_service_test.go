package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yalapay/yala_backend/internal/apperrors"
	"github.com/yalapay/yala_backend/internal/core/domain"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/internal/core/services"
	"github.com/yalapay/yala_backend/internal/dto"
)

type TransferServiceTestSuite struct {
	suite.Suite
	accountRepo *MockAccountRepository
	txnRepo     *MockTransactionRepository
	userRepo    *MockUserRepository
	exchangeSvc *MockExchangeSvc
	notifier    *MockNotifier
	service     portssvc.TransferSvcFacade

	sender   domain.User
	receiver domain.User
	source   domain.Account
	dest     domain.Account
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.accountRepo = new(MockAccountRepository)
	suite.txnRepo = new(MockTransactionRepository)
	suite.userRepo = new(MockUserRepository)
	suite.exchangeSvc = new(MockExchangeSvc)
	suite.notifier = new(MockNotifier)
	suite.service = services.NewTransferService(suite.accountRepo, suite.txnRepo, suite.userRepo, suite.exchangeSvc, suite.notifier)

	suite.sender = domain.User{UserID: uuid.NewString(), Email: "x@example.com", FullName: "X Demo"}
	suite.receiver = domain.User{UserID: uuid.NewString(), Email: "y@example.com", FullName: "Y Demo"}
	suite.source = domain.Account{
		AccountID:    uuid.NewString(),
		OwnerID:      suite.sender.UserID,
		CurrencyCode: "PEN",
		Balance:      decimal.RequireFromString("100"),
	}
	suite.dest = domain.Account{
		AccountID:    uuid.NewString(),
		OwnerID:      suite.receiver.UserID,
		CurrencyCode: "USD",
		Balance:      decimal.RequireFromString("50"),
	}
}

func (suite *TransferServiceTestSuite) request(amount string) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		SourceAccountID:      suite.source.AccountID,
		DestinationAccountID: suite.dest.AccountID,
		Amount:               decimal.RequireFromString(amount),
		Description:          "lunch",
	}
}

func (suite *TransferServiceTestSuite) expectAccountLookups() {
	ctx := mock.Anything
	suite.accountRepo.On("FindAccountByID", ctx, suite.source.AccountID).Return(&suite.source, nil).Once()
	suite.accountRepo.On("FindAccountByID", ctx, suite.dest.AccountID).Return(&suite.dest, nil).Once()
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_CrossCurrency_Success() {
	ctx := context.Background()
	rate := decimal.RequireFromString("3.5")

	suite.expectAccountLookups()
	suite.exchangeSvc.On("Resolve", mock.Anything, "PEN", "USD").Return(rate, "exchangerate-api", nil).Once()
	suite.txnRepo.On("SaveTransfer", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.SourceAmount.Equal(decimal.RequireFromString("100")) &&
			txn.DestinationAmount.Equal(decimal.RequireFromString("350")) &&
			txn.ExchangeRate.Equal(rate) &&
			txn.SourceCurrencyCode == "PEN" &&
			txn.DestinationCurrencyCode == "USD" &&
			txn.SenderID == suite.sender.UserID &&
			txn.ReceiverID == suite.receiver.UserID
	})).Return(nil).Once()
	suite.userRepo.On("FindUserByID", mock.Anything, suite.sender.UserID).Return(&suite.sender, nil).Once()
	suite.userRepo.On("FindUserByID", mock.Anything, suite.receiver.UserID).Return(&suite.receiver, nil).Once()
	suite.notifier.On("NotifyTransfer", mock.MatchedBy(func(n portssvc.TransferNotice) bool {
		return n.Outgoing && n.RecipientEmail == suite.sender.Email
	})).Once()
	suite.notifier.On("NotifyTransfer", mock.MatchedBy(func(n portssvc.TransferNotice) bool {
		return !n.Outgoing && n.RecipientEmail == suite.receiver.Email
	})).Once()

	txn, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("100"))

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(txn.DestinationAmount.Equal(decimal.RequireFromString("350")))
	suite.NotEmpty(txn.TransactionID)

	suite.accountRepo.AssertExpectations(suite.T())
	suite.txnRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SameCurrency_RateOne() {
	ctx := context.Background()
	suite.dest.CurrencyCode = "PEN"

	suite.expectAccountLookups()
	suite.exchangeSvc.On("Resolve", mock.Anything, "PEN", "PEN").Return(decimal.NewFromInt(1), "", nil).Once()
	suite.txnRepo.On("SaveTransfer", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.ExchangeRate.Equal(decimal.NewFromInt(1)) &&
			txn.DestinationAmount.Equal(txn.SourceAmount)
	})).Return(nil).Once()
	suite.userRepo.On("FindUserByID", mock.Anything, mock.Anything).Return(&suite.sender, nil)
	suite.notifier.On("NotifyTransfer", mock.Anything)

	txn, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("25"))

	suite.Require().NoError(err)
	suite.True(txn.DestinationAmount.Equal(decimal.RequireFromString("25")))
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SourceNotFound() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", mock.Anything, suite.source.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("10"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(txn)
	suite.exchangeSvc.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SourceOwnedByAnotherUser() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", mock.Anything, suite.source.AccountID).Return(&suite.source, nil).Once()

	txn, err := suite.service.CreateTransfer(ctx, suite.receiver.UserID, suite.request("10"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(txn)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_DestinationNotFound() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", mock.Anything, suite.source.AccountID).Return(&suite.source, nil).Once()
	suite.accountRepo.On("FindAccountByID", mock.Anything, suite.dest.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("10"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SameAccountRejected() {
	ctx := context.Background()
	req := suite.request("10")
	req.DestinationAccountID = suite.source.AccountID
	suite.accountRepo.On("FindAccountByID", mock.Anything, suite.source.AccountID).Return(&suite.source, nil).Twice()

	_, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_NonPositiveAmount() {
	ctx := context.Background()
	suite.expectAccountLookups()

	_, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("0"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_InsufficientBalance() {
	ctx := context.Background()
	suite.expectAccountLookups()

	_, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("100.01"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.exchangeSvc.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_RateUnavailable_NoBalanceChange() {
	ctx := context.Background()
	suite.expectAccountLookups()
	suite.exchangeSvc.On("Resolve", mock.Anything, "PEN", "USD").
		Return(decimal.Zero, "", apperrors.ErrRateResolution).Once()

	_, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("10"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateResolution)
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything)
	suite.notifier.AssertNotCalled(suite.T(), "NotifyTransfer", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_ConcurrentDrain_CommitFails() {
	// The pre-check passes but the repository finds the balance short once
	// the row locks are held.
	ctx := context.Background()
	suite.expectAccountLookups()
	suite.exchangeSvc.On("Resolve", mock.Anything, "PEN", "USD").Return(decimal.RequireFromString("3.5"), "exchangerate-api", nil).Once()
	suite.txnRepo.On("SaveTransfer", mock.Anything, mock.Anything).Return(apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("100"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.notifier.AssertNotCalled(suite.T(), "NotifyTransfer", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SelfTransfer_SingleNotification() {
	// Sender and receiver are the same user with two currency accounts; only
	// one email goes out.
	ctx := context.Background()
	suite.dest.OwnerID = suite.sender.UserID

	suite.expectAccountLookups()
	suite.exchangeSvc.On("Resolve", mock.Anything, "PEN", "USD").Return(decimal.RequireFromString("0.27"), "exchangerate-api", nil).Once()
	suite.txnRepo.On("SaveTransfer", mock.Anything, mock.Anything).Return(nil).Once()
	suite.userRepo.On("FindUserByID", mock.Anything, suite.sender.UserID).Return(&suite.sender, nil).Once()
	suite.notifier.On("NotifyTransfer", mock.MatchedBy(func(n portssvc.TransferNotice) bool {
		return n.Outgoing && n.RecipientEmail == suite.sender.Email
	})).Once()

	_, err := suite.service.CreateTransfer(ctx, suite.sender.UserID, suite.request("50"))

	suite.Require().NoError(err)
	suite.notifier.AssertNumberOfCalls(suite.T(), "NotifyTransfer", 1)
}

func (suite *TransferServiceTestSuite) TestListTransfersForUser() {
	ctx := context.Background()
	expected := []domain.Transaction{{TransactionID: uuid.NewString()}}
	suite.txnRepo.On("FindTransactionsByUserID", ctx, suite.sender.UserID).Return(expected, nil).Once()

	txns, err := suite.service.ListTransfersForUser(ctx, suite.sender.UserID)

	suite.Require().NoError(err)
	suite.Equal(expected, txns)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
