package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yalapay/yala_backend/internal/apperrors"
	"github.com/yalapay/yala_backend/internal/core/domain"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/internal/core/services"
)

type AccountServiceTestSuite struct {
	suite.Suite
	accountRepo  *MockAccountRepository
	txnRepo      *MockTransactionRepository
	currencyRepo *MockCurrencyRepository
	userRepo     *MockUserRepository
	notifier     *MockNotifier
	service      portssvc.AccountSvcFacade

	owner   domain.User
	account domain.Account
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.accountRepo = new(MockAccountRepository)
	suite.txnRepo = new(MockTransactionRepository)
	suite.currencyRepo = new(MockCurrencyRepository)
	suite.userRepo = new(MockUserRepository)
	suite.notifier = new(MockNotifier)
	suite.service = services.NewAccountService(suite.accountRepo, suite.txnRepo, suite.currencyRepo, suite.userRepo, suite.notifier)

	suite.owner = domain.User{UserID: uuid.NewString(), Email: "x@example.com", FullName: "X Demo"}
	suite.account = domain.Account{
		AccountID:    uuid.NewString(),
		OwnerID:      suite.owner.UserID,
		CurrencyCode: "PEN",
		Balance:      decimal.RequireFromString("100"),
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	suite.currencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.accountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.OwnerID == suite.owner.UserID && a.CurrencyCode == "USD" && a.Balance.IsZero()
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.owner.UserID, "USD", suite.owner.UserID)

	suite.Require().NoError(err)
	suite.True(account.Balance.IsZero())
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownCurrency() {
	ctx := context.Background()
	suite.currencyRepo.On("FindCurrencyByCode", ctx, "BTC").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.CreateAccount(ctx, suite.owner.UserID, "BTC", suite.owner.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.accountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountForUser_Forbidden() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()

	account, err := suite.service.GetAccountForUser(ctx, suite.account.AccountID, "someone-else")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestGetStatement_Success() {
	ctx := context.Background()
	history := []domain.Transaction{
		{TransactionID: uuid.NewString(), SourceAccountID: suite.account.AccountID},
	}
	suite.accountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.txnRepo.On("FindTransactionsByAccountID", ctx, suite.account.AccountID).Return(history, nil).Once()

	account, txns, err := suite.service.GetStatement(ctx, suite.account.AccountID, suite.owner.UserID)

	suite.Require().NoError(err)
	suite.Equal(suite.account.AccountID, account.AccountID)
	suite.Len(txns, 1)
}

func (suite *AccountServiceTestSuite) TestExportStatement_CSV() {
	ctx := context.Background()
	history := []domain.Transaction{
		{
			TransactionID:           uuid.NewString(),
			SourceAccountID:         suite.account.AccountID,
			DestinationAccountID:    uuid.NewString(),
			SourceAmount:            decimal.RequireFromString("10"),
			SourceCurrencyCode:      "PEN",
			DestinationAmount:       decimal.RequireFromString("2.7"),
			DestinationCurrencyCode: "USD",
			ExchangeRate:            decimal.RequireFromString("0.27"),
		},
	}
	suite.accountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.txnRepo.On("FindTransactionsByAccountID", ctx, suite.account.AccountID).Return(history, nil).Once()

	filename, content, err := suite.service.ExportStatement(ctx, suite.account.AccountID, suite.owner.UserID, "csv")

	suite.Require().NoError(err)
	suite.True(strings.HasSuffix(filename, ".csv"))
	suite.Contains(string(content), "transaction_id")
	suite.Contains(string(content), "debit")
}

func (suite *AccountServiceTestSuite) TestExportStatement_UnsupportedFormat() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.txnRepo.On("FindTransactionsByAccountID", ctx, suite.account.AccountID).Return([]domain.Transaction{}, nil).Once()

	_, _, err := suite.service.ExportStatement(ctx, suite.account.AccountID, suite.owner.UserID, "pdf")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestEmailStatement_EnqueuesNotice() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.txnRepo.On("FindTransactionsByAccountID", ctx, suite.account.AccountID).Return([]domain.Transaction{}, nil).Once()
	suite.userRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.notifier.On("NotifyStatement", mock.MatchedBy(func(n portssvc.StatementNotice) bool {
		return n.RecipientEmail == suite.owner.Email &&
			n.AccountID == suite.account.AccountID &&
			n.ContentType == "application/xml" &&
			len(n.Content) > 0
	})).Once()

	err := suite.service.EmailStatement(ctx, suite.account.AccountID, suite.owner.UserID, "xml")

	suite.Require().NoError(err)
	suite.notifier.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
