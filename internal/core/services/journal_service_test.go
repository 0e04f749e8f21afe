package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/internal/core/services"
	"github.com/openledgerhq/ledger_engine/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	service         portssvc.JournalSvcFacade
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	accountSvc := services.NewAccountService(suite.mockAccountRepo)
	suite.service = services.NewJournalService(suite.mockJournalRepo, accountSvc)
}

func (suite *JournalServiceTestSuite) postRequest() dto.PostTransactionRequest {
	return dto.PostTransactionRequest{
		Date:          "2026-08-01",
		ReferenceType: "sale",
		ReferenceID:   "inv-1001",
		Narration:     "Cash sale",
		Lines: []dto.EntryLineRequest{
			{AccountCode: "ASSET.CASH", Debit: decimal.NewFromInt(150)},
			{AccountCode: "INCOME.SALES", Credit: decimal.NewFromInt(150)},
		},
	}
}

func (suite *JournalServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	cash := cashAccount()
	sales := salesAccount()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{cash.Code, sales.Code}).
		Return(accountsByCode(cash, sales), nil).Once()
	suite.mockJournalRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.JournalTransaction"), (*string)(nil), []portsrepo.BalanceGuard(nil)).
		Return(nil).Once()

	txn, err := suite.service.Post(ctx, suite.postRequest(), "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(domain.RefSale, txn.ReferenceType)
	suite.Equal("2026-08-01", txn.Date.Format(dto.DateFormat))
	suite.Require().Len(txn.Lines, 2)
	suite.Equal(1, txn.Lines[0].LineSeq)
	suite.Equal(2, txn.Lines[1].LineSeq)
	suite.Equal(txn.TransactionID, txn.Lines[0].TransactionID)
	suite.True(txn.TotalDebit().Equal(txn.TotalCredit()))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPost_UnbalancedLines() {
	req := suite.postRequest()
	req.Lines[1].Credit = decimal.NewFromInt(149)

	txn, err := suite.service.Post(context.Background(), req, "user-1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *JournalServiceTestSuite) TestPost_LineWithBothSides() {
	req := suite.postRequest()
	req.Lines[0].Credit = decimal.NewFromInt(150)
	req.Lines[0].Debit = decimal.NewFromInt(150)

	txn, err := suite.service.Post(context.Background(), req, "user-1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInvalidLine)
}

func (suite *JournalServiceTestSuite) TestPost_SubMinorUnitPrecision() {
	req := suite.postRequest()
	req.Lines[0].Debit = decimal.RequireFromString("150.001")
	req.Lines[1].Credit = decimal.RequireFromString("150.001")

	txn, err := suite.service.Post(context.Background(), req, "user-1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInvalidLine)
}

func (suite *JournalServiceTestSuite) TestPost_UnknownReferenceType() {
	req := suite.postRequest()
	req.ReferenceType = "GIFT"

	txn, err := suite.service.Post(context.Background(), req, "user-1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPost_UnknownAccount() {
	ctx := context.Background()
	cash := cashAccount()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).
		Return(accountsByCode(cash), nil).Once()

	txn, err := suite.service.Post(ctx, suite.postRequest(), "user-1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrUnknownAccount)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *JournalServiceTestSuite) TestPost_InactiveAccount() {
	ctx := context.Background()
	cash := cashAccount()
	sales := salesAccount()
	sales.IsActive = false
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).
		Return(accountsByCode(cash, sales), nil).Once()

	txn, err := suite.service.Post(ctx, suite.postRequest(), "user-1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "inactive")
}

func (suite *JournalServiceTestSuite) TestPost_PropagatesDuplicateIdempotencyKey() {
	ctx := context.Background()
	cash := cashAccount()
	sales := salesAccount()
	key := "sale-1001"
	req := suite.postRequest()
	req.IdempotencyKey = &key

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).
		Return(accountsByCode(cash, sales), nil).Once()
	suite.mockJournalRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.JournalTransaction"), &key, []portsrepo.BalanceGuard(nil)).
		Return(apperrors.ErrDuplicate).Once()

	txn, err := suite.service.Post(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *JournalServiceTestSuite) TestReverse_Success() {
	ctx := context.Background()
	original := &domain.JournalTransaction{
		TransactionID: "txn-1",
		Date:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ReferenceType: domain.RefSale,
		ReferenceID:   "inv-1001",
		Narration:     "Cash sale",
		Lines: []domain.EntryLine{
			{TransactionID: "txn-1", LineSeq: 1, AccountCode: "ASSET.CASH", Debit: decimal.NewFromInt(150)},
			{TransactionID: "txn-1", LineSeq: 2, AccountCode: "INCOME.SALES", Credit: decimal.NewFromInt(150)},
		},
	}
	suite.mockJournalRepo.On("FindTransactionByID", ctx, "txn-1").Return(original, nil).Once()
	suite.mockJournalRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.JournalTransaction"), "txn-1", "user-2", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	reversing, err := suite.service.Reverse(ctx, "txn-1", "user-2")

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal(domain.RefReversal, reversing.ReferenceType)
	suite.Equal("txn-1", reversing.ReferenceID)
	suite.Require().NotNil(reversing.ReversalOf)
	suite.Equal("txn-1", *reversing.ReversalOf)
	suite.Require().Len(reversing.Lines, 2)
	// Lines are mirror images of the original.
	suite.True(reversing.Lines[0].Credit.Equal(decimal.NewFromInt(150)))
	suite.True(reversing.Lines[0].Debit.IsZero())
	suite.True(reversing.Lines[1].Debit.Equal(decimal.NewFromInt(150)))
	suite.True(reversing.Lines[1].Credit.IsZero())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverse_AlreadyReversed() {
	ctx := context.Background()
	reversedBy := "txn-9"
	original := &domain.JournalTransaction{
		TransactionID: "txn-1",
		ReversedBy:    &reversedBy,
	}
	suite.mockJournalRepo.On("FindTransactionByID", ctx, "txn-1").Return(original, nil).Once()

	reversing, err := suite.service.Reverse(ctx, "txn-1", "user-2")

	suite.Require().Error(err)
	suite.Nil(reversing)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal")
}

func (suite *JournalServiceTestSuite) TestReverse_CannotReverseAReversal() {
	ctx := context.Background()
	originalID := "txn-1"
	reversal := &domain.JournalTransaction{
		TransactionID: "txn-2",
		ReversalOf:    &originalID,
	}
	suite.mockJournalRepo.On("FindTransactionByID", ctx, "txn-2").Return(reversal, nil).Once()

	reversing, err := suite.service.Reverse(ctx, "txn-2", "user-2")

	suite.Require().Error(err)
	suite.Nil(reversing)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestReverse_NotFound() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindTransactionByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	reversing, err := suite.service.Reverse(ctx, "missing", "user-2")

	suite.Require().Error(err)
	suite.Nil(reversing)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()
	suite.mockJournalRepo.On("ListTransactions", ctx, portsrepo.ListTransactionsParams{Limit: 20}).
		Return([]domain.JournalTransaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Transactions)
	suite.Nil(resp.NextToken)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
