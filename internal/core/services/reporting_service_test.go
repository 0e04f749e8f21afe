package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_BalancedBook() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	sums := []portsrepo.TrialBalanceSum{
		{AccountCode: "ASSET.CASH", AccountName: "Cash in Hand", AccountType: domain.Asset,
			TotalDebit: decimal.NewFromInt(1000), TotalCredit: decimal.NewFromInt(300)},
		{AccountCode: "INCOME.SALES", AccountName: "Sales Revenue", AccountType: domain.Income,
			TotalDebit: decimal.Zero, TotalCredit: decimal.NewFromInt(700)},
		{AccountCode: "EQUITY.CAPITAL", AccountName: "Owner Capital", AccountType: domain.Equity,
			TotalDebit: decimal.NewFromInt(300), TotalCredit: decimal.NewFromInt(300)},
	}
	suite.mockRepo.On("GetTrialBalanceSums", ctx, asOf).Return(sums, nil).Once()

	report, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 3)

	// Cash sits on its debit column.
	suite.True(report.Rows[0].Debit.Equal(decimal.NewFromInt(700)))
	suite.True(report.Rows[0].Credit.IsZero())
	// Sales sits on its credit column.
	suite.True(report.Rows[1].Debit.IsZero())
	suite.True(report.Rows[1].Credit.Equal(decimal.NewFromInt(700)))
	// Capital washed out to zero but stays in the report.
	suite.True(report.Rows[2].Debit.IsZero())
	suite.True(report.Rows[2].Credit.IsZero())

	suite.True(report.Totals.TotalDebit.Equal(decimal.NewFromInt(700)))
	suite.True(report.Totals.TotalCredit.Equal(decimal.NewFromInt(700)))
	suite.True(report.Totals.Difference.IsZero())
	suite.True(report.Totals.IsBalanced)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_NegativeDebitNormalShowsOnCreditColumn() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	sums := []portsrepo.TrialBalanceSum{
		{AccountCode: "ASSET.BANK", AccountName: "Bank Account", AccountType: domain.Asset,
			TotalDebit: decimal.NewFromInt(100), TotalCredit: decimal.NewFromInt(250)},
		{AccountCode: "LIABILITY.PAYABLE", AccountName: "Accounts Payable", AccountType: domain.Liability,
			TotalDebit: decimal.NewFromInt(150), TotalCredit: decimal.Zero},
	}
	suite.mockRepo.On("GetTrialBalanceSums", ctx, asOf).Return(sums, nil).Once()

	report, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	// An overdrawn asset shows its magnitude on the credit column.
	suite.True(report.Rows[0].Credit.Equal(decimal.NewFromInt(150)))
	suite.True(report.Rows[0].Debit.IsZero())
	// A debit-standing liability shows on the debit column.
	suite.True(report.Rows[1].Debit.Equal(decimal.NewFromInt(150)))
	suite.True(report.Rows[1].Credit.IsZero())
	suite.True(report.Totals.IsBalanced)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_SurfacesImbalance() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// A corrupt entry log: debits and credits do not wash out.
	sums := []portsrepo.TrialBalanceSum{
		{AccountCode: "ASSET.CASH", AccountName: "Cash in Hand", AccountType: domain.Asset,
			TotalDebit: decimal.NewFromInt(500), TotalCredit: decimal.Zero},
		{AccountCode: "INCOME.SALES", AccountName: "Sales Revenue", AccountType: domain.Income,
			TotalDebit: decimal.Zero, TotalCredit: decimal.NewFromInt(450)},
	}
	suite.mockRepo.On("GetTrialBalanceSums", ctx, asOf).Return(sums, nil).Once()

	report, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	suite.False(report.Totals.IsBalanced)
	suite.True(report.Totals.Difference.Equal(decimal.NewFromInt(50)))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_EmptyChart() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	suite.mockRepo.On("GetTrialBalanceSums", ctx, asOf).Return([]portsrepo.TrialBalanceSum{}, nil).Once()

	report, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	suite.Empty(report.Rows)
	suite.True(report.Totals.IsBalanced)
	suite.Equal(asOf, report.AsOf)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
