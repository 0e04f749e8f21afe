package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// MockJournalRepository is a mock type for the JournalRepository interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveTransaction(ctx context.Context, txn domain.JournalTransaction, idempotencyKey *string, guards []portsrepo.BalanceGuard) error {
	args := m.Called(ctx, txn, idempotencyKey, guards)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalTransaction, originalID string, userID string, at time.Time) error {
	args := m.Called(ctx, reversing, originalID, userID, at)
	return args.Error(0)
}

func (m *MockJournalRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.JournalTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalTransaction), args.Error(1)
}

func (m *MockJournalRepository) FindTransactionByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.JournalTransaction, error) {
	args := m.Called(ctx, refType, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalTransaction), args.Error(1)
}

func (m *MockJournalRepository) ListTransactions(ctx context.Context, params portsrepo.ListTransactionsParams) ([]domain.JournalTransaction, *string, error) {
	args := m.Called(ctx, params)
	var txns []domain.JournalTransaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.JournalTransaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockJournalRepository) AccountEntrySums(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountCode, asOf)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockJournalRepository) PageAccountEntries(ctx context.Context, accountCode string, asOf time.Time, limit, offset int) (*portsrepo.LedgerWindow, error) {
	args := m.Called(ctx, accountCode, asOf, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.LedgerWindow), args.Error(1)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetTrialBalanceSums(ctx context.Context, asOf time.Time) ([]portsrepo.TrialBalanceSum, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.TrialBalanceSum), args.Error(1)
}

// --- Shared fixtures ---

func cashAccount() domain.Account {
	return domain.Account{
		Code:        "ASSET.CASH",
		Name:        "Cash in Hand",
		AccountType: domain.Asset,
		IsCash:      true,
		IsActive:    true,
	}
}

func bankAccount() domain.Account {
	return domain.Account{
		Code:        "ASSET.BANK",
		Name:        "Bank Account",
		AccountType: domain.Asset,
		IsBank:      true,
		IsActive:    true,
	}
}

func salesAccount() domain.Account {
	return domain.Account{
		Code:        "INCOME.SALES",
		Name:        "Sales Revenue",
		AccountType: domain.Income,
		IsActive:    true,
	}
}

func payableAccount() domain.Account {
	return domain.Account{
		Code:        "LIABILITY.PAYABLE",
		Name:        "Accounts Payable",
		AccountType: domain.Liability,
		IsActive:    true,
	}
}

func receivableAccount() domain.Account {
	return domain.Account{
		Code:        "ASSET.RECEIVABLE",
		Name:        "Accounts Receivable",
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

func capitalAccount() domain.Account {
	return domain.Account{
		Code:        "EQUITY.CAPITAL",
		Name:        "Owner Capital",
		AccountType: domain.Equity,
		IsActive:    true,
	}
}

func accountsByCode(accounts ...domain.Account) map[string]domain.Account {
	result := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		result[acc.Code] = acc
	}
	return result
}
