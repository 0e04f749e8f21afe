// Package services defines the service facades consumed by the HTTP layer
// and by other services.
package services

import (
	"context"
	"time"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	"github.com/openledgerhq/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade is the account registry: resolution and filtered listing
// over the chart of accounts, plus registration for chart administration.
// Balance mutation never goes through here.
type AccountSvcFacade interface {
	RegisterAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error)
	Resolve(ctx context.Context, code string) (*domain.Account, error)
	ResolveMany(ctx context.Context, codes []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, filter dto.ListAccountsParams) ([]domain.Account, error)
}

// JournalSvcFacade is the only write path into the ledger.
type JournalSvcFacade interface {
	Post(ctx context.Context, req dto.PostTransactionRequest, creatorID string) (*domain.JournalTransaction, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.JournalTransaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	Reverse(ctx context.Context, transactionID string, creatorID string) (*domain.JournalTransaction, error)
}

// LedgerSvcFacade serves point-in-time balances and running-balance views.
type LedgerSvcFacade interface {
	BalanceAsOf(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error)
	PageLedger(ctx context.Context, accountCode string, params dto.LedgerPageParams) (*domain.LedgerPage, error)
}

// ReportingSvcFacade produces ledger-wide reports.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
}

// TreasurySvcFacade composes journal postings for compound business
// operations with business-rule validation.
type TreasurySvcFacade interface {
	AddCash(ctx context.Context, req dto.AddCashRequest, creatorID string) (*domain.JournalTransaction, error)
	AddBankBalance(ctx context.Context, req dto.AddBankBalanceRequest, creatorID string) (*domain.JournalTransaction, error)
	FundTransfer(ctx context.Context, req dto.FundTransferRequest, creatorID string) (*domain.JournalTransaction, error)
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, creatorID string) (*domain.JournalTransaction, error)
}

// ServiceContainer bundles the service facades for route registration.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Journal   JournalSvcFacade
	Ledger    LedgerSvcFacade
	Reporting ReportingSvcFacade
	Treasury  TreasurySvcFacade
}
