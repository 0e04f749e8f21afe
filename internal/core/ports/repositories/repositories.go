// Package repositories defines the persistence contracts the core services
// depend on. Implementations live under internal/repositories.
package repositories

import (
	"context"
	"time"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountFilter narrows ListAccounts results. Nil fields mean "any".
type AccountFilter struct {
	AccountType *domain.AccountType
	IsCash      *bool
	IsBank      *bool
}

// AccountRepository persists the chart of accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
}

// BalanceGuard asks SaveTransaction to verify, inside the same database
// transaction that performs the append, that the account's balance after the
// posting is not negative. This closes the check-then-act gap between a
// pre-posting balance read and the posting itself: the guard runs under the
// account's row lock, so concurrent postings against the same account
// serialize and the loser sees the winner's committed lines.
type BalanceGuard struct {
	AccountCode string
	NormalSide  domain.NormalSide
}

// ListTransactionsParams controls cursor pagination of the journal log.
type ListTransactionsParams struct {
	AccountCode string // Optional: only transactions touching this account
	Limit       int
	NextToken   *string
}

// LedgerRow is one entry-line row of an account ledger query, carrying the
// raw debit-minus-credit running sum computed over the full ordered history.
type LedgerRow struct {
	TransactionID string
	Date          time.Time
	ReferenceType domain.ReferenceType
	ReferenceID   string
	Narration     string
	LineSeq       int
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	RawRunning    decimal.Decimal // Σ(debit−credit) up to and including this row
}

// LedgerWindow is the result of one paged ledger query.
type LedgerWindow struct {
	Rows      []LedgerRow
	Total     int64     // Row count over the whole window, not just this page
	FirstDate time.Time // Date of the window's first entry; zero when empty
}

// JournalRepository persists the append-only transaction log.
type JournalRepository interface {
	// SaveTransaction durably appends the transaction and all its lines as a
	// single atomic unit, or nothing at all. Guards, when present, are
	// re-validated under row locks inside the same database transaction and
	// fail the whole append with apperrors.ErrInsufficientBalance.
	// A transaction with a duplicate idempotency key fails with
	// apperrors.ErrDuplicate.
	SaveTransaction(ctx context.Context, txn domain.JournalTransaction, idempotencyKey *string, guards []BalanceGuard) error

	// SaveReversal appends the reversing transaction and links the original
	// to it, atomically.
	SaveReversal(ctx context.Context, reversing domain.JournalTransaction, originalID string, userID string, at time.Time) error

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.JournalTransaction, error)
	FindTransactionByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.JournalTransaction, error)
	ListTransactions(ctx context.Context, params ListTransactionsParams) ([]domain.JournalTransaction, *string, error)

	// AccountEntrySums returns the gross debit and credit totals for an
	// account over lines dated on or before asOf.
	AccountEntrySums(ctx context.Context, accountCode string, asOf time.Time) (debit, credit decimal.Decimal, err error)

	// PageAccountEntries returns one page of the account's ledger window
	// (entries dated on or before asOf) in (date, transaction_id, line_seq)
	// order, with running sums computed before slicing.
	PageAccountEntries(ctx context.Context, accountCode string, asOf time.Time, limit, offset int) (*LedgerWindow, error)
}

// TrialBalanceSum is one account's gross totals as of a date, zero for
// accounts with no postings.
type TrialBalanceSum struct {
	AccountCode string
	AccountName string
	AccountType domain.AccountType
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// ReportingRepository serves read-only report aggregations.
type ReportingRepository interface {
	GetTrialBalanceSums(ctx context.Context, asOf time.Time) ([]TrialBalanceSum, error)
}

// RepositoryProvider bundles the repository implementations for service
// construction.
type RepositoryProvider struct {
	AccountRepo   AccountRepository
	JournalRepo   JournalRepository
	ReportingRepo ReportingRepository
}
