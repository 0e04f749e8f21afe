package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/internal/dto"
	"github.com/openledgerhq/ledger_engine/internal/middleware"
	"github.com/openledgerhq/ledger_engine/internal/utils/accounting"
)

// ledgerService derives balances and running-balance ledger views from the
// entry log. Nothing here writes; a balance is always a fold over lines.
type ledgerService struct {
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepository
}

// NewLedgerService creates a new ledger reader.
func NewLedgerService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// BalanceAsOf folds every entry line dated on or before asOf into the
// account's normal-side balance.
func (s *ledgerService) BalanceAsOf(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountSvc.Resolve(ctx, accountCode)
	if err != nil {
		return decimal.Zero, err
	}

	totalDebit, totalCredit, err := s.journalRepo.AccountEntrySums(ctx, account.Code, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries for account %s: %w", account.Code, err)
	}

	return accounting.NormalSideBalance(totalDebit, totalCredit, account.AccountType.NormalSide()), nil
}

// PageLedger returns one page of the account's chronological ledger with an
// opening balance, per-row running balances, and a closing balance as of the
// window end. Running sums are evaluated over the full filtered history before
// the page is sliced out, so they carry across page boundaries.
func (s *ledgerService) PageLedger(ctx context.Context, accountCode string, params dto.LedgerPageParams) (*domain.LedgerPage, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.Resolve(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	page := params.Page
	if page <= 0 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	offset := (page - 1) * limit

	window, err := s.journalRepo.PageAccountEntries(ctx, account.Code, asOf, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to page entries for account %s: %w", account.Code, err)
	}

	normalSide := account.AccountType.NormalSide()
	result := &domain.LedgerPage{
		AccountCode:    account.Code,
		OpeningBalance: decimal.Zero,
		Entries:        make([]domain.LedgerEntry, 0, len(window.Rows)),
		ClosingBalance: decimal.Zero,
		Total:          window.Total,
		Page:           page,
		Limit:          limit,
	}

	if window.Total == 0 {
		return result, nil
	}

	// Opening balance is the account's position the instant before its first
	// entry in the window; closing is the position at the window end.
	opening, err := s.balanceFromSums(ctx, account, window.FirstDate.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	closing, err := s.balanceFromSums(ctx, account, asOf)
	if err != nil {
		return nil, err
	}
	result.OpeningBalance = opening
	result.ClosingBalance = closing

	for _, row := range window.Rows {
		running := row.RawRunning
		if normalSide == domain.CreditNormal {
			running = running.Neg()
		}
		result.Entries = append(result.Entries, domain.LedgerEntry{
			TransactionID:  row.TransactionID,
			Date:           row.Date,
			ReferenceType:  row.ReferenceType,
			ReferenceID:    row.ReferenceID,
			Narration:      row.Narration,
			Debit:          row.Debit,
			Credit:         row.Credit,
			RunningBalance: running,
		})
	}

	logger.Debug("Ledger page served",
		slog.String("account_code", account.Code),
		slog.Int("page", page),
		slog.Int64("total", window.Total))
	return result, nil
}

func (s *ledgerService) balanceFromSums(ctx context.Context, account *domain.Account, asOf time.Time) (decimal.Decimal, error) {
	totalDebit, totalCredit, err := s.journalRepo.AccountEntrySums(ctx, account.Code, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries for account %s: %w", account.Code, err)
	}
	return accounting.NormalSideBalance(totalDebit, totalCredit, account.AccountType.NormalSide()), nil
}
