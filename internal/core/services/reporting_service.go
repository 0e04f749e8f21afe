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
	"github.com/openledgerhq/ledger_engine/internal/middleware"
	"github.com/openledgerhq/ledger_engine/internal/utils/accounting"
)

// reportingService builds ledger-wide reports from scratch on every request.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance lists every account's balance as of a date, each placed on its
// normal column, with column totals. Equal totals are the ledger's structural
// self-audit; an inequality means the entry log is corrupt and is reported,
// never masked.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	sums, err := s.reportingRepo.GetTrialBalanceSums(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load trial balance sums: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf: asOf,
		Rows: make([]domain.TrialBalanceRow, 0, len(sums)),
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, sum := range sums {
		row := domain.TrialBalanceRow{
			AccountCode: sum.AccountCode,
			AccountName: sum.AccountName,
			AccountType: sum.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}

		balance := accounting.NormalSideBalance(sum.TotalDebit, sum.TotalCredit, sum.AccountType.NormalSide())
		switch {
		case balance.IsZero():
			// Zero-balance accounts stay in the report with zeros on both
			// columns.
		case sum.AccountType.NormalSide() == domain.DebitNormal:
			if balance.IsNegative() {
				// A debit-normal account driven negative shows on the credit
				// column, as its magnitude.
				row.Credit = balance.Neg()
			} else {
				row.Debit = balance
			}
		default:
			if balance.IsNegative() {
				row.Debit = balance.Neg()
			} else {
				row.Credit = balance
			}
		}

		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}

	difference := totalDebit.Sub(totalCredit)
	report.Totals = domain.TrialBalanceTotals{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  difference,
		IsBalanced:  difference.IsZero(),
	}

	if !report.Totals.IsBalanced {
		logger.Error("Trial balance does not balance",
			slog.Time("as_of", asOf),
			slog.String("difference", difference.String()))
	}

	return report, nil
}
