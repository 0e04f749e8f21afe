package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for report aggregations.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceSums returns every account's gross debit and credit totals
// over lines dated on or before asOf. Accounts with no postings are included
// with zero totals via the left join.
func (r *PgxReportingRepository) GetTrialBalanceSums(ctx context.Context, asOf time.Time) ([]portsrepo.TrialBalanceSum, error) {
	query := `
		SELECT a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0) AS total_debit,
		       COALESCE(SUM(l.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN journal_entry_lines l
			JOIN journal_transactions t
				ON t.transaction_id = l.transaction_id AND t.txn_date <= $1
			ON l.account_code = a.code
		GROUP BY a.code, a.name, a.account_type, a.account_number
		ORDER BY a.account_number;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance sums", err)
	}
	defer rows.Close()

	sums := []portsrepo.TrialBalanceSum{}
	for rows.Next() {
		var s portsrepo.TrialBalanceSum
		if err := rows.Scan(&s.AccountCode, &s.AccountName, &s.AccountType, &s.TotalDebit, &s.TotalCredit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}
	return sums, nil
}
