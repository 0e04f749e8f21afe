package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
	"github.com/openledgerhq/ledger_engine/internal/utils/accounting"
	"github.com/openledgerhq/ledger_engine/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for the transaction log.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const txnColumns = `transaction_id, txn_date, reference_type, reference_id, narration, reversal_of, reversed_by, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (domain.JournalTransaction, error) {
	var t domain.JournalTransaction
	err := row.Scan(
		&t.TransactionID,
		&t.Date,
		&t.ReferenceType,
		&t.ReferenceID,
		&t.Narration,
		&t.ReversalOf,
		&t.ReversedBy,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

// SaveTransaction appends the transaction and all its lines atomically.
//
// Touched account rows are locked in code order first, so concurrent postings
// against overlapping account sets serialize without deadlocking, and the
// balance guards observe every committed line plus this transaction's own.
func (r *PgxJournalRepository) SaveTransaction(ctx context.Context, txn domain.JournalTransaction, idempotencyKey *string, guards []portsrepo.BalanceGuard) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.lockAccounts(ctx, tx, txn.Lines); err != nil {
		return err
	}

	if err := insertTransaction(ctx, tx, txn, idempotencyKey); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, txn); err != nil {
		return err
	}

	for _, guard := range guards {
		if err := checkGuard(ctx, tx, guard, txn.Date); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// SaveReversal appends the reversing transaction and marks the original as
// reversed, atomically. A concurrent reversal of the same original loses on
// the reversed_by update and gets a conflict.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalTransaction, originalID string, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.lockAccounts(ctx, tx, reversing.Lines); err != nil {
		return err
	}

	markQuery := `
		UPDATE journal_transactions
		SET reversed_by = $1, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4 AND reversed_by IS NULL;
	`
	tag, err := tx.Exec(ctx, markQuery, reversing.TransactionID, at, userID, originalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transaction "+originalID+" as reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrConflict, originalID)
	}

	if err := insertTransaction(ctx, tx, reversing, nil); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, reversing); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// lockAccounts takes row locks on every account touched by the lines, in
// code order. Missing accounts fail the append.
func (r *PgxJournalRepository) lockAccounts(ctx context.Context, tx pgx.Tx, lines []domain.EntryLine) error {
	seen := make(map[string]struct{}, len(lines))
	codes := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountCode]; !ok {
			seen[l.AccountCode] = struct{}{}
			codes = append(codes, l.AccountCode)
		}
	}
	sort.Strings(codes)

	query := `SELECT code FROM accounts WHERE code = ANY($1) ORDER BY code FOR UPDATE;`
	rows, err := tx.Query(ctx, query, codes)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return apperrors.NewAppError(500, "failed to scan locked account row", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating locked account rows", err)
	}
	if locked != len(codes) {
		return fmt.Errorf("%w: one or more accounts do not exist", apperrors.ErrUnknownAccount)
	}
	return nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, txn domain.JournalTransaction, idempotencyKey *string) error {
	query := `
		INSERT INTO journal_transactions (transaction_id, txn_date, reference_type, reference_id, narration, reversal_of, idempotency_key, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (idempotency_key) WHERE reversed_by IS NULL DO NOTHING;
	`
	tag, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.Date,
		txn.ReferenceType,
		txn.ReferenceID,
		txn.Narration,
		txn.ReversalOf,
		idempotencyKey,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, txn.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, txn domain.JournalTransaction) error {
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (transaction_id, line_seq, account_code, debit, credit)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range txn.Lines {
		batch.Queue(lineQuery,
			txn.TransactionID,
			line.LineSeq,
			line.AccountCode,
			line.Debit,
			line.Credit,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute entry line batch for transaction "+txn.TransactionID, err)
	}
	return nil
}

// checkGuard re-derives the account's balance inside the transaction, where
// the freshly inserted lines are visible, and fails the append if it went
// negative.
func checkGuard(ctx context.Context, tx pgx.Tx, guard portsrepo.BalanceGuard, asOf time.Time) error {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_transactions t ON t.transaction_id = l.transaction_id
		WHERE l.account_code = $1 AND t.txn_date <= $2;
	`
	var totalDebit, totalCredit decimal.Decimal
	if err := tx.QueryRow(ctx, query, guard.AccountCode, asOf).Scan(&totalDebit, &totalCredit); err != nil {
		return apperrors.NewAppError(500, "failed to check balance guard for account "+guard.AccountCode, err)
	}

	balance := accounting.NormalSideBalance(totalDebit, totalCredit, guard.NormalSide)
	if balance.IsNegative() {
		return fmt.Errorf("%w: account %s would go negative (%s)",
			apperrors.ErrInsufficientBalance, guard.AccountCode, balance.String())
	}
	return nil
}

// FindTransactionByID retrieves a transaction with its entry lines.
func (r *PgxJournalRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.JournalTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM journal_transactions WHERE transaction_id = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	lines, err := r.findLines(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn.Lines = lines
	return &txn, nil
}

// FindTransactionByReference retrieves the live (not reversed) transaction
// recorded for an external reference, if any.
func (r *PgxJournalRepository) FindTransactionByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.JournalTransaction, error) {
	query := `
		SELECT ` + txnColumns + `
		FROM journal_transactions
		WHERE reference_type = $1 AND reference_id = $2 AND reversed_by IS NULL AND reversal_of IS NULL
		ORDER BY created_at
		LIMIT 1;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, refType, refID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by reference", err)
	}
	return &txn, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, transactionID string) ([]domain.EntryLine, error) {
	query := `
		SELECT transaction_id, line_seq, account_code, debit, credit
		FROM journal_entry_lines
		WHERE transaction_id = $1
		ORDER BY line_seq;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entry lines for transaction "+transactionID, err)
	}
	defer rows.Close()

	lines := []domain.EntryLine{}
	for rows.Next() {
		var l domain.EntryLine
		if err := rows.Scan(&l.TransactionID, &l.LineSeq, &l.AccountCode, &l.Debit, &l.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry line row for transaction "+transactionID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry line rows for transaction "+transactionID, err)
	}
	return lines, nil
}

// ListTransactions retrieves a page of the journal log using token-based
// pagination, newest first, optionally restricted to transactions touching
// one account.
func (r *PgxJournalRepository) ListTransactions(ctx context.Context, params portsrepo.ListTransactionsParams) ([]domain.JournalTransaction, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + txnColumns + ` FROM journal_transactions WHERE 1=1`
	args := []interface{}{}

	if params.AccountCode != "" {
		args = append(args, params.AccountCode)
		baseQuery += ` AND EXISTS (
			SELECT 1 FROM journal_entry_lines l
			WHERE l.transaction_id = journal_transactions.transaction_id AND l.account_code = $` + strconv.Itoa(len(args)) + `)`
	}

	if params.NextToken != nil && *params.NextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*params.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		baseQuery += ` AND (txn_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY txn_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	txns := make([]domain.JournalTransaction, 0, fetchLimit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextTokenVal *string
	if len(txns) > limit {
		last := txns[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		txns = txns[:limit]
	}
	return txns, nextTokenVal, nil
}

// AccountEntrySums returns the gross debit and credit totals for an account
// over lines dated on or before asOf.
func (r *PgxJournalRepository) AccountEntrySums(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_transactions t ON t.transaction_id = l.transaction_id
		WHERE l.account_code = $1 AND t.txn_date <= $2;
	`
	var totalDebit, totalCredit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountCode, asOf).Scan(&totalDebit, &totalCredit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum entry lines for account "+accountCode, err)
	}
	return totalDebit, totalCredit, nil
}

// PageAccountEntries returns one page of the account's ledger window. Running
// sums and the window totals are evaluated over the full filtered history by
// window functions, then the page is sliced out, so running balances carry
// across page boundaries.
func (r *PgxJournalRepository) PageAccountEntries(ctx context.Context, accountCode string, asOf time.Time, limit, offset int) (*portsrepo.LedgerWindow, error) {
	query := `
		SELECT w.transaction_id, w.txn_date, w.reference_type, w.reference_id, w.narration, w.line_seq, w.debit, w.credit, w.raw_running, w.total, w.first_date
		FROM (
			SELECT t.transaction_id, t.txn_date, t.reference_type, t.reference_id, t.narration,
			       l.line_seq, l.debit, l.credit,
			       SUM(l.debit - l.credit) OVER (ORDER BY t.txn_date, t.transaction_id, l.line_seq) AS raw_running,
			       COUNT(*) OVER () AS total,
			       MIN(t.txn_date) OVER () AS first_date
			FROM journal_entry_lines l
			JOIN journal_transactions t ON t.transaction_id = l.transaction_id
			WHERE l.account_code = $1 AND t.txn_date <= $2
		) w
		ORDER BY w.txn_date, w.transaction_id, w.line_seq
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, accountCode, asOf, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger page for account "+accountCode, err)
	}
	defer rows.Close()

	window := &portsrepo.LedgerWindow{Rows: []portsrepo.LedgerRow{}}
	for rows.Next() {
		var row portsrepo.LedgerRow
		if err := rows.Scan(
			&row.TransactionID,
			&row.Date,
			&row.ReferenceType,
			&row.ReferenceID,
			&row.Narration,
			&row.LineSeq,
			&row.Debit,
			&row.Credit,
			&row.RawRunning,
			&window.Total,
			&window.FirstDate,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row for account "+accountCode, err)
		}
		window.Rows = append(window.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger rows for account "+accountCode, err)
	}

	// An empty page past the end still needs the window totals.
	if len(window.Rows) == 0 {
		countQuery := `
			SELECT COUNT(*), COALESCE(MIN(t.txn_date), 'epoch'::date)
			FROM journal_entry_lines l
			JOIN journal_transactions t ON t.transaction_id = l.transaction_id
			WHERE l.account_code = $1 AND t.txn_date <= $2;
		`
		if err := r.Pool.QueryRow(ctx, countQuery, accountCode, asOf).Scan(&window.Total, &window.FirstDate); err != nil {
			return nil, apperrors.NewAppError(500, "failed to count ledger rows for account "+accountCode, err)
		}
	}
	return window, nil
}
