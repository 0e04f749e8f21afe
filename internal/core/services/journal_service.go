package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/internal/dto"
	"github.com/openledgerhq/ledger_engine/internal/middleware"
	"github.com/openledgerhq/ledger_engine/internal/utils/accounting"
)

// journalService is the journal writer: the only write path into the ledger.
// It validates the balance invariant and delegates the atomic append to the
// repository. It never computes or caches balances.
type journalService struct {
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepository
}

// NewJournalService creates a new journal writer.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildTransaction validates a posting request and assembles the domain
// transaction. Shared between Post and the treasury orchestrator.
func buildTransaction(ctx context.Context, accountSvc portssvc.AccountSvcFacade, req dto.PostTransactionRequest, creatorID string) (*domain.JournalTransaction, error) {
	refType := domain.ReferenceType(req.ReferenceType)
	if !refType.IsValid() {
		return nil, fmt.Errorf("%w: unknown reference type %q", apperrors.ErrValidation, req.ReferenceType)
	}

	date, err := time.Parse(dto.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()

	lines := make([]domain.EntryLine, len(req.Lines))
	codes := make([]string, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.EntryLine{
			TransactionID: transactionID,
			LineSeq:       i + 1,
			AccountCode:   lineReq.AccountCode,
			Debit:         lineReq.Debit,
			Credit:        lineReq.Credit,
		}
		codes[i] = lineReq.AccountCode
	}

	// The fundamental double-entry check: each line one-sided, minor-unit
	// precise, and debits equal to credits exactly.
	if err := accounting.ValidateBalanced(lines); err != nil {
		return nil, err
	}

	// Every account must resolve and be active.
	accounts, err := accountSvc.ResolveMany(ctx, codes)
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		if acc := accounts[code]; !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, code)
		}
	}

	return &domain.JournalTransaction{
		TransactionID: transactionID,
		Date:          date,
		ReferenceType: refType,
		ReferenceID:   req.ReferenceID,
		Narration:     req.Narration,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}, nil
}

// Post validates and durably appends one balanced transaction. Either every
// line is persisted or none are.
func (s *journalService) Post(ctx context.Context, req dto.PostTransactionRequest, creatorID string) (*domain.JournalTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := buildTransaction(ctx, s.accountSvc, req, creatorID)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveTransaction(ctx, *txn, req.IdempotencyKey, nil); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save transaction", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference_type", string(txn.ReferenceType)),
		slog.Int("lines", len(txn.Lines)))
	return txn, nil
}

// GetTransactionByID retrieves a transaction with its entry lines.
func (s *journalService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.JournalTransaction, error) {
	txn, err := s.journalRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find transaction",
				slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns a cursor-paginated slice of the journal log,
// optionally restricted to transactions touching one account.
func (s *journalService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.journalRepo.ListTransactions(ctx, portsrepo.ListTransactionsParams{
		AccountCode: params.AccountCode,
		Limit:       limit,
		NextToken:   params.NextToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// Reverse appends a mirror-image transaction for a previously posted one and
// links the pair. Historical lines are never edited; this is the only
// correction mechanism.
func (s *journalService) Reverse(ctx context.Context, transactionID string, creatorID string) (*domain.JournalTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.ReversalOf != nil {
		return nil, fmt.Errorf("%w: cannot reverse a reversal", apperrors.ErrConflict)
	}
	if original.ReversedBy != nil {
		return nil, fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrConflict, transactionID)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	lines := make([]domain.EntryLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.EntryLine{
			TransactionID: reversingID,
			LineSeq:       i + 1,
			AccountCode:   l.AccountCode,
			Debit:         l.Credit,
			Credit:        l.Debit,
		}
	}

	reversing := domain.JournalTransaction{
		TransactionID: reversingID,
		Date:          original.Date,
		ReferenceType: domain.RefReversal,
		ReferenceID:   original.TransactionID,
		Narration:     fmt.Sprintf("Reversal of: %s", original.Narration),
		ReversalOf:    &original.TransactionID,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.journalRepo.SaveReversal(ctx, reversing, original.TransactionID, creatorID, now); err != nil {
		logger.Error("Failed to save reversal",
			slog.String("original_id", original.TransactionID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transaction reversed",
		slog.String("original_id", original.TransactionID),
		slog.String("reversing_id", reversingID))
	return &reversing, nil
}
