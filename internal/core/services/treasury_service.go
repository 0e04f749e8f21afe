package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/internal/dto"
	"github.com/openledgerhq/ledger_engine/internal/middleware"
	"github.com/openledgerhq/ledger_engine/internal/utils/accounting"
	"github.com/openledgerhq/ledger_engine/pkg/config"
)

// treasuryService composes journal postings for the compound treasury
// operations. It owns the business rules around them (capability checks,
// duplicate detection, overdraft guards) but never writes entry lines itself:
// every operation bottoms out in one balanced journal append.
type treasuryService struct {
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepository
	offsets     config.TreasuryAccounts
}

// NewTreasuryService creates a new treasury orchestrator. offsets names the
// chart accounts used as counterparts for deposits and payments.
func NewTreasuryService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountSvcFacade, offsets config.TreasuryAccounts) portssvc.TreasurySvcFacade {
	return &treasuryService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
		offsets:     offsets,
	}
}

var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

func validatePositiveAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	return accounting.ValidateAmountPrecision(amount)
}

func resolveDate(raw string) string {
	if raw == "" {
		return time.Now().UTC().Format(dto.DateFormat)
	}
	return raw
}

// post builds, validates and appends one two-line transaction. debitCode
// receives the amount, creditCode gives it. Guards are re-checked inside the
// append's database transaction.
func (s *treasuryService) post(ctx context.Context, req dto.PostTransactionRequest, guards []portsrepo.BalanceGuard, idempotencyKey *string, creatorID string) (*domain.JournalTransaction, error) {
	txn, err := buildTransaction(ctx, s.accountSvc, req, creatorID)
	if err != nil {
		return nil, err
	}
	if err := s.journalRepo.SaveTransaction(ctx, *txn, idempotencyKey, guards); err != nil {
		return nil, err
	}
	return txn, nil
}

// AddCash records a cash deposit: the cash account grows, offset against the
// configured capital account.
func (s *treasuryService) AddCash(ctx context.Context, req dto.AddCashRequest, creatorID string) (*domain.JournalTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePositiveAmount(req.Amount); err != nil {
		return nil, err
	}

	txn, err := s.post(ctx, dto.PostTransactionRequest{
		Date:          resolveDate(req.Date),
		ReferenceType: string(domain.RefCashDeposit),
		ReferenceID:   uuid.NewString(),
		Narration:     req.Narration,
		Lines: []dto.EntryLineRequest{
			{AccountCode: s.offsets.CashCode, Debit: req.Amount},
			{AccountCode: s.offsets.CapitalCode, Credit: req.Amount},
		},
	}, nil, nil, creatorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Cash deposit recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", req.Amount.String()))
	return txn, nil
}

// AddBankBalance records a deposit into a named bank account.
func (s *treasuryService) AddBankBalance(ctx context.Context, req dto.AddBankBalanceRequest, creatorID string) (*domain.JournalTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePositiveAmount(req.Amount); err != nil {
		return nil, err
	}

	bank, err := s.accountSvc.Resolve(ctx, req.BankAccountCode)
	if err != nil {
		return nil, err
	}
	if !bank.IsBank {
		return nil, fmt.Errorf("%w: account %s is not a bank account", apperrors.ErrCapabilityMismatch, bank.Code)
	}

	txn, err := s.post(ctx, dto.PostTransactionRequest{
		Date:          resolveDate(req.Date),
		ReferenceType: string(domain.RefBankDeposit),
		ReferenceID:   uuid.NewString(),
		Narration:     req.Narration,
		Lines: []dto.EntryLineRequest{
			{AccountCode: bank.Code, Debit: req.Amount},
			{AccountCode: s.offsets.CapitalCode, Credit: req.Amount},
		},
	}, nil, nil, creatorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Bank deposit recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("bank_account", bank.Code),
		slog.String("amount", req.Amount.String()))
	return txn, nil
}

// FundTransfer moves funds between two cash/bank accounts. The source account
// may not be driven negative: a fast precheck rejects obvious overdrafts, and
// a balance guard re-validates under the source's row lock during the append.
func (s *treasuryService) FundTransfer(ctx context.Context, req dto.FundTransferRequest, creatorID string) (*domain.JournalTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePositiveAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.FromCode == req.ToCode {
		return nil, fmt.Errorf("%w: source and destination accounts are the same", apperrors.ErrValidation)
	}

	from, err := s.accountSvc.Resolve(ctx, req.FromCode)
	if err != nil {
		return nil, err
	}
	to, err := s.accountSvc.Resolve(ctx, req.ToCode)
	if err != nil {
		return nil, err
	}
	if !from.IsCash && !from.IsBank {
		return nil, fmt.Errorf("%w: account %s cannot hold funds", apperrors.ErrCapabilityMismatch, from.Code)
	}
	if !to.IsCash && !to.IsBank {
		return nil, fmt.Errorf("%w: account %s cannot hold funds", apperrors.ErrCapabilityMismatch, to.Code)
	}

	if err := s.precheckFunds(ctx, from, req.Amount); err != nil {
		return nil, err
	}

	guards := []portsrepo.BalanceGuard{{AccountCode: from.Code, NormalSide: from.AccountType.NormalSide()}}
	txn, err := s.post(ctx, dto.PostTransactionRequest{
		Date:          resolveDate(req.Date),
		ReferenceType: string(domain.RefFundTransfer),
		ReferenceID:   uuid.NewString(),
		Narration:     req.Narration,
		Lines: []dto.EntryLineRequest{
			{AccountCode: to.Code, Debit: req.Amount},
			{AccountCode: from.Code, Credit: req.Amount},
		},
	}, guards, nil, creatorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Fund transfer recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("from", from.Code),
		slog.String("to", to.Code),
		slog.String("amount", req.Amount.String()))
	return txn, nil
}

// RecordPayment settles a supplier payable or a customer receivable against a
// cash/bank account. Repeats of the same external reference are rejected.
func (s *treasuryService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, creatorID string) (*domain.JournalTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePositiveAmount(req.Amount); err != nil {
		return nil, err
	}

	payment, err := s.accountSvc.Resolve(ctx, req.PaymentAccountCode)
	if err != nil {
		return nil, err
	}
	method := domain.PaymentMethod(req.Method)
	if !payment.Supports(method) {
		return nil, fmt.Errorf("%w: account %s does not support %s payments",
			apperrors.ErrCapabilityMismatch, payment.Code, method)
	}

	var refType domain.ReferenceType
	var lines []dto.EntryLineRequest
	var guards []portsrepo.BalanceGuard
	switch req.PartyType {
	case "supplier":
		// Paying a supplier shrinks the payable and drains the payment
		// account, which must not go negative.
		refType = domain.RefPurchasePayment
		lines = []dto.EntryLineRequest{
			{AccountCode: s.offsets.PayableCode, Debit: req.Amount},
			{AccountCode: payment.Code, Credit: req.Amount},
		}
		if err := s.precheckFunds(ctx, payment, req.Amount); err != nil {
			return nil, err
		}
		guards = []portsrepo.BalanceGuard{{AccountCode: payment.Code, NormalSide: payment.AccountType.NormalSide()}}
	case "customer":
		refType = domain.RefSalePayment
		lines = []dto.EntryLineRequest{
			{AccountCode: payment.Code, Debit: req.Amount},
			{AccountCode: s.offsets.ReceivableCode, Credit: req.Amount},
		}
	default:
		return nil, fmt.Errorf("%w: unknown party type %q", apperrors.ErrValidation, req.PartyType)
	}

	if existing, err := s.journalRepo.FindTransactionByReference(ctx, refType, req.ReferenceID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	} else if existing != nil {
		return nil, fmt.Errorf("%w: payment %s/%s already recorded as transaction %s",
			apperrors.ErrDuplicate, refType, req.ReferenceID, existing.TransactionID)
	}

	narration := req.Narration
	if narration == "" {
		narration = fmt.Sprintf("%s payment %s", req.PartyType, req.ReferenceID)
	}

	idempotencyKey := fmt.Sprintf("%s:%s", refType, req.ReferenceID)
	txn, err := s.post(ctx, dto.PostTransactionRequest{
		Date:          resolveDate(req.Date),
		ReferenceType: string(refType),
		ReferenceID:   req.ReferenceID,
		Narration:     narration,
		Lines:         lines,
	}, guards, &idempotencyKey, creatorID)
	if err != nil {
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("party_type", req.PartyType),
		slog.String("reference_id", req.ReferenceID),
		slog.String("amount", req.Amount.String()))
	return txn, nil
}

// precheckFunds fails fast when the account visibly lacks the amount. The
// authoritative check is the balance guard inside the append.
func (s *treasuryService) precheckFunds(ctx context.Context, account *domain.Account, amount decimal.Decimal) error {
	totalDebit, totalCredit, err := s.journalRepo.AccountEntrySums(ctx, account.Code, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to sum entries for account %s: %w", account.Code, err)
	}
	balance := accounting.NormalSideBalance(totalDebit, totalCredit, account.AccountType.NormalSide())
	if balance.LessThan(amount) {
		return fmt.Errorf("%w: account %s holds %s, needs %s",
			apperrors.ErrInsufficientBalance, account.Code, balance.String(), amount.String())
	}
	return nil
}
