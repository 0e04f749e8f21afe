package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/internal/dto"
	"github.com/openledgerhq/ledger_engine/internal/middleware"
)

// accountService is the account registry over the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// RegisterAccount adds a new node to the chart of accounts. The code is the
// stable identity and must be unique; the sequential account number is
// assigned by the store.
func (s *accountService) RegisterAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}

	accountType := domain.AccountType(req.AccountType)
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		Code:        code,
		Name:        req.Name,
		AccountType: accountType,
		IsCash:      req.IsCash,
		IsBank:      req.IsBank,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account", slog.String("code", code), slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Account registered", slog.String("code", saved.Code), slog.Int64("account_number", saved.AccountNumber))
	return saved, nil
}

// Resolve looks up an account by its stable code.
func (s *accountService) Resolve(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, code)
		}
		return nil, fmt.Errorf("failed to resolve account %s: %w", code, err)
	}
	return account, nil
}

// ResolveMany looks up a batch of account codes. Every requested code must
// resolve; a missing code fails the whole lookup with ErrUnknownAccount.
func (s *accountService) ResolveMany(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	unique := uniqueStrings(codes)
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}
	for _, code := range unique {
		if _, found := accounts[code]; !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, code)
		}
	}
	return accounts, nil
}

// ListAccounts returns active accounts matching the filter.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.AccountFilter{
		IsCash: params.IsCash,
		IsBank: params.IsBank,
	}
	if params.AccountType != nil {
		accountType := domain.AccountType(*params.AccountType)
		if !accountType.IsValid() {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *params.AccountType)
		}
		filter.AccountType = &accountType
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
