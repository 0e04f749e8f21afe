package dto

import (
	"time"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
)

// CreateAccountRequest defines the payload for registering a chart account.
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	IsCash      bool   `json:"isCash"`
	IsBank      bool   `json:"isBank"`
}

// ListAccountsParams filters the account listing. Nil means "any".
type ListAccountsParams struct {
	AccountType *string `form:"type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	IsCash      *bool   `form:"isCash"`
	IsBank      *bool   `form:"isBank"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	Code          string    `json:"code"`
	AccountNumber int64     `json:"accountNumber"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	NormalSide    string    `json:"normalSide"`
	IsCash        bool      `json:"isCash"`
	IsBank        bool      `json:"isBank"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Code:          a.Code,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		NormalSide:    string(a.AccountType.NormalSide()),
		IsCash:        a.IsCash,
		IsBank:        a.IsBank,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
