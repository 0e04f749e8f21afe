package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
)

func TestAccountType_NormalSide(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        domain.NormalSide
	}{
		{domain.Asset, domain.DebitNormal},
		{domain.Expense, domain.DebitNormal},
		{domain.Liability, domain.CreditNormal},
		{domain.Equity, domain.CreditNormal},
		{domain.Income, domain.CreditNormal},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.accountType.NormalSide())
		})
	}
}

func TestAccountType_IsValid(t *testing.T) {
	for _, valid := range []domain.AccountType{domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense} {
		assert.True(t, valid.IsValid(), string(valid))
	}
	assert.False(t, domain.AccountType("REVENUE").IsValid())
	assert.False(t, domain.AccountType("asset").IsValid())
	assert.False(t, domain.AccountType("").IsValid())
}

func TestAccount_Supports(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		method  domain.PaymentMethod
		want    bool
	}{
		{
			name:    "cash account accepts cash",
			account: domain.Account{IsCash: true},
			method:  domain.MethodCash,
			want:    true,
		},
		{
			name:    "cash account rejects bank",
			account: domain.Account{IsCash: true},
			method:  domain.MethodBank,
			want:    false,
		},
		{
			name:    "bank account accepts bank",
			account: domain.Account{IsBank: true},
			method:  domain.MethodBank,
			want:    true,
		},
		{
			name:    "bank account rejects cash",
			account: domain.Account{IsBank: true},
			method:  domain.MethodCash,
			want:    false,
		},
		{
			name:    "plain account rejects both",
			account: domain.Account{},
			method:  domain.MethodCash,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.Supports(tt.method))
		})
	}
}
