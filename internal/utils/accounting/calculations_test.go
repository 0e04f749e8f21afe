package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	"github.com/openledgerhq/ledger_engine/internal/utils/accounting"
)

func TestSignedContribution(t *testing.T) {
	debitLine := domain.EntryLine{Debit: decimal.NewFromInt(100)}
	creditLine := domain.EntryLine{Credit: decimal.NewFromInt(40)}

	tests := []struct {
		name string
		line domain.EntryLine
		side domain.NormalSide
		want decimal.Decimal
	}{
		{"debit grows a debit-normal account", debitLine, domain.DebitNormal, decimal.NewFromInt(100)},
		{"credit shrinks a debit-normal account", creditLine, domain.DebitNormal, decimal.NewFromInt(-40)},
		{"debit shrinks a credit-normal account", debitLine, domain.CreditNormal, decimal.NewFromInt(-100)},
		{"credit grows a credit-normal account", creditLine, domain.CreditNormal, decimal.NewFromInt(40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.SignedContribution(tt.line, tt.side)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNormalSideBalance(t *testing.T) {
	debit := decimal.NewFromInt(500)
	credit := decimal.NewFromInt(120)

	assert.True(t, accounting.NormalSideBalance(debit, credit, domain.DebitNormal).Equal(decimal.NewFromInt(380)))
	assert.True(t, accounting.NormalSideBalance(debit, credit, domain.CreditNormal).Equal(decimal.NewFromInt(-380)))
}

func TestValidateAmountPrecision(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{"whole amount", decimal.NewFromInt(100), false},
		{"two decimal places", decimal.RequireFromString("99.99"), false},
		{"trailing zeros beyond minor unit", decimal.RequireFromString("10.500"), false},
		{"sub-minor-unit amount", decimal.RequireFromString("0.005"), true},
		{"three significant decimals", decimal.RequireFromString("1.239"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateAmountPrecision(tt.amount)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidLine)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.EntryLine
		wantErr error
	}{
		{
			name: "valid debit line",
			line: domain.EntryLine{AccountCode: "ASSET.CASH", Debit: decimal.NewFromInt(100)},
		},
		{
			name: "valid credit line",
			line: domain.EntryLine{AccountCode: "INCOME.SALES", Credit: decimal.NewFromInt(100)},
		},
		{
			name:    "negative debit",
			line:    domain.EntryLine{AccountCode: "ASSET.CASH", Debit: decimal.NewFromInt(-5)},
			wantErr: apperrors.ErrInvalidLine,
		},
		{
			name: "both sides set",
			line: domain.EntryLine{
				AccountCode: "ASSET.CASH",
				Debit:       decimal.NewFromInt(10),
				Credit:      decimal.NewFromInt(10),
			},
			wantErr: apperrors.ErrInvalidLine,
		},
		{
			name:    "neither side set",
			line:    domain.EntryLine{AccountCode: "ASSET.CASH"},
			wantErr: apperrors.ErrInvalidLine,
		},
		{
			name:    "sub-minor-unit debit",
			line:    domain.EntryLine{AccountCode: "ASSET.CASH", Debit: decimal.RequireFromString("0.001")},
			wantErr: apperrors.ErrInvalidLine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateLine(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBalanced(t *testing.T) {
	balanced := []domain.EntryLine{
		{AccountCode: "ASSET.CASH", Debit: decimal.RequireFromString("99.25")},
		{AccountCode: "ASSET.BANK", Debit: decimal.RequireFromString("0.75")},
		{AccountCode: "INCOME.SALES", Credit: decimal.NewFromInt(100)},
	}
	assert.NoError(t, accounting.ValidateBalanced(balanced))

	single := balanced[:1]
	assert.ErrorIs(t, accounting.ValidateBalanced(single), apperrors.ErrValidation)

	unbalanced := []domain.EntryLine{
		{AccountCode: "ASSET.CASH", Debit: decimal.NewFromInt(100)},
		{AccountCode: "INCOME.SALES", Credit: decimal.RequireFromString("99.99")},
	}
	assert.ErrorIs(t, accounting.ValidateBalanced(unbalanced), apperrors.ErrUnbalanced)

	badLine := []domain.EntryLine{
		{AccountCode: "ASSET.CASH", Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
		{AccountCode: "INCOME.SALES", Credit: decimal.NewFromInt(100)},
	}
	assert.ErrorIs(t, accounting.ValidateBalanced(badLine), apperrors.ErrInvalidLine)
}
