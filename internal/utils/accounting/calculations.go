package accounting

import (
	"fmt"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the smallest amount granularity the ledger accepts.
// Amounts with more than two decimal places are rejected at the boundary so
// balance folds stay exact.
const MinorUnitExponent = -2

// SignedContribution returns the signed effect of one entry line on an
// account with the given normal side. Debit-normal accounts grow by
// debit - credit, credit-normal accounts by credit - debit.
//
// This is the only implementation of the sign convention; services and
// repositories must not re-derive it.
func SignedContribution(line domain.EntryLine, side domain.NormalSide) decimal.Decimal {
	if side == domain.CreditNormal {
		return line.Credit.Sub(line.Debit)
	}
	return line.Debit.Sub(line.Credit)
}

// NormalSideBalance converts raw debit/credit sums for an account into its
// signed balance per the normal-side convention.
func NormalSideBalance(totalDebit, totalCredit decimal.Decimal, side domain.NormalSide) decimal.Decimal {
	if side == domain.CreditNormal {
		return totalCredit.Sub(totalDebit)
	}
	return totalDebit.Sub(totalCredit)
}

// ValidateAmountPrecision rejects amounts finer than the minor unit.
func ValidateAmountPrecision(amount decimal.Decimal) error {
	if amount.Exponent() < MinorUnitExponent && !amount.Equal(amount.Round(-MinorUnitExponent)) {
		return fmt.Errorf("%w: amount %s has sub-minor-unit precision", apperrors.ErrInvalidLine, amount.String())
	}
	return nil
}

// ValidateLine checks the one-sided-line rule: exactly one of debit/credit is
// positive, neither is negative, and both respect the minor unit.
func ValidateLine(line domain.EntryLine) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("%w: negative amount on account %s", apperrors.ErrInvalidLine, line.AccountCode)
	}
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if debitSet == creditSet {
		if debitSet {
			return fmt.Errorf("%w: account %s has both debit and credit set", apperrors.ErrInvalidLine, line.AccountCode)
		}
		return fmt.Errorf("%w: account %s has neither debit nor credit set", apperrors.ErrInvalidLine, line.AccountCode)
	}
	if err := ValidateAmountPrecision(line.Debit); err != nil {
		return err
	}
	return ValidateAmountPrecision(line.Credit)
}

// ValidateBalanced checks the fundamental double-entry invariant for a set of
// lines: at least two lines, each individually valid, and total debits equal
// total credits exactly.
func ValidateBalanced(lines []domain.EntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: a transaction needs at least two entry lines", apperrors.ErrValidation)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		if err := ValidateLine(line); err != nil {
			return err
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s",
			apperrors.ErrUnbalanced, totalDebit.String(), totalCredit.String())
	}
	return nil
}
