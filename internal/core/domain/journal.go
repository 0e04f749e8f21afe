package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType names the business event a journal transaction records.
// The ledger does not interpret these beyond display and filtering.
type ReferenceType string

const (
	RefSale            ReferenceType = "sale"
	RefSalePayment     ReferenceType = "sale_payment"
	RefSaleReturn      ReferenceType = "sale_return"
	RefCustomerRefund  ReferenceType = "customer_refund"
	RefPurchase        ReferenceType = "purchase"
	RefPurchasePayment ReferenceType = "purchase_payment"
	RefPurchaseReturn  ReferenceType = "purchase_return"
	RefSupplierRefund  ReferenceType = "supplier_refund"
	RefExpense         ReferenceType = "expense"
	RefCashDeposit     ReferenceType = "cash_deposit"
	RefBankDeposit     ReferenceType = "bank_deposit"
	RefFundTransfer    ReferenceType = "fund_transfer"
	RefOpeningBalance  ReferenceType = "opening_balance"
	RefAdjustment      ReferenceType = "adjustment"
	RefReversal        ReferenceType = "reversal"
)

// IsValid reports whether t belongs to the closed reference-type set.
func (t ReferenceType) IsValid() bool {
	switch t {
	case RefSale, RefSalePayment, RefSaleReturn, RefCustomerRefund,
		RefPurchase, RefPurchasePayment, RefPurchaseReturn, RefSupplierRefund,
		RefExpense, RefCashDeposit, RefBankDeposit, RefFundTransfer,
		RefOpeningBalance, RefAdjustment, RefReversal:
		return true
	}
	return false
}

// EntryLine is one debit or credit against a single account within a
// journal transaction. Exactly one of Debit/Credit is non-zero. Lines are
// immutable once written: corrections are new reversing transactions.
type EntryLine struct {
	TransactionID string          `json:"transactionID"`
	LineSeq       int             `json:"lineSeq"`
	AccountCode   string          `json:"accountCode"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l EntryLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l EntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// JournalTransaction is a single balanced business event: a non-empty
// ordered set of entry lines whose debits equal their credits.
type JournalTransaction struct {
	TransactionID string        `json:"transactionID"`
	Date          time.Time     `json:"date"` // Calendar date of the event, not posting time
	ReferenceType ReferenceType `json:"referenceType"`
	ReferenceID   string        `json:"referenceID"` // ID of the originating business object
	Narration     string        `json:"narration"`
	ReversalOf    *string       `json:"reversalOf,omitempty"` // Set on reversing transactions
	ReversedBy    *string       `json:"reversedBy,omitempty"` // Set on transactions that have been reversed
	Lines         []EntryLine   `json:"lines,omitempty"`
	AuditFields
}

// TotalDebit sums the debit side of the transaction's lines. For a balanced
// transaction this equals TotalCredit and represents the economic value moved.
func (t JournalTransaction) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range t.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit side of the transaction's lines.
func (t JournalTransaction) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range t.Lines {
		total = total.Add(l.Credit)
	}
	return total
}
