package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's normal-side balance placed on its column.
// Exactly one of Debit/Credit is non-zero unless the balance is zero.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceTotals carries the column totals and the self-audit result.
// A non-zero Difference means the entry log itself is corrupt; it is surfaced,
// never hidden.
type TrialBalanceTotals struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Difference  decimal.Decimal `json:"difference"`
	IsBalanced  bool            `json:"isBalanced"`
}

// TrialBalanceReport aggregates every account's balance as of a date.
type TrialBalanceReport struct {
	AsOf   time.Time          `json:"asOf"`
	Rows   []TrialBalanceRow  `json:"rows"`
	Totals TrialBalanceTotals `json:"totals"`
}

// LedgerEntry is one row of an account's running-balance ledger view.
type LedgerEntry struct {
	TransactionID  string          `json:"transactionID"`
	Date           time.Time       `json:"date"`
	ReferenceType  ReferenceType   `json:"referenceType"`
	ReferenceID    string          `json:"referenceID"`
	Narration      string          `json:"narration"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerPage is one page of an account's chronological ledger. Running
// balances are computed over the full ordered history and then sliced, so
// page boundaries never reset them.
type LedgerPage struct {
	AccountCode    string          `json:"accountCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Entries        []LedgerEntry   `json:"entries"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Total          int64           `json:"total"`
	Page           int             `json:"page"`
	Limit          int             `json:"limit"`
}
