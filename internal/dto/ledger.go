package dto

import (
	"time"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerPageParams selects one page of an account's ledger view.
// AsOf is the inclusive calendar-date upper bound; Page is 1-based.
type LedgerPageParams struct {
	AsOf  time.Time
	Page  int
	Limit int
}

// BalanceResponse is the result of a point-in-time balance query.
type BalanceResponse struct {
	AccountCode string          `json:"accountCode"`
	AsOf        string          `json:"asOf"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerEntryResponse is one row of the ledger view.
type LedgerEntryResponse struct {
	TransactionID  string          `json:"transactionID"`
	Date           string          `json:"date"`
	ReferenceType  string          `json:"referenceType"`
	ReferenceID    string          `json:"referenceID"`
	Narration      string          `json:"narration"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerPageResponse is one page of an account's running-balance ledger.
type LedgerPageResponse struct {
	AccountCode    string                `json:"accountCode"`
	OpeningBalance decimal.Decimal       `json:"openingBalance"`
	Entries        []LedgerEntryResponse `json:"entries"`
	ClosingBalance decimal.Decimal       `json:"closingBalance"`
	Total          int64                 `json:"total"`
	Page           int                   `json:"page"`
	Limit          int                   `json:"limit"`
}

// ToLedgerPageResponse converts a domain ledger page to its response DTO.
func ToLedgerPageResponse(p *domain.LedgerPage) LedgerPageResponse {
	resp := LedgerPageResponse{
		AccountCode:    p.AccountCode,
		OpeningBalance: p.OpeningBalance,
		Entries:        make([]LedgerEntryResponse, len(p.Entries)),
		ClosingBalance: p.ClosingBalance,
		Total:          p.Total,
		Page:           p.Page,
		Limit:          p.Limit,
	}
	for i, e := range p.Entries {
		resp.Entries[i] = LedgerEntryResponse{
			TransactionID:  e.TransactionID,
			Date:           e.Date.Format(DateFormat),
			ReferenceType:  string(e.ReferenceType),
			ReferenceID:    e.ReferenceID,
			Narration:      e.Narration,
			Debit:          e.Debit,
			Credit:         e.Credit,
			RunningBalance: e.RunningBalance,
		}
	}
	return resp
}
