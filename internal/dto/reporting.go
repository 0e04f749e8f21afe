package dto

import (
	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report.
type TrialBalanceRowResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report.
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		TotalDebit  decimal.Decimal `json:"totalDebit"`
		TotalCredit decimal.Decimal `json:"totalCredit"`
		Difference  decimal.Decimal `json:"difference"`
		IsBalanced  bool            `json:"isBalanced"`
	} `json:"totals"`
}

// ToTrialBalanceResponse converts a domain report to its response DTO.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: report.AsOf.Format(DateFormat),
		Rows: make([]TrialBalanceRowResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.TotalDebit = report.Totals.TotalDebit
	response.Totals.TotalCredit = report.Totals.TotalCredit
	response.Totals.Difference = report.Totals.Difference
	response.Totals.IsBalanced = report.Totals.IsBalanced
	return response
}
