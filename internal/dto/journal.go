package dto

import (
	"time"

	"github.com/openledgerhq/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date format used across the API. The ledger
// works at date granularity, not time-of-day.
const DateFormat = "2006-01-02"

// EntryLineRequest is one debit or credit line of a posting request.
// Exactly one of Debit/Credit must be positive; the service enforces this.
type EntryLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// PostTransactionRequest is the payload for posting one balanced transaction.
type PostTransactionRequest struct {
	Date           string             `json:"date" binding:"required,datetime=2006-01-02"`
	ReferenceType  string             `json:"referenceType" binding:"required"`
	ReferenceID    string             `json:"referenceID"`
	Narration      string             `json:"narration" binding:"required"`
	Lines          []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
	IdempotencyKey *string            `json:"idempotencyKey"`
}

// EntryLineResponse is one persisted line of a transaction.
type EntryLineResponse struct {
	LineSeq     int             `json:"lineSeq"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TransactionResponse defines the data returned for a journal transaction.
type TransactionResponse struct {
	TransactionID string              `json:"transactionID"`
	Date          string              `json:"date"`
	ReferenceType string              `json:"referenceType"`
	ReferenceID   string              `json:"referenceID"`
	Narration     string              `json:"narration"`
	Amount        decimal.Decimal     `json:"amount"` // Total of the debit side
	ReversalOf    *string             `json:"reversalOf,omitempty"`
	ReversedBy    *string             `json:"reversedBy,omitempty"`
	Lines         []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
}

// ListTransactionsParams controls journal-wide listing.
type ListTransactionsParams struct {
	AccountCode string  `form:"accountCode"`
	Limit       int     `form:"limit"`
	NextToken   *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of the journal log.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain transaction to its response DTO.
func ToTransactionResponse(t *domain.JournalTransaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: t.TransactionID,
		Date:          t.Date.Format(DateFormat),
		ReferenceType: string(t.ReferenceType),
		ReferenceID:   t.ReferenceID,
		Narration:     t.Narration,
		Amount:        t.TotalDebit(),
		ReversalOf:    t.ReversalOf,
		ReversedBy:    t.ReversedBy,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
	if len(t.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(t.Lines))
		for i, l := range t.Lines {
			resp.Lines[i] = EntryLineResponse{
				LineSeq:     l.LineSeq,
				AccountCode: l.AccountCode,
				Debit:       l.Debit,
				Credit:      l.Credit,
			}
		}
	}
	return resp
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.JournalTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
