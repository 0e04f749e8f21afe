package dto

import "github.com/shopspring/decimal"

// AddCashRequest records a cash deposit: debit the cash account, credit the
// configured capital/source account.
type AddCashRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Narration string          `json:"narration" binding:"required"`
	Date      string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// AddBankBalanceRequest records a deposit into a named bank account.
type AddBankBalanceRequest struct {
	BankAccountCode string          `json:"bankAccountCode" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Narration       string          `json:"narration" binding:"required"`
	Date            string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// FundTransferRequest moves funds between two cash/bank accounts.
type FundTransferRequest struct {
	FromCode  string          `json:"fromCode" binding:"required"`
	ToCode    string          `json:"toCode" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Narration string          `json:"narration" binding:"required"`
	Date      string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// RecordPaymentRequest settles a supplier payable or a customer receivable
// against a cash/bank account.
type RecordPaymentRequest struct {
	PartyType          string          `json:"partyType" binding:"required,oneof=supplier customer"`
	Amount             decimal.Decimal `json:"amount"`
	Method             string          `json:"method" binding:"required,oneof=CASH BANK"`
	PaymentAccountCode string          `json:"paymentAccountCode" binding:"required"`
	ReferenceID        string          `json:"referenceID" binding:"required"`
	Narration          string          `json:"narration"`
	Date               string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
