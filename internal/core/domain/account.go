package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// NormalSide is the side on which an account's balance normally sits.
type NormalSide string

const (
	DebitNormal  NormalSide = "DEBIT"
	CreditNormal NormalSide = "CREDIT"
)

// NormalSide returns the normal balance side implied by the account type.
// Asset and expense accounts grow on the debit side; liability, equity and
// income accounts grow on the credit side.
func (t AccountType) NormalSide() NormalSide {
	switch t {
	case Asset, Expense:
		return DebitNormal
	case Liability, Equity, Income:
		return CreditNormal
	}
	return ""
}

// IsValid reports whether t is one of the five chart types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// PaymentMethod selects the settlement instrument for a payment.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "CASH"
	MethodBank PaymentMethod = "BANK"
)

// Account represents one node of the chart of accounts.
// Identity is the stable Code; the human-facing AccountNumber is assigned
// sequentially at registration. Balance is never stored here — it is always
// derived from the entry log.
type Account struct {
	Code          string      `json:"code"`          // Stable identifier, e.g. ASSET.CASH
	AccountNumber int64       `json:"accountNumber"` // Human-facing sequential number
	Name          string      `json:"name"`
	AccountType   AccountType `json:"accountType"`
	IsCash        bool        `json:"isCash"`
	IsBank        bool        `json:"isBank"`
	IsActive      bool        `json:"isActive"`
	AuditFields
}

// Supports reports whether the account can settle payments made with the
// given method.
func (a Account) Supports(method PaymentMethod) bool {
	switch method {
	case MethodCash:
		return a.IsCash
	case MethodBank:
		return a.IsBank
	}
	return false
}
