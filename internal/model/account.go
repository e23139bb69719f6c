package model

// AccountType is the top-level split of the chart of accounts.
type AccountType string

const (
	AccountTypeRevenue AccountType = "revenue"
	AccountTypeExpense AccountType = "expense"
)

// Account is one canonical ledger entry in the chart of accounts. Accounts
// are loaded once at startup and never mutated; they form the fixed target
// space for label matching.
type Account struct {
	Code      string      `json:"code" yaml:"code"`
	Name      string      `json:"name" yaml:"name"`
	Type      AccountType `json:"type" yaml:"type"`
	Category  string      `json:"category" yaml:"category"` // payer or cost-center subtype, e.g. "medicare", "nursing_labor"
	Aliases   []string    `json:"aliases,omitempty" yaml:"aliases"`
	Labor     bool        `json:"labor,omitempty" yaml:"labor"`
	Operating bool        `json:"operating" yaml:"operating"`
}

// IsRevenue reports whether the account sits on the revenue side.
func (a Account) IsRevenue() bool {
	return a.Type == AccountTypeRevenue
}
