package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// DateLayout is the calendar-date format of Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction is a ledger entry. Rows are append-only.
type Transaction struct {
	ID          int64           `json:"id,omitempty" db:"id,omitempty"`
	UserID      int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Type        string          `json:"type,omitempty" db:"type,omitempty"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	WalletID    int             `json:"wallet_id,omitempty" db:"wallet_id,omitempty"`
	CategoryID  int             `json:"category_id,omitempty" db:"category_id,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Reference   string          `json:"reference,omitempty" db:"reference,omitempty"`
	Date        string          `json:"date,omitempty" db:"date,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty" db:"created_at,omitempty"`
}

// ReferenceImbalance describes a transfer reference whose legs do not pair up.
type ReferenceImbalance struct {
	Reference    string          `json:"reference"`
	Legs         int             `json:"legs"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
}
