package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletType string

const (
	WalletCash       WalletType = "cash"
	WalletBank       WalletType = "bank"
	WalletEwallet    WalletType = "ewallet"
	WalletSavings    WalletType = "savings"
	WalletInvestment WalletType = "investment"
	WalletCredit     WalletType = "credit"
)

// WalletTypes lists every wallet type in display order.
var WalletTypes = []WalletType{WalletCash, WalletBank, WalletEwallet, WalletSavings, WalletInvestment, WalletCredit}

// SortIndex returns the position of t in WalletTypes, or -1 for an unknown type.
func (t WalletType) SortIndex() int {
	for i, wt := range WalletTypes {
		if wt == t {
			return i
		}
	}
	return -1
}

func (t WalletType) Valid() bool {
	return t.SortIndex() >= 0
}

type WalletStatus string

const (
	WalletActive   WalletStatus = "active"
	WalletInactive WalletStatus = "inactive"
)

type Wallet struct {
	ID          int                 `json:"id,omitempty" db:"id,omitempty"`
	UserID      int                 `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name        string              `json:"name,omitempty" db:"name,omitempty"`
	Balance     decimal.Decimal     `json:"balance" db:"balance"`
	Type        WalletType          `json:"type,omitempty" db:"type,omitempty"`
	CreditLimit decimal.NullDecimal `json:"creditLimit" db:"creditLimit"`
	Status      WalletStatus        `json:"status,omitempty" db:"status,omitempty"`
	CreatedAt   time.Time           `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt   time.Time           `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

func (w *Wallet) IsCredit() bool {
	return w.Type == WalletCredit
}

func (w *Wallet) IsActive() bool {
	return w.Status == "" || w.Status == WalletActive
}

// CreditHeadroom is creditLimit - abs(balance). A credit wallet without a limit has no headroom.
func (w *Wallet) CreditHeadroom() decimal.Decimal {
	limit := decimal.Zero
	if w.CreditLimit.Valid {
		limit = w.CreditLimit.Decimal
	}
	return limit.Sub(w.Balance.Abs())
}

// Available is the most that can leave the wallet in one transfer.
func (w *Wallet) Available() decimal.Decimal {
	if w.IsCredit() {
		return w.CreditHeadroom()
	}
	return w.Balance
}
