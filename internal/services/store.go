package services

import (
	"context"
	"time"

	"dompet_api/internal/models"

	"github.com/shopspring/decimal"
)

// Store opens units of work. WithinTx commits when fn returns nil and rolls
// back every write made through the handed-out stores otherwise.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, wallets WalletStore, ledger LedgerStore) error) error
}

type WalletStore interface {
	// LockWalletForUpdate reads the wallet and holds a write lock on it until
	// the unit of work ends. It returns nil, nil when the user has no such wallet.
	LockWalletForUpdate(ctx context.Context, userID, walletID int) (*models.Wallet, error)
	UpdateBalance(ctx context.Context, walletID, userID int, newBalance decimal.Decimal, now time.Time) error
}

type LedgerStore interface {
	InsertLedgerEntry(ctx context.Context, entry *models.Transaction) (int64, error)
}

// LedgerReader serves lock-free reads of committed ledger rows.
type LedgerReader interface {
	ListByReference(ctx context.Context, userID int, reference string) ([]models.Transaction, error)
	ListUnbalancedReferences(ctx context.Context, since time.Time) ([]models.ReferenceImbalance, error)
}
