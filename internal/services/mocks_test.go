package services_test

import (
	"context"
	"time"

	"dompet_api/internal/models"
	"dompet_api/internal/services"

	"github.com/shopspring/decimal"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	WithinTxFunc func(ctx context.Context, fn func(context.Context, services.WalletStore, services.LedgerStore) error) error
}

func (m *MockStore) WithinTx(ctx context.Context, fn func(context.Context, services.WalletStore, services.LedgerStore) error) error {
	if m.WithinTxFunc != nil {
		return m.WithinTxFunc(ctx, fn)
	}
	return nil
}

type MockWalletStore struct {
	LockWalletForUpdateFunc func(ctx context.Context, userID, walletID int) (*models.Wallet, error)
	UpdateBalanceFunc       func(ctx context.Context, walletID, userID int, newBalance decimal.Decimal, now time.Time) error
}

func (m *MockWalletStore) LockWalletForUpdate(ctx context.Context, userID, walletID int) (*models.Wallet, error) {
	if m.LockWalletForUpdateFunc != nil {
		return m.LockWalletForUpdateFunc(ctx, userID, walletID)
	}
	return nil, nil
}

func (m *MockWalletStore) UpdateBalance(ctx context.Context, walletID, userID int, newBalance decimal.Decimal, now time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, walletID, userID, newBalance, now)
	}
	return nil
}

type MockLedgerStore struct {
	InsertLedgerEntryFunc func(ctx context.Context, entry *models.Transaction) (int64, error)
}

func (m *MockLedgerStore) InsertLedgerEntry(ctx context.Context, entry *models.Transaction) (int64, error) {
	if m.InsertLedgerEntryFunc != nil {
		return m.InsertLedgerEntryFunc(ctx, entry)
	}
	return 0, nil
}
