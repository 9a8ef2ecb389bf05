package sqlconnect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dompet_api/internal/models"
	"dompet_api/internal/services"
	"dompet_api/pkg/utils"

	"github.com/shopspring/decimal"
)

// Store is the MySQL implementation of the wallet and ledger stores.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx runs fn inside one database transaction. Row locks taken by fn are
// held until the commit or rollback issued here.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, wallets services.WalletStore, ledger services.LedgerStore) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, &walletTx{tx: tx}, &ledgerTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			utils.Logger.Errorf("failed to roll back transaction: %v", rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type walletTx struct {
	tx *sql.Tx
}

func (w *walletTx) LockWalletForUpdate(ctx context.Context, userID, walletID int) (*models.Wallet, error) {
	var (
		wallet         models.Wallet
		walletType     string
		status         string
		createdAt      sql.NullTime
		updatedAt      sql.NullTime
		creditLimitRaw decimal.NullDecimal
	)

	err := w.tx.QueryRowContext(ctx, `
		SELECT id, user_id, name, balance, type, creditLimit, status, created_at, updated_at
		FROM wallets
		WHERE id = ? AND user_id = ?
		FOR UPDATE`, walletID, userID).
		Scan(&wallet.ID, &wallet.UserID, &wallet.Name, &wallet.Balance, &walletType, &creditLimitRaw, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock wallet %d: %w", walletID, err)
	}

	wallet.Type = models.WalletType(walletType)
	wallet.Status = models.WalletStatus(status)
	wallet.CreditLimit = creditLimitRaw
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time
	return &wallet, nil
}

func (w *walletTx) UpdateBalance(ctx context.Context, walletID, userID int, newBalance decimal.Decimal, now time.Time) error {
	_, err := w.tx.ExecContext(ctx, `
		UPDATE wallets SET balance = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		newBalance, now, walletID, userID)
	if err != nil {
		return fmt.Errorf("update wallet %d: %w", walletID, err)
	}
	return nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (l *ledgerTx) InsertLedgerEntry(ctx context.Context, entry *models.Transaction) (int64, error) {
	res, err := l.tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, type, amount, wallet_id, category_id, description, reference, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.Type, entry.Amount, entry.WalletID, entry.CategoryID,
		entry.Description, entry.Reference, entry.Date, entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert %s entry: %w", entry.Type, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read %s entry id: %w", entry.Type, err)
	}
	return id, nil
}

func (s *Store) ListByReference(ctx context.Context, userID int, reference string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, wallet_id, category_id, description, reference, DATE_FORMAT(date, '%Y-%m-%d'), created_at
		FROM transactions
		WHERE user_id = ? AND reference = ?
		ORDER BY id`, userID, reference)
	if err != nil {
		return nil, fmt.Errorf("list transactions by reference: %w", err)
	}
	defer rows.Close()

	var entries []models.Transaction
	for rows.Next() {
		var (
			entry      models.Transaction
			categoryID sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Type, &entry.Amount, &entry.WalletID, &categoryID,
			&entry.Description, &entry.Reference, &entry.Date, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		entry.CategoryID = int(categoryID.Int64)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListUnbalancedReferences returns transfer references created since the given
// instant whose legs are not exactly one expense and one income of equal amount.
func (s *Store) ListUnbalancedReferences(ctx context.Context, since time.Time) ([]models.ReferenceImbalance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reference,
			COUNT(*) AS legs,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense_total,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS income_total
		FROM transactions
		WHERE reference LIKE CONCAT(?, '%') AND created_at >= ?
		GROUP BY reference
		HAVING legs <> 2
			OR SUM(type = 'expense') <> 1
			OR SUM(type = 'income') <> 1
			OR expense_total <> income_total`,
		services.TransferReferencePrefix, since)
	if err != nil {
		return nil, fmt.Errorf("list unbalanced references: %w", err)
	}
	defer rows.Close()

	var out []models.ReferenceImbalance
	for rows.Next() {
		var r models.ReferenceImbalance
		if err := rows.Scan(&r.Reference, &r.Legs, &r.ExpenseTotal, &r.IncomeTotal); err != nil {
			return nil, fmt.Errorf("scan reference imbalance: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UserContact(ctx context.Context, userID int) (*models.UserContact, error) {
	var c models.UserContact
	err := s.db.QueryRowContext(ctx, "SELECT id, username, email FROM users WHERE id = ?", userID).
		Scan(&c.ID, &c.Username, &c.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return &c, nil
}
