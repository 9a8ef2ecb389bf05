// Package memstore keeps wallets and ledger entries in process memory. It
// mirrors the locking contract of the SQL store: a wallet locked inside a unit
// of work stays locked until that unit commits or rolls back, and writes become
// visible to other readers only on commit.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dompet_api/internal/models"
	"dompet_api/internal/services"

	"github.com/shopspring/decimal"
)

var ErrWalletNotLocked = errors.New("wallet must be locked before update")

type Store struct {
	mu      sync.RWMutex
	wallets map[int]models.Wallet
	entries []models.Transaction
	nextID  int64
	locks   map[int]chan struct{}
	users   map[int]models.UserContact

	// FailInsertAfter makes the n-th InsertLedgerEntry of every unit of work
	// fail when > 0. Used to exercise rollback paths.
	FailInsertAfter int
}

func New() *Store {
	return &Store{
		wallets: make(map[int]models.Wallet),
		locks:   make(map[int]chan struct{}),
		users:   make(map[int]models.UserContact),
	}
}

// PutWallet creates or replaces a wallet outside of any unit of work.
func (s *Store) PutWallet(w models.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.Status == "" {
		w.Status = models.WalletActive
	}
	s.wallets[w.ID] = w
	if _, ok := s.locks[w.ID]; !ok {
		s.locks[w.ID] = make(chan struct{}, 1)
	}
}

// Wallet returns the committed state of a wallet.
func (s *Store) Wallet(id int) (models.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	return w, ok
}

// Entries returns a copy of every committed ledger entry.
func (s *Store) Entries() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) lockFor(walletID int) chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locks[walletID]
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, wallets services.WalletStore, ledger services.LedgerStore) error) error {
	u := &unit{store: s, held: make(map[int]chan struct{}), balances: make(map[int]stagedBalance)}
	defer u.release()

	if err := fn(ctx, u, u); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.commit()
	return nil
}

type stagedBalance struct {
	balance decimal.Decimal
	at      time.Time
}

// unit is one in-flight unit of work.
type unit struct {
	store    *Store
	held     map[int]chan struct{}
	order    []int
	balances map[int]stagedBalance
	entries  []models.Transaction
	inserts  int
}

func (u *unit) LockWalletForUpdate(ctx context.Context, userID, walletID int) (*models.Wallet, error) {
	if _, ok := u.held[walletID]; !ok {
		lock := u.store.lockFor(walletID)
		if lock == nil {
			return nil, nil
		}
		select {
		case lock <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		u.held[walletID] = lock
		u.order = append(u.order, walletID)
	}

	w, ok := u.store.Wallet(walletID)
	if !ok || w.UserID != userID {
		return nil, nil
	}
	if staged, ok := u.balances[walletID]; ok {
		w.Balance = staged.balance
		w.UpdatedAt = staged.at
	}
	return &w, nil
}

func (u *unit) UpdateBalance(ctx context.Context, walletID, userID int, newBalance decimal.Decimal, now time.Time) error {
	if _, ok := u.held[walletID]; !ok {
		return ErrWalletNotLocked
	}
	u.balances[walletID] = stagedBalance{balance: newBalance, at: now}
	return nil
}

func (u *unit) InsertLedgerEntry(ctx context.Context, entry *models.Transaction) (int64, error) {
	u.inserts++
	if n := u.store.FailInsertAfter; n > 0 && u.inserts >= n {
		return 0, errors.New("simulated insert failure")
	}

	u.store.mu.Lock()
	u.store.nextID++
	id := u.store.nextID
	u.store.mu.Unlock()

	e := *entry
	e.ID = id
	u.entries = append(u.entries, e)
	return id, nil
}

func (u *unit) commit() {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for id, staged := range u.balances {
		w := u.store.wallets[id]
		w.Balance = staged.balance
		w.UpdatedAt = staged.at
		u.store.wallets[id] = w
	}
	u.store.entries = append(u.store.entries, u.entries...)
}

func (u *unit) release() {
	for i := len(u.order) - 1; i >= 0; i-- {
		<-u.held[u.order[i]]
	}
}

func (s *Store) ListByReference(ctx context.Context, userID int, reference string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transaction
	for _, e := range s.entries {
		if e.UserID == userID && e.Reference == reference {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListUnbalancedReferences(ctx context.Context, since time.Time) ([]models.ReferenceImbalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type tally struct {
		legs, expenses, incomes int
		expenseTotal            decimal.Decimal
		incomeTotal             decimal.Decimal
	}
	byRef := make(map[string]*tally)
	for _, e := range s.entries {
		if !strings.HasPrefix(e.Reference, services.TransferReferencePrefix) || e.CreatedAt.Before(since) {
			continue
		}
		t, ok := byRef[e.Reference]
		if !ok {
			t = &tally{}
			byRef[e.Reference] = t
		}
		t.legs++
		switch e.Type {
		case models.TransactionExpense:
			t.expenses++
			t.expenseTotal = t.expenseTotal.Add(e.Amount)
		case models.TransactionIncome:
			t.incomes++
			t.incomeTotal = t.incomeTotal.Add(e.Amount)
		}
	}

	var out []models.ReferenceImbalance
	for ref, t := range byRef {
		if t.legs == 2 && t.expenses == 1 && t.incomes == 1 && t.expenseTotal.Equal(t.incomeTotal) {
			continue
		}
		out = append(out, models.ReferenceImbalance{
			Reference:    ref,
			Legs:         t.legs,
			ExpenseTotal: t.expenseTotal,
			IncomeTotal:  t.incomeTotal,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

// AppendEntry adds a committed ledger row directly, bypassing transfers.
func (s *Store) AppendEntry(e models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.entries = append(s.entries, e)
}

func (s *Store) PutUser(u models.UserContact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) UserContact(ctx context.Context, userID int) (*models.UserContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
