package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"walletly-server/src/models"
)

// memStore is an in-memory implementation of the storage interfaces used
// by the reconciler and the scheduled engine.
type memStore struct {
	mu           sync.Mutex
	wallets      map[int64]*models.Wallet
	transactions map[int64]*models.Transaction
	scheduled    map[int64]*models.ScheduledTransaction
	nextID       int64

	failCreateTransaction bool
	failSetLastExecuted   bool
}

func newMemStore() *memStore {
	return &memStore{
		wallets:      make(map[int64]*models.Wallet),
		transactions: make(map[int64]*models.Transaction),
		scheduled:    make(map[int64]*models.ScheduledTransaction),
		nextID:       1,
	}
}

func (s *memStore) addWallet(w models.Wallet) *models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.nextID
		s.nextID++
	}
	s.wallets[w.ID] = &w
	return &w
}

func (s *memStore) addScheduled(tpl models.ScheduledTransaction) *models.ScheduledTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tpl.ID == 0 {
		tpl.ID = s.nextID
		s.nextID++
	}
	s.scheduled[tpl.ID] = &tpl
	return &tpl
}

func (s *memStore) balance(walletID int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[walletID].Balance
}

func (s *memStore) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *memStore) GetWallet(_ context.Context, userID, walletID int64) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok || w.UserID != userID {
		return nil, ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *memStore) GetDefaultWallet(_ context.Context, userID int64) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.UserID == userID && w.IsDefault {
			cp := *w
			return &cp, nil
		}
	}
	return nil, ErrWalletNotFound
}

func (s *memStore) AdjustBalance(_ context.Context, walletID int64, delta, minAllowed float64) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	if w.Balance+delta < minAllowed {
		return nil, ErrInsufficientBalance
	}
	w.Balance += delta
	w.LastUpdated = time.Now()
	cp := *w
	return &cp, nil
}

func (s *memStore) GetTransaction(_ context.Context, userID, id int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *memStore) CreateTransaction(_ context.Context, tx *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateTransaction {
		return nil, fmt.Errorf("forced ledger failure")
	}
	cp := *tx
	cp.ID = s.nextID
	s.nextID++
	s.transactions[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) UpdateTransaction(_ context.Context, tx *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return nil, ErrTransactionNotFound
	}
	cp := *tx
	s.transactions[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) DeleteTransaction(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok || tx.UserID != userID {
		return ErrTransactionNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *memStore) ListDueScheduled(_ context.Context, dayOfMonth int) ([]models.ScheduledTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.ScheduledTransaction
	for _, tpl := range s.scheduled {
		if tpl.DayOfMonth == dayOfMonth && tpl.IsActive {
			due = append(due, *tpl)
		}
	}
	return due, nil
}

func (s *memStore) SetLastExecuted(_ context.Context, id int64, executed time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSetLastExecuted {
		return fmt.Errorf("forced last-executed failure")
	}
	tpl, ok := s.scheduled[id]
	if !ok {
		return ErrScheduledNotFound
	}
	t := executed
	tpl.LastExecuted = &t
	return nil
}
