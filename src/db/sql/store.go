package db

import (
	"context"
	"time"

	"walletly-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store adapts the pool-level query functions to the storage interfaces
// the reconciler and scheduled engine consume.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

func (s *Store) GetWallet(ctx context.Context, userID, walletID int64) (*models.Wallet, error) {
	return GetWalletByID(ctx, s.Pool, userID, walletID)
}

func (s *Store) GetDefaultWallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	return GetDefaultWallet(ctx, s.Pool, userID)
}

func (s *Store) AdjustBalance(ctx context.Context, walletID int64, delta, minAllowed float64) (*models.Wallet, error) {
	return AdjustWalletBalance(ctx, s.Pool, walletID, delta, minAllowed)
}

func (s *Store) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	return GetTransactionByID(ctx, s.Pool, userID, id)
}

func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	return CreateTransaction(ctx, s.Pool, tx)
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	return UpdateTransaction(ctx, s.Pool, tx)
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return DeleteTransaction(ctx, s.Pool, userID, id)
}

func (s *Store) ListDueScheduled(ctx context.Context, dayOfMonth int) ([]models.ScheduledTransaction, error) {
	return ListDueScheduled(ctx, s.Pool, dayOfMonth)
}

func (s *Store) SetLastExecuted(ctx context.Context, id int64, executed time.Time) error {
	return SetScheduledLastExecuted(ctx, s.Pool, id, executed)
}
