package services

import (
	"context"
	"time"

	"walletly-server/src/models"
)

// WalletStore is the storage contract the reconciler needs. AdjustBalance
// is the only write path for a wallet's balance: it must perform the
// increment and the affordability check as one atomic operation so that
// concurrent mutations of the same wallet cannot interleave a stale
// read-check-write.
type WalletStore interface {
	GetWallet(ctx context.Context, userID, walletID int64) (*models.Wallet, error)
	GetDefaultWallet(ctx context.Context, userID int64) (*models.Wallet, error)
	// AdjustBalance adds delta to the wallet balance if the result stays at
	// or above minAllowed, refreshing last_updated. Returns
	// ErrInsufficientBalance when the check fails and ErrWalletNotFound when
	// the wallet is absent; the wallet is unmodified in both cases.
	AdjustBalance(ctx context.Context, walletID int64, delta, minAllowed float64) (*models.Wallet, error)
}

// LedgerStore persists transaction records.
type LedgerStore interface {
	GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// ScheduleStore persists recurring transaction templates.
type ScheduleStore interface {
	ListDueScheduled(ctx context.Context, dayOfMonth int) ([]models.ScheduledTransaction, error)
	SetLastExecuted(ctx context.Context, id int64, executed time.Time) error
}
