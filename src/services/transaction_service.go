package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"walletly-server/src/models"
)

// TransactionService orchestrates ledger writes with the balance
// reconciler so that no transaction record exists without its balance
// effect and no balance effect survives without its record.
type TransactionService struct {
	ledger LedgerStore
	rec    *Reconciler
}

func NewTransactionService(ledger LedgerStore, rec *Reconciler) *TransactionService {
	return &TransactionService{ledger: ledger, rec: rec}
}

// Create resolves the target wallet (explicit id, or the owner's default
// when tx.WalletID is zero), applies the balance effect, then persists
// the record. A failed ledger write rolls the balance effect back.
func (s *TransactionService) Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	wallet, err := s.rec.ResolveWallet(ctx, tx.UserID, tx.WalletID)
	if err != nil {
		return nil, err
	}
	tx.WalletID = wallet.ID

	if tx.AffectBalance {
		if err := s.rec.Apply(ctx, wallet.ID, tx.Type, tx.Amount); err != nil {
			return nil, err
		}
	}

	created, err := s.ledger.CreateTransaction(ctx, tx)
	if err != nil {
		if tx.AffectBalance {
			s.rec.compensate(ctx, []walletDelta{{walletID: wallet.ID, delta: models.SignedAmount(tx.Type, tx.Amount)}})
		}
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

// TransactionChanges carries the fields a PUT may modify. Nil pointers
// leave the stored value untouched.
type TransactionChanges struct {
	Type          *models.TransactionType
	Amount        *float64
	Category      *string
	Description   *string
	Date          *time.Time
	WalletID      *int64
	AffectBalance *bool
}

// Update reverses the old balance effect and applies the new one across
// whichever of the four axes changed: amount, type, wallet, and the
// affect-balance flag. Changing the wallet requires the new wallet to
// exist and belong to the caller; a transaction whose stored wallet has
// gone missing fails rather than falling back to the default wallet.
func (s *TransactionService) Update(ctx context.Context, userID, id int64, changes TransactionChanges) (*models.Transaction, error) {
	oldTx, err := s.ledger.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	newTx := *oldTx
	if changes.Type != nil {
		newTx.Type = *changes.Type
	}
	if changes.Amount != nil {
		newTx.Amount = *changes.Amount
	}
	if changes.Category != nil {
		newTx.Category = *changes.Category
	}
	if changes.Description != nil {
		newTx.Description = *changes.Description
	}
	if changes.Date != nil {
		newTx.Date = *changes.Date
	}
	if changes.AffectBalance != nil {
		newTx.AffectBalance = *changes.AffectBalance
	}
	if changes.WalletID != nil && *changes.WalletID != oldTx.WalletID {
		wallet, err := s.rec.wallets.GetWallet(ctx, userID, *changes.WalletID)
		if err != nil {
			return nil, err
		}
		newTx.WalletID = wallet.ID
	}

	deltas := updateDeltas(oldTx, &newTx)
	if err := s.rec.applyDeltas(ctx, deltas); err != nil {
		return nil, err
	}

	updated, err := s.ledger.UpdateTransaction(ctx, &newTx)
	if err != nil {
		s.rec.compensate(ctx, deltas)
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return updated, nil
}

// Delete removes a transaction, reversing its balance effect first when
// it has one. A failed ledger delete re-applies the effect.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	tx, err := s.ledger.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	if tx.AffectBalance {
		if err := s.rec.Reverse(ctx, tx.WalletID, tx.Type, tx.Amount); err != nil {
			return err
		}
	}

	if err := s.ledger.DeleteTransaction(ctx, userID, id); err != nil {
		if tx.AffectBalance {
			if _, aerr := s.rec.wallets.AdjustBalance(ctx, tx.WalletID, models.SignedAmount(tx.Type, tx.Amount), math.Inf(-1)); aerr != nil {
				log.Printf("ERROR: Failed to restore balance effect of transaction %d on wallet %d: %v", id, tx.WalletID, aerr)
			}
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}
