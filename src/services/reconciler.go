package services

import (
	"context"
	"log"
	"math"
	"sort"

	"walletly-server/src/models"
)

// Reconciler keeps wallet balances consistent with the set of
// affect-balance transactions referencing them. Every balance mutation in
// the application goes through it; it in turn only writes balances via
// WalletStore.AdjustBalance, which is atomic per wallet.
type Reconciler struct {
	wallets WalletStore
}

func NewReconciler(wallets WalletStore) *Reconciler {
	return &Reconciler{wallets: wallets}
}

// ResolveWallet returns the wallet a transaction should target: the
// explicit wallet when walletID is non-zero, otherwise the owner's
// default wallet. Returns ErrWalletNotFound if neither exists. Pure
// lookup, no side effects.
func (r *Reconciler) ResolveWallet(ctx context.Context, userID, walletID int64) (*models.Wallet, error) {
	if walletID != 0 {
		return r.wallets.GetWallet(ctx, userID, walletID)
	}
	return r.wallets.GetDefaultWallet(ctx, userID)
}

// Apply records the effect of a transaction on its wallet: income adds
// amount, expense subtracts it. An expense that would drive the balance
// below zero fails with ErrInsufficientBalance and leaves the wallet
// unmodified.
func (r *Reconciler) Apply(ctx context.Context, walletID int64, txType models.TransactionType, amount float64) error {
	_, err := r.wallets.AdjustBalance(ctx, walletID, models.SignedAmount(txType, amount), 0)
	return err
}

// Reverse undoes a previously applied effect. Reversing an income
// subtracts, so it is subject to the same floor-at-zero check as an
// expense: deleting an income whose funds were already spent fails with
// ErrInsufficientBalance.
func (r *Reconciler) Reverse(ctx context.Context, walletID int64, txType models.TransactionType, amount float64) error {
	_, err := r.wallets.AdjustBalance(ctx, walletID, -models.SignedAmount(txType, amount), 0)
	return err
}

// walletDelta is one pending balance adjustment.
type walletDelta struct {
	walletID int64
	delta    float64
}

// updateDeltas computes the per-wallet adjustments that move the books
// from oldTx to newTx: reverse the old effect on the old wallet, apply
// the new effect on the (possibly different) new wallet. Effects on the
// same wallet collapse into a single net delta so the affordability check
// sees the transition as one step.
func updateDeltas(oldTx, newTx *models.Transaction) []walletDelta {
	net := make(map[int64]float64)
	if oldTx.AffectBalance {
		net[oldTx.WalletID] -= models.SignedAmount(oldTx.Type, oldTx.Amount)
	}
	if newTx.AffectBalance {
		net[newTx.WalletID] += models.SignedAmount(newTx.Type, newTx.Amount)
	}

	deltas := make([]walletDelta, 0, len(net))
	for id, d := range net {
		if d != 0 {
			deltas = append(deltas, walletDelta{walletID: id, delta: d})
		}
	}
	// Debits first: when only one adjustment can fail the affordability
	// check, failing before any credit is written leaves every wallet
	// untouched without needing compensation.
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].delta < deltas[j].delta })
	return deltas
}

// applyDeltas applies each adjustment in order and rolls back the ones
// already applied if a later one fails.
func (r *Reconciler) applyDeltas(ctx context.Context, deltas []walletDelta) error {
	for i, d := range deltas {
		if _, err := r.wallets.AdjustBalance(ctx, d.walletID, d.delta, 0); err != nil {
			r.compensate(ctx, deltas[:i])
			return err
		}
	}
	return nil
}

// compensate restores balances after a partial failure. The rollback is
// unconditional (no floor) so the books always return to their prior
// state even if a concurrent writer moved money in between.
func (r *Reconciler) compensate(ctx context.Context, applied []walletDelta) {
	for _, d := range applied {
		if _, err := r.wallets.AdjustBalance(ctx, d.walletID, -d.delta, math.Inf(-1)); err != nil {
			log.Printf("ERROR: Failed to roll back balance adjustment of %.2f on wallet %d: %v", d.delta, d.walletID, err)
		}
	}
}
