package services

import (
	"context"
	"errors"
	"testing"

	"walletly-server/src/models"
)

func TestResolveWallet(t *testing.T) {
	store := newMemStore()
	def := store.addWallet(models.Wallet{UserID: 1, Name: "Main", IsDefault: true, Balance: 100})
	other := store.addWallet(models.Wallet{UserID: 1, Name: "Savings", Balance: 50})
	store.addWallet(models.Wallet{UserID: 2, Name: "Theirs", IsDefault: true})

	rec := NewReconciler(store)
	ctx := context.Background()

	tests := []struct {
		name     string
		userID   int64
		walletID int64
		wantID   int64
		wantErr  error
	}{
		{name: "explicit id", userID: 1, walletID: other.ID, wantID: other.ID},
		{name: "zero id falls back to default", userID: 1, walletID: 0, wantID: def.ID},
		{name: "missing wallet", userID: 1, walletID: 999, wantErr: ErrWalletNotFound},
		{name: "other user's wallet", userID: 2, walletID: other.ID, wantErr: ErrWalletNotFound},
		{name: "no default wallet", userID: 3, walletID: 0, wantErr: ErrWalletNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := rec.ResolveWallet(ctx, tt.userID, tt.walletID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.ID != tt.wantID {
				t.Errorf("got wallet %d, want %d", w.ID, tt.wantID)
			}
		})
	}
}

func TestApplyAndReverse(t *testing.T) {
	store := newMemStore()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 100, IsDefault: true})
	rec := NewReconciler(store)
	ctx := context.Background()

	if err := rec.Apply(ctx, w.ID, models.TypeExpense, 30); err != nil {
		t.Fatalf("apply expense: %v", err)
	}
	if got := store.balance(w.ID); got != 70 {
		t.Errorf("after expense: balance = %.2f, want 70", got)
	}

	if err := rec.Apply(ctx, w.ID, models.TypeIncome, 10); err != nil {
		t.Fatalf("apply income: %v", err)
	}
	if got := store.balance(w.ID); got != 80 {
		t.Errorf("after income: balance = %.2f, want 80", got)
	}

	if err := rec.Reverse(ctx, w.ID, models.TypeExpense, 30); err != nil {
		t.Fatalf("reverse expense: %v", err)
	}
	if err := rec.Reverse(ctx, w.ID, models.TypeIncome, 10); err != nil {
		t.Fatalf("reverse income: %v", err)
	}
	if got := store.balance(w.ID); got != 100 {
		t.Errorf("after reversals: balance = %.2f, want 100", got)
	}
}

func TestApplyInsufficientBalance(t *testing.T) {
	store := newMemStore()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 20})
	rec := NewReconciler(store)

	err := rec.Apply(context.Background(), w.ID, models.TypeExpense, 50)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("got err %v, want ErrInsufficientBalance", err)
	}
	if got := store.balance(w.ID); got != 20 {
		t.Errorf("failed apply mutated balance: got %.2f, want 20", got)
	}
}

func TestReverseIncomeFloorsAtZero(t *testing.T) {
	// Reversing an income whose funds were already spent must fail, not
	// drive the balance negative.
	store := newMemStore()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 5})
	rec := NewReconciler(store)

	err := rec.Reverse(context.Background(), w.ID, models.TypeIncome, 50)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("got err %v, want ErrInsufficientBalance", err)
	}
	if got := store.balance(w.ID); got != 5 {
		t.Errorf("failed reverse mutated balance: got %.2f, want 5", got)
	}
}

func TestUpdateDeltasSameWalletCollapses(t *testing.T) {
	oldTx := &models.Transaction{WalletID: 1, Type: models.TypeExpense, Amount: 30, AffectBalance: true}
	newTx := &models.Transaction{WalletID: 1, Type: models.TypeExpense, Amount: 50, AffectBalance: true}

	deltas := updateDeltas(oldTx, newTx)
	if len(deltas) != 1 {
		t.Fatalf("got %d deltas, want 1", len(deltas))
	}
	if deltas[0].walletID != 1 || deltas[0].delta != -20 {
		t.Errorf("got delta %+v, want {1 -20}", deltas[0])
	}
}

func TestUpdateDeltasNoNetChange(t *testing.T) {
	oldTx := &models.Transaction{WalletID: 1, Type: models.TypeExpense, Amount: 30, AffectBalance: true}
	newTx := &models.Transaction{WalletID: 1, Type: models.TypeExpense, Amount: 30, AffectBalance: true}

	if deltas := updateDeltas(oldTx, newTx); len(deltas) != 0 {
		t.Errorf("got %d deltas for identical effects, want 0", len(deltas))
	}
}

func TestUpdateDeltasWalletSwitchDebitsFirst(t *testing.T) {
	oldTx := &models.Transaction{WalletID: 1, Type: models.TypeIncome, Amount: 40, AffectBalance: true}
	newTx := &models.Transaction{WalletID: 2, Type: models.TypeIncome, Amount: 40, AffectBalance: true}

	deltas := updateDeltas(oldTx, newTx)
	if len(deltas) != 2 {
		t.Fatalf("got %d deltas, want 2", len(deltas))
	}
	if deltas[0].delta >= 0 {
		t.Errorf("debit should come first, got %+v", deltas)
	}
	if deltas[0].walletID != 1 || deltas[0].delta != -40 {
		t.Errorf("got first delta %+v, want {1 -40}", deltas[0])
	}
	if deltas[1].walletID != 2 || deltas[1].delta != 40 {
		t.Errorf("got second delta %+v, want {2 40}", deltas[1])
	}
}

func TestUpdateDeltasAffectBalanceToggle(t *testing.T) {
	withEffect := &models.Transaction{WalletID: 1, Type: models.TypeExpense, Amount: 25, AffectBalance: true}
	withoutEffect := &models.Transaction{WalletID: 1, Type: models.TypeExpense, Amount: 25, AffectBalance: false}

	// Turning the effect off refunds the expense.
	deltas := updateDeltas(withEffect, withoutEffect)
	if len(deltas) != 1 || deltas[0].delta != 25 {
		t.Errorf("off-toggle: got %+v, want single +25", deltas)
	}

	// Turning it on charges it.
	deltas = updateDeltas(withoutEffect, withEffect)
	if len(deltas) != 1 || deltas[0].delta != -25 {
		t.Errorf("on-toggle: got %+v, want single -25", deltas)
	}
}

func TestApplyDeltasRollsBackOnFailure(t *testing.T) {
	store := newMemStore()
	funded := store.addWallet(models.Wallet{UserID: 1, Balance: 100})
	broke := store.addWallet(models.Wallet{UserID: 1, Balance: 0})
	rec := NewReconciler(store)

	// Credit the funded wallet, then debit the empty one. The debit fails
	// and the credit must be rolled back.
	err := rec.applyDeltas(context.Background(), []walletDelta{
		{walletID: funded.ID, delta: 50},
		{walletID: broke.ID, delta: -10},
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("got err %v, want ErrInsufficientBalance", err)
	}
	if got := store.balance(funded.ID); got != 100 {
		t.Errorf("funded wallet not rolled back: got %.2f, want 100", got)
	}
	if got := store.balance(broke.ID); got != 0 {
		t.Errorf("empty wallet mutated: got %.2f, want 0", got)
	}
}
