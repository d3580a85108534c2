package services

import (
	"context"
	"testing"
	"time"

	"walletly-server/src/models"
)

func newTestEngine() (*memStore, *ScheduledEngine) {
	store := newMemStore()
	rec := NewReconciler(store)
	return store, NewScheduledEngine(store, store, rec)
}

func TestExecuteDayApplies(t *testing.T) {
	store, engine := newTestEngine()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 1000, IsDefault: true})
	tpl := store.addScheduled(models.ScheduledTransaction{
		UserID: 1, WalletID: w.ID, Type: models.TypeExpense, Amount: 200,
		Category: "rent", DayOfMonth: 15, IsActive: true, AffectBalance: true,
	})

	now := time.Date(2026, time.August, 15, 6, 0, 0, 0, time.UTC)
	results, err := engine.ExecuteDay(context.Background(), now, 15)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	res := results[0]
	if res.Outcome != OutcomeApplied {
		t.Fatalf("outcome = %q (%s), want applied", res.Outcome, res.Reason)
	}
	if res.TransactionID == 0 {
		t.Error("applied result missing transaction id")
	}
	if got := store.balance(w.ID); got != 800 {
		t.Errorf("balance = %.2f, want 800", got)
	}
	if store.scheduled[tpl.ID].LastExecuted == nil {
		t.Error("last_executed not set")
	} else if !store.scheduled[tpl.ID].LastExecuted.Equal(now) {
		t.Errorf("last_executed = %v, want %v", store.scheduled[tpl.ID].LastExecuted, now)
	}
}

func TestExecuteDaySecondRunSameDaySkips(t *testing.T) {
	store, engine := newTestEngine()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 1000, IsDefault: true})
	store.addScheduled(models.ScheduledTransaction{
		UserID: 1, WalletID: w.ID, Type: models.TypeExpense, Amount: 200,
		DayOfMonth: 15, IsActive: true, AffectBalance: true,
	})
	ctx := context.Background()
	now := time.Date(2026, time.August, 15, 6, 0, 0, 0, time.UTC)

	if _, err := engine.ExecuteDay(ctx, now, 15); err != nil {
		t.Fatalf("first run: %v", err)
	}

	later := now.Add(2 * time.Hour)
	results, err := engine.ExecuteDay(ctx, later, 15)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if results[0].Outcome != OutcomeSkipped {
		t.Errorf("second run outcome = %q, want skipped", results[0].Outcome)
	}
	if got := store.balance(w.ID); got != 800 {
		t.Errorf("balance after double run = %.2f, want 800 (charged once)", got)
	}
	if store.transactionCount() != 1 {
		t.Errorf("transaction count = %d, want 1", store.transactionCount())
	}
}

func TestExecuteDayRunsAgainNextMonth(t *testing.T) {
	store, engine := newTestEngine()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 1000, IsDefault: true})
	lastMonth := time.Date(2026, time.July, 15, 6, 0, 0, 0, time.UTC)
	store.addScheduled(models.ScheduledTransaction{
		UserID: 1, WalletID: w.ID, Type: models.TypeExpense, Amount: 200,
		DayOfMonth: 15, IsActive: true, AffectBalance: true, LastExecuted: &lastMonth,
	})

	now := time.Date(2026, time.August, 15, 6, 0, 0, 0, time.UTC)
	results, err := engine.ExecuteDay(context.Background(), now, 15)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if results[0].Outcome != OutcomeApplied {
		t.Errorf("outcome = %q, want applied in a new month", results[0].Outcome)
	}
}

func TestExecuteDayInsufficientBalanceSkipsAndContinues(t *testing.T) {
	store, engine := newTestEngine()
	broke := store.addWallet(models.Wallet{UserID: 1, Balance: 50, IsDefault: true})
	funded := store.addWallet(models.Wallet{UserID: 2, Balance: 1000, IsDefault: true})
	under := store.addScheduled(models.ScheduledTransaction{
		ID: 100, UserID: 1, WalletID: broke.ID, Type: models.TypeExpense, Amount: 200,
		DayOfMonth: 1, IsActive: true, AffectBalance: true,
	})
	store.addScheduled(models.ScheduledTransaction{
		ID: 101, UserID: 2, WalletID: funded.ID, Type: models.TypeExpense, Amount: 200,
		DayOfMonth: 1, IsActive: true, AffectBalance: true,
	})

	now := time.Date(2026, time.August, 1, 6, 0, 0, 0, time.UTC)
	results, err := engine.ExecuteDay(context.Background(), now, 1)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	outcomes := make(map[int64]ExecutionResult, len(results))
	for _, r := range results {
		outcomes[r.ScheduledID] = r
	}
	if got := outcomes[100]; got.Outcome != OutcomeSkipped || got.Reason != "insufficient balance" {
		t.Errorf("under-funded item: got %+v, want skipped/insufficient balance", got)
	}
	if got := outcomes[101]; got.Outcome != OutcomeApplied {
		t.Errorf("funded item: got %+v, want applied", got)
	}

	// A skipped item leaves no trace: no ledger entry, no last_executed,
	// so it retries on the next run.
	if got := store.balance(broke.ID); got != 50 {
		t.Errorf("broke wallet balance = %.2f, want 50", got)
	}
	if store.transactionCount() != 1 {
		t.Errorf("transaction count = %d, want 1", store.transactionCount())
	}
	if store.scheduled[under.ID].LastExecuted != nil {
		t.Error("skipped item had last_executed set")
	}
}

func TestExecuteDayLedgerFailureCompensates(t *testing.T) {
	store, engine := newTestEngine()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 1000, IsDefault: true})
	tpl := store.addScheduled(models.ScheduledTransaction{
		UserID: 1, WalletID: w.ID, Type: models.TypeExpense, Amount: 200,
		DayOfMonth: 15, IsActive: true, AffectBalance: true,
	})
	store.failCreateTransaction = true

	now := time.Date(2026, time.August, 15, 6, 0, 0, 0, time.UTC)
	results, err := engine.ExecuteDay(context.Background(), now, 15)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if results[0].Outcome != OutcomeFailed {
		t.Errorf("outcome = %q, want failed", results[0].Outcome)
	}
	if got := store.balance(w.ID); got != 1000 {
		t.Errorf("balance = %.2f, want 1000 after compensation", got)
	}
	if store.scheduled[tpl.ID].LastExecuted != nil {
		t.Error("failed item had last_executed set")
	}
}

func TestExecuteDayLastExecutedFailureStillApplied(t *testing.T) {
	store, engine := newTestEngine()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 1000, IsDefault: true})
	store.addScheduled(models.ScheduledTransaction{
		UserID: 1, WalletID: w.ID, Type: models.TypeExpense, Amount: 200,
		DayOfMonth: 15, IsActive: true, AffectBalance: true,
	})
	store.failSetLastExecuted = true

	now := time.Date(2026, time.August, 15, 6, 0, 0, 0, time.UTC)
	results, err := engine.ExecuteDay(context.Background(), now, 15)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	// The ledger entry is committed, so the item counts as applied even
	// though the idempotency marker could not be written.
	if results[0].Outcome != OutcomeApplied {
		t.Errorf("outcome = %q, want applied", results[0].Outcome)
	}
	if store.transactionCount() != 1 {
		t.Errorf("transaction count = %d, want 1", store.transactionCount())
	}
}

func TestExecuteDayIgnoresOtherDaysAndInactive(t *testing.T) {
	store, engine := newTestEngine()
	w := store.addWallet(models.Wallet{UserID: 1, Balance: 1000, IsDefault: true})
	store.addScheduled(models.ScheduledTransaction{
		UserID: 1, WalletID: w.ID, Type: models.TypeExpense, Amount: 200,
		DayOfMonth: 20, IsActive: true, AffectBalance: true,
	})
	store.addScheduled(models.ScheduledTransaction{
		UserID: 1, WalletID: w.ID, Type: models.TypeExpense, Amount: 200,
		DayOfMonth: 15, IsActive: false, AffectBalance: true,
	})

	now := time.Date(2026, time.August, 15, 6, 0, 0, 0, time.UTC)
	results, err := engine.ExecuteDay(context.Background(), now, 15)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if got := store.balance(w.ID); got != 1000 {
		t.Errorf("balance = %.2f, want 1000", got)
	}
}

func TestExecutedThisMonth(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	sameMonth := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	prevMonth := time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC)
	prevYear := time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{name: "never executed", last: nil, want: false},
		{name: "same month", last: &sameMonth, want: true},
		{name: "previous month", last: &prevMonth, want: false},
		{name: "same month last year", last: &prevYear, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := executedThisMonth(tt.last, now); got != tt.want {
				t.Errorf("executedThisMonth = %v, want %v", got, tt.want)
			}
		})
	}
}
