package services

import (
	"context"
	"errors"
	"log"
	"time"

	"walletly-server/src/models"
)

// Outcome classifies what happened to one scheduled template during a
// daily pass.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ExecutionResult reports the per-template outcome of a pass.
type ExecutionResult struct {
	ScheduledID   int64   `json:"scheduled_id"`
	Outcome       Outcome `json:"outcome"`
	Reason        string  `json:"reason,omitempty"`
	TransactionID int64   `json:"transaction_id,omitempty"`
}

// ScheduledEngine materializes active scheduled-transaction templates
// into ledger entries once per calendar month. It holds no clock state:
// the caller supplies both "now" and the day-of-month, which makes a pass
// reproducible from tests.
type ScheduledEngine struct {
	schedules ScheduleStore
	ledger    LedgerStore
	rec       *Reconciler
}

func NewScheduledEngine(schedules ScheduleStore, ledger LedgerStore, rec *Reconciler) *ScheduledEngine {
	return &ScheduledEngine{schedules: schedules, ledger: ledger, rec: rec}
}

// ExecuteDay runs one best-effort pass over every active template whose
// day-of-month matches. A template that already executed in the current
// calendar month is skipped (idempotency guard for repeated runs on the
// same day), an under-funded expense is skipped without blocking the
// rest of the batch, and persistence failures are recorded per item.
func (e *ScheduledEngine) ExecuteDay(ctx context.Context, now time.Time, dayOfMonth int) ([]ExecutionResult, error) {
	templates, err := e.schedules.ListDueScheduled(ctx, dayOfMonth)
	if err != nil {
		return nil, err
	}

	log.Printf("INFO: Executing %d scheduled transactions for day %d", len(templates), dayOfMonth)

	results := make([]ExecutionResult, 0, len(templates))
	for _, tpl := range templates {
		results = append(results, e.executeOne(ctx, tpl, now))
	}
	return results, nil
}

func (e *ScheduledEngine) executeOne(ctx context.Context, tpl models.ScheduledTransaction, now time.Time) ExecutionResult {
	res := ExecutionResult{ScheduledID: tpl.ID}

	if executedThisMonth(tpl.LastExecuted, now) {
		res.Outcome = OutcomeSkipped
		res.Reason = "already executed this month"
		return res
	}

	if tpl.AffectBalance {
		if err := e.rec.Apply(ctx, tpl.WalletID, tpl.Type, tpl.Amount); err != nil {
			if errors.Is(err, ErrInsufficientBalance) {
				log.Printf("ERROR: Insufficient balance for scheduled transaction %d on wallet %d", tpl.ID, tpl.WalletID)
				res.Outcome = OutcomeSkipped
				res.Reason = "insufficient balance"
				return res
			}
			log.Printf("ERROR: Failed to apply scheduled transaction %d: %v", tpl.ID, err)
			res.Outcome = OutcomeFailed
			res.Reason = err.Error()
			return res
		}
	}

	created, err := e.ledger.CreateTransaction(ctx, &models.Transaction{
		UserID:        tpl.UserID,
		WalletID:      tpl.WalletID,
		Type:          tpl.Type,
		Amount:        tpl.Amount,
		Category:      tpl.Category,
		Description:   tpl.Description,
		Date:          now,
		AffectBalance: tpl.AffectBalance,
	})
	if err != nil {
		if tpl.AffectBalance {
			e.rec.compensate(ctx, []walletDelta{{walletID: tpl.WalletID, delta: models.SignedAmount(tpl.Type, tpl.Amount)}})
		}
		log.Printf("ERROR: Failed to create transaction from scheduled template %d: %v", tpl.ID, err)
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return res
	}
	res.TransactionID = created.ID

	if err := e.schedules.SetLastExecuted(ctx, tpl.ID, now); err != nil {
		// The ledger entry and balance effect are already committed;
		// record the failure but count the item as applied.
		log.Printf("ERROR: Failed to update last executed for scheduled transaction %d: %v", tpl.ID, err)
	}

	log.Printf("INFO: Executed scheduled transaction %d for user %d, created transaction %d", tpl.ID, tpl.UserID, created.ID)
	res.Outcome = OutcomeApplied
	return res
}

// executedThisMonth reports whether lastExecuted falls in the same
// calendar month and year as now.
func executedThisMonth(lastExecuted *time.Time, now time.Time) bool {
	if lastExecuted == nil {
		return false
	}
	return lastExecuted.Year() == now.Year() && lastExecuted.Month() == now.Month()
}
