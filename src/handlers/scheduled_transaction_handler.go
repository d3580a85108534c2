package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	cache "walletly-server/src/db"
	db "walletly-server/src/db/sql"
	"walletly-server/src/models"
	"walletly-server/src/services"
	"walletly-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

func GetScheduledTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		scheduled, err := db.GetAllScheduledForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get scheduled transactions for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "failed to get scheduled transactions")
			return
		}
		respondList(w, scheduled, len(scheduled))
	}
}

func CreateScheduledTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		var req struct {
			Type          models.TransactionType `json:"type"`
			Amount        float64                `json:"amount"`
			Category      string                 `json:"category"`
			Description   string                 `json:"description"`
			DayOfMonth    int                    `json:"day_of_month"`
			WalletID      int64                  `json:"wallet_id"`
			AffectBalance *bool                  `json:"affect_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create scheduled transaction request body for user %d: %v", userID, err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if !util.ValidateTransactionType(req.Type) {
			respondError(w, http.StatusBadRequest, "type must be either income or expense")
			return
		}
		if !util.ValidateAmount(req.Amount) {
			respondError(w, http.StatusBadRequest, "amount must be greater than 0")
			return
		}
		if req.Category == "" {
			respondError(w, http.StatusBadRequest, "please provide a category")
			return
		}
		if !util.ValidateDayOfMonth(req.DayOfMonth) {
			respondError(w, http.StatusBadRequest, "day of month must be between 1 and 31")
			return
		}
		if req.WalletID <= 0 {
			respondError(w, http.StatusBadRequest, "please provide a wallet id")
			return
		}

		// Templates always reference an explicit wallet so the unattended
		// executor never has to guess.
		wallet, err := db.GetWalletByID(r.Context(), pool, userID, req.WalletID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		affectBalance := true
		if req.AffectBalance != nil {
			affectBalance = *req.AffectBalance
		}

		created, err := db.CreateScheduled(r.Context(), pool, &models.ScheduledTransaction{
			UserID:        userID,
			WalletID:      wallet.ID,
			Type:          req.Type,
			Amount:        req.Amount,
			Category:      req.Category,
			Description:   req.Description,
			DayOfMonth:    req.DayOfMonth,
			IsActive:      true,
			AffectBalance: affectBalance,
		})
		if err != nil {
			log.Printf("ERROR: Failed to create scheduled transaction for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "failed to create scheduled transaction")
			return
		}
		log.Printf("INFO: Created scheduled transaction id %d for user %d, day %d", created.ID, userID, created.DayOfMonth)
		respondData(w, http.StatusCreated, created)
	}
}

func UpdateScheduledTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		scheduledID, err := parseIDParam(r, "scheduled_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid scheduled transaction id")
			return
		}

		var req struct {
			Type          *models.TransactionType `json:"type"`
			Amount        *float64                `json:"amount"`
			Category      *string                 `json:"category"`
			Description   *string                 `json:"description"`
			DayOfMonth    *int                    `json:"day_of_month"`
			WalletID      *int64                  `json:"wallet_id"`
			IsActive      *bool                   `json:"is_active"`
			AffectBalance *bool                   `json:"affect_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update scheduled transaction request body for user %d: %v", userID, err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		scheduled, err := db.GetScheduledByID(r.Context(), pool, userID, scheduledID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		if req.Type != nil {
			if !util.ValidateTransactionType(*req.Type) {
				respondError(w, http.StatusBadRequest, "type must be either income or expense")
				return
			}
			scheduled.Type = *req.Type
		}
		if req.Amount != nil {
			if !util.ValidateAmount(*req.Amount) {
				respondError(w, http.StatusBadRequest, "amount must be greater than 0")
				return
			}
			scheduled.Amount = *req.Amount
		}
		if req.Category != nil {
			scheduled.Category = *req.Category
		}
		if req.Description != nil {
			scheduled.Description = *req.Description
		}
		if req.DayOfMonth != nil {
			if !util.ValidateDayOfMonth(*req.DayOfMonth) {
				respondError(w, http.StatusBadRequest, "day of month must be between 1 and 31")
				return
			}
			scheduled.DayOfMonth = *req.DayOfMonth
		}
		if req.IsActive != nil {
			scheduled.IsActive = *req.IsActive
		}
		if req.AffectBalance != nil {
			scheduled.AffectBalance = *req.AffectBalance
		}
		if req.WalletID != nil {
			wallet, err := db.GetWalletByID(r.Context(), pool, userID, *req.WalletID)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			scheduled.WalletID = wallet.ID
		}

		updated, err := db.UpdateScheduled(r.Context(), pool, scheduled)
		if err != nil {
			log.Printf("ERROR: Failed to update scheduled transaction id %d for user %d: %v", scheduledID, userID, err)
			respondServiceError(w, err)
			return
		}
		log.Printf("INFO: Updated scheduled transaction id %d for user %d", updated.ID, userID)
		respondData(w, http.StatusOK, updated)
	}
}

func DeleteScheduledTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		scheduledID, err := parseIDParam(r, "scheduled_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid scheduled transaction id")
			return
		}

		if err := db.DeleteScheduled(r.Context(), pool, userID, scheduledID); err != nil {
			log.Printf("ERROR: Failed to delete scheduled transaction id %d for user %d: %v", scheduledID, userID, err)
			respondServiceError(w, err)
			return
		}
		log.Printf("INFO: Deleted scheduled transaction id %d for user %d", scheduledID, userID)
		respondData(w, http.StatusOK, map[string]string{"message": "scheduled transaction deleted"})
	}
}

// ExecuteScheduledTransactions is the manual trigger for the daily pass.
// It runs the engine for today's day-of-month and returns the per-item
// outcomes.
func ExecuteScheduledTransactions(engine *services.ScheduledEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		results, err := engine.ExecuteDay(r.Context(), now, now.Day())
		if err != nil {
			log.Printf("ERROR: Manual scheduled execution failed: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to execute scheduled transactions")
			return
		}
		cache.ClearAllTransactionCaches()
		cache.ClearAllWalletCaches()
		respondData(w, http.StatusOK, results)
	}
}
