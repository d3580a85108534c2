package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	db "walletly-server/src/db/sql"
	"walletly-server/src/models"
	"walletly-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UpsertBudget creates the monthly budget for a category or updates its
// limit when one already exists for that month.
func UpsertBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		var req struct {
			Category string  `json:"category"`
			Limit    float64 `json:"limit"`
			Month    int     `json:"month"`
			Year     int     `json:"year"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode budget request body for user %d: %v", userID, err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Category == "" {
			respondError(w, http.StatusBadRequest, "please provide a category")
			return
		}
		if !util.ValidateAmount(req.Limit) {
			respondError(w, http.StatusBadRequest, "limit must be greater than 0")
			return
		}
		if !util.ValidateMonth(req.Month) {
			respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		if req.Year < 1970 {
			respondError(w, http.StatusBadRequest, "please provide a valid year")
			return
		}

		budget, err := db.UpsertBudget(r.Context(), pool, &models.Budget{
			UserID:   userID,
			Category: req.Category,
			Limit:    req.Limit,
			Month:    req.Month,
			Year:     req.Year,
		})
		if err != nil {
			log.Printf("ERROR: Failed to upsert budget for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "failed to save budget")
			return
		}
		log.Printf("INFO: Saved budget id %d for user %d, category %s", budget.ID, userID, budget.Category)
		respondData(w, http.StatusOK, budget)
	}
}

func GetAllBudgetsForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		budgets, err := db.GetAllBudgetsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "failed to get budgets")
			return
		}
		respondList(w, budgets, len(budgets))
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		budgetID, err := parseIDParam(r, "budget_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid budget id")
			return
		}
		if err := db.DeleteBudget(r.Context(), pool, userID, budgetID); err != nil {
			log.Printf("ERROR: Failed to delete budget id %d for user %d: %v", budgetID, userID, err)
			respondError(w, http.StatusNotFound, "budget not found")
			return
		}
		log.Printf("INFO: Deleted budget id %d for user %d", budgetID, userID)
		respondData(w, http.StatusOK, map[string]string{"message": "budget deleted"})
	}
}
