package handlers

import (
	"encoding/json"
	"fmt"
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

func transactionCacheKey(userID int64, query string) string {
	return fmt.Sprintf("transactions:%d:%s", userID, query)
}

func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)

		filter, err := parseTransactionFilter(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		key := transactionCacheKey(userID, r.URL.RawQuery)
		if cached, found := cache.Cache.Get(key); found {
			if transactions, ok := cached.([]models.Transaction); ok {
				respondList(w, transactions, len(transactions))
				return
			}
		}

		transactions, err := db.GetAllTransactionsForUser(r.Context(), pool, userID, filter)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "failed to get transactions")
			return
		}
		cache.SetTransactionCache(key, transactions)
		respondList(w, transactions, len(transactions))
	}
}

func GetTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		txID, err := parseIDParam(r, "transaction_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		tx, err := db.GetTransactionByID(r.Context(), pool, userID, txID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondData(w, http.StatusOK, tx)
	}
}

func CreateTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		var req struct {
			Type          models.TransactionType `json:"type"`
			Amount        float64                `json:"amount"`
			Category      string                 `json:"category"`
			Description   string                 `json:"description"`
			Date          *time.Time             `json:"date"`
			WalletID      int64                  `json:"wallet_id"`
			AffectBalance *bool                  `json:"affect_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
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

		date := time.Now()
		if req.Date != nil {
			date = *req.Date
		}
		affectBalance := true
		if req.AffectBalance != nil {
			affectBalance = *req.AffectBalance
		}

		created, err := svc.Create(r.Context(), &models.Transaction{
			UserID:        userID,
			WalletID:      req.WalletID,
			Type:          req.Type,
			Amount:        req.Amount,
			Category:      req.Category,
			Description:   req.Description,
			Date:          date,
			AffectBalance: affectBalance,
		})
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			respondServiceError(w, err)
			return
		}
		cache.ClearAllTransactionCaches()
		cache.ClearAllWalletCaches()
		log.Printf("INFO: Created transaction id %d for user %d, wallet %d", created.ID, userID, created.WalletID)
		respondData(w, http.StatusCreated, created)
	}
}

func UpdateTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		txID, err := parseIDParam(r, "transaction_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		var req struct {
			Type          *models.TransactionType `json:"type"`
			Amount        *float64                `json:"amount"`
			Category      *string                 `json:"category"`
			Description   *string                 `json:"description"`
			Date          *time.Time              `json:"date"`
			WalletID      *int64                  `json:"wallet_id"`
			AffectBalance *bool                   `json:"affect_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if req.Type != nil && !util.ValidateTransactionType(*req.Type) {
			respondError(w, http.StatusBadRequest, "type must be either income or expense")
			return
		}
		if req.Amount != nil && !util.ValidateAmount(*req.Amount) {
			respondError(w, http.StatusBadRequest, "amount must be greater than 0")
			return
		}
		if req.Category != nil && *req.Category == "" {
			respondError(w, http.StatusBadRequest, "category must not be empty")
			return
		}
		if req.WalletID != nil && *req.WalletID <= 0 {
			respondError(w, http.StatusBadRequest, "invalid wallet id")
			return
		}

		updated, err := svc.Update(r.Context(), userID, txID, services.TransactionChanges{
			Type:          req.Type,
			Amount:        req.Amount,
			Category:      req.Category,
			Description:   req.Description,
			Date:          req.Date,
			WalletID:      req.WalletID,
			AffectBalance: req.AffectBalance,
		})
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", txID, userID, err)
			respondServiceError(w, err)
			return
		}
		cache.ClearAllTransactionCaches()
		cache.ClearAllWalletCaches()
		log.Printf("INFO: Updated transaction id %d for user %d", updated.ID, userID)
		respondData(w, http.StatusOK, updated)
	}
}

func DeleteTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		txID, err := parseIDParam(r, "transaction_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		if err := svc.Delete(r.Context(), userID, txID); err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", txID, userID, err)
			respondServiceError(w, err)
			return
		}
		cache.ClearAllTransactionCaches()
		cache.ClearAllWalletCaches()
		log.Printf("INFO: Deleted transaction id %d for user %d", txID, userID)
		respondData(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
	}
}

func parseTransactionFilter(r *http.Request) (models.TransactionFilter, error) {
	var filter models.TransactionFilter
	q := r.URL.Query()

	if t := q.Get("type"); t != "" {
		filter.Type = models.TransactionType(t)
		if !util.ValidateTransactionType(filter.Type) {
			return filter, fmt.Errorf("type must be either income or expense")
		}
	}
	filter.Category = q.Get("category")
	if walletID := q.Get("wallet_id"); walletID != "" {
		id, err := parseID(walletID)
		if err != nil {
			return filter, fmt.Errorf("invalid wallet_id")
		}
		filter.WalletID = id
	}
	if start := q.Get("start_date"); start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return filter, fmt.Errorf("start_date must be YYYY-MM-DD")
		}
		filter.StartDate = t
	}
	if end := q.Get("end_date"); end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return filter, fmt.Errorf("end_date must be YYYY-MM-DD")
		}
		filter.EndDate = t
	}
	return filter, nil
}
