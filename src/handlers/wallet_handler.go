package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	cache "walletly-server/src/db"
	db "walletly-server/src/db/sql"
	"walletly-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func walletCacheKey(userID int64) string {
	return fmt.Sprintf("wallets:%d", userID)
}

func GetWallets(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)

		if cached, found := cache.Cache.Get(walletCacheKey(userID)); found {
			if wallets, ok := cached.([]models.Wallet); ok {
				respondList(w, wallets, len(wallets))
				return
			}
		}

		wallets, err := db.GetAllWalletsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get wallets for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "failed to get wallets")
			return
		}
		cache.SetWalletCache(walletCacheKey(userID), wallets)
		respondList(w, wallets, len(wallets))
	}
}

func GetWallet(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		walletID, err := parseIDParam(r, "wallet_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid wallet id")
			return
		}

		wallet, err := db.GetWalletByID(r.Context(), pool, userID, walletID)
		if err != nil {
			log.Printf("ERROR: Wallet id %d not found for user %d: %v", walletID, userID, err)
			respondServiceError(w, err)
			return
		}
		respondData(w, http.StatusOK, wallet)
	}
}

func CreateWallet(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		var req struct {
			Name      string  `json:"name"`
			Currency  string  `json:"currency"`
			Balance   float64 `json:"balance"`
			IsDefault bool    `json:"is_default"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create wallet request body for user %d: %v", userID, err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Name == "" {
			req.Name = "Main Wallet"
		}
		if req.Currency == "" {
			req.Currency = "USD"
		}
		if req.Balance < 0 {
			respondError(w, http.StatusBadRequest, "balance must not be negative")
			return
		}

		created, err := db.CreateWallet(r.Context(), pool, &models.Wallet{
			UserID:    userID,
			Name:      req.Name,
			Currency:  req.Currency,
			Balance:   req.Balance,
			IsDefault: req.IsDefault,
		})
		if err != nil {
			log.Printf("ERROR: Failed to create wallet for user %d: %v", userID, err)
			respondServiceError(w, err)
			return
		}
		cache.ClearAllWalletCaches()
		log.Printf("INFO: Created wallet id %d for user %d", created.ID, userID)
		respondData(w, http.StatusCreated, created)
	}
}

func UpdateWallet(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		walletID, err := parseIDParam(r, "wallet_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid wallet id")
			return
		}

		var req struct {
			Name      *string `json:"name"`
			Currency  *string `json:"currency"`
			IsDefault *bool   `json:"is_default"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update wallet request body for user %d: %v", userID, err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		wallet, err := db.GetWalletByID(r.Context(), pool, userID, walletID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if req.Name != nil {
			wallet.Name = *req.Name
		}
		if req.Currency != nil {
			wallet.Currency = *req.Currency
		}
		if req.IsDefault != nil {
			wallet.IsDefault = *req.IsDefault
		}

		updated, err := db.UpdateWallet(r.Context(), pool, wallet)
		if err != nil {
			log.Printf("ERROR: Failed to update wallet id %d for user %d: %v", walletID, userID, err)
			respondServiceError(w, err)
			return
		}
		cache.ClearAllWalletCaches()
		log.Printf("INFO: Updated wallet id %d for user %d", updated.ID, userID)
		respondData(w, http.StatusOK, updated)
	}
}

func DeleteWallet(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		walletID, err := parseIDParam(r, "wallet_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid wallet id")
			return
		}

		wallet, err := db.GetWalletByID(r.Context(), pool, userID, walletID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if wallet.IsDefault {
			respondError(w, http.StatusBadRequest, "cannot delete default wallet")
			return
		}

		if err := db.DeleteWallet(r.Context(), pool, userID, walletID); err != nil {
			log.Printf("ERROR: Failed to delete wallet id %d for user %d: %v", walletID, userID, err)
			respondServiceError(w, err)
			return
		}
		cache.ClearAllWalletCaches()
		cache.ClearAllTransactionCaches()
		log.Printf("INFO: Deleted wallet id %d for user %d", walletID, userID)
		respondData(w, http.StatusOK, map[string]string{"message": "wallet deleted"})
	}
}

// SetInitialBalance provisions the default wallet: the balance (and
// optionally currency) is set on the existing default wallet, or a new
// default wallet is created when the user has none yet.
func SetInitialBalance(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		var req struct {
			Balance  float64 `json:"balance"`
			Currency string  `json:"currency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode initial balance request body for user %d: %v", userID, err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Balance < 0 {
			respondError(w, http.StatusBadRequest, "please provide a valid initial balance")
			return
		}

		wallet, err := db.GetDefaultWallet(r.Context(), pool, userID)
		if err != nil {
			currency := req.Currency
			if currency == "" {
				currency = "USD"
			}
			created, err := db.CreateWallet(r.Context(), pool, &models.Wallet{
				UserID:    userID,
				Name:      "Main Wallet",
				Currency:  currency,
				Balance:   req.Balance,
				IsDefault: true,
			})
			if err != nil {
				log.Printf("ERROR: Failed to create default wallet for user %d: %v", userID, err)
				respondServiceError(w, err)
				return
			}
			cache.ClearAllWalletCaches()
			respondData(w, http.StatusOK, created)
			return
		}

		updated, err := db.SetInitialBalance(r.Context(), pool, userID, wallet.ID, req.Balance, req.Currency)
		if err != nil {
			log.Printf("ERROR: Failed to set initial balance for user %d: %v", userID, err)
			respondServiceError(w, err)
			return
		}
		cache.ClearAllWalletCaches()
		log.Printf("INFO: Set initial balance for user %d, wallet %d", userID, updated.ID)
		respondData(w, http.StatusOK, updated)
	}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
