package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"walletly-server/src/services"
)

// Envelope is the response shape every endpoint returns.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

func respondList(w http.ResponseWriter, data interface{}, count int) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Envelope{Success: true, Data: data, Count: &count})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: false, Error: msg})
}

// respondServiceError maps reconciler/store errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientBalance):
		respondError(w, http.StatusBadRequest, "insufficient wallet balance")
	case errors.Is(err, services.ErrWalletNotFound):
		respondError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, services.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, services.ErrScheduledNotFound):
		respondError(w, http.StatusNotFound, "scheduled transaction not found")
	case errors.Is(err, services.ErrDuplicateDefaultWallet):
		respondError(w, http.StatusConflict, "user already has a default wallet")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func userIDFromContext(r *http.Request) int64 {
	return r.Context().Value("user_id").(int64)
}
