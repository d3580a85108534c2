package models

import "time"

// ScheduledTransaction is a template that the scheduled engine turns into
// a concrete Transaction once per month on DayOfMonth.
type ScheduledTransaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	WalletID      int64           `json:"wallet_id"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	DayOfMonth    int             `json:"day_of_month"`
	IsActive      bool            `json:"is_active"`
	LastExecuted  *time.Time      `json:"last_executed"`
	AffectBalance bool            `json:"affect_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
