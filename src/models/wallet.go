package models

import "time"

type Wallet struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Currency    string    `json:"currency"`
	Balance     float64   `json:"balance"`
	IsDefault   bool      `json:"is_default"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
