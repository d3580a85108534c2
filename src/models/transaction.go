package models

import "time"

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// SignedAmount returns the effect of a transaction on a wallet balance:
// positive for income, negative for expense.
func SignedAmount(txType TransactionType, amount float64) float64 {
	if txType == TypeExpense {
		return -amount
	}
	return amount
}

type Transaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	WalletID      int64           `json:"wallet_id"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	AffectBalance bool            `json:"affect_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransactionFilter narrows transaction listings. Zero values mean
// "no filter" for that field.
type TransactionFilter struct {
	Type      TransactionType
	Category  string
	WalletID  int64
	StartDate time.Time
	EndDate   time.Time
}
