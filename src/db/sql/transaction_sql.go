package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"walletly-server/src/models"
	"walletly-server/src/services"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, user_id, wallet_id, type, amount, category, description, date, affect_balance, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.WalletID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.AffectBalance, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	t, err := scanTransaction(pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrTransactionNotFound
	}
	return t, err
}

func GetAllTransactionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`)
	args := []interface{}{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		fmt.Fprintf(&sb, " AND type = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		fmt.Fprintf(&sb, " AND category = $%d", len(args))
	}
	if filter.WalletID != 0 {
		args = append(args, filter.WalletID)
		fmt.Fprintf(&sb, " AND wallet_id = $%d", len(args))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		fmt.Fprintf(&sb, " AND date >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		fmt.Fprintf(&sb, " AND date <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY date DESC")

	rows, err := pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, tx *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, wallet_id, type, amount, category, description, date, affect_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + transactionColumns
	return scanTransaction(pool.QueryRow(ctx, query,
		tx.UserID, tx.WalletID, tx.Type, tx.Amount, tx.Category, tx.Description, tx.Date, tx.AffectBalance))
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, tx *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET wallet_id = $1, type = $2, amount = $3, category = $4, description = $5, date = $6, affect_balance = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING ` + transactionColumns
	updated, err := scanTransaction(pool.QueryRow(ctx, query,
		tx.WalletID, tx.Type, tx.Amount, tx.Category, tx.Description, tx.Date, tx.AffectBalance, tx.ID, tx.UserID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrTransactionNotFound
	}
	return updated, err
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrTransactionNotFound
	}
	return nil
}
