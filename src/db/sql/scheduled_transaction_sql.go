package db

import (
	"context"
	"errors"
	"time"

	"walletly-server/src/models"
	"walletly-server/src/services"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scheduledColumns = `id, user_id, wallet_id, type, amount, category, description, day_of_month, is_active, last_executed, affect_balance, created_at, updated_at`

func scanScheduled(row pgx.Row) (*models.ScheduledTransaction, error) {
	var s models.ScheduledTransaction
	err := row.Scan(&s.ID, &s.UserID, &s.WalletID, &s.Type, &s.Amount, &s.Category, &s.Description,
		&s.DayOfMonth, &s.IsActive, &s.LastExecuted, &s.AffectBalance, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func GetScheduledByID(ctx context.Context, pool *pgxpool.Pool, userID, id int64) (*models.ScheduledTransaction, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_transactions WHERE id = $1 AND user_id = $2`
	s, err := scanScheduled(pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrScheduledNotFound
	}
	return s, err
}

func GetAllScheduledForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.ScheduledTransaction, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_transactions WHERE user_id = $1 ORDER BY day_of_month`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scheduled []models.ScheduledTransaction
	for rows.Next() {
		s, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		scheduled = append(scheduled, *s)
	}
	return scheduled, rows.Err()
}

// ListDueScheduled returns every active template, across all users, whose
// day-of-month matches. The idempotency check against last_executed is
// the engine's job, not the query's.
func ListDueScheduled(ctx context.Context, pool *pgxpool.Pool, dayOfMonth int) ([]models.ScheduledTransaction, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_transactions WHERE day_of_month = $1 AND is_active ORDER BY id`
	rows, err := pool.Query(ctx, query, dayOfMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scheduled []models.ScheduledTransaction
	for rows.Next() {
		s, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		scheduled = append(scheduled, *s)
	}
	return scheduled, rows.Err()
}

func CreateScheduled(ctx context.Context, pool *pgxpool.Pool, s *models.ScheduledTransaction) (*models.ScheduledTransaction, error) {
	query := `
		INSERT INTO scheduled_transactions (user_id, wallet_id, type, amount, category, description, day_of_month, is_active, affect_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + scheduledColumns
	return scanScheduled(pool.QueryRow(ctx, query,
		s.UserID, s.WalletID, s.Type, s.Amount, s.Category, s.Description, s.DayOfMonth, s.IsActive, s.AffectBalance))
}

func UpdateScheduled(ctx context.Context, pool *pgxpool.Pool, s *models.ScheduledTransaction) (*models.ScheduledTransaction, error) {
	query := `
		UPDATE scheduled_transactions
		SET wallet_id = $1, type = $2, amount = $3, category = $4, description = $5, day_of_month = $6, is_active = $7, affect_balance = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING ` + scheduledColumns
	updated, err := scanScheduled(pool.QueryRow(ctx, query,
		s.WalletID, s.Type, s.Amount, s.Category, s.Description, s.DayOfMonth, s.IsActive, s.AffectBalance, s.ID, s.UserID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrScheduledNotFound
	}
	return updated, err
}

func DeleteScheduled(ctx context.Context, pool *pgxpool.Pool, userID, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM scheduled_transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrScheduledNotFound
	}
	return nil
}

func SetScheduledLastExecuted(ctx context.Context, pool *pgxpool.Pool, id int64, executed time.Time) error {
	_, err := pool.Exec(ctx, `UPDATE scheduled_transactions SET last_executed = $1, updated_at = NOW() WHERE id = $2`, executed, id)
	return err
}
