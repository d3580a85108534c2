package db

import (
	"context"
	"fmt"

	"walletly-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = `id, user_id, category, limit_amount, month, year, created_at, updated_at`

// UpsertBudget creates the budget for (category, month, year) or updates
// its limit if one already exists.
func UpsertBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category, limit_amount, month, year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, category, month, year)
		DO UPDATE SET limit_amount = EXCLUDED.limit_amount, updated_at = NOW()
		RETURNING ` + budgetColumns
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.UserID, budget.Category, budget.Limit, budget.Month, budget.Year).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Limit, &b.Month, &b.Year, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func GetAllBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY year DESC, month DESC, category`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit, &b.Month, &b.Year, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}
	return nil
}
