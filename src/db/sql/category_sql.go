package db

import (
	"context"
	"errors"
	"fmt"

	"walletly-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, user_id, name, type, icon, color, is_default, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, userID, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	c, err := scanCategory(pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("category not found")
	}
	return c, err
}

func GetAllCategoriesForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, categoryType models.TransactionType) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1`
	args := []interface{}{userID}
	if categoryType != "" {
		query += ` AND type = $2`
		args = append(args, categoryType)
	}
	query += ` ORDER BY name`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, icon, color, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns
	return scanCategory(pool.QueryRow(ctx, query,
		category.UserID, category.Name, category.Type, category.Icon, category.Color, category.IsDefault))
}

func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, type = $2, icon = $3, color = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + categoryColumns
	updated, err := scanCategory(pool.QueryRow(ctx, query,
		category.Name, category.Type, category.Icon, category.Color, category.ID, category.UserID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("category not found")
	}
	return updated, err
}

func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID, id int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}

// defaultCategories are seeded for every new user at registration.
var defaultCategories = []models.Category{
	{Name: "salary", Type: models.TypeIncome, Icon: "money-bill", Color: "#4CAF50"},
	{Name: "freelance", Type: models.TypeIncome, Icon: "laptop", Color: "#2196F3"},
	{Name: "investments", Type: models.TypeIncome, Icon: "chart-line", Color: "#9C27B0"},
	{Name: "food", Type: models.TypeExpense, Icon: "utensils", Color: "#FF9800"},
	{Name: "transport", Type: models.TypeExpense, Icon: "car", Color: "#607D8B"},
	{Name: "utilities", Type: models.TypeExpense, Icon: "bolt", Color: "#FFC107"},
	{Name: "rent", Type: models.TypeExpense, Icon: "home", Color: "#E91E63"},
	{Name: "entertainment", Type: models.TypeExpense, Icon: "film", Color: "#795548"},
	{Name: "shopping", Type: models.TypeExpense, Icon: "shopping-cart", Color: "#009688"},
	{Name: "health", Type: models.TypeExpense, Icon: "heartbeat", Color: "#F44336"},
}

func CreateDefaultCategories(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	for _, c := range defaultCategories {
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (user_id, name, type, icon, color, is_default)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (user_id, name) DO NOTHING`,
			userID, c.Name, c.Type, c.Icon, c.Color)
		if err != nil {
			return err
		}
	}
	return nil
}
