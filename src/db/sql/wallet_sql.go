package db

import (
	"context"
	"errors"

	"walletly-server/src/models"
	"walletly-server/src/services"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const walletColumns = `id, user_id, name, currency, balance, is_default, last_updated, created_at, updated_at`

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Currency, &w.Balance, &w.IsDefault, &w.LastUpdated, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func GetWalletByID(ctx context.Context, pool *pgxpool.Pool, userID, walletID int64) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 AND user_id = $2`
	w, err := scanWallet(pool.QueryRow(ctx, query, walletID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrWalletNotFound
	}
	return w, err
}

func GetDefaultWallet(ctx context.Context, pool *pgxpool.Pool, userID int64) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND is_default`
	w, err := scanWallet(pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrWalletNotFound
	}
	return w, err
}

func GetAllWalletsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 ORDER BY created_at`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

// CreateWallet inserts a wallet. When the wallet is marked default, any
// previous default for the user is unset in the same database
// transaction so the partial unique index is never tripped by a plain
// switch-over.
func CreateWallet(ctx context.Context, pool *pgxpool.Pool, wallet *models.Wallet) (*models.Wallet, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if wallet.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE wallets SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`, wallet.UserID); err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO wallets (user_id, name, currency, balance, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + walletColumns
	created, err := scanWallet(tx.QueryRow(ctx, query, wallet.UserID, wallet.Name, wallet.Currency, wallet.Balance, wallet.IsDefault))
	if err != nil {
		return nil, mapWalletConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func UpdateWallet(ctx context.Context, pool *pgxpool.Pool, wallet *models.Wallet) (*models.Wallet, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if wallet.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE wallets SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default AND id <> $2`, wallet.UserID, wallet.ID); err != nil {
			return nil, err
		}
	}

	query := `
		UPDATE wallets
		SET name = $1, currency = $2, is_default = $3, last_updated = NOW(), updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING ` + walletColumns
	updated, err := scanWallet(tx.QueryRow(ctx, query, wallet.Name, wallet.Currency, wallet.IsDefault, wallet.ID, wallet.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrWalletNotFound
		}
		return nil, mapWalletConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func DeleteWallet(ctx context.Context, pool *pgxpool.Pool, userID, walletID int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1 AND user_id = $2`, walletID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return services.ErrWalletNotFound
	}
	return nil
}

// SetInitialBalance overwrites the balance (and optionally currency) of a
// wallet. Reserved for the initial-balance provisioning endpoint; every
// other balance write goes through AdjustWalletBalance.
func SetInitialBalance(ctx context.Context, pool *pgxpool.Pool, userID, walletID int64, balance float64, currency string) (*models.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance = $1, currency = COALESCE(NULLIF($2, ''), currency), last_updated = NOW(), updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + walletColumns
	w, err := scanWallet(pool.QueryRow(ctx, query, balance, currency, walletID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrWalletNotFound
	}
	return w, err
}

// AdjustWalletBalance adds delta to the wallet balance only if the result
// stays at or above minAllowed. The increment and the affordability check
// run as a single UPDATE so concurrent adjustments to the same wallet
// serialize on the row instead of racing a read-check-write cycle.
func AdjustWalletBalance(ctx context.Context, pool *pgxpool.Pool, walletID int64, delta, minAllowed float64) (*models.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $2, last_updated = NOW(), updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= $3
		RETURNING ` + walletColumns
	w, err := scanWallet(pool.QueryRow(ctx, query, walletID, delta, minAllowed))
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No row matched: either the wallet is gone or the check failed.
	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1)`, walletID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, services.ErrWalletNotFound
	}
	return nil, services.ErrInsufficientBalance
}

func mapWalletConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "wallets_one_default_per_user" {
		return services.ErrDuplicateDefaultWallet
	}
	return err
}
