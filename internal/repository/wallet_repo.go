package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// WalletRepository reads EcoToken balances.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetTokenBalance returns the user's balance; users without a wallet row have 0.
func (r *WalletRepository) GetTokenBalance(ctx context.Context, userID string) (int64, error) {
	const q = `SELECT token_balance FROM wallets WHERE user_id = $1 LIMIT 1`

	var balance int64
	if err := r.db.GetContext(ctx, &balance, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

// SetTokenBalance creates or replaces a user's balance.
func (r *WalletRepository) SetTokenBalance(ctx context.Context, userID string, balance int64) error {
	const q = `
        INSERT INTO wallets (user_id, token_balance)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET
            token_balance = EXCLUDED.token_balance,
            updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, q, userID, balance)
	return err
}
