package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/config"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/security"
)

// EnsureAdminUser creates the single admin credential from env if it does not
// exist yet. This is the only write path into the users table.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	var dummy int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, cfg.AdminUsername).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2)`,
		cfg.AdminUsername, hash,
	)

	return err
}
