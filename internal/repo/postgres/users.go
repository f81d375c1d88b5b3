package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/domain/user"
)

var ErrUserNotFound = errors.New("user not found")

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(
		ctx,
		`SELECT id, username, password_hash
         FROM users
         WHERE username = $1`,
		username,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {

			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}
	return u, nil
}
