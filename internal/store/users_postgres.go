package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) Create(ctx context.Context, username, passwordHash string) (User, error) {
	const q = `INSERT INTO users (username, password)
	           VALUES ($1, $2)
	           RETURNING id, created, username, password`
	var u User
	err := s.pool.QueryRow(ctx, q, username, passwordHash).
		Scan(&u.ID, &u.Created, &u.Username, &u.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrConflict
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (User, error) {
	const q = `SELECT id, created, username, password
	           FROM users WHERE username = $1`
	var u User
	err := s.pool.QueryRow(ctx, q, username).
		Scan(&u.ID, &u.Created, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}
