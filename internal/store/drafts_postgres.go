package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDraftStore struct {
	pool *pgxpool.Pool
}

func NewPostgresDraftStore(pool *pgxpool.Pool) *PostgresDraftStore {
	return &PostgresDraftStore{pool: pool}
}

const draftColumns = `id, created, updated, author, title, body`

func (s *PostgresDraftStore) Create(ctx context.Context, d Draft) (Draft, error) {
	const q = `INSERT INTO drafts (author, title, body)
	           VALUES ($1, $2, $3)
	           RETURNING ` + draftColumns
	return s.scanOne(s.pool.QueryRow(ctx, q, d.Author, d.Title, d.Body))
}

func (s *PostgresDraftStore) GetOwned(ctx context.Context, author string, id int64) (Draft, error) {
	const q = `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1 AND author = $2`
	return s.scanOne(s.pool.QueryRow(ctx, q, id, author))
}

func (s *PostgresDraftStore) Update(ctx context.Context, author string, id int64, title, body string) (Draft, error) {
	const q = `UPDATE drafts SET title = $3, body = $4, updated = now()
	           WHERE id = $1 AND author = $2
	           RETURNING ` + draftColumns
	return s.scanOne(s.pool.QueryRow(ctx, q, id, author, title, body))
}

func (s *PostgresDraftStore) Delete(ctx context.Context, author string, id int64) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM drafts WHERE id = $1 AND author = $2`, id, author)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresDraftStore) ListByAuthor(ctx context.Context, author string, page, perPage int, sort string, desc bool) ([]Draft, error) {
	order := "created"
	if sort == SortTitle {
		order = "title"
	}
	if desc {
		order += " DESC"
	}
	q := `SELECT ` + draftColumns + `
	      FROM drafts
	      WHERE author = $1
	      ORDER BY ` + order + `
	      LIMIT $2 OFFSET $3`
	rows, err := s.pool.Query(ctx, q, author, perPage, pageOffset(page, perPage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		d, err := s.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresDraftStore) scanOne(row pgx.Row) (Draft, error) {
	var d Draft
	err := row.Scan(&d.ID, &d.Created, &d.Updated, &d.Author, &d.Title, &d.Body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	return d, nil
}
