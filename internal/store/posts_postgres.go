package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPostStore struct {
	pool *pgxpool.Pool
}

func NewPostgresPostStore(pool *pgxpool.Pool) *PostgresPostStore {
	return &PostgresPostStore{pool: pool}
}

const postSelect = `
SELECT p.id, p.created, p.updated, p.author, p.title, p.body, p.url,
       coalesce(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}')
FROM posts p
LEFT JOIN post_tags pt ON pt.post_id = p.id
LEFT JOIN tags t ON t.id = pt.tag_id`

func (s *PostgresPostStore) Create(ctx context.Context, p Post) (Post, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Post{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `INSERT INTO posts (author, title, body, url)
	           VALUES ($1, $2, $3, $4)
	           RETURNING id, created`
	if err := tx.QueryRow(ctx, q, p.Author, p.Title, p.Body, p.URL).Scan(&p.ID, &p.Created); err != nil {
		return Post{}, err
	}
	if err := linkTags(ctx, tx, p.ID, p.Tags); err != nil {
		return Post{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Post{}, err
	}
	p.Updated = nil
	return p, nil
}

func (s *PostgresPostStore) GetOwned(ctx context.Context, author string, id int64) (Post, error) {
	q := postSelect + `
WHERE p.id = $1 AND p.author = $2
GROUP BY p.id`
	return s.scanOne(s.pool.QueryRow(ctx, q, id, author))
}

func (s *PostgresPostStore) GetByURL(ctx context.Context, url string) (Post, error) {
	q := postSelect + `
WHERE p.url = $1
GROUP BY p.id`
	return s.scanOne(s.pool.QueryRow(ctx, q, url))
}

func (s *PostgresPostStore) Update(ctx context.Context, author string, id int64, title, body, url string, tags []string) (Post, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Post{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `UPDATE posts SET title = $3, body = $4, url = $5, updated = now()
	           WHERE id = $1 AND author = $2
	           RETURNING id`
	var updatedID int64
	if err := tx.QueryRow(ctx, q, id, author, title, body, url).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
		return Post{}, err
	}
	if err := linkTags(ctx, tx, id, tags); err != nil {
		return Post{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Post{}, err
	}
	return s.GetOwned(ctx, author, id)
}

func (s *PostgresPostStore) Delete(ctx context.Context, author string, id int64) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author = $2`, id, author)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresPostStore) ListByAuthor(ctx context.Context, author string, page, perPage int, sort string, desc bool) ([]Post, error) {
	order := "p.created"
	if sort == SortTitle {
		order = "p.title"
	}
	if desc {
		order += " DESC"
	}
	q := postSelect + `
WHERE p.author = $1
GROUP BY p.id
ORDER BY ` + order + `
LIMIT $2 OFFSET $3`
	return s.scanMany(ctx, q, author, perPage, pageOffset(page, perPage))
}

func (s *PostgresPostStore) ListGlobal(ctx context.Context, page, perPage int) ([]Post, error) {
	q := postSelect + `
GROUP BY p.id
ORDER BY p.created DESC
LIMIT $1 OFFSET $2`
	return s.scanMany(ctx, q, perPage, pageOffset(page, perPage))
}

func (s *PostgresPostStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func linkTags(ctx context.Context, tx pgx.Tx, postID int64, tags []string) error {
	for _, name := range tags {
		var tagID int64
		// Upsert keeps the tag row and returns its id whether or not it
		// already existed.
		const q = `INSERT INTO tags (name) VALUES ($1)
		           ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		           RETURNING id`
		if err := tx.QueryRow(ctx, q, name).Scan(&tagID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func pageOffset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}

func (s *PostgresPostStore) scanOne(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Created, &p.Updated, &p.Author, &p.Title, &p.Body, &p.URL, &p.Tags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

func (s *PostgresPostStore) scanMany(ctx context.Context, q string, args ...any) ([]Post, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := s.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
