package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCommentStore persists comments in Postgres, using an ltree path
// column with a GiST index for the ancestry predicates.
type PostgresCommentStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCommentStore creates a store backed by Postgres.
func NewPostgresCommentStore(pool *pgxpool.Pool) *PostgresCommentStore {
	return &PostgresCommentStore{pool: pool}
}

// All read queries require path IS NOT NULL: a row between the two insert
// phases has no path yet and must stay invisible.
const commentColumns = `id, created, updated, post_id, parent_id, author, text, path::text`

func (s *PostgresCommentStore) Insert(ctx context.Context, c Comment) (int64, time.Time, error) {
	const q = `INSERT INTO comments (post_id, parent_id, author, text)
	           VALUES ($1, $2, $3, $4)
	           RETURNING id, created`
	var id int64
	var created time.Time
	err := s.pool.QueryRow(ctx, q, c.PostID, c.ParentID, c.Author, c.Text).Scan(&id, &created)
	return id, created, err
}

func (s *PostgresCommentStore) SetPath(ctx context.Context, id int64, p Path) error {
	const q = `UPDATE comments SET path = $2::ltree WHERE id = $1`
	ct, err := s.pool.Exec(ctx, q, id, p.String())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresCommentStore) FetchPath(ctx context.Context, id int64) (Path, error) {
	const q = `SELECT path::text FROM comments WHERE id = $1 AND path IS NOT NULL`
	var raw string
	if err := s.pool.QueryRow(ctx, q, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ParsePath(raw)
}

func (s *PostgresCommentStore) Get(ctx context.Context, id int64) (Comment, error) {
	const q = `SELECT ` + commentColumns + `
	           FROM comments WHERE id = $1 AND path IS NOT NULL`
	return s.scanOne(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresCommentStore) GetOwned(ctx context.Context, author string, id int64) (Comment, error) {
	const q = `SELECT ` + commentColumns + `
	           FROM comments WHERE id = $1 AND author = $2 AND path IS NOT NULL`
	return s.scanOne(s.pool.QueryRow(ctx, q, id, author))
}

func (s *PostgresCommentStore) FindByPostAndDepthRange(ctx context.Context, postID int64, pattern Pattern) ([]Comment, error) {
	const q = `SELECT ` + commentColumns + `
	           FROM comments
	           WHERE post_id = $1 AND path IS NOT NULL AND path ~ $2::lquery`
	rows, err := s.pool.Query(ctx, q, postID, pattern.Lquery())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		c, err := s.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresCommentStore) CountStrictDescendants(ctx context.Context, p Path) (int, error) {
	const q = `SELECT count(*) FROM comments
	           WHERE path IS NOT NULL AND path <@ $1::ltree AND nlevel(path) > $2`
	var n int
	err := s.pool.QueryRow(ctx, q, p.String(), p.Depth()).Scan(&n)
	return n, err
}

func (s *PostgresCommentStore) UpdateText(ctx context.Context, author string, id int64, text string) (Comment, error) {
	const q = `UPDATE comments SET text = $3, updated = now()
	           WHERE id = $1 AND author = $2 AND path IS NOT NULL
	           RETURNING ` + commentColumns
	return s.scanOne(s.pool.QueryRow(ctx, q, id, author, text))
}

func (s *PostgresCommentStore) Delete(ctx context.Context, id int64) error {
	// The subtree is every row whose path descends from this row's path;
	// <@ is inclusive so the row itself goes with it. The id predicate
	// covers a row that never got its path.
	const q = `DELETE FROM comments
	           WHERE id = $1
	              OR path <@ (SELECT path FROM comments WHERE id = $1)`
	ct, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresCommentStore) CountByPost(ctx context.Context, postID int64) (int, int, error) {
	const q = `SELECT count(*), count(*) FILTER (WHERE nlevel(path) = 1)
	           FROM comments WHERE post_id = $1 AND path IS NOT NULL`
	var total, base int
	err := s.pool.QueryRow(ctx, q, postID).Scan(&total, &base)
	return total, base, err
}

func (s *PostgresCommentStore) scanOne(row pgx.Row) (Comment, error) {
	var c Comment
	var raw string
	err := row.Scan(&c.ID, &c.Created, &c.Updated, &c.PostID, &c.ParentID, &c.Author, &c.Text, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, ErrNotFound
		}
		return Comment{}, err
	}
	if c.Path, err = ParsePath(raw); err != nil {
		return Comment{}, err
	}
	return c, nil
}
