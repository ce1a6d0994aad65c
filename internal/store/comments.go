package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by every store when the target row does not exist.
// Ownership-scoped lookups return it for foreign rows too, so callers cannot
// distinguish "absent" from "not yours".
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on unique-constraint violations.
var ErrConflict = errors.New("conflict")

// Comment represents a single comment row.
type Comment struct {
	ID       int64      `json:"id"`
	Created  time.Time  `json:"created"`
	Updated  *time.Time `json:"updated"`
	PostID   int64      `json:"post_id"`
	ParentID *int64     `json:"parent_id"`
	Author   string     `json:"username"`
	Text     string     `json:"comment"`
	Path     Path       `json:"-"`
}

// CommentStore defines the contract for comment persistence.
//
// Insertion is two-phase: Insert persists the row without a path and returns
// the allocated id, the caller derives the path (which needs that id) and
// stores it with SetPath. Rows whose path has not been set yet are invisible
// to every read and count operation, and SetPath is idempotent, so a crash
// between the two writes leaves nothing observable behind.
type CommentStore interface {
	Insert(ctx context.Context, c Comment) (id int64, created time.Time, err error)
	SetPath(ctx context.Context, id int64, p Path) error
	FetchPath(ctx context.Context, id int64) (Path, error)
	Get(ctx context.Context, id int64) (Comment, error)
	GetOwned(ctx context.Context, author string, id int64) (Comment, error)
	// FindByPostAndDepthRange returns every comment of the post whose path
	// satisfies the pattern. Unordered.
	FindByPostAndDepthRange(ctx context.Context, postID int64, pattern Pattern) ([]Comment, error)
	// CountStrictDescendants counts comments whose path has p as a proper
	// prefix, at any depth below it.
	CountStrictDescendants(ctx context.Context, p Path) (int, error)
	// UpdateText replaces the text of a comment owned by author and stamps
	// the updated timestamp.
	UpdateText(ctx context.Context, author string, id int64, text string) (Comment, error)
	// Delete removes the comment and its entire subtree.
	Delete(ctx context.Context, id int64) error
	// CountByPost returns the total number of comments on a post and how
	// many of them are root comments.
	CountByPost(ctx context.Context, postID int64) (total, base int, err error)
}
