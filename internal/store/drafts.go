package store

import (
	"context"
	"time"
)

// Draft is an unpublished post. Drafts carry no url or tags; both are chosen
// at publish time.
type Draft struct {
	ID      int64      `json:"id"`
	Created time.Time  `json:"created"`
	Updated *time.Time `json:"updated"`
	Author  string     `json:"username"`
	Title   string     `json:"title"`
	Body    string     `json:"body"`
}

// DraftStore defines the contract for draft persistence. Every operation is
// scoped to the owning author; drafts are never visible to anyone else.
type DraftStore interface {
	Create(ctx context.Context, d Draft) (Draft, error)
	GetOwned(ctx context.Context, author string, id int64) (Draft, error)
	Update(ctx context.Context, author string, id int64, title, body string) (Draft, error)
	Delete(ctx context.Context, author string, id int64) error
	ListByAuthor(ctx context.Context, author string, page, perPage int, sort string, desc bool) ([]Draft, error)
}
