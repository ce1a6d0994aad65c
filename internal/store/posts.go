package store

import (
	"context"
	"time"
)

// Sort orders for post listings.
const (
	SortTitle = "title"
	SortDate  = "date"
)

// Post is a published post. URL is the permanent address in the form
// /@username/slugged-title-hash.
type Post struct {
	ID      int64      `json:"id"`
	Created time.Time  `json:"created"`
	Updated *time.Time `json:"updated"`
	Author  string     `json:"username"`
	Title   string     `json:"title"`
	Body    string     `json:"body"`
	URL     string     `json:"url"`
	Tags    []string   `json:"tags"`
}

// PostStore defines the contract for post persistence. Mutations are scoped
// to the owning author; Exists is the gate every comment operation runs
// through first.
type PostStore interface {
	Create(ctx context.Context, p Post) (Post, error)
	GetOwned(ctx context.Context, author string, id int64) (Post, error)
	GetByURL(ctx context.Context, url string) (Post, error)
	Update(ctx context.Context, author string, id int64, title, body, url string, tags []string) (Post, error)
	Delete(ctx context.Context, author string, id int64) error
	ListByAuthor(ctx context.Context, author string, page, perPage int, sort string, desc bool) ([]Post, error)
	ListGlobal(ctx context.Context, page, perPage int) ([]Post, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
