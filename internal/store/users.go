package store

import (
	"context"
	"time"
)

// User is a registered account. The username is the ownership key for posts,
// drafts and comments.
type User struct {
	ID           int64     `json:"id"`
	Created      time.Time `json:"created"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
}

// UserStore defines the contract for user persistence.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
}
