package store

import (
	"context"
	"sync"
	"time"
)

type InMemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]User // username -> user
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, username, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return User{}, ErrConflict
	}
	s.nextID++
	u := User{
		ID:           s.nextID,
		Created:      time.Now().UTC(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	s.users[username] = u
	return u, nil
}

func (s *InMemoryUserStore) GetByUsername(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}
