package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

type InMemoryDraftStore struct {
	mu     sync.RWMutex
	nextID int64
	drafts map[int64]Draft
}

func NewInMemoryDraftStore() *InMemoryDraftStore {
	return &InMemoryDraftStore{drafts: make(map[int64]Draft)}
}

func (s *InMemoryDraftStore) Create(_ context.Context, d Draft) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	d.ID = s.nextID
	d.Created = time.Now().UTC()
	d.Updated = nil
	s.drafts[d.ID] = d
	return d, nil
}

func (s *InMemoryDraftStore) GetOwned(_ context.Context, author string, id int64) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok || d.Author != author {
		return Draft{}, ErrNotFound
	}
	return d, nil
}

func (s *InMemoryDraftStore) Update(_ context.Context, author string, id int64, title, body string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || d.Author != author {
		return Draft{}, ErrNotFound
	}
	d.Title = title
	d.Body = body
	now := time.Now().UTC()
	d.Updated = &now
	s.drafts[id] = d
	return d, nil
}

func (s *InMemoryDraftStore) Delete(_ context.Context, author string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || d.Author != author {
		return ErrNotFound
	}
	delete(s.drafts, id)
	return nil
}

func (s *InMemoryDraftStore) ListByAuthor(_ context.Context, author string, page, perPage int, sortBy string, desc bool) ([]Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Draft
	for _, d := range s.drafts {
		if d.Author == author {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch sortBy {
		case SortTitle:
			less = out[i].Title < out[j].Title
		default:
			if out[i].Created.Equal(out[j].Created) {
				less = out[i].ID < out[j].ID
			} else {
				less = out[i].Created.Before(out[j].Created)
			}
		}
		if desc {
			return !less
		}
		return less
	})

	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(out) {
		return []Draft{}, nil
	}
	end := start + perPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}
