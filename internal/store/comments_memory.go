package store

import (
	"context"
	"sync"
	"time"
)

// InMemoryCommentStore is a development and test implementation with the same
// semantics as the Postgres store, including the invisibility of rows whose
// path has not been set yet.
type InMemoryCommentStore struct {
	mu       sync.RWMutex
	nextID   int64
	comments map[int64]Comment
}

func NewInMemoryCommentStore() *InMemoryCommentStore {
	return &InMemoryCommentStore{comments: make(map[int64]Comment)}
}

func (s *InMemoryCommentStore) Insert(_ context.Context, c Comment) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c.ID = s.nextID
	c.Created = time.Now().UTC()
	c.Updated = nil
	c.Path = nil
	s.comments[c.ID] = c
	return c.ID, c.Created, nil
}

func (s *InMemoryCommentStore) SetPath(_ context.Context, id int64, p Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return ErrNotFound
	}
	c.Path = p
	s.comments[id] = c
	return nil
}

func (s *InMemoryCommentStore) FetchPath(_ context.Context, id int64) (Path, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok || c.Path == nil {
		return nil, ErrNotFound
	}
	return c.Path, nil
}

func (s *InMemoryCommentStore) Get(_ context.Context, id int64) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok || c.Path == nil {
		return Comment{}, ErrNotFound
	}
	return c, nil
}

func (s *InMemoryCommentStore) GetOwned(_ context.Context, author string, id int64) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok || c.Path == nil || c.Author != author {
		return Comment{}, ErrNotFound
	}
	return c, nil
}

func (s *InMemoryCommentStore) FindByPostAndDepthRange(_ context.Context, postID int64, pattern Pattern) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Comment
	for _, c := range s.comments {
		if c.PostID != postID || c.Path == nil {
			continue
		}
		if pattern.Matches(c.Path) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *InMemoryCommentStore) CountStrictDescendants(_ context.Context, p Path) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.comments {
		if c.Path == nil || len(c.Path) <= len(p) {
			continue
		}
		if c.Path.HasPrefix(p) {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryCommentStore) UpdateText(_ context.Context, author string, id int64, text string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || c.Path == nil || c.Author != author {
		return Comment{}, ErrNotFound
	}
	c.Text = text
	now := time.Now().UTC()
	c.Updated = &now
	s.comments[id] = c
	return c, nil
}

func (s *InMemoryCommentStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, ok := s.comments[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.comments, id)
	if root.Path == nil {
		return nil
	}
	for cid, c := range s.comments {
		if c.Path != nil && c.Path.HasPrefix(root.Path) {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *InMemoryCommentStore) CountByPost(_ context.Context, postID int64) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total, base := 0, 0
	for _, c := range s.comments {
		if c.PostID != postID || c.Path == nil {
			continue
		}
		total++
		if c.Path.Depth() == 1 {
			base++
		}
	}
	return total, base, nil
}
