package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

type InMemoryPostStore struct {
	mu     sync.RWMutex
	nextID int64
	posts  map[int64]Post
}

func NewInMemoryPostStore() *InMemoryPostStore {
	return &InMemoryPostStore{posts: make(map[int64]Post)}
}

func (s *InMemoryPostStore) Create(_ context.Context, p Post) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	p.Created = time.Now().UTC()
	p.Updated = nil
	if p.Tags == nil {
		p.Tags = []string{}
	}
	s.posts[p.ID] = p
	return p, nil
}

func (s *InMemoryPostStore) GetOwned(_ context.Context, author string, id int64) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok || p.Author != author {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (s *InMemoryPostStore) GetByURL(_ context.Context, url string) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.URL == url {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

func (s *InMemoryPostStore) Update(_ context.Context, author string, id int64, title, body, url string, tags []string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || p.Author != author {
		return Post{}, ErrNotFound
	}
	p.Title = title
	p.Body = body
	p.URL = url
	p.Tags = append([]string(nil), tags...)
	sort.Strings(p.Tags)
	now := time.Now().UTC()
	p.Updated = &now
	s.posts[id] = p
	return p, nil
}

func (s *InMemoryPostStore) Delete(_ context.Context, author string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || p.Author != author {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *InMemoryPostStore) ListByAuthor(_ context.Context, author string, page, perPage int, sortBy string, desc bool) ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Post
	for _, p := range s.posts {
		if p.Author == author {
			out = append(out, p)
		}
	}
	sortPosts(out, sortBy, desc)
	return paginatePosts(out, page, perPage), nil
}

func (s *InMemoryPostStore) ListGlobal(_ context.Context, page, perPage int) ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sortPosts(out, SortDate, true)
	return paginatePosts(out, page, perPage), nil
}

func (s *InMemoryPostStore) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.posts[id]
	return ok, nil
}

func sortPosts(posts []Post, sortBy string, desc bool) {
	sort.Slice(posts, func(i, j int) bool {
		var less bool
		switch sortBy {
		case SortTitle:
			less = posts[i].Title < posts[j].Title
		default:
			if posts[i].Created.Equal(posts[j].Created) {
				less = posts[i].ID < posts[j].ID
			} else {
				less = posts[i].Created.Before(posts[j].Created)
			}
		}
		if desc {
			return !less
		}
		return less
	})
}

func paginatePosts(posts []Post, page, perPage int) []Post {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(posts) {
		return []Post{}
	}
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}
