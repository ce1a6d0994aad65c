package store

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryPostStore_CreateAndOwnership(t *testing.T) {
	s := NewInMemoryPostStore()
	ctx := context.Background()

	p, err := s.Create(ctx, Post{Author: "alice", Title: "hello", Body: "world", URL: "/@alice/hello-1", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected non-zero id")
	}

	if _, err := s.GetOwned(ctx, "bob", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign post, got %v", err)
	}
	got, err := s.GetOwned(ctx, "alice", p.ID)
	if err != nil {
		t.Fatalf("get owned: %v", err)
	}
	if got.Title != "hello" {
		t.Fatalf("expected title 'hello', got %q", got.Title)
	}
}

func TestInMemoryPostStore_Exists(t *testing.T) {
	s := NewInMemoryPostStore()
	ctx := context.Background()

	p, _ := s.Create(ctx, Post{Author: "alice", Title: "t", Body: "b", URL: "/@alice/t-1"})
	ok, err := s.Exists(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("expected post to exist, ok=%v err=%v", ok, err)
	}
	ok, err = s.Exists(ctx, p.ID+100)
	if err != nil || ok {
		t.Fatalf("expected missing post, ok=%v err=%v", ok, err)
	}
}

func TestInMemoryPostStore_ListByAuthorSorted(t *testing.T) {
	s := NewInMemoryPostStore()
	ctx := context.Background()

	_, _ = s.Create(ctx, Post{Author: "alice", Title: "bravo", Body: "b", URL: "/@alice/b"})
	_, _ = s.Create(ctx, Post{Author: "alice", Title: "alpha", Body: "a", URL: "/@alice/a"})
	_, _ = s.Create(ctx, Post{Author: "bob", Title: "zulu", Body: "z", URL: "/@bob/z"})

	byTitle, err := s.ListByAuthor(ctx, "alice", 1, 10, SortTitle, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byTitle) != 2 || byTitle[0].Title != "alpha" || byTitle[1].Title != "bravo" {
		t.Fatalf("unexpected title order: %v", byTitle)
	}

	byDate, err := s.ListByAuthor(ctx, "alice", 1, 10, SortDate, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byDate) != 2 || byDate[0].Title != "alpha" {
		t.Fatalf("expected newest first, got %v", byDate)
	}
}

func TestInMemoryDraftStore_CRUD(t *testing.T) {
	s := NewInMemoryDraftStore()
	ctx := context.Background()

	d, err := s.Create(ctx, Draft{Author: "alice", Title: "wip", Body: "draft body"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Update(ctx, "bob", d.ID, "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign draft, got %v", err)
	}

	got, err := s.Update(ctx, "alice", d.ID, "wip 2", "more")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "wip 2" || got.Updated == nil {
		t.Fatalf("unexpected draft after update: %+v", got)
	}

	if err := s.Delete(ctx, "alice", d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetOwned(ctx, "alice", d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestInMemoryUserStore_UniqueUsername(t *testing.T) {
	s := NewInMemoryUserStore()
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "alice", "otherhash"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestStoreInterfaces(t *testing.T) {
	var _ PostStore = (*InMemoryPostStore)(nil)
	var _ PostStore = (*PostgresPostStore)(nil)
	var _ DraftStore = (*InMemoryDraftStore)(nil)
	var _ DraftStore = (*PostgresDraftStore)(nil)
	var _ UserStore = (*InMemoryUserStore)(nil)
	var _ UserStore = (*PostgresUserStore)(nil)
}
