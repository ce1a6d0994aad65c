package store

import (
	"context"
	"errors"
	"testing"
)

// addComment runs both insert phases the way the thread service does.
func addComment(t *testing.T, s *InMemoryCommentStore, postID int64, parent *Comment, author, text string) Comment {
	t.Helper()
	ctx := context.Background()

	c := Comment{PostID: postID, Author: author, Text: text}
	if parent != nil {
		pid := parent.ID
		c.ParentID = &pid
	}
	id, _, err := s.Insert(ctx, c)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var p Path
	if parent == nil {
		p = RootPath(id)
	} else {
		p = ChildPath(parent.Path, id)
	}
	if err := s.SetPath(ctx, id, p); err != nil {
		t.Fatalf("set path: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get after insert: %v", err)
	}
	return got
}

func TestInMemoryCommentStore_InsertAssignsIncreasingIDs(t *testing.T) {
	s := NewInMemoryCommentStore()
	a := addComment(t, s, 1, nil, "alice", "first")
	b := addComment(t, s, 1, nil, "bob", "second")
	if b.ID <= a.ID {
		t.Fatalf("expected increasing ids, got %d then %d", a.ID, b.ID)
	}
}

func TestInMemoryCommentStore_PathlessRowInvisible(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	id, _, err := s.Insert(ctx, Comment{PostID: 1, Author: "alice", Text: "no path yet"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for pathless row, got %v", err)
	}
	if _, err := s.FetchPath(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from FetchPath, got %v", err)
	}
	found, err := s.FindByPostAndDepthRange(ctx, 1, DepthRangePattern(nil, 1, 1))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("pathless row leaked into listing: %v", found)
	}
}

func TestInMemoryCommentStore_FindByDepthRange(t *testing.T) {
	s := NewInMemoryCommentStore()
	root := addComment(t, s, 1, nil, "alice", "root")
	reply := addComment(t, s, 1, &root, "bob", "reply")
	addComment(t, s, 1, &reply, "carol", "nested")
	addComment(t, s, 2, nil, "dave", "other post")

	ctx := context.Background()

	roots, _ := s.FindByPostAndDepthRange(ctx, 1, DepthRangePattern(nil, 1, 1))
	if len(roots) != 1 || roots[0].ID != root.ID {
		t.Fatalf("expected only the root comment, got %v", roots)
	}

	twoLevels, _ := s.FindByPostAndDepthRange(ctx, 1, DepthRangePattern(nil, 1, 2))
	if len(twoLevels) != 2 {
		t.Fatalf("expected 2 comments at depths 1-2, got %d", len(twoLevels))
	}

	under, _ := s.FindByPostAndDepthRange(ctx, 1, DepthRangePattern(root.Path, 1, 1))
	if len(under) != 1 || under[0].ID != reply.ID {
		t.Fatalf("expected only the direct reply, got %v", under)
	}
}

func TestInMemoryCommentStore_CountStrictDescendants(t *testing.T) {
	s := NewInMemoryCommentStore()
	root := addComment(t, s, 1, nil, "alice", "root")
	reply := addComment(t, s, 1, &root, "bob", "reply")
	addComment(t, s, 1, &reply, "carol", "nested")

	ctx := context.Background()
	for _, tc := range []struct {
		path Path
		want int
	}{
		{root.Path, 2},
		{reply.Path, 1},
		{ChildPath(reply.Path, 99), 0},
	} {
		n, err := s.CountStrictDescendants(ctx, tc.path)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != tc.want {
			t.Fatalf("path %s: expected %d descendants, got %d", tc.path, tc.want, n)
		}
	}
}

func TestInMemoryCommentStore_UpdateText_AuthorOnly(t *testing.T) {
	s := NewInMemoryCommentStore()
	c := addComment(t, s, 1, nil, "alice", "original")
	ctx := context.Background()

	if _, err := s.UpdateText(ctx, "mallory", c.ID, "hijack"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-author, got %v", err)
	}

	got, err := s.UpdateText(ctx, "alice", c.ID, "edited")
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if got.Text != "edited" {
		t.Fatalf("expected edited text, got %q", got.Text)
	}
	if got.Updated == nil {
		t.Fatal("expected updated timestamp to be stamped")
	}
}

func TestInMemoryCommentStore_DeleteCascades(t *testing.T) {
	s := NewInMemoryCommentStore()
	root := addComment(t, s, 1, nil, "alice", "root")
	reply := addComment(t, s, 1, &root, "bob", "reply")
	nested := addComment(t, s, 1, &reply, "carol", "nested")
	sibling := addComment(t, s, 1, nil, "dave", "sibling root")

	ctx := context.Background()
	if err := s.Delete(ctx, root.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, id := range []int64{root.ID, reply.ID, nested.ID} {
		if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("comment %d survived cascade: %v", id, err)
		}
	}
	if _, err := s.Get(ctx, sibling.ID); err != nil {
		t.Fatalf("sibling root must survive: %v", err)
	}
}

func TestInMemoryCommentStore_CountByPost(t *testing.T) {
	s := NewInMemoryCommentStore()
	root := addComment(t, s, 1, nil, "alice", "root")
	addComment(t, s, 1, &root, "bob", "reply")
	addComment(t, s, 1, nil, "carol", "another root")

	total, base, err := s.CountByPost(context.Background(), 1)
	if err != nil {
		t.Fatalf("count by post: %v", err)
	}
	if total != 3 || base != 2 {
		t.Fatalf("expected total=3 base=2, got total=%d base=%d", total, base)
	}
}

func TestCommentStoreInterface(t *testing.T) {
	var _ CommentStore = (*InMemoryCommentStore)(nil)
	var _ CommentStore = (*PostgresCommentStore)(nil)
}
