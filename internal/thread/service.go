// Package thread orchestrates the hierarchical comment tree of a post:
// materialized-path assignment on insert, depth-bounded listing, reply
// counting and ownership checks. It does no logging and no suppression;
// every failure is a precondition it checks itself or a pass-through from
// the store.
package thread

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mahdihaghverdi/FastBlog/internal/store"
)

var (
	// ErrPostNotFound means the referenced post does not exist. Checked
	// before any comment operation proceeds.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound covers a missing comment, a missing parent or
	// anchor, and a comment owned by someone else: ownership failures are
	// deliberately indistinguishable from true absence.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrInvalidText rejects empty or over-length comment text before it
	// reaches the store.
	ErrInvalidText = errors.New("comment text must be 1-255 characters")
)

// maxTextLen is measured in code points, not bytes.
const maxTextLen = 255

// ReplyLevel bounds how many levels below the anchor (or below the post
// root) a listing includes.
type ReplyLevel int

const (
	ReplyLevelBase ReplyLevel = iota
	ReplyLevelOne
	ReplyLevelTwo
	ReplyLevelThree
)

// ParseReplyLevel parses the wire values "0".."3".
func ParseReplyLevel(s string) (ReplyLevel, error) {
	switch s {
	case "", "0":
		return ReplyLevelBase, nil
	case "1":
		return ReplyLevelOne, nil
	case "2":
		return ReplyLevelTwo, nil
	case "3":
		return ReplyLevelThree, nil
	}
	return 0, fmt.Errorf("invalid reply level %q", s)
}

// PostChecker is the post-existence gate every operation runs through first.
type PostChecker interface {
	Exists(ctx context.Context, postID int64) (bool, error)
}

// Service implements the comment operations on top of a CommentStore.
type Service struct {
	Comments store.CommentStore
	Posts    PostChecker
}

// CommentView is the wire representation of a comment: a flat struct with
// the dotted path and the freshly computed size of its reply subtree.
type CommentView struct {
	ID         int64      `json:"id"`
	Created    time.Time  `json:"created"`
	Updated    *time.Time `json:"updated"`
	PostID     int64      `json:"post_id"`
	ParentID   *int64     `json:"parent_id"`
	Username   string     `json:"username"`
	Text       string     `json:"comment"`
	Path       string     `json:"path"`
	ReplyCount int        `json:"reply_count"`
}

// Add creates a root comment (parentID nil) or a reply. The path is assigned
// after the insert because it contains the comment's own id: a root's path
// is [id], a reply's is parent.path ++ [id].
func (s *Service) Add(ctx context.Context, author string, postID int64, parentID *int64, text string) (CommentView, error) {
	if err := validateText(text); err != nil {
		return CommentView{}, err
	}
	if err := s.checkPost(ctx, postID); err != nil {
		return CommentView{}, err
	}

	var parentPath store.Path
	if parentID != nil {
		parent, err := s.Comments.Get(ctx, *parentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return CommentView{}, ErrCommentNotFound
			}
			return CommentView{}, err
		}
		// Cross-post replies are disallowed; a parent on another post is
		// treated as absent.
		if parent.PostID != postID {
			return CommentView{}, ErrCommentNotFound
		}
		parentPath = parent.Path
	}

	c := store.Comment{PostID: postID, ParentID: parentID, Author: author, Text: text}
	id, created, err := s.Comments.Insert(ctx, c)
	if err != nil {
		return CommentView{}, err
	}

	var p store.Path
	if parentID == nil {
		p = store.RootPath(id)
	} else {
		p = store.ChildPath(parentPath, id)
	}
	if err := s.Comments.SetPath(ctx, id, p); err != nil {
		return CommentView{}, err
	}

	c.ID = id
	c.Created = created
	c.Path = p
	// A brand-new leaf has no descendants.
	return toView(c, 0), nil
}

// List returns the depth-bounded slice of the post's comment tree, ordered
// by creation time ascending, each entry carrying the current size of its
// reply subtree.
//
// With no anchor (anchorID 0), BASE means exactly the root comments however
// deep the tree goes, and level N means roots plus up to N levels of
// replies. With an anchor, BASE means direct children only and level N
// means N+1 levels below the anchor. The asymmetry is long-standing
// behavior that callers depend on.
func (s *Service) List(ctx context.Context, postID, anchorID int64, level ReplyLevel) ([]CommentView, error) {
	if err := s.checkPost(ctx, postID); err != nil {
		return nil, err
	}

	var pattern store.Pattern
	if anchorID == 0 {
		if level == ReplyLevelBase {
			pattern = store.DepthRangePattern(nil, 1, 1)
		} else {
			pattern = store.DepthRangePattern(nil, 1, int(level)+1)
		}
	} else {
		anchor, err := s.Comments.Get(ctx, anchorID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if anchor.PostID != postID {
			return nil, ErrCommentNotFound
		}
		pattern = store.DepthRangePattern(anchor.Path, 1, int(level)+1)
	}

	comments, err := s.Comments.FindByPostAndDepthRange(ctx, postID, pattern)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		n, err := s.Comments.CountStrictDescendants(ctx, c.Path)
		if err != nil {
			return nil, err
		}
		views[i] = toView(c, n)
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Created.Equal(views[j].Created) {
			return views[i].ID < views[j].ID
		}
		return views[i].Created.Before(views[j].Created)
	})
	return views, nil
}

// Update replaces the comment's text and stamps its updated time. Only the
// author may edit; anyone else gets ErrCommentNotFound.
func (s *Service) Update(ctx context.Context, author string, postID, commentID int64, text string) (CommentView, error) {
	if err := validateText(text); err != nil {
		return CommentView{}, err
	}
	if err := s.checkPost(ctx, postID); err != nil {
		return CommentView{}, err
	}

	c, err := s.Comments.UpdateText(ctx, author, commentID, text)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CommentView{}, ErrCommentNotFound
		}
		return CommentView{}, err
	}

	// The subtree size cannot change on a text edit, but it is never
	// trusted from a prior read.
	n, err := s.Comments.CountStrictDescendants(ctx, c.Path)
	if err != nil {
		return CommentView{}, err
	}
	return toView(c, n), nil
}

// Delete removes the comment and its entire subtree. Only the author may
// delete; anyone else gets ErrCommentNotFound.
func (s *Service) Delete(ctx context.Context, author string, postID, commentID int64) error {
	if err := s.checkPost(ctx, postID); err != nil {
		return err
	}

	c, err := s.Comments.GetOwned(ctx, author, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return s.Comments.Delete(ctx, c.ID)
}

func (s *Service) checkPost(ctx context.Context, postID int64) error {
	ok, err := s.Posts.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > maxTextLen {
		return ErrInvalidText
	}
	return nil
}

func toView(c store.Comment, replyCount int) CommentView {
	return CommentView{
		ID:         c.ID,
		Created:    c.Created,
		Updated:    c.Updated,
		PostID:     c.PostID,
		ParentID:   c.ParentID,
		Username:   c.Author,
		Text:       c.Text,
		Path:       c.Path.String(),
		ReplyCount: replyCount,
	}
}
