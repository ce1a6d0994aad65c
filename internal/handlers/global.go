package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mahdihaghverdi/FastBlog/internal/platform/api"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/httpserver"
	"github.com/mahdihaghverdi/FastBlog/internal/store"
)

type globalPost struct {
	store.Post
	AllCommentsCount   int `json:"all_comments_count"`
	BaseCommentsCount  int `json:"base_comments_count"`
	ReplyCommentsCount int `json:"reply_comments_count"`
}

func withCommentCounts(r *http.Request, cs store.CommentStore, p store.Post) (globalPost, error) {
	total, base, err := cs.CountByPost(r.Context(), p.ID)
	if err != nil {
		return globalPost{}, err
	}
	return globalPost{
		Post:               p,
		AllCommentsCount:   total,
		BaseCommentsCount:  base,
		ReplyCommentsCount: total - base,
	}, nil
}

// GlobalFeed handles GET /global: every published post, newest first, each
// annotated with its comment counts.
func GlobalFeed(ps store.PostStore, cs store.CommentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		page, perPage := pageParams(r)

		posts, err := ps.ListGlobal(r.Context(), page, perPage)
		if err != nil {
			api.Internal(w, reqID)
			return
		}

		feed := make([]globalPost, 0, len(posts))
		for _, p := range posts {
			gp, err := withCommentCounts(r, cs, p)
			if err != nil {
				api.Internal(w, reqID)
				return
			}
			feed = append(feed, gp)
		}
		api.WriteJSON(w, http.StatusOK, feed)
	}
}

// GlobalPost handles GET /global/@{username}/{slug}: a single post addressed
// by its permanent url.
func GlobalPost(ps store.PostStore, cs store.CommentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username := strings.TrimSpace(chi.URLParam(r, "username"))
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if username == "" || slug == "" {
			api.BadRequest(w, "INVALID_URL", "username and slug are required", reqID, nil)
			return
		}

		p, err := ps.GetByURL(r.Context(), "/@"+username+"/"+slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "POST_NOT_FOUND", "post not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}

		gp, err := withCommentCounts(r, cs, p)
		if err != nil {
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusOK, gp)
	}
}
