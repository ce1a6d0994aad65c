package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mahdihaghverdi/FastBlog/internal/platform/api"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/auth"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/httpserver"
	"github.com/mahdihaghverdi/FastBlog/internal/store"
)

type createPostRequest struct {
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Tags       []string `json:"tags"`
	TitleInURL *string  `json:"title_in_url,omitempty"`
}

type updatePostRequest struct {
	Title      *string  `json:"title,omitempty"`
	Body       *string  `json:"body,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	TitleInURL *string  `json:"title_in_url,omitempty"`
}

// slugify lowers the text and replaces every non-alphanumeric run with a
// single dash. A short random suffix keeps urls unique across identical
// titles.
func slugify(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

func postURL(username, titleInURL string) string {
	return "/@" + username + "/" + slugify(titleInURL)
}

// normalizeTags trims, lowers and dedupes; between 1 and 5 tags survive.
func normalizeTags(tags []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return nil, false
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) < 1 || len(out) > 5 {
		return nil, false
	}
	return out, true
}

func sortParams(r *http.Request) (sort string, desc bool) {
	sort = store.SortDate
	if s := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort"))); s == store.SortTitle {
		sort = store.SortTitle
	}
	desc = strings.EqualFold(r.URL.Query().Get("desc"), "true")
	return sort, desc
}

// CreatePost handles POST /posts
func CreatePost(ps store.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}

		var req createPostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID, nil)
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		req.Body = strings.TrimSpace(req.Body)
		if req.Title == "" || req.Body == "" {
			api.Unprocessable(w, "VALIDATION", "title and body must not be empty", reqID, nil)
			return
		}
		tags, ok := normalizeTags(req.Tags)
		if !ok {
			api.Unprocessable(w, "VALIDATION_TAGS", "between 1 and 5 non-empty tags required", reqID, nil)
			return
		}

		titleInURL := req.Title
		if req.TitleInURL != nil && strings.TrimSpace(*req.TitleInURL) != "" {
			titleInURL = *req.TitleInURL
		}

		created, err := ps.Create(r.Context(), store.Post{
			Author: username,
			Title:  req.Title,
			Body:   req.Body,
			URL:    postURL(username, titleInURL),
			Tags:   tags,
		})
		if err != nil {
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// ListPosts handles GET /posts
func ListPosts(ps store.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}

		page, perPage := pageParams(r)
		sort, desc := sortParams(r)

		posts, err := ps.ListByAuthor(r.Context(), username, page, perPage, sort, desc)
		if err != nil {
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusOK, posts)
	}
}

// GetPost handles GET /posts/{post_id}
func GetPost(ps store.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		id, ok := urlParamID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", reqID, nil)
			return
		}

		p, err := ps.GetOwned(r.Context(), username, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "POST_NOT_FOUND", "post not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusOK, p)
	}
}

// UpdatePost handles PUT /posts/{post_id}
func UpdatePost(ps store.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		id, ok := urlParamID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", reqID, nil)
			return
		}

		var req updatePostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID, nil)
			return
		}

		current, err := ps.GetOwned(r.Context(), username, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "POST_NOT_FOUND", "post not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}

		title, body, url, tags := current.Title, current.Body, current.URL, current.Tags
		if req.Title != nil {
			title = strings.TrimSpace(*req.Title)
		}
		if req.Body != nil {
			body = strings.TrimSpace(*req.Body)
		}
		if title == "" || body == "" {
			api.Unprocessable(w, "VALIDATION", "title and body must not be empty", reqID, nil)
			return
		}
		if req.Tags != nil {
			normalized, ok := normalizeTags(req.Tags)
			if !ok {
				api.Unprocessable(w, "VALIDATION_TAGS", "between 1 and 5 non-empty tags required", reqID, nil)
				return
			}
			tags = normalized
		}
		// Changing title_in_url mints a new permanent address.
		if req.TitleInURL != nil && strings.TrimSpace(*req.TitleInURL) != "" {
			url = postURL(username, *req.TitleInURL)
		}

		updated, err := ps.Update(r.Context(), username, id, title, body, url, tags)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "POST_NOT_FOUND", "post not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeletePost handles DELETE /posts/{post_id}
func DeletePost(ps store.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		id, ok := urlParamID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", reqID, nil)
			return
		}

		if err := ps.Delete(r.Context(), username, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "POST_NOT_FOUND", "post not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
