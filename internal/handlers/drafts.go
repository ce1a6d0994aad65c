package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mahdihaghverdi/FastBlog/internal/events"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/api"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/auth"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/httpserver"
	"github.com/mahdihaghverdi/FastBlog/internal/store"
)

type draftRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type publishRequest struct {
	Tags       []string `json:"tags"`
	TitleInURL *string  `json:"title_in_url,omitempty"`
}

// CreateDraft handles POST /drafts
func CreateDraft(ds store.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}

		var req draftRequest
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

		created, err := ds.Create(r.Context(), store.Draft{
			Author: username,
			Title:  req.Title,
			Body:   req.Body,
		})
		if err != nil {
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// ListDrafts handles GET /drafts
func ListDrafts(ds store.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}

		page, perPage := pageParams(r)
		sort, desc := sortParams(r)

		drafts, err := ds.ListByAuthor(r.Context(), username, page, perPage, sort, desc)
		if err != nil {
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusOK, drafts)
	}
}

// GetDraft handles GET /drafts/{draft_id}
func GetDraft(ds store.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		id, ok := urlParamID(r, "draft_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "draft_id must be a positive integer", reqID, nil)
			return
		}

		d, err := ds.GetOwned(r.Context(), username, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "DRAFT_NOT_FOUND", "draft not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusOK, d)
	}
}

// UpdateDraft handles PUT /drafts/{draft_id}
func UpdateDraft(ds store.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		id, ok := urlParamID(r, "draft_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "draft_id must be a positive integer", reqID, nil)
			return
		}

		var req draftRequest
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

		updated, err := ds.Update(r.Context(), username, id, req.Title, req.Body)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "DRAFT_NOT_FOUND", "draft not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}
		api.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteDraft handles DELETE /drafts/{draft_id}
func DeleteDraft(ds store.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		id, ok := urlParamID(r, "draft_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "draft_id must be a positive integer", reqID, nil)
			return
		}

		if err := ds.Delete(r.Context(), username, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "DRAFT_NOT_FOUND", "draft not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PublishDraft handles POST /drafts/{draft_id}/publish. The draft becomes a
// post with a freshly minted url and the chosen tags, then disappears.
func PublishDraft(ds store.DraftStore, ps store.PostStore, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		id, ok := urlParamID(r, "draft_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "draft_id must be a positive integer", reqID, nil)
			return
		}

		var req publishRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID, nil)
			return
		}
		tags, ok := normalizeTags(req.Tags)
		if !ok {
			api.Unprocessable(w, "VALIDATION_TAGS", "between 1 and 5 non-empty tags required", reqID, nil)
			return
		}

		d, err := ds.GetOwned(r.Context(), username, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "DRAFT_NOT_FOUND", "draft not found", reqID)
				return
			}
			api.Internal(w, reqID)
			return
		}

		titleInURL := d.Title
		if req.TitleInURL != nil && strings.TrimSpace(*req.TitleInURL) != "" {
			titleInURL = *req.TitleInURL
		}

		created, err := ps.Create(r.Context(), store.Post{
			Author: username,
			Title:  d.Title,
			Body:   d.Body,
			URL:    postURL(username, titleInURL),
			Tags:   tags,
		})
		if err != nil {
			api.Internal(w, reqID)
			return
		}
		if err := ds.Delete(r.Context(), username, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			api.Internal(w, reqID)
			return
		}

		pub.Publish(events.SubjectPostPublished, "post_published", username, map[string]any{
			"post_id": created.ID,
			"url":     created.URL,
		})
		api.WriteJSON(w, http.StatusCreated, created)
	}
}
