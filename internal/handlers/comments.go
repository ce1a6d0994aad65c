package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahdihaghverdi/FastBlog/internal/events"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/api"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/auth"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/httpserver"
	"github.com/mahdihaghverdi/FastBlog/internal/thread"
)

type commentRequest struct {
	Comment string `json:"comment"`
}

func writeThreadError(w http.ResponseWriter, reqID string, err error) {
	switch {
	case errors.Is(err, thread.ErrPostNotFound):
		api.NotFound(w, "POST_NOT_FOUND", "post not found", reqID)
	case errors.Is(err, thread.ErrCommentNotFound):
		api.NotFound(w, "COMMENT_NOT_FOUND", "comment not found", reqID)
	case errors.Is(err, thread.ErrInvalidText):
		api.Unprocessable(w, "VALIDATION_COMMENT", "comment must be 1 to 255 characters", reqID, nil)
	default:
		api.Internal(w, reqID)
	}
}

// CreateComment handles POST /posts/{post_id}/comment and
// POST /posts/{post_id}/comment/{comment_id} (reply).
func CreateComment(ts *thread.Service, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		postID, ok := urlParamID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", reqID, nil)
			return
		}

		var parentID *int64
		if raw := chi.URLParam(r, "comment_id"); raw != "" {
			id, ok := urlParamID(r, "comment_id")
			if !ok {
				api.BadRequest(w, "INVALID_ID", "comment_id must be a positive integer", reqID, nil)
				return
			}
			parentID = &id
		}

		var req commentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID, nil)
			return
		}

		created, err := ts.Add(r.Context(), username, postID, parentID, req.Comment)
		if err != nil {
			writeThreadError(w, reqID, err)
			return
		}

		pub.Publish(events.SubjectCommentCreated, "comment_created", username, map[string]any{
			"comment_id": created.ID,
			"post_id":    postID,
			"path":       created.Path,
		})
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// ListBaseComments handles GET /comments/{post_id}/basecomments
func ListBaseComments(ts *thread.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		postID, ok := urlParamID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", reqID, nil)
			return
		}
		level, err := thread.ParseReplyLevel(r.URL.Query().Get("reply-level"))
		if err != nil {
			api.BadRequest(w, "INVALID_REPLY_LEVEL", "reply-level must be 0, 1, 2 or 3", reqID, nil)
			return
		}

		comments, err := ts.List(r.Context(), postID, 0, level)
		if err != nil {
			writeThreadError(w, reqID, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, comments)
	}
}

// GetCommentThread handles GET /comments/{post_id}/{comment_id}
func GetCommentThread(ts *thread.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		postID, ok := urlParamID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", reqID, nil)
			return
		}
		commentID, ok := urlParamID(r, "comment_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "comment_id must be a positive integer", reqID, nil)
			return
		}
		level, err := thread.ParseReplyLevel(r.URL.Query().Get("reply-level"))
		if err != nil {
			api.BadRequest(w, "INVALID_REPLY_LEVEL", "reply-level must be 0, 1, 2 or 3", reqID, nil)
			return
		}

		comments, err := ts.List(r.Context(), postID, commentID, level)
		if err != nil {
			writeThreadError(w, reqID, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, comments)
	}
}

// UpdateComment handles PUT /comments/{post_id}/{comment_id}
func UpdateComment(ts *thread.Service, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		postID, ok := urlParamID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", reqID, nil)
			return
		}
		commentID, ok := urlParamID(r, "comment_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "comment_id must be a positive integer", reqID, nil)
			return
		}

		var req commentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID, nil)
			return
		}

		updated, err := ts.Update(r.Context(), username, postID, commentID, req.Comment)
		if err != nil {
			writeThreadError(w, reqID, err)
			return
		}

		pub.Publish(events.SubjectCommentUpdated, "comment_updated", username, map[string]any{
			"comment_id": updated.ID,
			"post_id":    postID,
		})
		api.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteComment handles DELETE /comments/{post_id}/{comment_id}
func DeleteComment(ts *thread.Service, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok || username == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", reqID)
			return
		}
		postID, ok := urlParamID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", reqID, nil)
			return
		}
		commentID, ok := urlParamID(r, "comment_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "comment_id must be a positive integer", reqID, nil)
			return
		}

		if err := ts.Delete(r.Context(), username, postID, commentID); err != nil {
			writeThreadError(w, reqID, err)
			return
		}

		pub.Publish(events.SubjectCommentDeleted, "comment_deleted", username, map[string]any{
			"comment_id": commentID,
			"post_id":    postID,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
