package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mahdihaghverdi/FastBlog/internal/events"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/api"
	"github.com/mahdihaghverdi/FastBlog/internal/platform/httpserver"
	"github.com/mahdihaghverdi/FastBlog/internal/store"
	"github.com/mahdihaghverdi/FastBlog/internal/tokens"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Signup handles POST /auth/signup
func Signup(us store.UserStore, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())

		var req signupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID, nil)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			api.Unprocessable(w, "VALIDATION_USERNAME", "username must not be empty", reqID, nil)
			return
		}
		if len(req.Password) < 8 {
			api.Unprocessable(w, "VALIDATION_PASSWORD", "password too short", reqID, map[string]any{"password": "min length 8"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			api.Internal(w, reqID)
			return
		}

		u, err := us.Create(r.Context(), req.Username, string(hash))
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				api.Conflict(w, "USERNAME_TAKEN", "username already taken", reqID, nil)
				return
			}
			api.Internal(w, reqID)
			return
		}

		pub.Publish(events.SubjectUserRegistered, "user_registered", u.Username, nil)
		api.WriteJSON(w, http.StatusCreated, u)
	}
}

// Token handles POST /auth/token
func Token(us store.UserStore, tok tokens.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := httpserver.RequestIDFromContext(r.Context())

		var req tokenRequest
		if err := decodeJSON(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID, nil)
			return
		}

		u, err := us.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
		if err != nil {
			api.Unauthorized(w, "INVALID_CREDENTIALS", "invalid username or password", reqID)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			api.Unauthorized(w, "INVALID_CREDENTIALS", "invalid username or password", reqID)
			return
		}

		signed, exp, err := tok.NewAccessToken(u.Username, time.Time{})
		if err != nil {
			api.Internal(w, reqID)
			return
		}

		api.WriteJSON(w, http.StatusOK, tokenResponse{
			AccessToken: signed,
			TokenType:   "bearer",
			ExpiresAt:   exp,
		})
	}
}
