package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mahdihaghverdi/FastBlog/internal/store"
	"github.com/mahdihaghverdi/FastBlog/internal/tokens"
)

func testTokenService() tokens.Service {
	return tokens.Service{
		Secret:         []byte("test-jwt-secret-32-bytes-padded!"),
		AccessTokenTTL: time.Hour,
	}
}

func TestSignupAndToken(t *testing.T) {
	us := store.NewInMemoryUserStore()

	rr := httptest.NewRecorder()
	Signup(us, nil).ServeHTTP(rr, setupReq(http.MethodPost, "/auth/signup",
		`{"username":"alice","password":"correct horse"}`, nil, ""))
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var u store.User
	if err := json.NewDecoder(rr.Body).Decode(&u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("expected username 'alice', got %q", u.Username)
	}

	rr = httptest.NewRecorder()
	Token(us, testTokenService()).ServeHTTP(rr, setupReq(http.MethodPost, "/auth/token",
		`{"username":"alice","password":"correct horse"}`, nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("token: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp tokenResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %+v", resp)
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	us := store.NewInMemoryUserStore()
	handler := Signup(us, nil)

	const body = `{"username":"alice","password":"correct horse"}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodPost, "/auth/signup", body, nil, ""))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodPost, "/auth/signup", body, nil, ""))
	if rr.Code != http.StatusConflict {
		t.Fatalf("second signup: expected 409, got %d", rr.Code)
	}
}

func TestSignup_ShortPassword(t *testing.T) {
	rr := httptest.NewRecorder()
	Signup(store.NewInMemoryUserStore(), nil).ServeHTTP(rr, setupReq(http.MethodPost, "/auth/signup",
		`{"username":"alice","password":"short"}`, nil, ""))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestToken_WrongPassword(t *testing.T) {
	us := store.NewInMemoryUserStore()
	rr := httptest.NewRecorder()
	Signup(us, nil).ServeHTTP(rr, setupReq(http.MethodPost, "/auth/signup",
		`{"username":"alice","password":"correct horse"}`, nil, ""))
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	Token(us, testTokenService()).ServeHTTP(rr, setupReq(http.MethodPost, "/auth/token",
		`{"username":"alice","password":"wrong"}`, nil, ""))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
