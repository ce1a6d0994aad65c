package tokens

import (
	"testing"
	"time"
)

func newService() Service {
	return Service{
		Secret:         []byte("test-jwt-secret-32-bytes-padded!"),
		AccessTokenTTL: time.Hour,
	}
}

func TestNewAccessToken_HappyPath(t *testing.T) {
	svc := newService()
	now := time.Now().UTC()

	tok, exp, err := svc.NewAccessToken("alice", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}
	if !exp.After(now) {
		t.Fatalf("expected expiry after now, got %v", exp)
	}

	claims, err := svc.ParseAccessToken(tok)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject 'alice', got %q", claims.Subject)
	}
}

func TestNewAccessToken_MissingSecret(t *testing.T) {
	svc := Service{AccessTokenTTL: time.Hour}
	if _, _, err := svc.NewAccessToken("alice", time.Now()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	svc := newService()
	tok, _, err := svc.NewAccessToken("alice", time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := Service{Secret: []byte("another-secret-entirely-32-bytes"), AccessTokenTTL: time.Hour}
	if _, err := other.ParseAccessToken(tok); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	svc := newService()
	tok, _, err := svc.NewAccessToken("alice", time.Now().UTC().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ParseAccessToken(tok); err == nil {
		t.Fatal("expected error for expired token")
	}
}
