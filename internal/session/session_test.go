package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"showmetasks/internal/session"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestAccessToken_Anonymous(t *testing.T) {
	var s *session.Session
	tok, err := s.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != "" {
		t.Errorf("expected empty token, got %q", tok)
	}
	if s.Key() != "" {
		t.Errorf("expected empty key, got %q", s.Key())
	}
	if session.FromToken("") != nil {
		t.Error("expected nil session for empty token")
	}
}

func TestAccessToken_OpaqueToken(t *testing.T) {
	s := session.FromToken("opaque-token")
	tok, err := s.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != "opaque-token" {
		t.Errorf("expected opaque-token, got %q", tok)
	}
}

func TestAccessToken_JWTExpiry(t *testing.T) {
	valid := session.FromToken(signedToken(t, time.Now().Add(time.Hour)))
	if _, err := valid.AccessToken(context.Background()); err != nil {
		t.Errorf("expected valid token, got %v", err)
	}

	expired := session.FromToken(signedToken(t, time.Now().Add(-time.Hour)))
	if _, err := expired.AccessToken(context.Background()); !errors.Is(err, session.ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestKey_ChangesWithToken(t *testing.T) {
	a := session.FromToken("token-a")
	a2 := session.FromToken("token-a")
	b := session.FromToken("token-b")
	if a.Key() != a2.Key() {
		t.Error("expected equal keys for equal tokens")
	}
	if a.Key() == b.Key() {
		t.Error("expected different keys for different tokens")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := session.TokenFromRaw(signedToken(t, exp))

	if err := session.Save(path, tok); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := session.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AccessToken != tok.AccessToken {
		t.Error("access token mismatch after load")
	}
	if !loaded.Expiry.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, loaded.Expiry)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := session.Load(filepath.Join(t.TempDir(), "token.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := session.LoadFile(filepath.Join(dir, "token.json")); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}

	path := filepath.Join(dir, "token.json")
	if err := session.Save(path, session.TokenFromRaw("opaque-token")); err != nil {
		t.Fatalf("save: %v", err)
	}
	s, err := session.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Key() != session.FromToken("opaque-token").Key() {
		t.Error("expected the stored token's session")
	}
}
