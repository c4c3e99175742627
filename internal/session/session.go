// Package session holds the credentials handed to the workspace controller.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
)

var (
	// ErrExpired is returned when the stored token is past its expiry.
	ErrExpired = errors.New("session expired (run: showmetasks login)")

	// ErrNotLoggedIn is returned by LoadFile when no token is stored.
	ErrNotLoggedIn = errors.New("not logged in (run: showmetasks login)")
)

// Session supplies the bearer token for API calls.
// The zero value and nil are anonymous sessions.
type Session struct {
	src oauth2.TokenSource
	key string
}

// New wraps an arbitrary token source. key identifies the credentials for
// change detection; sessions with equal keys are considered the same.
func New(src oauth2.TokenSource, key string) *Session {
	return &Session{src: src, key: key}
}

// FromToken builds a session around a raw access token. If the token is a
// JWT its exp claim becomes the token expiry. The signature is not checked;
// that is the auth API's job.
func FromToken(raw string) *Session {
	if raw == "" {
		return nil
	}
	return FromOAuth2(TokenFromRaw(raw))
}

// FromOAuth2 builds a session from a stored token.
func FromOAuth2(tok *oauth2.Token) *Session {
	if tok == nil || tok.AccessToken == "" {
		return nil
	}
	return New(oauth2.StaticTokenSource(tok), keyOf(tok.AccessToken))
}

// TokenFromRaw converts a raw bearer token into an oauth2.Token.
func TokenFromRaw(raw string) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err == nil && claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok
}

// Key identifies the credentials. Anonymous sessions have an empty key.
func (s *Session) Key() string {
	if s == nil {
		return ""
	}
	return s.key
}

// AccessToken returns the current bearer token, or "" for an anonymous session.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	if s == nil || s.src == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tok, err := s.src.Token()
	if err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	if !tok.Expiry.IsZero() && time.Now().After(tok.Expiry) {
		return "", ErrExpired
	}
	return tok.AccessToken, nil
}

// Load reads a token saved by Save.
func Load(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := sonic.ConfigStd.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errors.New("invalid token file: no access token")
	}
	return &tok, nil
}

// LoadFile builds a session from the token stored at path.
func LoadFile(path string) (*Session, error) {
	tok, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	return FromOAuth2(tok), nil
}

// Save writes a token to path with mode 0600.
func Save(path string, tok *oauth2.Token) error {
	data, err := sonic.ConfigStd.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func keyOf(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

type ctxKey struct{}

// NewContext returns a context carrying s. Backends prefer the session in
// the context over the one they were built with.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by NewContext.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}
