// Package auth resolves the caller's token and the owner identity derived
// from it.
package auth

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/boundedtodo/internal/model"
)

const (
	credFileName = "credentials.json"
	// EnvToken overrides the stored token.
	EnvToken = "TODO_TOKEN"
)

var ErrEmptyToken = errors.New("empty token")

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // optional (JWT or server-provided)
}

// Owner is the identity the token authenticates as.
func (ti *TokenInfo) Owner() model.ID {
	return OwnerOf(ti.Token)
}

// OwnerOf derives the owner identity of a token.
func OwnerOf(token string) model.ID {
	return model.ID(sha256.Sum256([]byte(stripBearer(token))))
}

// Store reads and writes credentials under a directory.
type Store struct {
	dir string
}

// NewStore keeps credentials in dir. An empty dir means ~/.todo.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("home: %w", err)
		}
		dir = filepath.Join(home, ".todo")
	}
	return &Store{dir: dir}, nil
}

func (s *Store) credFilePath() string {
	return filepath.Join(s.dir, credFileName)
}

// Token returns the active token, or nil when not logged in.
func (s *Store) Token() (*TokenInfo, error) {
	// 1) env override
	if env := stripBearer(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: env, Source: "env"}, nil
	}

	// 2) file
	b, err := os.ReadFile(s.credFilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	if ti.Token == "" {
		return nil, nil
	}
	return &ti, nil
}

func (s *Store) SetToken(token string, expires *time.Time) error {
	token = stripBearer(token)
	if token == "" {
		return ErrEmptyToken
	}
	// owner-only dir
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.credFilePath(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (s *Store) DeleteToken() error {
	if err := os.Remove(s.credFilePath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// stripBearer drops a leading "Bearer" scheme word and surrounding space.
// A bare "Bearer" strips to the empty token.
func stripBearer(s string) string {
	s = strings.TrimSpace(s)
	const scheme = "bearer"
	if len(s) < len(scheme) || !strings.EqualFold(s[:len(scheme)], scheme) {
		return s
	}
	rest := s[len(scheme):]
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
		return strings.TrimSpace(rest)
	}
	return s
}
