// Package nonce issues and verifies the single-use anti-forgery tokens
// that protect the state-changing HTTP endpoints. A token is handed to
// the editor page, sent back with the request, and consumed on first
// use.
package nonce

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalid is returned when a token is unknown, expired, or already
// consumed. Callers must not reach the media platform after seeing it.
var ErrInvalid = errors.New("nonce is invalid, expired, or already used")

// Store is an in-memory single-use token store. Tokens are opaque
// random values with a fixed time-to-live.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]time.Time // token -> expiry

	now func() time.Time
}

// NewStore creates a Store whose tokens live for ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Issue creates and remembers a fresh token.
func (s *Store) Issue() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate nonce")
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gcLocked()
	s.tokens[token] = s.now().Add(s.ttl)
	return token, nil
}

// Consume validates a token and invalidates it. A second Consume of the
// same token fails.
func (s *Store) Consume(token string) error {
	if token == "" {
		return ErrInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return ErrInvalid
	}
	delete(s.tokens, token)

	if s.now().After(expiry) {
		return ErrInvalid
	}
	return nil
}

// gcLocked drops expired tokens. Called with the lock held.
func (s *Store) gcLocked() {
	now := s.now()
	for token, expiry := range s.tokens {
		if now.After(expiry) {
			delete(s.tokens, token)
		}
	}
}
