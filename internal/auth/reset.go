package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrTokenNotFound is returned for unknown, consumed or expired reset
// tokens.
var ErrTokenNotFound = errors.New("auth: reset token not found or expired")

// TokenStore holds outstanding password-reset tokens with a TTL. The
// default in-memory implementation loses all tokens on restart; the Redis
// implementation survives it.
type TokenStore interface {
	Set(ctx context.Context, token string, userID primitive.ObjectID, ttl time.Duration) error
	Get(ctx context.Context, token string) (primitive.ObjectID, error)
	Delete(ctx context.Context, token string) error
}

// NewResetToken returns 32 random bytes hex-encoded.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type memoryEntry struct {
	userID    primitive.ObjectID
	expiresAt time.Time
}

// MemoryTokenStore is a process-local expiring map. Expired entries are
// dropped lazily on read and write.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryEntry
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryTokenStore) Set(ctx context.Context, token string, userID primitive.ObjectID, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.tokens[token] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Get(ctx context.Context, token string) (primitive.ObjectID, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.tokens, token)
		return primitive.NilObjectID, ErrTokenNotFound
	}
	return e.userID, nil
}

func (s *MemoryTokenStore) Delete(ctx context.Context, token string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *MemoryTokenStore) sweepLocked() {
	now := s.now()
	for t, e := range s.tokens {
		if now.After(e.expiresAt) {
			delete(s.tokens, t)
		}
	}
}
