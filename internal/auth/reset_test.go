package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	b, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Errorf("two tokens collided")
	}
}

func TestMemoryTokenStore(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("set and get", func(t *testing.T) {
		s := NewMemoryTokenStore()
		if err := s.Set(context.Background(), "tok", userID, time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := s.Get(context.Background(), "tok")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != userID {
			t.Errorf("got %s, want %s", got.Hex(), userID.Hex())
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		s := NewMemoryTokenStore()
		if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("expiry", func(t *testing.T) {
		s := NewMemoryTokenStore()
		now := time.Now()
		s.now = func() time.Time { return now }
		if err := s.Set(context.Background(), "tok", userID, time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}

		s.now = func() time.Time { return now.Add(2 * time.Hour) }
		if _, err := s.Get(context.Background(), "tok"); !errors.Is(err, ErrTokenNotFound) {
			t.Fatalf("expected expired token to be gone, got %v", err)
		}
	})

	t.Run("delete makes the token single use", func(t *testing.T) {
		s := NewMemoryTokenStore()
		if err := s.Set(context.Background(), "tok", userID, time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Delete(context.Background(), "tok"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(context.Background(), "tok"); !errors.Is(err, ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound after delete, got %v", err)
		}
	})

	t.Run("expired entries swept on write", func(t *testing.T) {
		s := NewMemoryTokenStore()
		now := time.Now()
		s.now = func() time.Time { return now }
		_ = s.Set(context.Background(), "old", userID, time.Minute)

		s.now = func() time.Time { return now.Add(time.Hour) }
		_ = s.Set(context.Background(), "new", userID, time.Minute)

		s.mu.Lock()
		_, oldThere := s.tokens["old"]
		s.mu.Unlock()
		if oldThere {
			t.Errorf("expired token survived the sweep")
		}
	})
}
