package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{InsufficientStock, http.StatusBadRequest},
		{InvalidState, http.StatusBadRequest},
		{Verification, http.StatusBadRequest},
		{Unauthenticated, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(New(tc.kind, "x")); got != tc.want {
			t.Errorf("Status(kind %d) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestStatus_PlainError(t *testing.T) {
	if got := Status(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("plain error mapped to %d, want 500", got)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(New(NotFound, "Order not found")); got != "Order not found" {
		t.Errorf("Message = %q", got)
	}
	// Internal details never reach the caller.
	if got := Message(Wrap(Internal, "db exploded", errors.New("details"))); got != "Internal server error" {
		t.Errorf("internal Message = %q", got)
	}
	if got := Message(errors.New("boom")); got != "Internal server error" {
		t.Errorf("plain Message = %q", got)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handler context: %w", New(Forbidden, "nope"))
	if !Is(err, Forbidden) {
		t.Errorf("kind lost through wrapping")
	}
	if KindOf(nil) != Internal {
		t.Errorf("nil should map to Internal")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(Internal, "wrapped", cause)
	if !errors.Is(err, cause) {
		t.Errorf("cause not reachable via errors.Is")
	}
}
