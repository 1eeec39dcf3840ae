package payment

import (
	"context"
	"strings"
	"testing"

	"bazaar-backend/internal/apperr"
)

func TestMockGateway_CreateIntent(t *testing.T) {
	g := NewMockGateway("tok")

	a, err := g.CreateIntent(context.Background(), 50)
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if !strings.HasPrefix(a.ID, "pi_mock_") {
		t.Errorf("intent id %q missing mock prefix", a.ID)
	}
	if !strings.HasPrefix(a.ClientSecret, a.ID) {
		t.Errorf("client secret %q not derived from intent id", a.ClientSecret)
	}

	b, err := g.CreateIntent(context.Background(), 50)
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if a.ID == b.ID {
		t.Errorf("two intents share an id")
	}
}

func TestMockGateway_VerifyCallback(t *testing.T) {
	g := NewMockGateway("shared-token")

	t.Run("valid paid callback", func(t *testing.T) {
		ev, err := g.VerifyCallback([]byte(`{"token":"shared-token","paymentIntentId":"pi_1","status":"paid"}`), "")
		if err != nil {
			t.Fatalf("VerifyCallback: %v", err)
		}
		if ev.IntentID != "pi_1" || !ev.Succeeded {
			t.Errorf("unexpected event: %+v", ev)
		}
	})

	t.Run("succeeded alias", func(t *testing.T) {
		ev, err := g.VerifyCallback([]byte(`{"token":"shared-token","paymentIntentId":"pi_1","status":"succeeded"}`), "")
		if err != nil || !ev.Succeeded {
			t.Fatalf("expected success event, got %+v / %v", ev, err)
		}
	})

	t.Run("failed callback", func(t *testing.T) {
		ev, err := g.VerifyCallback([]byte(`{"token":"shared-token","paymentIntentId":"pi_1","status":"failed"}`), "")
		if err != nil {
			t.Fatalf("VerifyCallback: %v", err)
		}
		if ev.Succeeded {
			t.Errorf("failed callback reported as success")
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		_, err := g.VerifyCallback([]byte(`{"token":"wrong","paymentIntentId":"pi_1","status":"paid"}`), "")
		if !apperr.Is(err, apperr.Verification) {
			t.Fatalf("expected Verification error, got %v", err)
		}
	})

	t.Run("missing intent id", func(t *testing.T) {
		_, err := g.VerifyCallback([]byte(`{"token":"shared-token","status":"paid"}`), "")
		if !apperr.Is(err, apperr.Verification) {
			t.Fatalf("expected Verification error, got %v", err)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := g.VerifyCallback([]byte(`{`), "")
		if !apperr.Is(err, apperr.Verification) {
			t.Fatalf("expected Verification error, got %v", err)
		}
	})

	t.Run("irrelevant status acknowledged silently", func(t *testing.T) {
		ev, err := g.VerifyCallback([]byte(`{"token":"shared-token","paymentIntentId":"pi_1","status":"processing"}`), "")
		if err != nil || ev != nil {
			t.Fatalf("expected nil event without error, got %+v / %v", ev, err)
		}
	})
}

func TestToCents(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{0, 0},
		{19.99, 1999},
		{999.99, 99999},
		{0.1, 10},
		{1097.97, 109797},
	}
	for _, tc := range cases {
		if got := toCents(tc.amount); got != tc.want {
			t.Errorf("toCents(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}
