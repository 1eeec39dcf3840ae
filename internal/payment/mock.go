package payment

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"bazaar-backend/internal/apperr"
)

// MockGateway synthesizes gateway identifiers without any external call.
// Callbacks authenticate with a shared token instead of a signature.
type MockGateway struct {
	webhookToken string
}

func NewMockGateway(webhookToken string) *MockGateway {
	return &MockGateway{webhookToken: webhookToken}
}

func (g *MockGateway) CreateIntent(ctx context.Context, amount float64) (*Intent, error) {
	_ = ctx
	_ = amount
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Intent{
		ID:           "pi_mock_" + id,
		ClientSecret: "pi_mock_" + id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}, nil
}

type mockCallback struct {
	Token           string `json:"token"`
	PaymentIntentID string `json:"paymentIntentId"`
	Status          string `json:"status"`
}

func (g *MockGateway) VerifyCallback(payload []byte, signature string) (*Event, error) {
	_ = signature
	var cb mockCallback
	if err := json.Unmarshal(payload, &cb); err != nil {
		return nil, apperr.Wrap(apperr.Verification, "malformed webhook payload", err)
	}
	if cb.Token != g.webhookToken {
		return nil, apperr.New(apperr.Verification, "webhook verification failed")
	}
	if cb.PaymentIntentID == "" {
		return nil, apperr.New(apperr.Verification, "webhook missing payment intent id")
	}
	switch cb.Status {
	case "paid", "succeeded":
		return &Event{IntentID: cb.PaymentIntentID, Succeeded: true}, nil
	case "failed":
		return &Event{IntentID: cb.PaymentIntentID, Succeeded: false}, nil
	}
	// Authentic but not a settlement outcome we act on.
	return nil, nil
}
