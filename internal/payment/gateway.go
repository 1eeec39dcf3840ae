// Package payment abstracts the external payment processor behind a
// single Gateway interface with two variants: Stripe and a mock that
// never leaves the process. The variant is chosen explicitly at startup,
// never inferred at call time.
package payment

import "context"

// Intent is the client-facing payment handshake: the identifier the
// gateway will reference in settlement callbacks, and the opaque secret
// the client needs to complete payment.
type Intent struct {
	ID           string `json:"paymentIntentId"`
	ClientSecret string `json:"clientSecret"`
}

// Event is a verified settlement notification.
type Event struct {
	IntentID  string
	Succeeded bool
}

type Gateway interface {
	// CreateIntent registers an attempt to collect amount (in the
	// catalog's currency units) and returns the handshake data.
	CreateIntent(ctx context.Context, amount float64) (*Intent, error)

	// VerifyCallback authenticates a settlement callback and extracts the
	// event. A Verification failure must not mutate any state. A nil
	// event with nil error means the callback was authentic but carries
	// nothing to settle.
	VerifyCallback(payload []byte, signature string) (*Event, error)
}
