package session

import (
	"context"
	"time"
)

// State is where a checkout session is in the payment flow
type State string

const (
	StateCollectingInfo        State = "collecting_info"
	StateSelectingMethod       State = "selecting_method"
	StateAwaitingGatewayResult State = "awaiting_gateway_result"
	StatePaid                  State = "paid"
	StatePendingConfirmation   State = "pending_confirmation"
	StateFailed                State = "failed"
	StateClosed                State = "closed"
)

// IsTerminal reports whether the session outcome is settled for this attempt.
// closed is terminal for the attempt but the customer may start another.
func (s State) IsTerminal() bool {
	switch s {
	case StatePaid, StateFailed, StateClosed:
		return true
	default:
		return false
	}
}

// CheckoutSession is the orchestrator's per-order state between HTTP calls
type CheckoutSession struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	State       State     `json:"state"`
	SnapToken   string    `json:"snap_token,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	Attempts    int       `json:"attempts"`
	LastStatus  string    `json:"last_status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists checkout sessions. Implementations: Redis for deployments,
// in-memory for tests and offline mode.
type Store interface {
	Get(ctx context.Context, orderID string) (*CheckoutSession, error)
	Save(ctx context.Context, session *CheckoutSession) error
	Delete(ctx context.Context, orderID string) error
}
