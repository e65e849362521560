package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents the reconciled payment state of an order. All
// three signal paths (popup callback, status poll, webhook) map into this
// vocabulary through MapGatewayStatus, never directly.
type PaymentStatus int

const (
	PaymentStatusDraft PaymentStatus = iota
	PaymentStatusPendingConfirmation
	PaymentStatusPaid
	PaymentStatusFailed
	PaymentStatusCancelled
	PaymentStatusRefunded
)

// Gateway transaction_status vocabulary
const (
	GatewayStatusPending       = "pending"
	GatewayStatusCapture       = "capture"
	GatewayStatusSettlement    = "settlement"
	GatewayStatusDeny          = "deny"
	GatewayStatusCancel        = "cancel"
	GatewayStatusExpire        = "expire"
	GatewayStatusRefund        = "refund"
	GatewayStatusPartialRefund = "partial_refund"
)

func (s PaymentStatus) String() string {
	names := [...]string{"draft", "pending_confirmation", "paid", "failed", "cancelled", "refunded"}
	if int(s) < 0 || int(s) >= len(names) {
		return "draft"
	}
	return names[s]
}

// IsTerminal reports whether this status is sticky: terminal statuses are
// never overwritten by a later-arriving non-terminal signal.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// MapGatewayStatus translates the gateway's transaction_status vocabulary to
// the internal payment status. Unknown values map to pending_confirmation
// with known=false so callers can log the fallback instead of dropping it.
func MapGatewayStatus(raw string) (status PaymentStatus, known bool) {
	switch raw {
	case GatewayStatusSettlement, GatewayStatusCapture:
		return PaymentStatusPaid, true
	case GatewayStatusPending:
		return PaymentStatusPendingConfirmation, true
	case GatewayStatusDeny, GatewayStatusExpire:
		return PaymentStatusFailed, true
	case GatewayStatusCancel:
		return PaymentStatusCancelled, true
	case GatewayStatusRefund, GatewayStatusPartialRefund:
		return PaymentStatusRefunded, true
	default:
		return PaymentStatusPendingConfirmation, false
	}
}

// ParsePaymentStatus resolves a status name; ok is false for unknown names
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch s {
	case "draft":
		return PaymentStatusDraft, true
	case "pending_confirmation":
		return PaymentStatusPendingConfirmation, true
	case "paid":
		return PaymentStatusPaid, true
	case "failed":
		return PaymentStatusFailed, true
	case "cancelled":
		return PaymentStatusCancelled, true
	case "refunded":
		return PaymentStatusRefunded, true
	default:
		return PaymentStatusDraft, false
	}
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "draft":
		*s = PaymentStatusDraft
	case "pending_confirmation":
		*s = PaymentStatusPendingConfirmation
	case "paid":
		*s = PaymentStatusPaid
	case "failed":
		*s = PaymentStatusFailed
	case "cancelled":
		*s = PaymentStatusCancelled
	case "refunded":
		*s = PaymentStatusRefunded
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
