package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents where an order is in its fulfilment lifecycle
type OrderStatus int

const (
	OrderStatusWaitingDeposit OrderStatus = iota
	OrderStatusDepositPaid
	OrderStatusWaitingOnsitePayment
	OrderStatusOnsitePaid
	OrderStatusCancelled
)

func (s OrderStatus) String() string {
	names := [...]string{"waiting_deposit", "deposit_paid", "waiting_onsite_payment", "onsite_paid", "cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "waiting_deposit"
	}
	return names[s]
}

// IsTerminal reports whether the order can still transition
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusOnsitePaid || s == OrderStatusCancelled
}

// NextOnPayment returns the status an order moves to when a payment for the
// current stage settles. ok is false when no payment is expected in this state.
func (s OrderStatus) NextOnPayment() (OrderStatus, bool) {
	switch s {
	case OrderStatusWaitingDeposit:
		return OrderStatusDepositPaid, true
	case OrderStatusWaitingOnsitePayment:
		return OrderStatusOnsitePaid, true
	default:
		return s, false
	}
}

// ParseOrderStatus resolves a status name; ok is false for unknown names
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch s {
	case "waiting_deposit":
		return OrderStatusWaitingDeposit, true
	case "deposit_paid":
		return OrderStatusDepositPaid, true
	case "waiting_onsite_payment":
		return OrderStatusWaitingOnsitePayment, true
	case "onsite_paid":
		return OrderStatusOnsitePaid, true
	case "cancelled":
		return OrderStatusCancelled, true
	default:
		return OrderStatusWaitingDeposit, false
	}
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	switch str {
	case "waiting_deposit":
		*s = OrderStatusWaitingDeposit
	case "deposit_paid":
		*s = OrderStatusDepositPaid
	case "waiting_onsite_payment":
		*s = OrderStatusWaitingOnsitePayment
	case "onsite_paid":
		*s = OrderStatusOnsitePaid
	case "cancelled":
		*s = OrderStatusCancelled
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusWaitingDeposit
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
