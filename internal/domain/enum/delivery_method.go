package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// DeliveryMethod represents how a serviced device is returned to the customer
type DeliveryMethod int

const (
	DeliveryMethodPickup DeliveryMethod = 0
	DeliveryMethodShip   DeliveryMethod = 1
)

func (d DeliveryMethod) String() string {
	names := [...]string{"pickup", "ship"}
	if int(d) < 0 || int(d) >= len(names) {
		return "pickup"
	}
	return names[d]
}

// ParseDeliveryMethod resolves a form value to a delivery method
func ParseDeliveryMethod(s string) (DeliveryMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pickup":
		return DeliveryMethodPickup, true
	case "ship", "shipping":
		return DeliveryMethodShip, true
	default:
		return DeliveryMethodPickup, false
	}
}

func (d DeliveryMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DeliveryMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*d = DeliveryMethod(i)
		return nil
	}
	if parsed, ok := ParseDeliveryMethod(str); ok {
		*d = parsed
	}
	return nil
}

func (d DeliveryMethod) Value() (driver.Value, error) {
	return int64(d), nil
}

func (d *DeliveryMethod) Scan(value interface{}) error {
	if value == nil {
		*d = DeliveryMethodPickup
		return nil
	}
	switch v := value.(type) {
	case int64:
		*d = DeliveryMethod(v)
	case int:
		*d = DeliveryMethod(v)
	}
	return nil
}
