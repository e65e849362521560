package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// ServiceType represents the kind of work an order requests
type ServiceType int

const (
	ServiceTypeWebsite ServiceType = iota
	ServiceTypeWordPress
	ServiceTypeMobile
	ServiceTypeEditing
	ServiceTypeOnsite
)

func (t ServiceType) String() string {
	names := [...]string{"website", "wordpress", "mobile", "editing", "onsite_service"}
	if int(t) < 0 || int(t) >= len(names) {
		return "website"
	}
	return names[t]
}

// Label returns the human-readable service name used in emails and exports
func (t ServiceType) Label() string {
	labels := [...]string{"Website Development", "WordPress Development", "Mobile App Development", "Video Editing", "On-site Device Service"}
	if int(t) < 0 || int(t) >= len(labels) {
		return labels[0]
	}
	return labels[t]
}

// RequiresDeposit reports whether this service type collects a deposit up
// front. On-site device service is paid in full at completion.
func (t ServiceType) RequiresDeposit() bool {
	return t != ServiceTypeOnsite
}

// InitialOrderStatus returns the status a fresh order of this type starts in
func (t ServiceType) InitialOrderStatus() OrderStatus {
	if t.RequiresDeposit() {
		return OrderStatusWaitingDeposit
	}
	return OrderStatusWaitingOnsitePayment
}

// serviceTypeAliases maps the labels the order form sends to service types
var serviceTypeAliases = map[string]ServiceType{
	"website":                ServiceTypeWebsite,
	"web":                    ServiceTypeWebsite,
	"website development":    ServiceTypeWebsite,
	"wordpress":              ServiceTypeWordPress,
	"wordpress development":  ServiceTypeWordPress,
	"mobile":                 ServiceTypeMobile,
	"mobile app":             ServiceTypeMobile,
	"mobile app development": ServiceTypeMobile,
	"editing":                ServiceTypeEditing,
	"video editing":          ServiceTypeEditing,
	"onsite":                 ServiceTypeOnsite,
	"onsite service":         ServiceTypeOnsite,
	"onsite_service":         ServiceTypeOnsite,
	"on-site-device-service": ServiceTypeOnsite,
	"device service":         ServiceTypeOnsite,
}

// ParseServiceType resolves a human-readable label to a service type.
// Matching is case-insensitive; ok is false for unknown labels.
func ParseServiceType(label string) (ServiceType, bool) {
	t, ok := serviceTypeAliases[strings.ToLower(strings.TrimSpace(label))]
	return t, ok
}

func (t ServiceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ServiceType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ServiceType(i)
		return nil
	}
	if parsed, ok := ParseServiceType(str); ok {
		*t = parsed
	}
	return nil
}

func (t ServiceType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ServiceType) Scan(value interface{}) error {
	if value == nil {
		*t = ServiceTypeWebsite
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ServiceType(v)
	case int:
		*t = ServiceType(v)
	}
	return nil
}
