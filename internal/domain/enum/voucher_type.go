package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// VoucherType represents how a voucher's value is interpreted
type VoucherType int

const (
	VoucherTypePercent VoucherType = 0
	VoucherTypeNominal VoucherType = 1
)

func (t VoucherType) String() string {
	names := [...]string{"percent", "nominal"}
	if int(t) < 0 || int(t) >= len(names) {
		return "percent"
	}
	return names[t]
}

func (t VoucherType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *VoucherType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = VoucherType(i)
		return nil
	}
	switch str {
	case "percent":
		*t = VoucherTypePercent
	case "nominal":
		*t = VoucherTypeNominal
	}
	return nil
}

func (t VoucherType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *VoucherType) Scan(value interface{}) error {
	if value == nil {
		*t = VoucherTypePercent
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = VoucherType(v)
	case int:
		*t = VoucherType(v)
	}
	return nil
}
