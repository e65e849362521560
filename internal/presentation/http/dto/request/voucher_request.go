package request

import "time"

// ValidateVoucherRequest checks a voucher code against an order subtotal
type ValidateVoucherRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal int64  `json:"subtotal" binding:"required,gt=0"`
}

// CreateVoucherRequest creates a voucher from the admin panel
type CreateVoucherRequest struct {
	Code       string     `json:"code" binding:"required"`
	Type       string     `json:"type" binding:"required,oneof=percent nominal"`
	Value      int64      `json:"value" binding:"required,gt=0"`
	MinSpend   *int64     `json:"min_spend"`
	MaxUses    *int       `json:"max_uses"`
	ValidUntil *time.Time `json:"valid_until"`
	IsActive   *bool      `json:"is_active"`
}

// UpdateVoucherRequest updates a voucher's mutable fields
type UpdateVoucherRequest struct {
	Value      *int64     `json:"value"`
	MinSpend   *int64     `json:"min_spend"`
	MaxUses    *int       `json:"max_uses"`
	ValidUntil *time.Time `json:"valid_until"`
	IsActive   *bool      `json:"is_active"`
}
