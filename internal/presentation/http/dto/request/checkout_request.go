package request

import (
	"time"

	"github.com/kiramedia/checkout-api/internal/infrastructure/gateway"
)

// CheckoutRequest is the order form submitted by the frontend
type CheckoutRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Phone          string                 `json:"phone" binding:"required"`
	Email          string                 `json:"email"`
	Company        string                 `json:"company"`
	Service        string                 `json:"service" binding:"required"`
	Scope          map[string]interface{} `json:"scope"`
	DeliveryMethod string                 `json:"delivery_method"`
	ScheduledAt    *time.Time             `json:"scheduled_at"`
	VoucherCode    string                 `json:"voucher_code"`
	Subtotal       int64                  `json:"subtotal" binding:"required,gt=0"`
	Fee            int64                  `json:"fee"`
	ShippingCost   int64                  `json:"shipping_cost"`
}

// QuoteRequest asks for a price breakdown without creating an order
type QuoteRequest struct {
	Service      string `json:"service" binding:"required"`
	VoucherCode  string `json:"voucher_code"`
	Subtotal     int64  `json:"subtotal" binding:"required,gt=0"`
	Fee          int64  `json:"fee"`
	ShippingCost int64  `json:"shipping_cost"`
}

// CallbackRequest is the popup outcome the frontend reports after the
// payment widget closes
type CallbackRequest struct {
	Result string                     `json:"result" binding:"required"`
	Status *gateway.TransactionStatus `json:"status"`
}
