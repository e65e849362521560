package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order represents one customer request for service. Monetary fields are
// whole rupiah (smallest currency unit), never floats.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber string    `gorm:"size:100;uniqueIndex;not null" json:"order_number"`

	// Customer identity
	CustomerName string `gorm:"size:255;not null" json:"customer_name"`
	FirstName    string `gorm:"size:128" json:"first_name"`
	LastName     string `gorm:"size:128" json:"last_name"`
	Phone        string `gorm:"size:32;not null;index" json:"phone"`
	Email        string `gorm:"size:255" json:"email,omitempty"`
	Company      string `gorm:"size:255" json:"company,omitempty"`

	// Requested work
	ServiceType    enum.ServiceType    `gorm:"default:0;index" json:"service_type"`
	Scope          datatypes.JSON      `gorm:"type:jsonb" json:"scope,omitempty"`
	DeliveryMethod enum.DeliveryMethod `gorm:"default:0" json:"delivery_method"`
	ScheduledAt    *time.Time          `json:"scheduled_at,omitempty"`

	// Amounts, derived once by the calculator
	VoucherCode  string `gorm:"size:64" json:"voucher_code,omitempty"`
	Subtotal     int64  `gorm:"default:0" json:"subtotal"`
	Discount     int64  `gorm:"default:0" json:"discount"`
	DPP          int64  `gorm:"default:0" json:"dpp"`
	PPN          int64  `gorm:"default:0" json:"ppn"`
	Fee          int64  `gorm:"default:0" json:"fee"`
	ShippingCost int64  `gorm:"default:0" json:"shipping_cost"`
	GrandTotal   int64  `gorm:"default:0" json:"grand_total"`
	Deposit      int64  `gorm:"default:0" json:"deposit"`
	Remaining    int64  `gorm:"default:0" json:"remaining"`

	OrderStatus   enum.OrderStatus   `gorm:"default:0;index" json:"order_status"`
	PaymentStatus enum.PaymentStatus `gorm:"default:0;index" json:"payment_status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:OrderID" json:"transactions,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// AmountDueNow returns what the customer pays in the current stage: the
// deposit while one is outstanding, the remaining balance otherwise.
func (o *Order) AmountDueNow() int64 {
	if o.OrderStatus == enum.OrderStatusWaitingDeposit && o.Deposit > 0 {
		return o.Deposit
	}
	return o.Remaining
}
