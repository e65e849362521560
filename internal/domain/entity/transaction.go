package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Transaction is one record of a payment-gateway interaction for an order.
// Rows are upserted keyed on OrderID so that repeated notifications for the
// same order overwrite with identical values instead of duplicating; rows are
// never deleted (audit requirement).
type Transaction struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID              uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	OrderNumber          string         `gorm:"size:100;not null;index" json:"order_number"`
	GatewayTransactionID string         `gorm:"size:100;index" json:"gateway_transaction_id"`
	GrossAmount          int64          `gorm:"not null" json:"gross_amount"`
	PaymentType          string         `gorm:"size:50" json:"payment_type"`
	Status               string         `gorm:"size:32;not null;default:pending;index" json:"status"`
	RawPayload           datatypes.JSON `gorm:"type:jsonb" json:"raw_payload,omitempty"`
	RetryCount           int            `gorm:"default:0" json:"retry_count"`
	Processed            bool           `gorm:"default:false" json:"processed"`
	TransactionTime      *time.Time     `json:"transaction_time,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
