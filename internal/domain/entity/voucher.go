package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Voucher represents a discount code managed by the admin panel
type Voucher struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Code       string           `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Type       enum.VoucherType `gorm:"default:0" json:"type"`
	Value      int64            `gorm:"not null" json:"value"`
	MinSpend   *int64           `json:"min_spend,omitempty"`
	MaxUses    *int             `json:"max_uses,omitempty"`
	UsedCount  int              `gorm:"default:0" json:"used_count"`
	ValidUntil *time.Time       `json:"valid_until,omitempty"`
	IsActive   bool             `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new voucher
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// IsExpired reports whether the voucher's validity window has passed
func (v *Voucher) IsExpired(now time.Time) bool {
	return v.ValidUntil != nil && v.ValidUntil.Before(now)
}

// IsExhausted reports whether the voucher's usage limit has been reached
func (v *Voucher) IsExhausted() bool {
	return v.MaxUses != nil && v.UsedCount >= *v.MaxUses
}
