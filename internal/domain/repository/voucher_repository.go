package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/pkg/pagination"
)

// VoucherRepository defines the interface for voucher data operations
type VoucherRepository interface {
	Create(ctx context.Context, voucher *entity.Voucher) error
	Update(ctx context.Context, voucher *entity.Voucher) error
	// GetByCode matches codes case-insensitively; returns nil, nil when absent
	GetByCode(ctx context.Context, code string) (*entity.Voucher, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Voucher, int64, error)
	// IncrementUsage atomically bumps used_count by one
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
