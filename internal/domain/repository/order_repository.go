package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	"github.com/kiramedia/checkout-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	// UpdatePaymentStatus writes the payment status with terminal-state
	// stickiness: the write is skipped (updated=false) when the stored
	// status is already terminal. Non-terminal statuses are last-write-wins.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enum.PaymentStatus) (updated bool, err error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	OrderStatus   *enum.OrderStatus
	PaymentStatus *enum.PaymentStatus
	ServiceType   *enum.ServiceType
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}
