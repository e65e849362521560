package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/pkg/pagination"
)

// TransactionRepository defines the interface for transaction log operations.
// Rows are never deleted; history is the audit trail.
type TransactionRepository interface {
	// UpsertByOrderID inserts the transaction or, when a row for the same
	// order already exists, overwrites its mutable columns in one statement.
	UpsertByOrderID(ctx context.Context, tx *entity.Transaction) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Transaction, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	Stats(ctx context.Context) (*TransactionStats, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     string
	Processed  *bool
}

// TransactionStats holds aggregate figures over the transaction log
type TransactionStats struct {
	Total       int64            `json:"total"`
	Processed   int64            `json:"processed"`
	ByStatus    map[string]int64 `json:"by_status"`
	GrossVolume int64            `json:"gross_volume"`
	SuccessRate float64          `json:"success_rate"`
}
