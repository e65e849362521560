package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

// UpsertByOrderID writes the transaction in a single INSERT ... ON CONFLICT
// statement keyed on order_id, so the orchestrator and the webhook reconciler
// cannot lose each other's updates in an insert-then-update window.
func (r *transactionRepository) UpsertByOrderID(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"gateway_transaction_id",
			"gross_amount",
			"payment_type",
			"status",
			"raw_payload",
			"retry_count",
			"processed",
			"transaction_time",
			"updated_at",
		}),
	}).Create(tx).Error
}

func (r *transactionRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := r.db.WithContext(ctx).First(&tx, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tx, err
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var txs []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Processed != nil {
		query = query.Where("processed = ?", *params.Processed)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&txs).Error

	return txs, total, err
}

func (r *transactionRepository) Stats(ctx context.Context) (*domainRepo.TransactionStats, error) {
	stats := &domainRepo.TransactionStats{ByStatus: make(map[string]int64)}

	if err := r.db.WithContext(ctx).Model(&entity.Transaction{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("processed = ?", true).Count(&stats.Processed).Error; err != nil {
		return nil, err
	}

	type statusRow struct {
		Status string
		Count  int64
		Gross  int64
	}
	var rows []statusRow
	if err := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(gross_amount), 0) AS gross").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var settledCount int64
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		switch row.Status {
		case "settlement", "capture":
			settledCount += row.Count
			stats.GrossVolume += row.Gross
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(settledCount) / float64(stats.Total)
	}

	return stats, nil
}
