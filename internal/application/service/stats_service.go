package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/kiramedia/checkout-api/pkg/pagination"
)

// StatsService exposes the transaction log and its aggregates to the admin panel
type StatsService struct {
	transactionRepo domainRepo.TransactionRepository
}

// NewStatsService creates a new stats service
func NewStatsService(transactionRepo domainRepo.TransactionRepository) *StatsService {
	return &StatsService{transactionRepo: transactionRepo}
}

// GetStats returns aggregate figures over the transaction log
func (s *StatsService) GetStats(ctx context.Context) (*domainRepo.TransactionStats, error) {
	return s.transactionRepo.Stats(ctx)
}

// ListTransactions returns a filtered page of transaction log rows
func (s *StatsService) ListTransactions(ctx context.Context, params *domainRepo.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	transactions, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(transactions, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// GetOrderTransaction returns the transaction log row for one order
func (s *StatsService) GetOrderTransaction(ctx context.Context, orderID uuid.UUID) (*entity.Transaction, error) {
	tx, err := s.transactionRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return tx, nil
}
