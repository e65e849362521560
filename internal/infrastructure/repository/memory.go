package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/pkg/pagination"
)

// In-memory repository implementations. They satisfy the same interfaces as
// the GORM ones and back two things: running without a configured database,
// and service-level tests. Core services never know which implementation
// they are wired to.

type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]entity.Order
}

// NewMemoryOrderRepository creates an in-memory order repository
func NewMemoryOrderRepository() domainRepo.OrderRepository {
	return &memoryOrderRepository{orders: make(map[uuid.UUID]entity.Order)}
}

func (r *memoryOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	return nil
}

func (r *memoryOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (r *memoryOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			o := order
			return &o, nil
		}
	}
	return nil, nil
}

func (r *memoryOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

func (r *memoryOrderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.Order
	for _, order := range r.orders {
		if params.Search != "" {
			s := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(order.OrderNumber), s) &&
				!strings.Contains(strings.ToLower(order.CustomerName), s) &&
				!strings.Contains(order.Phone, params.Search) {
				continue
			}
		}
		if params.OrderStatus != nil && order.OrderStatus != *params.OrderStatus {
			continue
		}
		if params.PaymentStatus != nil && order.PaymentStatus != *params.PaymentStatus {
			continue
		}
		if params.ServiceType != nil && order.ServiceType != *params.ServiceType {
			continue
		}
		if params.StartDate != nil && order.CreatedAt.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && order.CreatedAt.After(*params.EndDate) {
			continue
		}
		matched = append(matched, order)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	params.Pagination.Validate()
	return pageSlice(matched, params.Pagination), total, nil
}

func (r *memoryOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil
	}
	order.OrderStatus = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

func (r *memoryOrderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enum.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return false, nil
	}
	// Same stickiness rule as the SQL implementation
	if order.PaymentStatus.IsTerminal() {
		return false, nil
	}
	order.PaymentStatus = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return true, nil
}

type memoryVoucherRepository struct {
	mu       sync.RWMutex
	vouchers map[uuid.UUID]entity.Voucher
}

// NewMemoryVoucherRepository creates an in-memory voucher repository
func NewMemoryVoucherRepository() domainRepo.VoucherRepository {
	return &memoryVoucherRepository{vouchers: make(map[uuid.UUID]entity.Voucher)}
}

func (r *memoryVoucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if voucher.ID == uuid.Nil {
		voucher.ID = uuid.New()
	}
	voucher.CreatedAt = time.Now()
	voucher.UpdatedAt = voucher.CreatedAt
	r.vouchers[voucher.ID] = *voucher
	return nil
}

func (r *memoryVoucherRepository) Update(ctx context.Context, voucher *entity.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	voucher.UpdatedAt = time.Now()
	r.vouchers[voucher.ID] = *voucher
	return nil
}

func (r *memoryVoucherRepository) GetByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, voucher := range r.vouchers {
		if strings.EqualFold(voucher.Code, code) {
			v := voucher
			return &v, nil
		}
	}
	return nil, nil
}

func (r *memoryVoucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	voucher, ok := r.vouchers[id]
	if !ok {
		return nil, nil
	}
	return &voucher, nil
}

func (r *memoryVoucherRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Voucher, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]entity.Voucher, 0, len(r.vouchers))
	for _, voucher := range r.vouchers {
		all = append(all, voucher)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	params.Validate()
	return pageSlice(all, params), total, nil
}

func (r *memoryVoucherRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	voucher, ok := r.vouchers[id]
	if !ok {
		return nil
	}
	voucher.UsedCount++
	voucher.UpdatedAt = time.Now()
	r.vouchers[id] = voucher
	return nil
}

func (r *memoryVoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vouchers, id)
	return nil
}

type memoryTransactionRepository struct {
	mu  sync.RWMutex
	txs map[uuid.UUID]entity.Transaction // keyed by order ID
}

// NewMemoryTransactionRepository creates an in-memory transaction repository
func NewMemoryTransactionRepository() domainRepo.TransactionRepository {
	return &memoryTransactionRepository{txs: make(map[uuid.UUID]entity.Transaction)}
}

func (r *memoryTransactionRepository) UpsertByOrderID(ctx context.Context, tx *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.txs[tx.OrderID]; ok {
		tx.ID = existing.ID
		tx.CreatedAt = existing.CreatedAt
	} else {
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		tx.CreatedAt = time.Now()
	}
	tx.UpdatedAt = time.Now()
	r.txs[tx.OrderID] = *tx
	return nil
}

func (r *memoryTransactionRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.txs[orderID]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (r *memoryTransactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.Transaction
	for _, tx := range r.txs {
		if params.Status != "" && tx.Status != params.Status {
			continue
		}
		if params.Processed != nil && tx.Processed != *params.Processed {
			continue
		}
		matched = append(matched, tx)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	params.Pagination.Validate()
	return pageSlice(matched, params.Pagination), total, nil
}

func (r *memoryTransactionRepository) Stats(ctx context.Context) (*domainRepo.TransactionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domainRepo.TransactionStats{ByStatus: make(map[string]int64)}
	var settled int64
	for _, tx := range r.txs {
		stats.Total++
		if tx.Processed {
			stats.Processed++
		}
		stats.ByStatus[tx.Status]++
		if tx.Status == enum.GatewayStatusSettlement || tx.Status == enum.GatewayStatusCapture {
			settled++
			stats.GrossVolume += tx.GrossAmount
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(settled) / float64(stats.Total)
	}
	return stats, nil
}

type memoryIdempotencyRepository struct {
	mu   sync.RWMutex
	keys map[string]entity.IdempotencyKey
}

// NewMemoryIdempotencyRepository creates an in-memory idempotency repository
func NewMemoryIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &memoryIdempotencyRepository{keys: make(map[string]entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepository) GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ikey, ok := r.keys[key]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *memoryIdempotencyRepository) Create(ctx context.Context, key *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	key.CreatedAt = time.Now()
	r.keys[key.Key] = *key
	return nil
}

func (r *memoryIdempotencyRepository) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for k, v := range r.keys {
		if v.ExpiresAt.Before(now) {
			delete(r.keys, k)
		}
	}
	return nil
}

// pageSlice applies offset/limit pagination to an already sorted slice
func pageSlice[T any](items []T, params *pagination.PaginationParams) []T {
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
