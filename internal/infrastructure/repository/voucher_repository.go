package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/pkg/pagination"
	"gorm.io/gorm"
)

type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) domainRepo.VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *voucherRepository) Update(ctx context.Context, voucher *entity.Voucher) error {
	return r.db.WithContext(ctx).Save(voucher).Error
}

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := r.db.WithContext(ctx).First(&voucher, "LOWER(code) = LOWER(?)", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

func (r *voucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := r.db.WithContext(ctx).First(&voucher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

func (r *voucherRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Voucher, int64, error) {
	var vouchers []entity.Voucher
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Voucher{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&vouchers).Error

	return vouchers, total, err
}

func (r *voucherRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Voucher{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}

func (r *voucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Voucher{}, "id = ?", id).Error
}
