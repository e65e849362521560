package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/kiramedia/checkout-api/pkg/pagination"
)

// VoucherService validates, applies and administers discount vouchers
type VoucherService struct {
	voucherRepo domainRepo.VoucherRepository
}

// NewVoucherService creates a new voucher service
func NewVoucherService(voucherRepo domainRepo.VoucherRepository) *VoucherService {
	return &VoucherService{voucherRepo: voucherRepo}
}

// ValidateVoucher runs the eligibility checks in a fixed order so a voucher
// that is both inactive and expired is always reported as inactive. A nil
// voucher means the code did not resolve.
func ValidateVoucher(v *entity.Voucher, subtotal int64, now time.Time) error {
	if v == nil {
		return apperror.ErrVoucherNotFound
	}
	if !v.IsActive {
		return apperror.ErrVoucherInactive
	}
	if v.IsExpired(now) {
		return apperror.ErrVoucherExpired
	}
	if v.IsExhausted() {
		return apperror.ErrVoucherMaxUses
	}
	if v.MinSpend != nil && subtotal < *v.MinSpend {
		return apperror.ErrVoucherMinSpend
	}
	return nil
}

// CalculateDiscount returns the rupiah discount a voucher grants on a
// subtotal. Percent vouchers round half up; the result never exceeds the
// subtotal.
func CalculateDiscount(v *entity.Voucher, subtotal int64) int64 {
	var discount int64
	switch v.Type {
	case enum.VoucherTypePercent:
		discount = (subtotal*v.Value + 50) / 100
	case enum.VoucherTypeNominal:
		discount = v.Value
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

// ApplyCode resolves a voucher code, validates it against the subtotal and
// returns the discount it grants. An empty code is not an error: it means no
// voucher, zero discount.
func (s *VoucherService) ApplyCode(ctx context.Context, code string, subtotal int64, now time.Time) (int64, *entity.Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, nil, nil
	}

	voucher, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return 0, nil, apperror.NewAppError(500, "Failed to look up voucher")
	}
	if err := ValidateVoucher(voucher, subtotal, now); err != nil {
		return 0, nil, err
	}
	return CalculateDiscount(voucher, subtotal), voucher, nil
}

// Redeem bumps the usage counter for a voucher code. Called once per order
// when the paying transaction settles, never at validation time.
func (s *VoucherService) Redeem(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}

	voucher, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if voucher == nil {
		log.Printf("voucher redemption skipped: code %s no longer exists", code)
		return nil
	}
	return s.voucherRepo.IncrementUsage(ctx, voucher.ID)
}

// CreateVoucher creates a voucher from the admin panel
func (s *VoucherService) CreateVoucher(ctx context.Context, voucher *entity.Voucher) error {
	voucher.Code = strings.ToUpper(strings.TrimSpace(voucher.Code))

	var fieldErrors []apperror.FieldError
	if voucher.Code == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "code", Message: "Code is required"})
	}
	if voucher.Value <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: "Value must be positive"})
	}
	if voucher.Type == enum.VoucherTypePercent && voucher.Value > 100 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: "Percent value cannot exceed 100"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.voucherRepo.GetByCode(ctx, voucher.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.ErrConflict
	}
	return s.voucherRepo.Create(ctx, voucher)
}

// UpdateVoucher updates a voucher's mutable fields
func (s *VoucherService) UpdateVoucher(ctx context.Context, voucher *entity.Voucher) error {
	existing, err := s.voucherRepo.GetByID(ctx, voucher.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFoundError("Voucher")
	}
	return s.voucherRepo.Update(ctx, voucher)
}

// GetVoucher fetches a voucher by id
func (s *VoucherService) GetVoucher(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}
	return voucher, nil
}

// ListVouchers returns a page of vouchers for the admin panel
func (s *VoucherService) ListVouchers(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Voucher], error) {
	params.Validate()
	vouchers, total, err := s.voucherRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(vouchers, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// DeleteVoucher removes a voucher
func (s *VoucherService) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if voucher == nil {
		return apperror.NewNotFoundError("Voucher")
	}
	return s.voucherRepo.Delete(ctx, id)
}
