package service

import (
	"context"
	"testing"
	"time"

	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	infraRepo "github.com/kiramedia/checkout-api/internal/infrastructure/repository"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func seedVoucher(t *testing.T, svc *VoucherService, v *entity.Voucher) {
	t.Helper()
	require.NoError(t, svc.CreateVoucher(context.Background(), v))
}

func newVoucherService(t *testing.T) *VoucherService {
	t.Helper()
	return NewVoucherService(infraRepo.NewMemoryVoucherRepository())
}

func TestValidateVoucher_CheckOrder(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)

	// A voucher that is inactive, expired, exhausted and below min spend at
	// once must be rejected as inactive: the checks run in a fixed order.
	v := &entity.Voucher{
		Code:       "BROKEN",
		Type:       enum.VoucherTypePercent,
		Value:      10,
		MinSpend:   int64Ptr(5_000_000),
		MaxUses:    intPtr(1),
		UsedCount:  1,
		ValidUntil: &past,
		IsActive:   false,
	}

	err := ValidateVoucher(v, 1_000, now)
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonVoucherInactive, apperror.GetAppError(err).Reason)

	v.IsActive = true
	err = ValidateVoucher(v, 1_000, now)
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonVoucherExpired, apperror.GetAppError(err).Reason)

	v.ValidUntil = nil
	err = ValidateVoucher(v, 1_000, now)
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonVoucherMaxUses, apperror.GetAppError(err).Reason)

	v.UsedCount = 0
	err = ValidateVoucher(v, 1_000, now)
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonVoucherMinSpend, apperror.GetAppError(err).Reason)

	assert.NoError(t, ValidateVoucher(v, 5_000_000, now))
}

func TestValidateVoucher_NilIsNotFound(t *testing.T) {
	err := ValidateVoucher(nil, 1_000_000, time.Now())
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonVoucherNotFound, apperror.GetAppError(err).Reason)
}

func TestCalculateDiscount(t *testing.T) {
	percent := &entity.Voucher{Type: enum.VoucherTypePercent, Value: 10}
	assert.Equal(t, int64(100_000), CalculateDiscount(percent, 1_000_000))

	nominal := &entity.Voucher{Type: enum.VoucherTypeNominal, Value: 50_000}
	assert.Equal(t, int64(50_000), CalculateDiscount(nominal, 1_000_000))

	// Nominal discounts never exceed the subtotal
	big := &entity.Voucher{Type: enum.VoucherTypeNominal, Value: 250_000}
	assert.Equal(t, int64(100_000), CalculateDiscount(big, 100_000))

	// Percent rounds half up: 15% of 333 = 49.95 -> 50
	odd := &entity.Voucher{Type: enum.VoucherTypePercent, Value: 15}
	assert.Equal(t, int64(50), CalculateDiscount(odd, 333))
}

func TestApplyCode(t *testing.T) {
	ctx := context.Background()
	svc := newVoucherService(t)
	seedVoucher(t, svc, &entity.Voucher{
		Code:     "DISC10",
		Type:     enum.VoucherTypePercent,
		Value:    10,
		IsActive: true,
	})

	discount, voucher, err := svc.ApplyCode(ctx, "disc10", 1_000_000, time.Now())
	require.NoError(t, err)
	require.NotNil(t, voucher)
	assert.Equal(t, int64(100_000), discount)

	// Empty code means no voucher, not an error
	discount, voucher, err = svc.ApplyCode(ctx, "", 1_000_000, time.Now())
	require.NoError(t, err)
	assert.Nil(t, voucher)
	assert.Equal(t, int64(0), discount)

	_, _, err = svc.ApplyCode(ctx, "NOPE", 1_000_000, time.Now())
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonVoucherNotFound, apperror.GetAppError(err).Reason)
}

func TestApplyCode_Expired(t *testing.T) {
	ctx := context.Background()
	svc := newVoucherService(t)
	past := time.Now().Add(-time.Hour)
	seedVoucher(t, svc, &entity.Voucher{
		Code:       "EXPIRED1",
		Type:       enum.VoucherTypeNominal,
		Value:      50_000,
		ValidUntil: &past,
		IsActive:   true,
	})

	_, _, err := svc.ApplyCode(ctx, "EXPIRED1", 1_000_000, time.Now())
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonVoucherExpired, apperror.GetAppError(err).Reason)
}

func TestRedeemIncrementsUsage(t *testing.T) {
	ctx := context.Background()
	repo := infraRepo.NewMemoryVoucherRepository()
	svc := NewVoucherService(repo)
	seedVoucher(t, svc, &entity.Voucher{
		Code:     "ONCE",
		Type:     enum.VoucherTypeNominal,
		Value:    10_000,
		MaxUses:  intPtr(1),
		IsActive: true,
	})

	require.NoError(t, svc.Redeem(ctx, "ONCE"))

	stored, err := repo.GetByCode(ctx, "ONCE")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.UsedCount)
	assert.True(t, stored.IsExhausted())
}

func TestCreateVoucher_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	svc := newVoucherService(t)
	seedVoucher(t, svc, &entity.Voucher{
		Code:     "TWICE",
		Type:     enum.VoucherTypeNominal,
		Value:    10_000,
		IsActive: true,
	})

	err := svc.CreateVoucher(ctx, &entity.Voucher{
		Code:     "twice",
		Type:     enum.VoucherTypeNominal,
		Value:    20_000,
		IsActive: true,
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestCreateVoucher_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newVoucherService(t)

	err := svc.CreateVoucher(ctx, &entity.Voucher{
		Code:  "BADPCT",
		Type:  enum.VoucherTypePercent,
		Value: 150,
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	assert.NotEmpty(t, appErr.Errors)
}
