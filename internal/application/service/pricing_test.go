package service

import (
	"testing"

	"github.com/kiramedia/checkout-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func TestCalculateAmounts_FullBreakdown(t *testing.T) {
	amounts := CalculateAmounts(AmountInput{
		Subtotal:    1_000_000,
		Discount:    100_000,
		ServiceType: enum.ServiceTypeWebsite,
	})

	assert.Equal(t, int64(1_000_000), amounts.Subtotal)
	assert.Equal(t, int64(100_000), amounts.Discount)
	assert.Equal(t, int64(900_000), amounts.DPP)
	assert.Equal(t, int64(99_000), amounts.PPN)
	assert.Equal(t, int64(999_000), amounts.GrandTotal)
}

func TestCalculateAmounts_DepositSplit(t *testing.T) {
	amounts := CalculateAmounts(AmountInput{
		Subtotal:    1_000_000,
		Discount:    100_000,
		ServiceType: enum.ServiceTypeWebsite,
	})

	assert.Equal(t, int64(499_500), amounts.Deposit)
	assert.Equal(t, int64(499_500), amounts.Remaining)
	assert.Equal(t, amounts.GrandTotal, amounts.Deposit+amounts.Remaining)
}

func TestCalculateAmounts_OnsiteHasNoDeposit(t *testing.T) {
	amounts := CalculateAmounts(AmountInput{
		Subtotal:    500_000,
		Fee:         25_000,
		ServiceType: enum.ServiceTypeOnsite,
	})

	assert.Equal(t, int64(0), amounts.Deposit)
	assert.Equal(t, amounts.GrandTotal, amounts.Remaining)
}

func TestCalculateAmounts_DiscountClampedToSubtotal(t *testing.T) {
	amounts := CalculateAmounts(AmountInput{
		Subtotal:    100_000,
		Discount:    250_000,
		ServiceType: enum.ServiceTypeWebsite,
	})

	assert.Equal(t, int64(100_000), amounts.Discount)
	assert.Equal(t, int64(0), amounts.DPP)
	assert.Equal(t, int64(0), amounts.PPN)
	assert.Equal(t, int64(0), amounts.GrandTotal)
}

func TestCalculateAmounts_FeeAndShippingOutsideTaxBase(t *testing.T) {
	amounts := CalculateAmounts(AmountInput{
		Subtotal:     1_000_000,
		Fee:          50_000,
		ShippingCost: 30_000,
		ServiceType:  enum.ServiceTypeEditing,
	})

	// PPN is computed on the discounted subtotal only
	assert.Equal(t, int64(110_000), amounts.PPN)
	assert.Equal(t, int64(1_190_000), amounts.GrandTotal)
}

func TestCalculateAmounts_RoundsHalfUp(t *testing.T) {
	// 11% of 95 = 10.45 -> 10; 50% of 105 = 52.5 -> 53
	amounts := CalculateAmounts(AmountInput{
		Subtotal:    95,
		ServiceType: enum.ServiceTypeWebsite,
	})
	assert.Equal(t, int64(10), amounts.PPN)

	assert.Equal(t, int64(53), roundBp(105, 5000))
	assert.Equal(t, int64(52), roundBp(104, 5000))
}

func TestCalculateAmounts_NegativeDiscountIgnored(t *testing.T) {
	amounts := CalculateAmounts(AmountInput{
		Subtotal:    200_000,
		Discount:    -500,
		ServiceType: enum.ServiceTypeWebsite,
	})

	assert.Equal(t, int64(0), amounts.Discount)
	assert.Equal(t, int64(200_000), amounts.DPP)
}
