package service

import (
	"context"
	"strings"
	"testing"

	"github.com/kiramedia/checkout-api/internal/config"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	infraRepo "github.com/kiramedia/checkout-api/internal/infrastructure/repository"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		TaxRateBp:         1100,
		DepositPercentBp:  5000,
		MaxPaymentRetries: 3,
	}
}

func newOrderService(t *testing.T, cfg config.PaymentConfig) (*OrderService, *VoucherService) {
	t.Helper()
	vouchers := NewVoucherService(infraRepo.NewMemoryVoucherRepository())
	orders := NewOrderService(infraRepo.NewMemoryOrderRepository(), vouchers, cfg)
	return orders, vouchers
}

func validOrderInput() *OrderInput {
	return &OrderInput{
		Name:         "Budi Santoso",
		Phone:        "081234567890",
		Email:        "budi@example.com",
		ServiceLabel: "Website Development",
		Subtotal:     1_000_000,
	}
}

func TestCreateOrder_AssemblesOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrderService(t, testPaymentConfig())

	order, err := svc.CreateOrder(ctx, validOrderInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, "Budi Santoso", order.CustomerName)
	assert.Equal(t, "Budi", order.FirstName)
	assert.Equal(t, "Santoso", order.LastName)
	assert.Equal(t, "+6281234567890", order.Phone)
	assert.Equal(t, enum.ServiceTypeWebsite, order.ServiceType)
	assert.Equal(t, enum.OrderStatusWaitingDeposit, order.OrderStatus)
	assert.Equal(t, enum.PaymentStatusDraft, order.PaymentStatus)

	// 1,000,000 + 11% PPN, split 50/50
	assert.Equal(t, int64(1_110_000), order.GrandTotal)
	assert.Equal(t, int64(555_000), order.Deposit)
	assert.Equal(t, int64(555_000), order.Remaining)

	stored, err := svc.GetOrderByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
}

func TestCreateOrder_WithVoucher(t *testing.T) {
	ctx := context.Background()
	svc, vouchers := newOrderService(t, testPaymentConfig())
	seedVoucher(t, vouchers, &entity.Voucher{
		Code:     "DISC10",
		Type:     enum.VoucherTypePercent,
		Value:    10,
		IsActive: true,
	})

	input := validOrderInput()
	input.VoucherCode = "DISC10"

	order, err := svc.CreateOrder(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "DISC10", order.VoucherCode)
	assert.Equal(t, int64(100_000), order.Discount)
	assert.Equal(t, int64(900_000), order.DPP)
	assert.Equal(t, int64(99_000), order.PPN)
	assert.Equal(t, int64(999_000), order.GrandTotal)
	assert.Equal(t, int64(499_500), order.Deposit)
	assert.Equal(t, int64(499_500), order.Remaining)
}

func TestCreateOrder_VoucherRejectionPropagates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrderService(t, testPaymentConfig())

	input := validOrderInput()
	input.VoucherCode = "MISSING"

	_, err := svc.CreateOrder(ctx, input)
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonVoucherNotFound, apperror.GetAppError(err).Reason)
}

func TestCreateOrder_OnsiteServiceSkipsDeposit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrderService(t, testPaymentConfig())

	input := validOrderInput()
	input.ServiceLabel = "onsite service"
	input.DeliveryMethod = "ship"
	input.ShippingCost = 30_000

	order, err := svc.CreateOrder(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, enum.ServiceTypeOnsite, order.ServiceType)
	assert.Equal(t, enum.OrderStatusWaitingOnsitePayment, order.OrderStatus)
	assert.Equal(t, enum.DeliveryMethodShip, order.DeliveryMethod)
	assert.Equal(t, int64(0), order.Deposit)
	assert.Equal(t, order.GrandTotal, order.Remaining)
	assert.Equal(t, order.Remaining, order.AmountDueNow())
}

func TestPrepareOrder_UnknownServiceDefaultsToWebsite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrderService(t, testPaymentConfig())

	input := validOrderInput()
	input.ServiceLabel = "Quantum Consulting"

	order, err := svc.PrepareOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, enum.ServiceTypeWebsite, order.ServiceType)
}

func TestPrepareOrder_UnknownServiceRejectedInStrictMode(t *testing.T) {
	ctx := context.Background()
	cfg := testPaymentConfig()
	cfg.StrictServiceTypes = true
	svc, _ := newOrderService(t, cfg)

	input := validOrderInput()
	input.ServiceLabel = "Quantum Consulting"

	_, err := svc.PrepareOrder(ctx, input)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "service", appErr.Errors[0].Field)
}

func TestPrepareOrder_CollectsFieldErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrderService(t, testPaymentConfig())

	_, err := svc.PrepareOrder(ctx, &OrderInput{
		Name:         "  ",
		Phone:        "0812",
		Email:        "not-an-email",
		ServiceLabel: "website",
		Subtotal:     -5,
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)

	fields := make(map[string]bool)
	for _, fe := range appErr.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["phone"])
	assert.True(t, fields["email"])
	assert.True(t, fields["subtotal"])
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrderService(t, testPaymentConfig())

	order, err := svc.CreateOrder(ctx, validOrderInput())
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, cancelled.OrderStatus)
	assert.Equal(t, enum.PaymentStatusCancelled, cancelled.PaymentStatus)

	// Cancelling twice is rejected
	_, err = svc.CancelOrder(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}
