package service

import (
	"context"
	"testing"
	"time"

	"github.com/kiramedia/checkout-api/internal/domain/enum"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/kiramedia/checkout-api/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationEnv struct {
	*checkoutEnv
	notifications *NotificationService
}

func newNotificationEnv(t *testing.T) *notificationEnv {
	t.Helper()
	env := newCheckoutEnv(t)
	notifications := NewNotificationService(
		env.orders,
		env.txs,
		env.gw,
		NewPaymentEffects(env.vouchers, nil),
		resilience.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond, Multiplier: 2},
	)
	return &notificationEnv{checkoutEnv: env, notifications: notifications}
}

func TestProcessNotification_Settlement(t *testing.T) {
	ctx := context.Background()
	env := newNotificationEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	result, err := env.notifications.ProcessNotification(ctx, settlementStatus(begun.Order.OrderNumber))
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.Equal(t, enum.PaymentStatusPaid, result.PaymentStatus)

	order, err := env.orderSvc.GetOrderByNumber(ctx, begun.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, enum.OrderStatusDepositPaid, order.OrderStatus)

	tx, err := env.txs.GetByOrderID(ctx, begun.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.GatewayStatusSettlement, tx.Status)
	assert.Equal(t, int64(555_000), tx.GrossAmount)
	assert.True(t, tx.Processed)
	require.NotNil(t, tx.TransactionTime)
}

func TestProcessNotification_BadSignatureRejected(t *testing.T) {
	ctx := context.Background()
	env := newNotificationEnv(t)
	env.gw.sigValid = false

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	_, err = env.notifications.ProcessNotification(ctx, settlementStatus(begun.Order.OrderNumber))
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 401, appErr.Code)
	assert.Equal(t, apperror.ReasonInvalidSignature, appErr.Reason)

	// Nothing was applied
	order, err := env.orderSvc.GetOrderByNumber(ctx, begun.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusDraft, order.PaymentStatus)
}

func TestProcessNotification_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	env := newNotificationEnv(t)

	_, err := env.notifications.ProcessNotification(ctx, settlementStatus("ORD-NOPE"))
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestProcessNotification_IdempotentUpsert(t *testing.T) {
	ctx := context.Background()
	env := newNotificationEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	first, err := env.notifications.ProcessNotification(ctx, settlementStatus(begun.Order.OrderNumber))
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := env.notifications.ProcessNotification(ctx, settlementStatus(begun.Order.OrderNumber))
	require.NoError(t, err)
	assert.False(t, second.Applied)

	// Still exactly one transaction row for the order
	stats, err := env.txs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
}

func TestProcessNotification_TerminalStateSticks(t *testing.T) {
	ctx := context.Background()
	env := newNotificationEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	settled, err := env.notifications.ProcessNotification(ctx, settlementStatus(begun.Order.OrderNumber))
	require.NoError(t, err)
	assert.True(t, settled.Applied)

	// A late pending notification must not regress the paid order
	late := settlementStatus(begun.Order.OrderNumber)
	late.TransactionStatus = enum.GatewayStatusPending
	result, err := env.notifications.ProcessNotification(ctx, late)
	require.NoError(t, err)
	assert.False(t, result.Applied)

	order, err := env.orderSvc.GetOrderByNumber(ctx, begun.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, order.PaymentStatus)
}

func TestProcessNotification_DenyIsFailed(t *testing.T) {
	ctx := context.Background()
	env := newNotificationEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	denied := settlementStatus(begun.Order.OrderNumber)
	denied.TransactionStatus = enum.GatewayStatusDeny
	result, err := env.notifications.ProcessNotification(ctx, denied)
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.Equal(t, enum.PaymentStatusFailed, result.PaymentStatus)

	order, err := env.orderSvc.GetOrderByNumber(ctx, begun.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusFailed, order.PaymentStatus)
	// A failed payment does not advance fulfilment
	assert.Equal(t, enum.OrderStatusWaitingDeposit, order.OrderStatus)
}

func TestProcessNotification_PendingThenSettlement(t *testing.T) {
	ctx := context.Background()
	env := newNotificationEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	pending := settlementStatus(begun.Order.OrderNumber)
	pending.TransactionStatus = enum.GatewayStatusPending
	result, err := env.notifications.ProcessNotification(ctx, pending)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, enum.PaymentStatusPendingConfirmation, result.PaymentStatus)

	result, err = env.notifications.ProcessNotification(ctx, settlementStatus(begun.Order.OrderNumber))
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, enum.PaymentStatusPaid, result.PaymentStatus)
}
