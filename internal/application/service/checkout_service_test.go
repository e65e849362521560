package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/internal/infrastructure/gateway"
	infraRepo "github.com/kiramedia/checkout-api/internal/infrastructure/repository"
	"github.com/kiramedia/checkout-api/internal/infrastructure/session"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/kiramedia/checkout-api/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway is a scriptable gateway client for tests
type fakeGateway struct {
	token       *gateway.SnapToken
	tokenErr    error
	status      *gateway.TransactionStatus
	statusErr   error
	sigValid    bool
	createCalls int
	statusCalls int
}

func (f *fakeGateway) CreateTransaction(ctx context.Context, req *gateway.SnapRequest) (*gateway.SnapToken, error) {
	f.createCalls++
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return f.token, nil
}

func (f *fakeGateway) GetStatus(ctx context.Context, orderID string) (*gateway.TransactionStatus, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakeGateway) VerifySignature(status *gateway.TransactionStatus) bool {
	return f.sigValid
}

type checkoutEnv struct {
	orders   domainRepo.OrderRepository
	txs      domainRepo.TransactionRepository
	vouchers *VoucherService
	orderSvc *OrderService
	checkout *CheckoutService
	gw       *fakeGateway
	sessions session.Store
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()

	orders := infraRepo.NewMemoryOrderRepository()
	txs := infraRepo.NewMemoryTransactionRepository()
	vouchers := NewVoucherService(infraRepo.NewMemoryVoucherRepository())
	orderSvc := NewOrderService(orders, vouchers, testPaymentConfig())
	sessions := session.NewMemoryStore(time.Hour)
	gw := &fakeGateway{
		token:    &gateway.SnapToken{Token: "snap-token", RedirectURL: "https://pay.example/snap-token"},
		sigValid: true,
	}

	checkout := NewCheckoutService(
		orders,
		txs,
		orderSvc,
		gw,
		sessions,
		NewPaymentEffects(vouchers, nil),
		resilience.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond, Multiplier: 2},
		3,
	)

	return &checkoutEnv{
		orders:   orders,
		txs:      txs,
		vouchers: vouchers,
		orderSvc: orderSvc,
		checkout: checkout,
		gw:       gw,
		sessions: sessions,
	}
}

func settlementStatus(orderNumber string) *gateway.TransactionStatus {
	return &gateway.TransactionStatus{
		OrderID:           orderNumber,
		TransactionID:     "tx-123",
		TransactionStatus: enum.GatewayStatusSettlement,
		StatusCode:        "200",
		PaymentType:       "qris",
		GrossAmount:       "555000.00",
		TransactionTime:   "2025-01-10 10:00:00",
	}
}

func TestBeginCheckout(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)

	result, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	assert.Equal(t, "snap-token", result.SnapToken)
	assert.Equal(t, session.StateAwaitingGatewayResult, result.Session.State)
	assert.Equal(t, 1, result.Session.Attempts)

	// The first attempt opens the transaction log row as pending
	tx, err := env.txs.GetByOrderID(ctx, result.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, enum.GatewayStatusPending, tx.Status)
	assert.Equal(t, result.Order.Deposit, tx.GrossAmount)
	assert.False(t, tx.Processed)
}

func TestBeginCheckout_GatewayDownAfterRetries(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)
	env.gw.tokenErr = &gateway.TransientError{Err: assert.AnError}

	_, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 502, appErr.Code)
	assert.Equal(t, apperror.ReasonGatewayUnavailable, appErr.Reason)
	// 1 attempt + 2 retries
	assert.Equal(t, 3, env.gw.createCalls)
}

func TestHandleCallback_SettlementAdvancesOrder(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)
	seedVoucher(t, env.vouchers, &entity.Voucher{
		Code:     "DISC10",
		Type:     enum.VoucherTypePercent,
		Value:    10,
		IsActive: true,
	})

	input := validOrderInput()
	input.VoucherCode = "DISC10"
	begun, err := env.checkout.BeginCheckout(ctx, input)
	require.NoError(t, err)

	outcome, err := env.checkout.HandleCallback(ctx, begun.Order.OrderNumber, &CallbackInput{
		Result: CallbackResultSuccess,
		Status: settlementStatus(begun.Order.OrderNumber),
	})
	require.NoError(t, err)

	assert.Equal(t, session.StatePaid, outcome.Session.State)
	assert.Equal(t, enum.PaymentStatusPaid, outcome.Order.PaymentStatus)
	assert.Equal(t, enum.OrderStatusDepositPaid, outcome.Order.OrderStatus)
	assert.Empty(t, outcome.Warning)

	tx, err := env.txs.GetByOrderID(ctx, begun.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.GatewayStatusSettlement, tx.Status)
	assert.True(t, tx.Processed)

	// Settlement redeems the voucher exactly once
	voucher, err := env.vouchers.GetVoucher(ctx, mustVoucherID(t, env.vouchers, "DISC10"))
	require.NoError(t, err)
	assert.Equal(t, 1, voucher.UsedCount)

	// A duplicate settlement signal changes nothing
	_, err = env.checkout.HandleCallback(ctx, begun.Order.OrderNumber, &CallbackInput{
		Result: CallbackResultSuccess,
		Status: settlementStatus(begun.Order.OrderNumber),
	})
	require.NoError(t, err)
	voucher, err = env.vouchers.GetVoucher(ctx, voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voucher.UsedCount)
}

func mustVoucherID(t *testing.T, svc *VoucherService, code string) uuid.UUID {
	t.Helper()
	v, err := svc.voucherRepo.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v.ID
}

func TestHandleCallback_CloseIsNotFailure(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	outcome, err := env.checkout.HandleCallback(ctx, begun.Order.OrderNumber, &CallbackInput{
		Result: CallbackResultClose,
	})
	require.NoError(t, err)

	assert.Equal(t, session.StateClosed, outcome.Session.State)
	// The customer only dismissed the popup: payment state is untouched
	assert.Equal(t, enum.PaymentStatusDraft, outcome.Order.PaymentStatus)
}

func TestHandleCallback_ErrorExhaustsAttempts(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	// Attempt 2 of 3: still allowed to retry
	outcome, err := env.checkout.HandleCallback(ctx, begun.Order.OrderNumber, &CallbackInput{
		Result: CallbackResultError,
	})
	require.NoError(t, err)
	assert.Equal(t, session.StateSelectingMethod, outcome.Session.State)
	assert.Equal(t, 2, outcome.Session.Attempts)
	assert.Equal(t, enum.PaymentStatusDraft, outcome.Order.PaymentStatus)

	// Attempt 3 of 3: cap reached, the attempt is failed for good
	outcome, err = env.checkout.HandleCallback(ctx, begun.Order.OrderNumber, &CallbackInput{
		Result: CallbackResultError,
	})
	require.NoError(t, err)
	assert.Equal(t, session.StateFailed, outcome.Session.State)
	assert.Equal(t, enum.PaymentStatusFailed, outcome.Order.PaymentStatus)
}

func TestHandleCallback_UnknownResultRejected(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	_, err = env.checkout.HandleCallback(ctx, begun.Order.OrderNumber, &CallbackInput{Result: "maybe"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestPollStatus_ReconcilesFromGateway(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)
	env.gw.status = settlementStatus(begun.Order.OrderNumber)

	outcome, err := env.checkout.PollStatus(ctx, begun.Order.OrderNumber)
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentStatusPaid, outcome.Order.PaymentStatus)
	assert.Equal(t, enum.OrderStatusDepositPaid, outcome.Order.OrderStatus)
	assert.Equal(t, session.StatePaid, outcome.Session.State)
	assert.Equal(t, enum.GatewayStatusSettlement, outcome.Session.LastStatus)
}

func TestPollStatus_UnknownGatewayStatusFallsBackToPending(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)
	status := settlementStatus(begun.Order.OrderNumber)
	status.TransactionStatus = "reviewing"
	env.gw.status = status

	outcome, err := env.checkout.PollStatus(ctx, begun.Order.OrderNumber)
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentStatusPendingConfirmation, outcome.Order.PaymentStatus)
	assert.Equal(t, session.StatePendingConfirmation, outcome.Session.State)
}

func TestRetryPayment_CapEnforced(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)

	// Attempts 2 and 3 succeed, the fourth is refused
	for i := 0; i < 2; i++ {
		_, err = env.checkout.RetryPayment(ctx, begun.Order.OrderNumber)
		require.NoError(t, err)
	}
	_, err = env.checkout.RetryPayment(ctx, begun.Order.OrderNumber)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestRetryPayment_SettledOrderRefused(t *testing.T) {
	ctx := context.Background()
	env := newCheckoutEnv(t)

	begun, err := env.checkout.BeginCheckout(ctx, validOrderInput())
	require.NoError(t, err)
	_, err = env.checkout.HandleCallback(ctx, begun.Order.OrderNumber, &CallbackInput{
		Result: CallbackResultSuccess,
		Status: settlementStatus(begun.Order.OrderNumber),
	})
	require.NoError(t, err)

	_, err = env.checkout.RetryPayment(ctx, begun.Order.OrderNumber)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}
