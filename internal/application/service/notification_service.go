package service

import (
	"context"
	"log"

	"github.com/kiramedia/checkout-api/internal/domain/enum"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/internal/infrastructure/gateway"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/kiramedia/checkout-api/pkg/resilience"
)

// NotificationResult summarizes what a webhook notification did
type NotificationResult struct {
	OrderNumber   string             `json:"order_number"`
	GatewayStatus string             `json:"gateway_status"`
	PaymentStatus enum.PaymentStatus `json:"payment_status"`
	Applied       bool               `json:"applied"`
}

// NotificationService reconciles asynchronous gateway webhook notifications
// against orders. The gateway is the source of truth for payment outcomes;
// this path must converge even when the popup callback never arrived.
type NotificationService struct {
	reconciler
	gateway gateway.Client
	effects *PaymentEffects

	persistRetry resilience.RetryPolicy
}

// NewNotificationService creates the webhook reconciler
func NewNotificationService(
	orderRepo domainRepo.OrderRepository,
	transactionRepo domainRepo.TransactionRepository,
	gatewayClient gateway.Client,
	effects *PaymentEffects,
	persistRetry resilience.RetryPolicy,
) *NotificationService {
	return &NotificationService{
		reconciler:   reconciler{orderRepo: orderRepo, transactionRepo: transactionRepo},
		gateway:      gatewayClient,
		effects:      effects,
		persistRetry: persistRetry,
	}
}

// ProcessNotification applies one webhook notification. The signature check
// is the gate: nothing is read from an unsigned payload. Persistence is
// retried; if it still fails the notification is rejected so the gateway
// redelivers it.
func (s *NotificationService) ProcessNotification(ctx context.Context, payload *gateway.TransactionStatus) (*NotificationResult, error) {
	if !s.gateway.VerifySignature(payload) {
		log.Printf("webhook rejected: bad signature for order_id %q", payload.OrderID)
		return nil, apperror.ErrInvalidSignature
	}

	order, err := s.orderRepo.GetByOrderNumber(ctx, payload.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		log.Printf("webhook for unknown order %q", payload.OrderID)
		return nil, apperror.NewNotFoundError("Order")
	}

	var (
		mapped  enum.PaymentStatus
		updated bool
	)
	err = resilience.Retry(ctx, s.persistRetry, resilience.RetryAlways, func(ctx context.Context) error {
		var recordErr error
		mapped, updated, recordErr = s.recordResult(ctx, order, payload)
		return recordErr
	})
	if err != nil {
		log.Printf("webhook for order %s: persistence failed after retries, manual intervention required: %v",
			order.OrderNumber, err)
		return nil, err
	}

	if updated && mapped == enum.PaymentStatusPaid {
		s.effects.OnPaid(ctx, order, parseGrossAmount(payload.GrossAmount))
	}

	return &NotificationResult{
		OrderNumber:   order.OrderNumber,
		GatewayStatus: payload.TransactionStatus,
		PaymentStatus: order.PaymentStatus,
		Applied:       updated,
	}, nil
}
