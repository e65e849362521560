package service

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/internal/infrastructure/gateway"
	"gorm.io/datatypes"
)

const gatewayTimeLayout = "2006-01-02 15:04:05"

// reconciler applies a gateway transaction result to an order. All three
// signal paths (popup callback, status poll, webhook notification) converge
// here so the transition rules exist exactly once.
type reconciler struct {
	orderRepo       domainRepo.OrderRepository
	transactionRepo domainRepo.TransactionRepository
}

// recordResult upserts the transaction log row and moves the order's payment
// status. Terminal payment statuses are sticky: the repository refuses the
// write and updated comes back false, which also suppresses the one-time
// side effects (voucher redemption, receipt email) on duplicate signals.
func (r *reconciler) recordResult(ctx context.Context, order *entity.Order, status *gateway.TransactionStatus) (mapped enum.PaymentStatus, updated bool, err error) {
	mapped, known := enum.MapGatewayStatus(status.TransactionStatus)
	if !known {
		log.Printf("order %s: unknown gateway status %q, treating as %s",
			order.OrderNumber, status.TransactionStatus, mapped)
	}

	// Once settled, both the order and its transaction log row are frozen;
	// late or replayed signals are acknowledged without writing anything.
	if order.PaymentStatus.IsTerminal() {
		log.Printf("order %s: payment already %s, ignoring %q signal",
			order.OrderNumber, order.PaymentStatus, status.TransactionStatus)
		return mapped, false, nil
	}

	if err := r.transactionRepo.UpsertByOrderID(ctx, buildTransaction(order, status, mapped)); err != nil {
		return mapped, false, err
	}

	updated, err = r.orderRepo.UpdatePaymentStatus(ctx, order.ID, mapped)
	if err != nil {
		return mapped, false, err
	}
	if !updated {
		log.Printf("order %s: payment status already terminal, ignoring %q signal",
			order.OrderNumber, status.TransactionStatus)
		return mapped, false, nil
	}
	order.PaymentStatus = mapped

	if mapped == enum.PaymentStatusPaid {
		if next, ok := order.OrderStatus.NextOnPayment(); ok {
			if err := r.orderRepo.UpdateOrderStatus(ctx, order.ID, next); err != nil {
				return mapped, updated, err
			}
			order.OrderStatus = next
		}
	}
	return mapped, updated, nil
}

// buildTransaction maps a gateway status payload onto the transaction log row
func buildTransaction(order *entity.Order, status *gateway.TransactionStatus, mapped enum.PaymentStatus) *entity.Transaction {
	tx := &entity.Transaction{
		OrderID:              order.ID,
		OrderNumber:          order.OrderNumber,
		GatewayTransactionID: status.TransactionID,
		GrossAmount:          parseGrossAmount(status.GrossAmount),
		PaymentType:          status.PaymentType,
		Status:               status.TransactionStatus,
		Processed:            mapped.IsTerminal(),
	}
	if raw, err := json.Marshal(status); err == nil {
		tx.RawPayload = datatypes.JSON(raw)
	}
	if t, err := time.Parse(gatewayTimeLayout, status.TransactionTime); err == nil {
		tx.TransactionTime = &t
	}
	return tx
}

// parseGrossAmount converts the gateway's decimal-string amount ("999000.00")
// to whole rupiah. Unparseable values become zero rather than failing the
// whole notification.
func parseGrossAmount(s string) int64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("unparseable gross_amount %q", s)
		return 0
	}
	return int64(f + 0.5)
}
