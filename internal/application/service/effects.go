package service

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/pkg/email"
)

// PaymentEffects runs the one-time side effects of a settled payment:
// voucher redemption and the receipt email. Callers invoke it only when the
// payment status write actually happened, so a duplicate settlement signal
// never redeems a voucher twice or re-sends the receipt.
type PaymentEffects struct {
	vouchers     *VoucherService
	emailService *email.EmailService
}

// NewPaymentEffects creates the settled-payment side-effect runner
func NewPaymentEffects(vouchers *VoucherService, emailService *email.EmailService) *PaymentEffects {
	return &PaymentEffects{vouchers: vouchers, emailService: emailService}
}

// OnPaid is best effort: a failed redemption or email never rolls back the
// payment, it is logged for manual follow-up.
func (e *PaymentEffects) OnPaid(ctx context.Context, order *entity.Order, amountPaid int64) {
	if e == nil {
		return
	}

	if order.VoucherCode != "" {
		if err := e.vouchers.Redeem(ctx, order.VoucherCode); err != nil {
			log.Printf("order %s: voucher %s redemption failed: %v", order.OrderNumber, order.VoucherCode, err)
		}
	}

	if order.Email == "" || e.emailService == nil || !e.emailService.Enabled() {
		return
	}
	data := email.ReceiptData{
		CustomerName: order.CustomerName,
		OrderNumber:  order.OrderNumber,
		ServiceName:  order.ServiceType.Label(),
		GrandTotal:   FormatRupiah(order.GrandTotal),
		AmountPaid:   FormatRupiah(amountPaid),
		PaidAt:       time.Now().Format("2 Jan 2006 15:04"),
	}
	if remaining := order.GrandTotal - amountPaid; remaining > 0 {
		data.Remaining = FormatRupiah(remaining)
	}
	if err := e.emailService.SendPaymentReceipt(order.Email, data); err != nil {
		log.Printf("order %s: receipt email failed: %v", order.OrderNumber, err)
	}
}

// FormatRupiah renders whole rupiah with dot thousand separators: Rp 1.500.000
func FormatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if negative {
		return "-Rp " + string(out)
	}
	return "Rp " + string(out)
}
