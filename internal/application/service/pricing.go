package service

import (
	"github.com/kiramedia/checkout-api/internal/domain/enum"
)

// Basis-point denominators. All rates are expressed in basis points so money
// math stays in int64 rupiah end to end.
const (
	bpDenominator         = 10000
	DefaultTaxRateBp      = 1100 // PPN 11%
	DefaultDepositShareBp = 5000 // 50% deposit
)

// AmountInput is everything the calculator needs to price an order
type AmountInput struct {
	Subtotal     int64
	Discount     int64
	Fee          int64
	ShippingCost int64
	ServiceType  enum.ServiceType

	// Zero values fall back to the defaults above
	TaxRateBp        int64
	DepositPercentBp int64
}

// Amounts is the full derived price breakdown for an order
type Amounts struct {
	Subtotal     int64 `json:"subtotal"`
	Discount     int64 `json:"discount"`
	DPP          int64 `json:"dpp"`
	PPN          int64 `json:"ppn"`
	Fee          int64 `json:"fee"`
	ShippingCost int64 `json:"shipping_cost"`
	GrandTotal   int64 `json:"grand_total"`
	Deposit      int64 `json:"deposit"`
	Remaining    int64 `json:"remaining"`
}

// roundBp multiplies amount by a basis-point rate, rounding half up
func roundBp(amount, bp int64) int64 {
	return (amount*bp + bpDenominator/2) / bpDenominator
}

// CalculateAmounts derives the complete price breakdown. The discount is
// clamped to [0, subtotal] so the tax base (DPP) can never go negative; PPN
// is computed on the discounted base; the deposit is taken from the grand
// total only for service types that collect one up front.
func CalculateAmounts(in AmountInput) Amounts {
	taxBp := in.TaxRateBp
	if taxBp <= 0 {
		taxBp = DefaultTaxRateBp
	}
	depositBp := in.DepositPercentBp
	if depositBp <= 0 {
		depositBp = DefaultDepositShareBp
	}

	discount := in.Discount
	if discount < 0 {
		discount = 0
	}
	if discount > in.Subtotal {
		discount = in.Subtotal
	}

	dpp := in.Subtotal - discount
	ppn := roundBp(dpp, taxBp)
	grandTotal := dpp + ppn + in.Fee + in.ShippingCost

	var deposit int64
	if in.ServiceType.RequiresDeposit() {
		deposit = roundBp(grandTotal, depositBp)
	}

	return Amounts{
		Subtotal:     in.Subtotal,
		Discount:     discount,
		DPP:          dpp,
		PPN:          ppn,
		Fee:          in.Fee,
		ShippingCost: in.ShippingCost,
		GrandTotal:   grandTotal,
		Deposit:      deposit,
		Remaining:    grandTotal - deposit,
	}
}
