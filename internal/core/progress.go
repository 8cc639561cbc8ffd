package core

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// PaymentProgress is the derived progress view of a single expense or debt.
type PaymentProgress struct {
	RemainingPercentage float64         `json:"remainingPercentage"`
	RemainingValue      decimal.Decimal `json:"remainingValue"`
	AmountPaid          decimal.Decimal `json:"amountPaid"`
	InstallmentLabel    string          `json:"installmentLabel,omitempty"`
	FullyPaid           bool            `json:"fullyPaid"`
}

var hundred = decimal.NewFromInt(100)

// ComputePaymentProgress derives a consistent progress view for one
// EXPENSE or DEBT transaction. RemainingPercentage is authoritative for the
// remaining value; an explicitly stored non-zero AmountPaid wins over the
// derived figure for the "paid so far" display. Degenerate installment
// inputs (zero value, zero installment size) yield no label, never a fault.
func ComputePaymentProgress(t Transaction) PaymentProgress {
	remaining := 100.0
	ob := t.Obligation
	if ob != nil && ob.RemainingPercentage != nil {
		remaining = *ob.RemainingPercentage
	}

	remainingValue := t.Value.Mul(decimal.NewFromFloat(remaining)).Div(hundred)
	paid := t.Value.Sub(remainingValue)
	if ob != nil && ob.AmountPaid != nil && !ob.AmountPaid.IsZero() {
		paid = *ob.AmountPaid
	}

	return PaymentProgress{
		RemainingPercentage: remaining,
		RemainingValue:      remainingValue,
		AmountPaid:          paid,
		InstallmentLabel:    installmentLabel(t, remaining),
		FullyPaid:           remaining == 0,
	}
}

// installmentLabel renders "paid/total". The total comes from the stored
// installment count when present, otherwise it is derived from the
// installment size when that division produces a usable integer.
func installmentLabel(t Transaction, remaining float64) string {
	ob := t.Obligation
	if ob == nil {
		return ""
	}
	paidRatio := (100 - remaining) / 100

	if ob.Installments != nil && *ob.Installments > 0 {
		total := *ob.Installments
		paid := int(math.Round(float64(total) * paidRatio))
		return fmt.Sprintf("%d/%d", paid, total)
	}

	if ob.InstallmentValue != nil && t.Value.IsPositive() && ob.InstallmentValue.IsPositive() {
		ratio := t.Value.InexactFloat64() / ob.InstallmentValue.InexactFloat64()
		if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
			return ""
		}
		total := int(math.Round(ratio))
		if total <= 0 {
			return ""
		}
		paid := int(math.Round(float64(total) * paidRatio))
		return fmt.Sprintf("%d/%d", paid, total)
	}

	return ""
}
