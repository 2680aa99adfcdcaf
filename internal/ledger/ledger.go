package ledger

import (
	"errors"
	"time"

	"printpos/internal/models"
)

// ErrInvalidAmount rejects non-positive payment amounts. Expected,
// recoverable: callers surface it as a form error.
var ErrInvalidAmount = errors.New("payment amount must be greater than zero")

// ApplyPayment appends a payment record to the order and recomputes the
// derived payment fields. Payments are append-only and one-directional;
// there is no refund operation. The full tendered amount is recorded even
// when it exceeds the remaining balance: overpayment shows up as a zero
// remaining payment, never a negative one, and change due is a display
// concern computed by the caller (see ChangeDue).
func ApplyPayment(o models.Order, amount float64, method models.PaymentMethod, paidBy, note string, now time.Time) (models.Order, models.PaymentRecord, error) {
	if amount <= 0 {
		return o, models.PaymentRecord{}, ErrInvalidAmount
	}

	record := models.PaymentRecord{
		OrderID:   o.ID,
		Amount:    amount,
		Method:    method,
		PaidBy:    paidBy,
		Note:      note,
		CreatedAt: now,
	}

	o.Payments = append(o.Payments, record)
	o.PaidAmount += amount
	o = Recalculate(o)

	return o, record, nil
}

// Recalculate derives remaining payment, payment status and DP status from
// the order's paid amount and total. Idempotent; safe to call after any
// mutation or reload.
func Recalculate(o models.Order) models.Order {
	o.RemainingPayment = o.Total - o.PaidAmount
	if o.RemainingPayment < 0 {
		o.RemainingPayment = 0
	}

	switch {
	case o.Total > 0 && o.PaidAmount >= o.Total:
		o.PaymentStatus = models.PaymentPaid
	case o.PaidAmount > 0:
		o.PaymentStatus = models.PaymentPartial
	default:
		o.PaymentStatus = models.PaymentUnpaid
	}

	o.DpStatus = ComputeDpStatus(o.PaymentType, o.PaidAmount, o.Total, o.MinDpPercent)
	return o
}

// SumPayments totals the append-only payment list. The invariant
// paidAmount == SumPayments(order) must hold at all times.
func SumPayments(o models.Order) float64 {
	var sum float64
	for _, p := range o.Payments {
		sum += p.Amount
	}
	return sum
}

// ComputeDpStatus derives down-payment sufficiency. For full-payment orders
// only none/paid apply; for dp and installment orders the paid amount is
// measured against total × minDpPercent/100.
func ComputeDpStatus(paymentType models.PaymentType, paidAmount, total, minDpPercent float64) models.DpStatus {
	if paymentType == models.PaymentFull {
		if total > 0 && paidAmount >= total {
			return models.DpPaid
		}
		return models.DpNone
	}

	switch {
	case total > 0 && paidAmount >= total:
		return models.DpPaid
	case total > 0 && paidAmount >= total*(minDpPercent/100):
		return models.DpSufficient
	case paidAmount > 0:
		return models.DpInsufficient
	default:
		return models.DpNone
	}
}

// IsProductionReady reports whether the order has collected enough money
// for production to start: fully paid for full-payment orders, or a
// sufficient (or complete) down payment otherwise.
func IsProductionReady(o models.Order) bool {
	if o.PaymentType == models.PaymentFull {
		return o.PaymentStatus == models.PaymentPaid
	}
	return o.DpStatus == models.DpSufficient || o.DpStatus == models.DpPaid
}

// ChangeDue is the cash to hand back when the tendered amount exceeds the
// remaining balance before the payment was applied. Never persisted.
func ChangeDue(remainingBefore, tendered float64) float64 {
	change := tendered - remainingBefore
	if change < 0 {
		return 0
	}
	return change
}
