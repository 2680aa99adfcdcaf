package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"printpos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dpOrder(total float64) models.Order {
	return models.Order{
		ID:           1,
		Total:        total,
		PaymentType:  models.PaymentDownPayment,
		MinDpPercent: 50,
	}
}

func TestApplyPaymentRejectsNonPositiveAmount(t *testing.T) {
	o := dpOrder(1000000)

	_, _, err := ApplyPayment(o, 0, models.MethodCash, "cashier-1", "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = ApplyPayment(o, -500, models.MethodCash, "cashier-1", "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPaymentAccumulationAndClamping(t *testing.T) {
	o := dpOrder(1000000)
	now := time.Now()

	o, rec, err := ApplyPayment(o, 400000, models.MethodCash, "cashier-1", "", now)
	require.NoError(t, err)
	assert.Equal(t, 400000.0, rec.Amount)
	assert.Equal(t, 400000.0, o.PaidAmount)
	assert.Equal(t, 600000.0, o.RemainingPayment)
	assert.Equal(t, models.PaymentPartial, o.PaymentStatus)

	// Overpayment: the full tendered amount is recorded, remaining clamps
	// to zero rather than going negative.
	o, _, err = ApplyPayment(o, 700000, models.MethodTransfer, "cashier-1", "", now)
	require.NoError(t, err)
	assert.Equal(t, 1100000.0, o.PaidAmount)
	assert.Equal(t, 0.0, o.RemainingPayment)
	assert.Equal(t, models.PaymentPaid, o.PaymentStatus)

	assert.Equal(t, o.PaidAmount, SumPayments(o))
	assert.Len(t, o.Payments, 2)
}

func TestDpSufficiencyBoundary(t *testing.T) {
	const total = 1000000.0

	cases := []struct {
		paid float64
		want models.DpStatus
	}{
		{0, models.DpNone},
		{499999, models.DpInsufficient},
		{500000, models.DpSufficient},
		{999999, models.DpSufficient},
		{1000000, models.DpPaid},
		{1100000, models.DpPaid},
	}

	for _, tc := range cases {
		got := ComputeDpStatus(models.PaymentDownPayment, tc.paid, total, 50)
		assert.Equal(t, tc.want, got, "paid=%v", tc.paid)
	}
}

func TestDpStatusFullPaymentType(t *testing.T) {
	assert.Equal(t, models.DpNone, ComputeDpStatus(models.PaymentFull, 999999, 1000000, 50))
	assert.Equal(t, models.DpPaid, ComputeDpStatus(models.PaymentFull, 1000000, 1000000, 50))
}

func TestRecalculateIsIdempotent(t *testing.T) {
	o := dpOrder(1000000)
	o.PaidAmount = 500000

	once := Recalculate(o)
	twice := Recalculate(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, models.DpSufficient, once.DpStatus)
	assert.Equal(t, 500000.0, once.RemainingPayment)
}

func TestIsProductionReady(t *testing.T) {
	o := dpOrder(1000000)
	o.PaidAmount = 100000
	o = Recalculate(o)
	assert.Equal(t, models.DpInsufficient, o.DpStatus)
	assert.False(t, IsProductionReady(o))

	o.PaidAmount = 500000
	o = Recalculate(o)
	assert.True(t, IsProductionReady(o))

	full := models.Order{Total: 200000, PaymentType: models.PaymentFull}
	full.PaidAmount = 100000
	full = Recalculate(full)
	assert.False(t, IsProductionReady(full))

	full.PaidAmount = 200000
	full = Recalculate(full)
	assert.True(t, IsProductionReady(full))
}

func TestInstallmentUsesDpRule(t *testing.T) {
	o := dpOrder(1000000)
	o.PaymentType = models.PaymentInstallment
	o.PaidAmount = 500000
	o = Recalculate(o)

	assert.Equal(t, models.DpSufficient, o.DpStatus)
	assert.True(t, IsProductionReady(o))
}

func TestDerivedFieldsStableAcrossReload(t *testing.T) {
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	o := dpOrder(1000000)

	o, _, err := ApplyPayment(o, 400000, models.MethodCash, "cashier-1", "", now)
	require.NoError(t, err)
	o, _, err = ApplyPayment(o, 100000, models.MethodQRIS, "cashier-1", "", now)
	require.NoError(t, err)

	// Serialize and reload, as a store or cache would.
	data, err := json.Marshal(o)
	require.NoError(t, err)
	var reloaded models.Order
	require.NoError(t, json.Unmarshal(data, &reloaded))

	assert.Equal(t, o, reloaded)

	// Recomputing from the reloaded fields must change nothing.
	assert.Equal(t, reloaded, Recalculate(reloaded))
	assert.Equal(t, reloaded.PaidAmount, SumPayments(reloaded))
	assert.Equal(t, models.DpSufficient, reloaded.DpStatus)
	assert.Equal(t, 500000.0, reloaded.RemainingPayment)
}

func TestChangeDue(t *testing.T) {
	assert.Equal(t, 0.0, ChangeDue(600000, 400000))
	assert.Equal(t, 100000.0, ChangeDue(600000, 700000))
}
