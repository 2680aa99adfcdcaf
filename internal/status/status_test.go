package status

import (
	"testing"
	"time"

	"printpos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderIn(s models.OrderStatus) models.Order {
	return models.Order{
		ID:          7,
		Total:       1000000,
		PaymentType: models.PaymentFull,
		Status:      s,
	}
}

func TestHappyPathTransitions(t *testing.T) {
	o := orderIn(models.StatusDraft)
	o.PaidAmount = 1000000
	o.RemainingPayment = 0
	o.PaymentStatus = models.PaymentPaid

	now := time.Now()
	path := []models.OrderStatus{
		models.StatusAwaitingPayment,
		models.StatusReadyProduction,
		models.StatusInProgress,
		models.StatusCompleted,
		models.StatusSettled,
	}

	for _, next := range path {
		var err error
		var entry models.StatusLog
		prev := o.Status
		o, entry, err = Apply(o, next, "admin", "", now)
		require.NoError(t, err, "transition to %s", next)
		assert.Equal(t, next, o.Status)
		assert.Equal(t, prev, entry.FromStatus)
		assert.Equal(t, next, entry.ToStatus)
		assert.Equal(t, "admin", entry.ChangedBy)
	}
}

func TestIllegalTransitionRejected(t *testing.T) {
	o := orderIn(models.StatusDraft)

	_, _, err := Apply(o, models.StatusInProgress, "admin", "", time.Now())
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, models.StatusDraft, o.Status)
}

func TestSettlementGatedOnZeroBalance(t *testing.T) {
	o := orderIn(models.StatusCompleted)
	o.PaidAmount = 950000
	o.RemainingPayment = 50000

	assert.False(t, CanTransition(o, models.StatusSettled))
	_, _, err := Apply(o, models.StatusSettled, "admin", "", time.Now())
	assert.ErrorIs(t, err, ErrUnsettledBalance)

	o.PaidAmount = 1000000
	o.RemainingPayment = 0
	assert.True(t, CanTransition(o, models.StatusSettled))
}

func TestProductionGatedOnPayment(t *testing.T) {
	o := orderIn(models.StatusPendingDp)
	o.PaymentType = models.PaymentDownPayment
	o.MinDpPercent = 50
	o.PaidAmount = 100000
	o.RemainingPayment = 900000
	o.DpStatus = models.DpInsufficient

	assert.False(t, CanTransition(o, models.StatusReadyProduction))
	_, _, err := Apply(o, models.StatusReadyProduction, "admin", "", time.Now())
	assert.ErrorIs(t, err, ErrNotProductionReady)

	o.DpStatus = models.DpSufficient
	assert.True(t, CanTransition(o, models.StatusReadyProduction))
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	all := []models.OrderStatus{
		models.StatusDraft, models.StatusAwaitingPayment, models.StatusPendingDp,
		models.StatusReadyProduction, models.StatusInProgress, models.StatusCompleted,
		models.StatusSettled, models.StatusCancelled, models.StatusExpired,
	}

	for _, terminal := range []models.OrderStatus{models.StatusSettled, models.StatusCancelled} {
		assert.True(t, IsTerminal(terminal))
		o := orderIn(terminal)
		o.RemainingPayment = 0
		for _, to := range all {
			assert.False(t, CanTransition(o, to), "%s -> %s must be rejected", terminal, to)
		}
	}
}

func TestExpiredOnlyRevivesToPendingDp(t *testing.T) {
	o := orderIn(models.StatusExpired)

	assert.True(t, CanTransition(o, models.StatusPendingDp))
	assert.False(t, CanTransition(o, models.StatusCancelled))
	assert.False(t, CanTransition(o, models.StatusReadyProduction))

	pending := orderIn(models.StatusPendingDp)
	assert.True(t, CanTransition(pending, models.StatusExpired))
}

func TestCompletedAtStamped(t *testing.T) {
	o := orderIn(models.StatusInProgress)
	now := time.Now()

	o, _, err := Apply(o, models.StatusCompleted, "staff-2", "done", now)
	require.NoError(t, err)
	require.NotNil(t, o.CompletedAt)
	assert.Equal(t, now, *o.CompletedAt)
}

func TestUnknownStatusHasNoTargets(t *testing.T) {
	o := orderIn(models.OrderStatus("bogus"))
	assert.False(t, CanTransition(o, models.StatusDraft))
	assert.Empty(t, AllowedTargets(o.Status))
}
