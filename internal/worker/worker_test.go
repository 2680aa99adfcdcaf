package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryEventLedger struct {
	processed map[string]bool
	markErr   error
}

func newMemoryEventLedger() *memoryEventLedger {
	return &memoryEventLedger{processed: map[string]bool{}}
}

func (m *memoryEventLedger) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	return m.processed[eventID], nil
}

func (m *memoryEventLedger) MarkEventProcessed(_ context.Context, eventID, _ string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.processed[eventID] = true
	return nil
}

func TestApplyOnceDedupsRedelivery(t *testing.T) {
	ledger := newMemoryEventLedger()
	ctx := context.Background()

	applied := 0
	apply := func(context.Context) error {
		applied++
		return nil
	}

	// First delivery applies and marks.
	require.NoError(t, applyOnce(ctx, ledger, "evt-1", "PAYMENT_RECORDED", apply))
	assert.Equal(t, 1, applied)

	// Redelivery of the same event (offset commit lost) is a no-op.
	require.NoError(t, applyOnce(ctx, ledger, "evt-1", "PAYMENT_RECORDED", apply))
	assert.Equal(t, 1, applied)

	// A different event still applies.
	require.NoError(t, applyOnce(ctx, ledger, "evt-2", "PAYMENT_RECORDED", apply))
	assert.Equal(t, 2, applied)
}

func TestApplyOnceFailedApplyIsNotMarked(t *testing.T) {
	ledger := newMemoryEventLedger()
	ctx := context.Background()

	boom := errors.New("redis down")
	calls := 0
	failing := func(context.Context) error {
		calls++
		if calls == 1 {
			return boom
		}
		return nil
	}

	// The failure propagates and the event stays unmarked, so the retry
	// after redelivery applies it.
	assert.ErrorIs(t, applyOnce(ctx, ledger, "evt-1", "PAYMENT_RECORDED", failing), boom)
	assert.False(t, ledger.processed["evt-1"])

	require.NoError(t, applyOnce(ctx, ledger, "evt-1", "PAYMENT_RECORDED", failing))
	assert.Equal(t, 2, calls)
	assert.True(t, ledger.processed["evt-1"])
}

func TestApplyOnceMarkFailureDoesNotFailHandling(t *testing.T) {
	ledger := newMemoryEventLedger()
	ledger.markErr = errors.New("insert failed")
	ctx := context.Background()

	applied := 0
	apply := func(context.Context) error {
		applied++
		return nil
	}

	// Marking is best effort; the handler still reports success so the
	// offset commits and the consumer moves on.
	require.NoError(t, applyOnce(ctx, ledger, "evt-1", "PAYMENT_RECORDED", apply))
	assert.Equal(t, 1, applied)
}
