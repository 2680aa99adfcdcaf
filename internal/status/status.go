package status

import (
	"errors"
	"fmt"
	"time"

	"printpos/internal/ledger"
	"printpos/internal/models"
)

// Expected rejections, surfaced to the cashier as-is.
var (
	ErrIllegalTransition  = errors.New("status transition not allowed")
	ErrUnsettledBalance   = errors.New("order still has an outstanding balance")
	ErrNotProductionReady = errors.New("payment is not sufficient to start production")
)

// transitions is the static adjacency table. Business predicates (zero
// balance for settlement, production readiness) are layered on top in
// Validate rather than encoded into the table shape.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusDraft:           {models.StatusAwaitingPayment, models.StatusCancelled},
	models.StatusAwaitingPayment: {models.StatusPendingDp, models.StatusReadyProduction, models.StatusSettled, models.StatusCancelled},
	models.StatusPendingDp:       {models.StatusReadyProduction, models.StatusCancelled, models.StatusExpired},
	models.StatusReadyProduction: {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress:      {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:       {models.StatusSettled, models.StatusCancelled},
	models.StatusSettled:         {},
	models.StatusCancelled:       {},
	models.StatusExpired:         {models.StatusPendingDp},
}

// AllowedTargets returns the static targets for a state, guards not applied.
func AllowedTargets(from models.OrderStatus) []models.OrderStatus {
	return transitions[from]
}

// IsTerminal reports whether a state has no outgoing transitions.
func IsTerminal(s models.OrderStatus) bool {
	return len(transitions[s]) == 0
}

// Validate checks both the adjacency table and the per-edge guards. A nil
// result means the transition may be applied.
func Validate(o models.Order, to models.OrderStatus) error {
	allowed := false
	for _, t := range transitions[o.Status] {
		if t == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}

	switch to {
	case models.StatusSettled:
		if o.RemainingPayment != 0 {
			return ErrUnsettledBalance
		}
	case models.StatusReadyProduction:
		if !ledger.IsProductionReady(o) {
			return ErrNotProductionReady
		}
	}

	return nil
}

// CanTransition is the boolean form of Validate.
func CanTransition(o models.Order, to models.OrderStatus) bool {
	return Validate(o, to) == nil
}

// Apply performs a validated transition: sets the new status, stamps
// completedAt on entry into completed, and returns the audit log entry to
// append. On rejection the order is returned unchanged.
func Apply(o models.Order, to models.OrderStatus, actor, note string, now time.Time) (models.Order, models.StatusLog, error) {
	if err := Validate(o, to); err != nil {
		return o, models.StatusLog{}, err
	}

	entry := models.StatusLog{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   to,
		ChangedBy:  actor,
		Note:       note,
		CreatedAt:  now,
	}

	o.Status = to
	if to == models.StatusCompleted {
		t := now
		o.CompletedAt = &t
	}

	return o, entry, nil
}
