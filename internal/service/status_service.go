package service

import (
	"context"
	"errors"
	"time"

	"printpos/internal/broker"
	"printpos/internal/models"
	"printpos/internal/status"
	"printpos/internal/store"
	"printpos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusService moves orders through their lifecycle.
type StatusService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	dpExpiry       time.Duration
	logger         *zap.Logger
}

// NewStatusService creates a new status service
func NewStatusService(store *store.Store, eventPublisher *broker.EventPublisher, dpExpiryHours int) *StatusService {
	return &StatusService{
		store:          store,
		eventPublisher: eventPublisher,
		dpExpiry:       time.Duration(dpExpiryHours) * time.Hour,
		logger:         util.GetLogger(),
	}
}

// Transition applies one lifecycle move. Illegal moves and unmet guards come
// back as the status package's sentinel errors with nothing changed.
func (ss *StatusService) Transition(ctx context.Context, orderID int64, to models.OrderStatus, actor, note string) (*models.Order, *models.StatusLog, error) {
	ctx, span := util.StartSpan(ctx, "StatusService.Transition")
	defer span.End()

	order, entry, err := ss.store.TransitionTx(ctx, orderID, to, actor, note)
	if err != nil {
		util.TransitionsRejectedTotal.WithLabelValues(transitionRejectReason(err)).Inc()
		return nil, nil, err
	}
	if order == nil {
		util.TransitionsRejectedTotal.WithLabelValues("not_found").Inc()
		return nil, nil, ErrOrderNotFound
	}

	util.TransitionsAppliedTotal.WithLabelValues(string(to)).Inc()
	ss.logger.Info("Order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", string(entry.FromStatus)),
		zap.String("to", string(entry.ToStatus)),
		zap.String("actor", actor))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		BranchID:   order.BranchID,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		ChangedBy:  actor,
	}
	if err := ss.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		ss.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return order, entry, nil
}

// ExpireStale sweeps pending_dp orders past their deadline (or past the
// configured expiry window when no deadline is set) into expired. Each move
// goes through the same state machine as a manual transition.
func (ss *StatusService) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	ctx, span := util.StartSpan(ctx, "StatusService.ExpireStale")
	defer span.End()

	stale, err := ss.store.GetStalePendingDp(ctx, now, now.Add(-ss.dpExpiry))
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, o := range stale {
		_, _, err := ss.store.TransitionTx(ctx, o.ID, models.StatusExpired, "system", "down payment window elapsed")
		if err != nil {
			// Raced with a cashier action; the order moved on, skip it.
			ss.logger.Warn("Skipping expiry",
				zap.Int64("order_id", o.ID),
				zap.Error(err))
			continue
		}

		expired++
		util.OrdersExpiredTotal.Inc()

		event := &models.OrderExpiredEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderExpired,
				Timestamp: now,
			},
			OrderID:  o.ID,
			BranchID: o.BranchID,
			Reason:   "down payment window elapsed",
		}
		if err := ss.eventPublisher.PublishOrderExpired(ctx, event); err != nil {
			ss.logger.Error("Failed to publish OrderExpired event", zap.Error(err))
		}
	}

	return expired, nil
}

func transitionRejectReason(err error) string {
	switch {
	case errors.Is(err, status.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, status.ErrUnsettledBalance):
		return "unsettled_balance"
	case errors.Is(err, status.ErrNotProductionReady):
		return "not_production_ready"
	default:
		return "db_error"
	}
}
