package worker

import (
	"context"
	"log"
	"time"

	"printpos/internal/broker"
	"printpos/internal/models"
	"printpos/internal/redisclient"
	"printpos/internal/service"
)

// EventLedger tracks which consumed events have already been applied.
// Consumption is at-least-once; a crash between handling and offset commit
// redelivers the event, so every non-idempotent handler must dedup by
// event ID.
type EventLedger interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// applyOnce runs apply unless the event was already processed, then marks
// it. A mark failure is logged, not returned: the event gets redelivered
// and the dedup check absorbs the retry if the mark did land.
func applyOnce(ctx context.Context, ledger EventLedger, eventID, eventType string, apply func(context.Context) error) error {
	processed, err := ledger.IsEventProcessed(ctx, eventID)
	if err != nil {
		return err
	}
	if processed {
		log.Printf("Event already processed: %s", eventID)
		return nil
	}

	if err := apply(ctx); err != nil {
		return err
	}

	if err := ledger.MarkEventProcessed(ctx, eventID, eventType); err != nil {
		log.Printf("Failed to mark event processed: %v", err)
	}
	return nil
}

// RevenueWorker consumes payment events and keeps the per-day Redis revenue
// counters current. The counters are a display fast path only; the finance
// report recomputes from the store.
type RevenueWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewRevenueWorker creates a new revenue worker
func NewRevenueWorker(consumer *broker.Consumer, redis *redisclient.Client, ledger EventLedger) *RevenueWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnPaymentRecorded(func(ctx context.Context, event *models.PaymentRecordedEvent) error {
		return applyOnce(ctx, ledger, event.EventID, event.EventType, func(ctx context.Context) error {
			return redis.AddRevenue(ctx, event.BranchID, event.Timestamp, event.Amount)
		})
	})

	return &RevenueWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *RevenueWorker) Start(ctx context.Context) error {
	log.Println("Starting revenue worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *RevenueWorker) Stop() error {
	log.Println("Stopping revenue worker...")
	return w.consumer.Close()
}

// ExpiryWorker periodically sweeps stale pending_dp orders into expired.
// The sweep interval is coarse; the precise window lives in the status
// service's expiry configuration.
type ExpiryWorker struct {
	statusService *service.StatusService
	interval      time.Duration
}

// NewExpiryWorker creates a new expiry worker
func NewExpiryWorker(statusService *service.StatusService, interval time.Duration) *ExpiryWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ExpiryWorker{
		statusService: statusService,
		interval:      interval,
	}
}

// Start runs the sweep loop until the context is cancelled
func (w *ExpiryWorker) Start(ctx context.Context) error {
	log.Println("Starting expiry worker...")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Expiry worker context cancelled, stopping...")
			return ctx.Err()
		case now := <-ticker.C:
			expired, err := w.statusService.ExpireStale(ctx, now)
			if err != nil {
				log.Printf("Expiry sweep failed: %v", err)
				continue
			}
			if expired > 0 {
				log.Printf("Expiry sweep: %d order(s) expired", expired)
			}
		}
	}
}
