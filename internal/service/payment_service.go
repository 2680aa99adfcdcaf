package service

import (
	"context"
	"time"

	"printpos/internal/broker"
	"printpos/internal/ledger"
	"printpos/internal/models"
	"printpos/internal/store"
	"printpos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records cashier payments against orders.
type PaymentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *store.Store, eventPublisher *broker.EventPublisher) *PaymentService {
	return &PaymentService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// AddPaymentResult is what the cashier screen needs after a payment: the
// updated order, the stored record, and the change to hand back. Change is
// display-only and never persisted.
type AddPaymentResult struct {
	Order     *models.Order         `json:"order"`
	Payment   *models.PaymentRecord `json:"payment"`
	ChangeDue float64               `json:"change_due"`
}

// AddPayment appends a payment to an order. The full tendered amount is
// recorded; overpayment surfaces as change due, not as a ledger entry.
// Returns (nil, ErrOrderNotFound) for unknown orders and the ledger's
// ErrInvalidAmount for non-positive amounts.
func (ps *PaymentService) AddPayment(ctx context.Context, orderID int64, amount float64, method models.PaymentMethod, paidBy, note string) (*AddPaymentResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.AddPayment")
	defer span.End()

	order, record, err := ps.store.AddPaymentTx(ctx, orderID, amount, method, paidBy, note)
	if err != nil {
		util.PaymentsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}
	if order == nil {
		util.PaymentsRejectedTotal.WithLabelValues("not_found").Inc()
		return nil, ErrOrderNotFound
	}

	util.PaymentsRecordedTotal.WithLabelValues(methodLabel(method)).Inc()
	util.PaymentAmountTotal.Add(amount)

	remainingBefore := order.Total - (order.PaidAmount - amount)
	if remainingBefore < 0 {
		remainingBefore = 0
	}

	ps.logger.Info("Payment recorded",
		zap.Int64("order_id", orderID),
		zap.Float64("amount", amount),
		zap.String("method", string(method)),
		zap.String("payment_status", string(order.PaymentStatus)),
		zap.String("dp_status", string(order.DpStatus)))

	event := &models.PaymentRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentRecorded,
			Timestamp: time.Now(),
		},
		OrderID:          orderID,
		PaymentID:        record.ID,
		BranchID:         order.BranchID,
		Amount:           amount,
		Method:           method,
		PaidBy:           paidBy,
		PaymentStatus:    order.PaymentStatus,
		DpStatus:         order.DpStatus,
		RemainingPayment: order.RemainingPayment,
	}
	if err := ps.eventPublisher.PublishPaymentRecorded(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentRecorded event", zap.Error(err))
	}

	return &AddPaymentResult{
		Order:     order,
		Payment:   record,
		ChangeDue: ledger.ChangeDue(remainingBefore, amount),
	}, nil
}

// methodLabel bounds the metric's label set. Unknown methods are stored
// verbatim on the payment record but collapse to "other" here, so a typo in
// a client cannot mint unbounded time series.
func methodLabel(m models.PaymentMethod) string {
	if m.Known() {
		return string(m)
	}
	return "other"
}

func rejectReason(err error) string {
	if err == ledger.ErrInvalidAmount {
		return "invalid_amount"
	}
	return "db_error"
}
