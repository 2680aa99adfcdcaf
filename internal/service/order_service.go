package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"printpos/config"
	"printpos/internal/broker"
	"printpos/internal/cart"
	"printpos/internal/ledger"
	"printpos/internal/models"
	"printpos/internal/store"
	"printpos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Expected validation rejections; handlers surface them as form errors.
var (
	ErrEmptyOrder    = errors.New("order must have at least one line item")
	ErrItemNotFound  = errors.New("item not found")
	ErrItemInactive  = errors.New("item is not active")
	ErrBelowMinOrder = errors.New("quantity is below the item's minimum order")
	ErrOrderNotFound = errors.New("order not found")
)

// OrderService composes the order-builder flow: price the configured lines,
// freeze them into snapshots, and persist the order with its initial status.
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	business       config.BusinessConfig
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher, business config.BusinessConfig) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		business:       business,
		logger:         util.GetLogger(),
	}
}

// CreateOrderRequest represents an order submission.
type CreateOrderRequest struct {
	CustomerName string              `json:"customer_name"`
	PaymentType  models.PaymentType  `json:"payment_type" binding:"required"`
	MinDpPercent *float64            `json:"min_dp_percent"`
	Deadline     *time.Time          `json:"deadline"`
	AsDraft      bool                `json:"as_draft"`
	Lines        []models.LineConfig `json:"lines" binding:"required,min=1"`
}

// QuoteResponse is a priced draft: the configured lines plus order totals,
// nothing persisted.
type QuoteResponse struct {
	Lines    []models.ConfiguredLine `json:"lines"`
	Subtotal float64                 `json:"subtotal"`
	Tax      float64                 `json:"tax"`
	Total    float64                 `json:"total"`
}

// Quote prices the request's lines against the catalog without persisting
// anything. The same path feeds CreateOrder, so a quote always matches the
// order that would be placed from it.
func (s *OrderService) Quote(ctx context.Context, lines []models.LineConfig) (*QuoteResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Quote")
	defer span.End()

	c, err := s.buildCart(ctx, lines)
	if err != nil {
		return nil, err
	}

	subtotal, tax, total := c.Totals()
	return &QuoteResponse{
		Lines:    c.Lines(),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}, nil
}

// CreateOrder prices, snapshots and persists a new order.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest, actor string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	c, err := s.buildCart(ctx, req.Lines)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("invalid_lines").Inc()
		return nil, err
	}

	subtotal, tax, total := c.Totals()

	minDp := s.business.MinDpPercent
	if req.MinDpPercent != nil {
		minDp = *req.MinDpPercent
	}

	initialStatus := models.StatusAwaitingPayment
	if req.AsDraft {
		initialStatus = models.StatusDraft
	}

	order := models.Order{
		OrderNumber:  newOrderNumber(time.Now()),
		BranchID:     s.business.BranchID,
		CustomerName: req.CustomerName,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        total,
		PaymentType:  req.PaymentType,
		MinDpPercent: minDp,
		Status:       initialStatus,
		Deadline:     req.Deadline,
		CreatedBy:    actor,
		Items:        snapshotLines(c.Lines()),
	}
	order = ledger.Recalculate(order)

	if err := s.store.CreateOrder(ctx, &order); err != nil {
		util.OrdersRejectedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total))

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BranchID:    order.BranchID,
		Total:       order.Total,
		PaymentType: order.PaymentType,
		Status:      order.Status,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return &order, nil
}

// GetOrder retrieves an order with its items, payments and status log.
// Returns (nil, nil) when the ID does not exist.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.StatusLog, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, nil
	}

	if order.Items, err = s.store.GetOrderItemsByOrderID(ctx, orderID); err != nil {
		return nil, nil, err
	}
	if order.Payments, err = s.store.GetPaymentsByOrderID(ctx, orderID); err != nil {
		return nil, nil, err
	}
	logs, err := s.store.GetStatusLogsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, logs, nil
}

// ListOrders lists orders filtered by status and branch.
func (s *OrderService) ListOrders(ctx context.Context, st models.OrderStatus, branchID string) ([]models.Order, error) {
	return s.store.GetOrders(ctx, st, branchID)
}

// buildCart validates every line against the catalog and prices it. The
// discount is clamped to [0, item.maxDiscount] here, before the pricing
// engine sees it; the engine assumes pre-validated input.
func (s *OrderService) buildCart(ctx context.Context, lines []models.LineConfig) (*cart.Cart, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]int64, len(lines))
	for i, l := range lines {
		ids[i] = l.ItemID
	}
	items, err := s.store.GetItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	c := cart.New(s.business.TaxEnabled, s.business.TaxRate)
	for _, cfg := range lines {
		item, ok := byID[cfg.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrItemNotFound, cfg.ItemID)
		}
		if !item.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrItemInactive, item.Name)
		}
		if cfg.Quantity < item.MinOrder {
			return nil, fmt.Errorf("%w: %s needs at least %d", ErrBelowMinOrder, item.Name, item.MinOrder)
		}

		cfg.DiscountPercent = clampDiscount(cfg.DiscountPercent, item.MaxDiscount)
		if cfg.LocalID == "" {
			cfg.LocalID = uuid.New().String()
		}
		c.AddLine(item, cfg)
	}

	return c, nil
}

func clampDiscount(discount, max float64) float64 {
	if discount < 0 {
		return 0
	}
	if discount > max {
		return max
	}
	return discount
}

// snapshotLines freezes priced cart lines into order items. Snapshots keep
// no reference to the catalog item, so later catalog edits never change a
// placed order.
func snapshotLines(lines []models.ConfiguredLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			Name:          l.ItemName,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Width:         l.Width,
			Height:        l.Height,
			Area:          l.Area,
			Material:      l.Material,
			Finishing:     strings.Join(l.Finishing, ", "),
			FinishingCost: l.FinishingCost,
			SetupFee:      l.SetupFee,
			Subtotal:      l.Subtotal,
			Note:          l.Note,
		})
	}
	return items
}

// newOrderNumber builds the human order number: date plus a short random
// suffix, e.g. INV-20240301-a1b2c3.
func newOrderNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
