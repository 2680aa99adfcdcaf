package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"printpos/internal/ledger"
	"printpos/internal/models"
	"printpos/internal/status"

	"github.com/jmoiron/sqlx"
)

// CreateOrder inserts an order and its frozen item snapshots in one
// transaction. Derived fields must already be computed by the caller.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (order_number, branch_id, customer_name, subtotal, tax, total,
			payment_type, payment_status, paid_amount, remaining_payment,
			min_dp_percent, dp_status, status, deadline, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		order.OrderNumber, order.BranchID, order.CustomerName, order.Subtotal,
		order.Tax, order.Total, order.PaymentType, order.PaymentStatus,
		order.PaidAmount, order.RemainingPayment, order.MinDpPercent,
		order.DpStatus, order.Status, order.Deadline, order.CreatedBy,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, name, quantity, unit_price, width, height,
			area, material, finishing, finishing_cost, setup_fee, subtotal, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	for i := range order.Items {
		it := &order.Items[i]
		it.OrderID = order.ID
		err = tx.QueryRowxContext(ctx, itemQuery,
			it.OrderID, it.Name, it.Quantity, it.UnitPrice, it.Width, it.Height,
			it.Area, it.Material, it.Finishing, it.FinishingCost, it.SetupFee,
			it.Subtotal, it.Note,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order. Returns (nil, nil) on a miss.
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber retrieves an order by its human order number.
func (s *Store) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE order_number = $1", number)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders lists orders newest first, optionally filtered by status and branch.
func (s *Store) GetOrders(ctx context.Context, st models.OrderStatus, branchID string) ([]models.Order, error) {
	query := "SELECT * FROM orders WHERE 1=1"
	args := []interface{}{}
	if st != "" {
		args = append(args, st)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if branchID != "" {
		args = append(args, branchID)
		query += fmt.Sprintf(" AND branch_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// GetOrderItemsByOrderID retrieves the frozen item snapshots of an order.
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// GetPaymentsByOrderID retrieves the append-only payment list of an order.
func (s *Store) GetPaymentsByOrderID(ctx context.Context, orderID int64) ([]models.PaymentRecord, error) {
	var payments []models.PaymentRecord
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE order_id = $1 ORDER BY created_at, id", orderID)
	return payments, err
}

// GetStatusLogsByOrderID retrieves the audit trail of an order.
func (s *Store) GetStatusLogsByOrderID(ctx context.Context, orderID int64) ([]models.StatusLog, error) {
	var logs []models.StatusLog
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM status_logs WHERE order_id = $1 ORDER BY created_at, id", orderID)
	return logs, err
}

// GetReportableOrders loads non-cancelled, non-expired orders with their
// payments attached, for finance aggregation.
func (s *Store) GetReportableOrders(ctx context.Context, branchID string) ([]models.Order, error) {
	query := "SELECT * FROM orders WHERE status NOT IN ($1, $2)"
	args := []interface{}{models.StatusCancelled, models.StatusExpired}
	if branchID != "" {
		args = append(args, branchID)
		query += " AND branch_id = $3"
	}

	var orders []models.Order
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*models.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	pq, pargs, err := sqlx.In("SELECT * FROM payments WHERE order_id IN (?) ORDER BY created_at, id", ids)
	if err != nil {
		return nil, err
	}
	pq = s.db.Rebind(pq)

	var payments []models.PaymentRecord
	if err := s.db.SelectContext(ctx, &payments, pq, pargs...); err != nil {
		return nil, err
	}
	for _, p := range payments {
		o := byID[p.OrderID]
		o.Payments = append(o.Payments, p)
	}

	return orders, nil
}

// GetStalePendingDp lists pending_dp orders whose deadline passed or, when
// no deadline is set, that were created before the cutoff.
func (s *Store) GetStalePendingDp(ctx context.Context, now, cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE status = $1
		  AND ((deadline IS NOT NULL AND deadline < $2)
		    OR (deadline IS NULL AND created_at < $3))`,
		models.StatusPendingDp, now, cutoff)
	return orders, err
}

// IsEventProcessed checks if a consumed event has already been applied
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed records a consumed event so redelivery is a no-op
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}

// AddPaymentTx appends a payment under a row lock on the order, recomputes
// the derived payment fields through the ledger, and persists both in one
// transaction. Concurrent payments on the same order serialize on the lock,
// so no paid-amount delta can be lost. Returns (nil, nil, nil) when the
// order does not exist.
func (s *Store) AddPaymentTx(ctx context.Context, orderID int64, amount float64, method models.PaymentMethod, paidBy, note string) (*models.Order, *models.PaymentRecord, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", orderID)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock order: %w", err)
	}

	updated, record, err := ledger.ApplyPayment(order, amount, method, paidBy, note, time.Now())
	if err != nil {
		return nil, nil, err
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO payments (order_id, amount, method, paid_by, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		record.OrderID, record.Amount, record.Method, record.PaidBy, record.Note,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert payment: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET paid_amount = $1, remaining_payment = $2,
			payment_status = $3, dp_status = $4, updated_at = NOW()
		WHERE id = $5`,
		updated.PaidAmount, updated.RemainingPayment, updated.PaymentStatus,
		updated.DpStatus, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update order payment fields: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &updated, &record, nil
}

// TransitionTx applies a status transition under a row lock and appends the
// audit log entry in the same transaction. Returns (nil, nil, nil) when the
// order does not exist; guard rejections come back as the status package's
// sentinel errors with the order untouched.
func (s *Store) TransitionTx(ctx context.Context, orderID int64, to models.OrderStatus, actor, note string) (*models.Order, *models.StatusLog, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", orderID)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock order: %w", err)
	}

	updated, entry, err := status.Apply(order, to, actor, note, time.Now())
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, completed_at = $2, updated_at = NOW()
		WHERE id = $3`,
		updated.Status, updated.CompletedAt, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update order status: %w", err)
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO status_logs (order_id, from_status, to_status, changed_by, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.OrderID, entry.FromStatus, entry.ToStatus, entry.ChangedBy, entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert status log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &updated, &entry, nil
}
