package models

import "time"

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypePaymentRecorded    = "PAYMENT_RECORDED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeOrderExpired       = "ORDER_EXPIRED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is submitted
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	BranchID    string      `json:"branch_id"`
	Total       float64     `json:"total"`
	PaymentType PaymentType `json:"payment_type"`
	Status      OrderStatus `json:"status"`
}

// PaymentRecordedEvent published when a payment is appended to an order
type PaymentRecordedEvent struct {
	BaseEvent
	OrderID          int64         `json:"order_id"`
	PaymentID        int64         `json:"payment_id"`
	BranchID         string        `json:"branch_id"`
	Amount           float64       `json:"amount"`
	Method           PaymentMethod `json:"method"`
	PaidBy           string        `json:"paid_by"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	DpStatus         DpStatus      `json:"dp_status"`
	RemainingPayment float64       `json:"remaining_payment"`
}

// OrderStatusChangedEvent published on every applied transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    int64       `json:"order_id"`
	BranchID   string      `json:"branch_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
	ChangedBy  string      `json:"changed_by"`
}

// OrderExpiredEvent published when the expiry sweep stales out a pending_dp order
type OrderExpiredEvent struct {
	BaseEvent
	OrderID  int64  `json:"order_id"`
	BranchID string `json:"branch_id"`
	Reason   string `json:"reason"`
}
