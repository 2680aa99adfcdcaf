package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PricingModel selects how an item's unit price is computed.
type PricingModel string

const (
	PricingFixed  PricingModel = "fixed"
	PricingArea   PricingModel = "area"
	PricingTiered PricingModel = "tiered"
)

// FinishingPricingType selects how a finishing option is charged.
type FinishingPricingType string

const (
	FinishingPerUnit FinishingPricingType = "per_unit"
	FinishingPerArea FinishingPricingType = "per_area"
	FinishingFlat    FinishingPricingType = "flat"
)

// PriceTier is one quantity band of a tiered price list. MaxQty nil means
// unbounded above.
type PriceTier struct {
	MinQty int     `json:"min_qty"`
	MaxQty *int    `json:"max_qty"`
	Price  float64 `json:"price"`
}

// FinishingOption is an add-on a line item can select by name.
type FinishingOption struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Price       float64              `json:"price"`
	PricingType FinishingPricingType `json:"pricing_type"`
}

// PriceTiers, FinishingOptions and StringList are stored as JSONB columns.
type PriceTiers []PriceTier

type FinishingOptions []FinishingOption

type StringList []string

func (t PriceTiers) Value() (driver.Value, error)       { return jsonValue(t) }
func (t *PriceTiers) Scan(src interface{}) error        { return jsonScan(src, t) }
func (f FinishingOptions) Value() (driver.Value, error) { return jsonValue(f) }
func (f *FinishingOptions) Scan(src interface{}) error  { return jsonScan(src, f) }
func (l StringList) Value() (driver.Value, error)       { return jsonValue(l) }
func (l *StringList) Scan(src interface{}) error        { return jsonScan(src, l) }

func jsonValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
	return json.Unmarshal(b, dst)
}

// Item is a sellable product definition. Read-only to the pricing engine.
type Item struct {
	ID               int64            `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Category         string           `db:"category" json:"category"`
	PricingModel     PricingModel     `db:"pricing_model" json:"pricing_model"`
	Price            float64          `db:"price" json:"price"`
	PricePerSqm      float64          `db:"price_per_sqm" json:"price_per_sqm"`
	Tiers            PriceTiers       `db:"tiers" json:"tiers"`
	Unit             string           `db:"unit" json:"unit"`
	AreaUnit         string           `db:"area_unit" json:"area_unit"` // "m" or "cm", display only
	FinishingOptions FinishingOptions `db:"finishing_options" json:"finishing_options"`
	MaterialOptions  StringList       `db:"material_options" json:"material_options"`
	MinOrder         int              `db:"min_order" json:"min_order"`
	SetupFee         float64          `db:"setup_fee" json:"setup_fee"`
	MaxDiscount      float64          `db:"max_discount" json:"max_discount"` // percent, 0-100
	IsActive         bool             `db:"is_active" json:"is_active"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// LineConfig is the caller-supplied configuration for one cart line.
type LineConfig struct {
	LocalID           string   `json:"local_id"`
	ItemID            int64    `json:"item_id"`
	Quantity          int      `json:"quantity"`
	Width             float64  `json:"width"`
	Height            float64  `json:"height"`
	Material          string   `json:"material"`
	Finishing         []string `json:"finishing"`
	DiscountPercent   float64  `json:"discount_percent"`
	OverrideUnitPrice float64  `json:"override_unit_price"`
	Note              string   `json:"note"`
}

// ConfiguredLine is a priced cart line: the config plus every derived field
// the pricing engine computed from it.
type ConfiguredLine struct {
	LineConfig
	ItemName      string  `json:"item_name"`
	Area          float64 `json:"area"`
	UnitPrice     float64 `json:"unit_price"`
	FinishingCost float64 `json:"finishing_cost"`
	SetupFee      float64 `json:"setup_fee"`
	Subtotal      float64 `json:"subtotal"`
}

// PaymentType is how the customer intends to pay the order off.
type PaymentType string

const (
	PaymentFull        PaymentType = "full"
	PaymentDownPayment PaymentType = "dp"
	PaymentInstallment PaymentType = "installment"
)

// PaymentStatus is derived from paid amount vs total.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// DpStatus tracks down-payment sufficiency against the order's minimum.
type DpStatus string

const (
	DpNone         DpStatus = "none"
	DpInsufficient DpStatus = "insufficient"
	DpSufficient   DpStatus = "sufficient"
	DpPaid         DpStatus = "paid"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusDraft           OrderStatus = "draft"
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusPendingDp       OrderStatus = "pending_dp"
	StatusReadyProduction OrderStatus = "ready_production"
	StatusInProgress      OrderStatus = "in_progress"
	StatusCompleted       OrderStatus = "completed"
	StatusSettled         OrderStatus = "settled"
	StatusCancelled       OrderStatus = "cancelled"
	StatusExpired         OrderStatus = "expired"
)

// PaymentMethod is an open set: the known values get constants so switches
// can be exhaustive over them, but any non-empty string is accepted and
// stored verbatim.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodQRIS     PaymentMethod = "qris"
	MethodEWallet  PaymentMethod = "e-wallet"
)

// Known reports whether the method is one of the predefined constants.
func (m PaymentMethod) Known() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodQRIS, MethodEWallet:
		return true
	}
	return false
}

// Order is the persisted transaction. Items are frozen snapshots; catalog
// edits never retroactively change a placed order.
type Order struct {
	ID               int64           `db:"id" json:"id"`
	OrderNumber      string          `db:"order_number" json:"order_number"`
	BranchID         string          `db:"branch_id" json:"branch_id"`
	CustomerName     string          `db:"customer_name" json:"customer_name"`
	Subtotal         float64         `db:"subtotal" json:"subtotal"`
	Tax              float64         `db:"tax" json:"tax"`
	Total            float64         `db:"total" json:"total"`
	PaymentType      PaymentType     `db:"payment_type" json:"payment_type"`
	PaymentStatus    PaymentStatus   `db:"payment_status" json:"payment_status"`
	PaidAmount       float64         `db:"paid_amount" json:"paid_amount"`
	RemainingPayment float64         `db:"remaining_payment" json:"remaining_payment"`
	MinDpPercent     float64         `db:"min_dp_percent" json:"min_dp_percent"`
	DpStatus         DpStatus        `db:"dp_status" json:"dp_status"`
	Status           OrderStatus     `db:"status" json:"status"`
	Deadline         *time.Time      `db:"deadline" json:"deadline,omitempty"`
	CompletedAt      *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	CreatedBy        string          `db:"created_by" json:"created_by"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
	Items            []OrderItem     `db:"-" json:"items,omitempty"`
	Payments         []PaymentRecord `db:"-" json:"payments,omitempty"`
}

// OrderItem is a frozen snapshot of a configured line at submission time.
type OrderItem struct {
	ID            int64   `db:"id" json:"id"`
	OrderID       int64   `db:"order_id" json:"order_id"`
	Name          string  `db:"name" json:"name"`
	Quantity      int     `db:"quantity" json:"quantity"`
	UnitPrice     float64 `db:"unit_price" json:"unit_price"`
	Width         float64 `db:"width" json:"width"`
	Height        float64 `db:"height" json:"height"`
	Area          float64 `db:"area" json:"area"`
	Material      string  `db:"material" json:"material"`
	Finishing     string  `db:"finishing" json:"finishing"` // comma-joined names
	FinishingCost float64 `db:"finishing_cost" json:"finishing_cost"`
	SetupFee      float64 `db:"setup_fee" json:"setup_fee"`
	Subtotal      float64 `db:"subtotal" json:"subtotal"`
	Note          string  `db:"note" json:"note"`
}

// PaymentRecord is immutable once created; payments are append-only.
type PaymentRecord struct {
	ID        int64         `db:"id" json:"id"`
	OrderID   int64         `db:"order_id" json:"order_id"`
	Amount    float64       `db:"amount" json:"amount"`
	Method    PaymentMethod `db:"method" json:"method"`
	PaidBy    string        `db:"paid_by" json:"paid_by"`
	Note      string        `db:"note" json:"note"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// StatusLog is an append-only, purely observational audit entry.
type StatusLog struct {
	ID         int64       `db:"id" json:"id"`
	OrderID    int64       `db:"order_id" json:"order_id"`
	FromStatus OrderStatus `db:"from_status" json:"from_status"`
	ToStatus   OrderStatus `db:"to_status" json:"to_status"`
	ChangedBy  string      `db:"changed_by" json:"changed_by"`
	Note       string      `db:"note" json:"note"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// EntryType splits finance rows into income and expense.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

// FinanceEntry is a manual bookkeeping record, independent of orders.
type FinanceEntry struct {
	ID          int64     `db:"id" json:"id"`
	Type        EntryType `db:"type" json:"type"`
	Amount      float64   `db:"amount" json:"amount"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	BranchID    string    `db:"branch_id" json:"branch_id"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	Note        string    `db:"note" json:"note"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// FinanceCategory registers report categories. Defaults cannot be deleted.
type FinanceCategory struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      EntryType `db:"type" json:"type"`
	IsDefault bool      `db:"is_default" json:"is_default"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
