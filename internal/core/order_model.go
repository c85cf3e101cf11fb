package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a customer order.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "DRAFT"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is a customer order: a set of (product, quantity) lines. The
// requirements planner consumes orders; it never mutates them.
type Order struct {
	ID           int         `json:"id"`
	Reference    string      `json:"reference"`
	CustomerName string      `json:"customer_name"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	Lines        []OrderLine `json:"lines,omitempty"`
}

// OrderLine is one (product, quantity) pair within an order.
type OrderLine struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"order_id"`
	ProductID int             `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// DemandLine is a bare (product, quantity) pair fed to the requirements
// planner, either taken from an order's lines or supplied directly.
type DemandLine struct {
	ProductID int             `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}
