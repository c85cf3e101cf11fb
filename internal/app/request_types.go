package app

import (
	"shopfloor/internal/core"

	"github.com/shopspring/decimal"
)

// StockMovementRequest is the input for receive, issue, and adjust
// operations. UnitCost is used by receipts only; issue and adjust movements
// record the item's current cost.
type StockMovementRequest struct {
	StockItemID int
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Notes       string
}

// CompleteBuildRequest is the input for recording finished units of a
// component or built item.
type CompleteBuildRequest struct {
	ItemType core.ItemType
	ItemID   int
	Quantity decimal.Decimal
}
