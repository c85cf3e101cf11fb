package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType tags which layer of the assembly graph a BOM or composition entry
// points at. The set is closed: every dispatch on it is an exhaustive switch
// whose default branch returns a ValidationError, never a silent skip.
type ItemType string

const (
	ItemRawMaterial ItemType = "raw_material"
	ItemComponent   ItemType = "component"
	ItemBuiltItem   ItemType = "built_item"
)

// Valid reports whether t is one of the known layers.
func (t ItemType) Valid() bool {
	switch t {
	case ItemRawMaterial, ItemComponent, ItemBuiltItem:
		return true
	}
	return false
}

// Label returns the human-readable form used in error messages and reports.
func (t ItemType) Label() string {
	switch t {
	case ItemRawMaterial:
		return "stock item"
	case ItemComponent:
		return "component"
	case ItemBuiltItem:
		return "built item"
	}
	return string(t)
}

// ItemRef identifies one node in the assembly graph. Requirements totals,
// memo tables, and cycle-detection paths are all keyed by it.
type ItemRef struct {
	Type ItemType `json:"item_type"`
	ID   int      `json:"item_id"`
}

// StockItem is a leaf raw material. Quantities are mutated only through
// stock movements; cost resolvers and the requirements planner read it as-is.
type StockItem struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	Category        string          `json:"category"`
	Location        string          `json:"location"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ComponentBOMEntry is one line of a component's bill of materials.
// Components are assembled from raw materials only, so the entry carries a
// bare stock item reference rather than an ItemType tag.
type ComponentBOMEntry struct {
	ID          int             `json:"id"`
	ComponentID int             `json:"component_id"`
	StockItemID int             `json:"stock_item_id"`
	Quantity    decimal.Decimal `json:"quantity_required"` // per one unit built
	Unit        string          `json:"unit"`
}

// Component is a sub-assembly built from raw materials.
type Component struct {
	ID            int                 `json:"id"`
	Name          string              `json:"name"`
	BuiltQuantity decimal.Decimal     `json:"built_quantity"` // on-hand built stock
	MinStock      decimal.Decimal     `json:"min_stock"`
	LabourHours   decimal.Decimal     `json:"labour_hours"` // per unit
	BOM           []ComponentBOMEntry `json:"bom,omitempty"`
}

// BuiltItemBOMEntry is one line of a built item's bill of materials.
// ItemType is restricted to ItemRawMaterial or ItemComponent.
type BuiltItemBOMEntry struct {
	ID          int             `json:"id"`
	BuiltItemID int             `json:"built_item_id"`
	ItemType    ItemType        `json:"item_type"`
	ItemID      int             `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity_required"`
	Unit        string          `json:"unit"`
}

// BuiltItem ("panel") is an assembly whose BOM may mix raw materials and
// components.
type BuiltItem struct {
	ID            int                 `json:"id"`
	Name          string              `json:"name"`
	BuiltQuantity decimal.Decimal     `json:"built_quantity"`
	MinStock      decimal.Decimal     `json:"min_stock"`
	LabourHours   decimal.Decimal     `json:"labour_hours"`
	BOM           []BuiltItemBOMEntry `json:"bom,omitempty"`
}

// CompositionEntry is one line of a product's composition. ItemType may be
// any of the three layers.
type CompositionEntry struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	ItemType  ItemType        `json:"component_type"`
	ItemID    int             `json:"component_id"`
	Quantity  decimal.Decimal `json:"quantity_required"`
	Unit      string          `json:"unit"`
}

// Product sits atop the assembly graph; nothing references a product from
// below. Load and install times are hours per unit.
type Product struct {
	ID                   int                `json:"id"`
	Name                 string             `json:"name"`
	Category             string             `json:"category"`
	EstimatedLoadTime    decimal.Decimal    `json:"estimated_load_time"`
	EstimatedInstallTime decimal.Decimal    `json:"estimated_install_time"`
	Composition          []CompositionEntry `json:"composition,omitempty"`
}

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementReceipt    MovementType = "RECEIPT"
	MovementIssue      MovementType = "ISSUE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementBuild      MovementType = "BUILD" // raw materials consumed by a completed build
)

// StockMovement is the audit record appended for every change to a stock
// item's quantity. Quantity is signed: receipts positive, issues negative.
type StockMovement struct {
	ID           int             `json:"id"`
	StockItemID  int             `json:"stock_item_id"`
	Type         MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Notes        string          `json:"notes"`
	MovementDate time.Time       `json:"movement_date"`
}
