package app

import (
	"github.com/shopspring/decimal"
)

// CostResult is returned by the costing operations. Kind is "component",
// "built_item", or "product".
type CostResult struct {
	Kind       string          `json:"kind"`
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	LabourRate decimal.Decimal `json:"labour_rate"`
	TrueCost   decimal.Decimal `json:"true_cost"`
}

// BuiltItemCostResult is CostResult plus the built item's BOM value, the
// materials-and-components figure that excludes the item's own labour.
type BuiltItemCostResult struct {
	CostResult
	BOMValue decimal.Decimal `json:"bom_value"`
}
