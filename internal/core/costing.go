package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// CostingService resolves true manufacturing costs by rolling material costs
// up the assembly graph. Costs are derived on every call from the current BOM
// and current unit costs; nothing is cached across requests, so a price or
// BOM edit is reflected by the very next lookup.
type CostingService struct {
	reader     BOMReader
	labourRate decimal.Decimal // per hour, process-wide configuration
}

// NewCostingService constructs a CostingService with the process labour rate.
func NewCostingService(reader BOMReader, labourRate decimal.Decimal) *CostingService {
	return &CostingService{reader: reader, labourRate: labourRate}
}

// LabourRate returns the configured hourly labour rate.
func (s *CostingService) LabourRate() decimal.Decimal {
	return s.labourRate
}

// ComponentTrueCost returns the cost of building one unit of a component:
// the sum of its raw-material entry costs plus its labour.
func (s *CostingService) ComponentTrueCost(ctx context.Context, componentID int) (decimal.Decimal, error) {
	comp, err := s.reader.Component(ctx, componentID)
	if err != nil {
		return decimal.Zero, err
	}
	materials, err := s.componentMaterialCost(ctx, comp)
	if err != nil {
		return decimal.Zero, err
	}
	return materials.Add(comp.LabourHours.Mul(s.labourRate)), nil
}

// componentMaterialCost sums cost_per_unit × quantity over the component's
// BOM. A component BOM is single level, so this never recurses.
func (s *CostingService) componentMaterialCost(ctx context.Context, comp *Component) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, entry := range comp.BOM {
		item, err := s.reader.StockItem(ctx, entry.StockItemID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("component %d BOM entry %d: %w", comp.ID, entry.ID, err)
		}
		total = total.Add(item.CostPerUnit.Mul(entry.Quantity))
	}
	return total, nil
}

// BuiltItemBOMValue returns the materials-and-components cost of one unit of
// a built item, excluding the built item's own labour. Component entries are
// priced at their full true cost (materials plus the component's labour).
func (s *CostingService) BuiltItemBOMValue(ctx context.Context, builtItemID int) (decimal.Decimal, error) {
	bi, err := s.reader.BuiltItem(ctx, builtItemID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, entry := range bi.BOM {
		switch entry.ItemType {
		case ItemRawMaterial:
			item, err := s.reader.StockItem(ctx, entry.ItemID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("built item %d BOM entry %d: %w", bi.ID, entry.ID, err)
			}
			total = total.Add(item.CostPerUnit.Mul(entry.Quantity))
		case ItemComponent:
			unitCost, err := s.ComponentTrueCost(ctx, entry.ItemID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("built item %d BOM entry %d: %w", bi.ID, entry.ID, err)
			}
			total = total.Add(unitCost.Mul(entry.Quantity))
		default:
			return decimal.Zero, Validationf(
				"built item %d BOM entry %d has invalid item type %q", bi.ID, entry.ID, entry.ItemType)
		}
	}
	return total, nil
}

// BuiltItemTrueCost returns BuiltItemBOMValue plus the built item's labour.
func (s *CostingService) BuiltItemTrueCost(ctx context.Context, builtItemID int) (decimal.Decimal, error) {
	bomValue, err := s.BuiltItemBOMValue(ctx, builtItemID)
	if err != nil {
		return decimal.Zero, err
	}
	bi, err := s.reader.BuiltItem(ctx, builtItemID)
	if err != nil {
		return decimal.Zero, err
	}
	return bomValue.Add(bi.LabourHours.Mul(s.labourRate)), nil
}

// ProductCost prices each composition entry independently at that layer's
// true cost, then adds the load-time labour. A component listed both
// directly and inside a referenced built item is priced twice; double
// listing is a data-authoring concern, not a resolver concern.
func (s *CostingService) ProductCost(ctx context.Context, productID int) (decimal.Decimal, error) {
	product, err := s.reader.Product(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, entry := range product.Composition {
		var unitCost decimal.Decimal
		switch entry.ItemType {
		case ItemRawMaterial:
			item, err := s.reader.StockItem(ctx, entry.ItemID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("product %d composition entry %d: %w", product.ID, entry.ID, err)
			}
			unitCost = item.CostPerUnit
		case ItemComponent:
			unitCost, err = s.ComponentTrueCost(ctx, entry.ItemID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("product %d composition entry %d: %w", product.ID, entry.ID, err)
			}
		case ItemBuiltItem:
			unitCost, err = s.BuiltItemTrueCost(ctx, entry.ItemID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("product %d composition entry %d: %w", product.ID, entry.ID, err)
			}
		default:
			return decimal.Zero, Validationf(
				"product %d composition entry %d has invalid component type %q", product.ID, entry.ID, entry.ItemType)
		}
		total = total.Add(unitCost.Mul(entry.Quantity))
	}
	return total.Add(product.EstimatedLoadTime.Mul(s.labourRate)), nil
}
