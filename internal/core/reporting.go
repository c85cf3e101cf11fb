package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// LowStockReport lists every catalog layer filtered to items whose available
// quantity has fallen below its configured minimum.
type LowStockReport struct {
	StockItems []StockItem `json:"stock_items"`
	Components []Component `json:"components"`
	BuiltItems []BuiltItem `json:"built_items"`
}

// WIPLine values the built-but-unconsumed stock of one sub-assembly at its
// current true cost.
type WIPLine struct {
	Item     ItemRef         `json:"item"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Value    decimal.Decimal `json:"value"`
}

// WIPReport is the work-in-progress valuation across components and built
// items holding built stock.
type WIPReport struct {
	Lines      []WIPLine       `json:"lines"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ReportingService composes read-only inventory views over the catalog and
// the cost resolvers. It holds no state and issues no writes.
type ReportingService struct {
	lister  CatalogLister
	costing *CostingService
}

// NewReportingService constructs a ReportingService.
func NewReportingService(lister CatalogLister, costing *CostingService) *ReportingService {
	return &ReportingService{lister: lister, costing: costing}
}

// LowStock returns every stock item, component, and built item whose
// available quantity is strictly below its minimum threshold.
func (s *ReportingService) LowStock(ctx context.Context) (*LowStockReport, error) {
	report := &LowStockReport{
		StockItems: []StockItem{},
		Components: []Component{},
		BuiltItems: []BuiltItem{},
	}

	stockItems, err := s.lister.StockItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range stockItems {
		if item.CurrentQuantity.LessThan(item.MinQuantity) {
			report.StockItems = append(report.StockItems, item)
		}
	}

	components, err := s.lister.Components(ctx)
	if err != nil {
		return nil, err
	}
	for _, comp := range components {
		if comp.BuiltQuantity.LessThan(comp.MinStock) {
			report.Components = append(report.Components, comp)
		}
	}

	builtItems, err := s.lister.BuiltItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, bi := range builtItems {
		if bi.BuiltQuantity.LessThan(bi.MinStock) {
			report.BuiltItems = append(report.BuiltItems, bi)
		}
	}
	return report, nil
}

// WIPValuation values built_quantity × trueCost across every component and
// built item currently holding built stock. Costs come from the resolvers,
// so the valuation reflects current prices, not the prices at build time.
func (s *ReportingService) WIPValuation(ctx context.Context) (*WIPReport, error) {
	report := &WIPReport{Lines: []WIPLine{}, TotalValue: decimal.Zero}

	components, err := s.lister.Components(ctx)
	if err != nil {
		return nil, err
	}
	for _, comp := range components {
		if comp.BuiltQuantity.Sign() <= 0 {
			continue
		}
		unitCost, err := s.costing.ComponentTrueCost(ctx, comp.ID)
		if err != nil {
			return nil, err
		}
		report.Lines = append(report.Lines, wipLine(ItemRef{ItemComponent, comp.ID}, comp.Name, comp.BuiltQuantity, unitCost))
	}

	builtItems, err := s.lister.BuiltItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, bi := range builtItems {
		if bi.BuiltQuantity.Sign() <= 0 {
			continue
		}
		unitCost, err := s.costing.BuiltItemTrueCost(ctx, bi.ID)
		if err != nil {
			return nil, err
		}
		report.Lines = append(report.Lines, wipLine(ItemRef{ItemBuiltItem, bi.ID}, bi.Name, bi.BuiltQuantity, unitCost))
	}

	for _, line := range report.Lines {
		report.TotalValue = report.TotalValue.Add(line.Value)
	}
	return report, nil
}

func wipLine(ref ItemRef, name string, qty, unitCost decimal.Decimal) WIPLine {
	return WIPLine{
		Item:     ref,
		Name:     name,
		Quantity: qty,
		UnitCost: unitCost,
		Value:    qty.Mul(unitCost),
	}
}
