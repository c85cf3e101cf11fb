package core_test

import (
	"context"
	"testing"

	"shopfloor/internal/core"
)

func newReportingService(cat *memCatalog) *core.ReportingService {
	return core.NewReportingService(cat, core.NewCostingService(cat, testRate))
}

func TestLowStock(t *testing.T) {
	cat := newWorkshopCatalog()
	// Timber (20 < 30) and the frame (0 < 4) and panel (0 < 2) are low;
	// screws (40 ≥ 10) are fine.
	svc := newReportingService(cat)

	report, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(report.StockItems) != 1 || report.StockItems[0].ID != timberID {
		t.Errorf("low stock items = %v, want just timber", report.StockItems)
	}
	if len(report.Components) != 1 || report.Components[0].ID != frameID {
		t.Errorf("low components = %v, want just frame", report.Components)
	}
	if len(report.BuiltItems) != 1 || report.BuiltItems[0].ID != wallPanelID {
		t.Errorf("low built items = %v, want just wall panel", report.BuiltItems)
	}
}

func TestLowStock_AtMinimumIsNotLow(t *testing.T) {
	cat := newWorkshopCatalog()
	item := cat.stockItems[timberID]
	item.CurrentQuantity = item.MinQuantity
	cat.stockItems[timberID] = item
	comp := cat.components[frameID]
	comp.BuiltQuantity = comp.MinStock
	cat.components[frameID] = comp
	bi := cat.builtItems[wallPanelID]
	bi.BuiltQuantity = bi.MinStock
	cat.builtItems[wallPanelID] = bi
	svc := newReportingService(cat)

	report, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(report.StockItems)+len(report.Components)+len(report.BuiltItems) != 0 {
		t.Errorf("items at exactly their minimum reported low: %+v", report)
	}
}

func TestWIPValuation(t *testing.T) {
	cat := newWorkshopCatalog()
	comp := cat.components[frameID]
	comp.BuiltQuantity = dec("2")
	cat.components[frameID] = comp
	bi := cat.builtItems[wallPanelID]
	bi.BuiltQuantity = dec("1")
	cat.builtItems[wallPanelID] = bi
	svc := newReportingService(cat)

	report, err := svc.WIPValuation(context.Background())
	if err != nil {
		t.Fatalf("WIPValuation: %v", err)
	}
	if len(report.Lines) != 2 {
		t.Fatalf("got %d WIP lines, want 2", len(report.Lines))
	}

	frame := report.Lines[0]
	if frame.Item != (core.ItemRef{Type: core.ItemComponent, ID: frameID}) {
		t.Fatalf("first line = %v, want frame", frame.Item)
	}
	if !decEq(frame.UnitCost, "47.50") || !decEq(frame.Value, "95.00") {
		t.Errorf("frame valued %s @ %s", frame.Value, frame.UnitCost)
	}

	panel := report.Lines[1]
	if !decEq(panel.UnitCost, "102.50") || !decEq(panel.Value, "102.50") {
		t.Errorf("panel valued %s @ %s", panel.Value, panel.UnitCost)
	}

	if !decEq(report.TotalValue, "197.50") {
		t.Errorf("total = %s, want 197.50", report.TotalValue)
	}
}

func TestWIPValuation_NothingBuilt(t *testing.T) {
	cat := newWorkshopCatalog()
	svc := newReportingService(cat)

	report, err := svc.WIPValuation(context.Background())
	if err != nil {
		t.Fatalf("WIPValuation: %v", err)
	}
	if len(report.Lines) != 0 || !report.TotalValue.IsZero() {
		t.Errorf("empty workshop valued at %s over %d lines", report.TotalValue, len(report.Lines))
	}
}

func TestWIPValuation_TracksPriceEdits(t *testing.T) {
	cat := newWorkshopCatalog()
	comp := cat.components[frameID]
	comp.BuiltQuantity = dec("2")
	cat.components[frameID] = comp
	svc := newReportingService(cat)
	ctx := context.Background()

	before, err := svc.WIPValuation(ctx)
	if err != nil {
		t.Fatalf("WIPValuation: %v", err)
	}

	item := cat.stockItems[timberID]
	item.CostPerUnit = dec("5.00")
	cat.stockItems[timberID] = item

	after, err := svc.WIPValuation(ctx)
	if err != nil {
		t.Fatalf("WIPValuation after edit: %v", err)
	}
	// 2 frames × 10 timber × 2.50 increase
	if !after.TotalValue.Sub(before.TotalValue).Equal(dec("50.00")) {
		t.Errorf("valuation moved by %s, want 50.00", after.TotalValue.Sub(before.TotalValue))
	}
}
