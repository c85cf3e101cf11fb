package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopfloor/internal/core"
)

func findLine(t *testing.T, report *core.RequirementsReport, ref core.ItemRef) core.RequirementLine {
	t.Helper()
	for _, line := range report.Requirements {
		if line.Item == ref {
			return line
		}
	}
	t.Fatalf("no requirement line for %s %d", ref.Type.Label(), ref.ID)
	return core.RequirementLine{}
}

func TestCalculate_ExplodesToRawMaterials(t *testing.T) {
	cat := newWorkshopCatalog()
	planner := core.NewRequirementsPlanner(cat, cat)

	report, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("3")},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	timber := findLine(t, report, core.ItemRef{Type: core.ItemRawMaterial, ID: timberID})
	if !decEq(timber.GrossRequired, "60") {
		t.Errorf("timber gross = %s, want 60", timber.GrossRequired)
	}
	if !decEq(timber.Available, "20") {
		t.Errorf("timber available = %s, want 20", timber.Available)
	}
	if !decEq(timber.NetRequired, "40") {
		t.Errorf("timber net = %s, want 40", timber.NetRequired)
	}

	frame := findLine(t, report, core.ItemRef{Type: core.ItemComponent, ID: frameID})
	if !decEq(frame.GrossRequired, "6") {
		t.Errorf("frame gross = %s, want 6", frame.GrossRequired)
	}
	if !decEq(frame.NetRequired, "6") {
		t.Errorf("frame net = %s, want 6", frame.NetRequired)
	}

	panel := findLine(t, report, core.ItemRef{Type: core.ItemBuiltItem, ID: wallPanelID})
	if !decEq(panel.GrossRequired, "3") {
		t.Errorf("panel gross = %s, want 3", panel.GrossRequired)
	}
}

func TestCalculate_AggregatesAcrossLines(t *testing.T) {
	cat := newWorkshopCatalog()
	planner := core.NewRequirementsPlanner(cat, cat)

	report, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("2")},
		{ProductID: gardenRoomID, Quantity: dec("1")},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// Two lines for the same product accumulate into one set of totals.
	timber := findLine(t, report, core.ItemRef{Type: core.ItemRawMaterial, ID: timberID})
	if !decEq(timber.GrossRequired, "60") {
		t.Errorf("aggregated timber gross = %s, want 60", timber.GrossRequired)
	}
	frame := findLine(t, report, core.ItemRef{Type: core.ItemComponent, ID: frameID})
	if !decEq(frame.GrossRequired, "6") {
		t.Errorf("aggregated frame gross = %s, want 6", frame.GrossRequired)
	}
}

func TestCalculate_SharedSubAssemblyAcrossProducts(t *testing.T) {
	cat := newWorkshopCatalog()
	// A second product using the frame directly.
	cat.products[31] = core.Product{
		ID: 31, Name: "Frame Kit",
		EstimatedLoadTime: dec("0.5"),
		Composition: []core.CompositionEntry{
			{ID: 1, ProductID: 31, ItemType: core.ItemComponent, ItemID: frameID, Quantity: dec("4"), Unit: "unit"},
		},
	}
	planner := core.NewRequirementsPlanner(cat, cat)

	report, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("1")},
		{ProductID: 31, Quantity: dec("1")},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// 2 frames via the panel + 4 direct
	frame := findLine(t, report, core.ItemRef{Type: core.ItemComponent, ID: frameID})
	if !decEq(frame.GrossRequired, "6") {
		t.Errorf("shared frame gross = %s, want 6", frame.GrossRequired)
	}
	timber := findLine(t, report, core.ItemRef{Type: core.ItemRawMaterial, ID: timberID})
	if !decEq(timber.GrossRequired, "60") {
		t.Errorf("shared timber gross = %s, want 60", timber.GrossRequired)
	}
}

func TestCalculate_NetFloorsAtZero(t *testing.T) {
	cat := newWorkshopCatalog()
	item := cat.stockItems[timberID]
	item.CurrentQuantity = dec("500")
	cat.stockItems[timberID] = item
	planner := core.NewRequirementsPlanner(cat, cat)

	report, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("3")},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	timber := findLine(t, report, core.ItemRef{Type: core.ItemRawMaterial, ID: timberID})
	if !timber.NetRequired.IsZero() {
		t.Errorf("surplus stock net = %s, want 0", timber.NetRequired)
	}
	if !decEq(timber.GrossRequired, "60") {
		t.Errorf("gross stays visible: got %s, want 60", timber.GrossRequired)
	}
	if !decEq(timber.Available, "500") {
		t.Errorf("available stays visible: got %s, want 500", timber.Available)
	}
}

func TestCalculate_RejectsNonPositiveQuantity(t *testing.T) {
	cat := newWorkshopCatalog()
	planner := core.NewRequirementsPlanner(cat, cat)

	for _, qty := range []string{"0", "-2"} {
		_, err := planner.Calculate(context.Background(), []core.DemandLine{
			{ProductID: gardenRoomID, Quantity: dec(qty)},
		})
		if !core.IsValidation(err) {
			t.Errorf("quantity %s: got %v, want ValidationError", qty, err)
		}
	}
}

func TestCalculate_UnknownProduct(t *testing.T) {
	cat := newWorkshopCatalog()
	planner := core.NewRequirementsPlanner(cat, cat)

	_, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: 999, Quantity: dec("1")},
	})
	if !core.IsNotFound(err) {
		t.Errorf("unknown product: got %v, want NotFoundError", err)
	}
}

func TestCalculate_EmptyComposition(t *testing.T) {
	cat := newWorkshopCatalog()
	p := cat.products[gardenRoomID]
	p.Composition = nil
	cat.products[gardenRoomID] = p
	planner := core.NewRequirementsPlanner(cat, cat)

	report, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("3")},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(report.Requirements) != 0 {
		t.Errorf("empty composition produced %d lines, want 0", len(report.Requirements))
	}
}

func TestCalculate_NestedBuiltItem(t *testing.T) {
	cat := newWorkshopCatalog()
	// A cladding panel nests the wall panel one level deeper.
	cat.builtItems[21] = core.BuiltItem{
		ID: 21, Name: "Clad Panel", LabourHours: dec("1"),
		BOM: []core.BuiltItemBOMEntry{
			{ID: 1, BuiltItemID: 21, ItemType: core.ItemBuiltItem, ItemID: wallPanelID, Quantity: dec("1"), Unit: "unit"},
			{ID: 2, BuiltItemID: 21, ItemType: core.ItemRawMaterial, ItemID: screwsID, Quantity: dec("2"), Unit: "box"},
		},
	}
	p := cat.products[gardenRoomID]
	p.Composition = []core.CompositionEntry{
		{ID: 1, ProductID: gardenRoomID, ItemType: core.ItemBuiltItem, ItemID: 21, Quantity: dec("2"), Unit: "unit"},
	}
	cat.products[gardenRoomID] = p
	planner := core.NewRequirementsPlanner(cat, cat)

	report, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("1")},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// 2 clad panels → 2 wall panels → 4 frames → 40 timber, plus 4 boxes of screws.
	panel := findLine(t, report, core.ItemRef{Type: core.ItemBuiltItem, ID: wallPanelID})
	if !decEq(panel.GrossRequired, "2") {
		t.Errorf("nested panel gross = %s, want 2", panel.GrossRequired)
	}
	frame := findLine(t, report, core.ItemRef{Type: core.ItemComponent, ID: frameID})
	if !decEq(frame.GrossRequired, "4") {
		t.Errorf("nested frame gross = %s, want 4", frame.GrossRequired)
	}
	timber := findLine(t, report, core.ItemRef{Type: core.ItemRawMaterial, ID: timberID})
	if !decEq(timber.GrossRequired, "40") {
		t.Errorf("nested timber gross = %s, want 40", timber.GrossRequired)
	}
	screws := findLine(t, report, core.ItemRef{Type: core.ItemRawMaterial, ID: screwsID})
	if !decEq(screws.GrossRequired, "4") {
		t.Errorf("nested screws gross = %s, want 4", screws.GrossRequired)
	}
}

func TestCalculate_DetectsCycle(t *testing.T) {
	cat := newWorkshopCatalog()
	// Two built items referencing each other. The write side rejects this;
	// the walker must still refuse to recurse forever over bad data.
	cat.builtItems[21] = core.BuiltItem{
		ID: 21, Name: "Panel A", LabourHours: dec("1"),
		BOM: []core.BuiltItemBOMEntry{
			{ID: 1, BuiltItemID: 21, ItemType: core.ItemBuiltItem, ItemID: 22, Quantity: dec("1")},
		},
	}
	cat.builtItems[22] = core.BuiltItem{
		ID: 22, Name: "Panel B", LabourHours: dec("1"),
		BOM: []core.BuiltItemBOMEntry{
			{ID: 1, BuiltItemID: 22, ItemType: core.ItemBuiltItem, ItemID: 21, Quantity: dec("1")},
		},
	}
	p := cat.products[gardenRoomID]
	p.Composition = []core.CompositionEntry{
		{ID: 1, ProductID: gardenRoomID, ItemType: core.ItemBuiltItem, ItemID: 21, Quantity: dec("1")},
	}
	cat.products[gardenRoomID] = p
	planner := core.NewRequirementsPlanner(cat, cat)

	_, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("1")},
	})
	if !core.IsCycle(err) {
		t.Fatalf("cyclic BOM: got %v, want CycleError", err)
	}
	var cycleErr *core.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatal("CycleError not unwrappable")
	}
	if len(cycleErr.Path) < 3 {
		t.Errorf("cycle path %v, want at least the two panels and the revisit", cycleErr.Path)
	}
}

func TestCalculate_ReportOrdering(t *testing.T) {
	cat := newWorkshopCatalog()
	planner := core.NewRequirementsPlanner(cat, cat)

	report, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("1")},
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	want := []core.ItemRef{
		{Type: core.ItemRawMaterial, ID: timberID},
		{Type: core.ItemComponent, ID: frameID},
		{Type: core.ItemBuiltItem, ID: wallPanelID},
	}
	if len(report.Requirements) != len(want) {
		t.Fatalf("got %d lines, want %d", len(report.Requirements), len(want))
	}
	for i, ref := range want {
		if report.Requirements[i].Item != ref {
			t.Errorf("line %d = %v, want %v", i, report.Requirements[i].Item, ref)
		}
	}
}

// countingCatalog wraps memCatalog and counts component fetches, proving the
// walk memoizes shared sub-assemblies instead of re-reading them per parent.
type countingCatalog struct {
	*memCatalog
	componentReads int
}

func (c *countingCatalog) Component(ctx context.Context, id int) (*core.Component, error) {
	c.componentReads++
	return c.memCatalog.Component(ctx, id)
}

func TestCalculate_MemoizesSharedExpansion(t *testing.T) {
	cat := newWorkshopCatalog()
	// Frame appears via the panel and directly in the composition.
	p := cat.products[gardenRoomID]
	p.Composition = append(p.Composition, core.CompositionEntry{
		ID: 2, ProductID: gardenRoomID, ItemType: core.ItemComponent, ItemID: frameID, Quantity: dec("1"),
	})
	cat.products[gardenRoomID] = p

	counting := &countingCatalog{memCatalog: cat}
	planner := core.NewRequirementsPlanner(counting, cat)

	if _, err := planner.Calculate(context.Background(), []core.DemandLine{
		{ProductID: gardenRoomID, Quantity: dec("5")},
	}); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if counting.componentReads != 1 {
		t.Errorf("frame read %d times, want 1", counting.componentReads)
	}
}

func seedOrder(cat *memCatalog, id int, lines ...core.OrderLine) {
	cat.orders[id] = core.Order{
		ID: id, Reference: "ORD-0042", CustomerName: "Hartley Joinery",
		Status: core.OrderConfirmed, CreatedAt: time.Now(), Lines: lines,
	}
}

func TestCalculateForOrder(t *testing.T) {
	cat := newWorkshopCatalog()
	seedOrder(cat, 7, core.OrderLine{ID: 1, OrderID: 7, ProductID: gardenRoomID, Quantity: dec("3")})
	planner := core.NewRequirementsPlanner(cat, cat)

	report, err := planner.CalculateForOrder(context.Background(), 7)
	if err != nil {
		t.Fatalf("CalculateForOrder: %v", err)
	}
	timber := findLine(t, report, core.ItemRef{Type: core.ItemRawMaterial, ID: timberID})
	if !decEq(timber.NetRequired, "40") {
		t.Errorf("order timber net = %s, want 40", timber.NetRequired)
	}
}

func TestCalculateForOrder_NotFound(t *testing.T) {
	cat := newWorkshopCatalog()
	planner := core.NewRequirementsPlanner(cat, cat)

	if _, err := planner.CalculateForOrder(context.Background(), 999); !core.IsNotFound(err) {
		t.Errorf("missing order: got %v, want NotFoundError", err)
	}
}

func TestLoadSheet_SplitsMaterialsFromBuilds(t *testing.T) {
	cat := newWorkshopCatalog()
	seedOrder(cat, 7, core.OrderLine{ID: 1, OrderID: 7, ProductID: gardenRoomID, Quantity: dec("2")})
	planner := core.NewRequirementsPlanner(cat, cat)

	sheet, err := planner.LoadSheet(context.Background(), 7)
	if err != nil {
		t.Fatalf("LoadSheet: %v", err)
	}
	if sheet.OrderID != 7 || sheet.Reference != "ORD-0042" {
		t.Errorf("sheet header = %d %q", sheet.OrderID, sheet.Reference)
	}
	if len(sheet.Materials) != 1 {
		t.Fatalf("materials = %d lines, want 1", len(sheet.Materials))
	}
	if sheet.Materials[0].Item.Type != core.ItemRawMaterial {
		t.Errorf("materials line is %s", sheet.Materials[0].Item.Type)
	}
	if len(sheet.SubBuilds) != 2 {
		t.Fatalf("sub-builds = %d lines, want 2", len(sheet.SubBuilds))
	}
	for _, line := range sheet.SubBuilds {
		if line.Item.Type == core.ItemRawMaterial {
			t.Errorf("raw material %d leaked into sub-builds", line.Item.ID)
		}
	}
}
