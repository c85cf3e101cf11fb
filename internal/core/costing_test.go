package core_test

import (
	"context"
	"testing"

	"shopfloor/internal/core"

	"github.com/shopspring/decimal"
)

func TestComponentTrueCost(t *testing.T) {
	cat := newWorkshopCatalog()
	svc := core.NewCostingService(cat, testRate)

	// 10 × 2.50 timber + 1.5h × 15 labour
	got, err := svc.ComponentTrueCost(context.Background(), frameID)
	if err != nil {
		t.Fatalf("ComponentTrueCost: %v", err)
	}
	if !decEq(got, "47.50") {
		t.Errorf("frame true cost = %s, want 47.50", got)
	}
}

func TestComponentTrueCost_EmptyBOM(t *testing.T) {
	cat := newWorkshopCatalog()
	comp := cat.components[frameID]
	comp.BOM = nil
	cat.components[frameID] = comp
	svc := core.NewCostingService(cat, testRate)

	got, err := svc.ComponentTrueCost(context.Background(), frameID)
	if err != nil {
		t.Fatalf("ComponentTrueCost: %v", err)
	}
	// labour only
	if !decEq(got, "22.5") {
		t.Errorf("labour-only cost = %s, want 22.5", got)
	}
}

func TestComponentTrueCost_NotFound(t *testing.T) {
	cat := newWorkshopCatalog()
	svc := core.NewCostingService(cat, testRate)

	if _, err := svc.ComponentTrueCost(context.Background(), 999); !core.IsNotFound(err) {
		t.Errorf("missing component: got %v, want NotFoundError", err)
	}
}

func TestComponentTrueCost_MissingStockItem(t *testing.T) {
	cat := newWorkshopCatalog()
	delete(cat.stockItems, timberID)
	svc := core.NewCostingService(cat, testRate)

	_, err := svc.ComponentTrueCost(context.Background(), frameID)
	if !core.IsNotFound(err) {
		t.Errorf("dangling BOM reference: got %v, want wrapped NotFoundError", err)
	}
}

func TestBuiltItemCosts(t *testing.T) {
	cat := newWorkshopCatalog()
	svc := core.NewCostingService(cat, testRate)
	ctx := context.Background()

	bomValue, err := svc.BuiltItemBOMValue(ctx, wallPanelID)
	if err != nil {
		t.Fatalf("BuiltItemBOMValue: %v", err)
	}
	// 2 frames at 47.50; excludes the panel's own labour
	if !decEq(bomValue, "95.00") {
		t.Errorf("wall panel BOM value = %s, want 95.00", bomValue)
	}

	trueCost, err := svc.BuiltItemTrueCost(ctx, wallPanelID)
	if err != nil {
		t.Fatalf("BuiltItemTrueCost: %v", err)
	}
	if !decEq(trueCost, "102.50") {
		t.Errorf("wall panel true cost = %s, want 102.50", trueCost)
	}

	labour := dec("0.5").Mul(testRate)
	if !trueCost.Equal(bomValue.Add(labour)) {
		t.Errorf("true cost %s != BOM value %s + labour %s", trueCost, bomValue, labour)
	}
}

func TestBuiltItemBOMValue_MixedEntries(t *testing.T) {
	cat := newWorkshopCatalog()
	bi := cat.builtItems[wallPanelID]
	bi.BOM = append(bi.BOM, core.BuiltItemBOMEntry{
		ID: 2, BuiltItemID: wallPanelID, ItemType: core.ItemRawMaterial,
		ItemID: screwsID, Quantity: dec("3"), Unit: "box",
	})
	cat.builtItems[wallPanelID] = bi
	svc := core.NewCostingService(cat, testRate)

	got, err := svc.BuiltItemBOMValue(context.Background(), wallPanelID)
	if err != nil {
		t.Fatalf("BuiltItemBOMValue: %v", err)
	}
	// 95.00 frames + 3 × 3.00 screws
	if !decEq(got, "104.00") {
		t.Errorf("mixed BOM value = %s, want 104.00", got)
	}
}

func TestBuiltItemBOMValue_InvalidEntryType(t *testing.T) {
	cat := newWorkshopCatalog()
	bi := cat.builtItems[wallPanelID]
	bi.BOM = append(bi.BOM, core.BuiltItemBOMEntry{
		ID: 2, BuiltItemID: wallPanelID, ItemType: "widget", ItemID: 1, Quantity: dec("1"),
	})
	cat.builtItems[wallPanelID] = bi
	svc := core.NewCostingService(cat, testRate)

	_, err := svc.BuiltItemBOMValue(context.Background(), wallPanelID)
	if !core.IsValidation(err) {
		t.Errorf("invalid entry type: got %v, want ValidationError", err)
	}
}

func TestProductCost(t *testing.T) {
	cat := newWorkshopCatalog()
	svc := core.NewCostingService(cat, testRate)

	got, err := svc.ProductCost(context.Background(), gardenRoomID)
	if err != nil {
		t.Fatalf("ProductCost: %v", err)
	}
	// 1 wall panel at 102.50 + 2h load × 15
	if !decEq(got, "132.50") {
		t.Errorf("garden room cost = %s, want 132.50", got)
	}
}

func TestProductCost_EmptyComposition(t *testing.T) {
	cat := newWorkshopCatalog()
	p := cat.products[gardenRoomID]
	p.Composition = nil
	cat.products[gardenRoomID] = p
	svc := core.NewCostingService(cat, testRate)

	got, err := svc.ProductCost(context.Background(), gardenRoomID)
	if err != nil {
		t.Fatalf("ProductCost: %v", err)
	}
	// load time only
	if !decEq(got, "30") {
		t.Errorf("empty composition cost = %s, want 30", got)
	}
}

// A component listed directly alongside a built item that also contains it is
// costed twice. The resolver prices what the composition says, verbatim.
func TestProductCost_DoubleListedComponent(t *testing.T) {
	cat := newWorkshopCatalog()
	p := cat.products[gardenRoomID]
	p.Composition = append(p.Composition, core.CompositionEntry{
		ID: 2, ProductID: gardenRoomID, ItemType: core.ItemComponent,
		ItemID: frameID, Quantity: dec("1"), Unit: "unit",
	})
	cat.products[gardenRoomID] = p
	svc := core.NewCostingService(cat, testRate)

	got, err := svc.ProductCost(context.Background(), gardenRoomID)
	if err != nil {
		t.Fatalf("ProductCost: %v", err)
	}
	// 132.50 + one more frame at 47.50
	if !decEq(got, "180.00") {
		t.Errorf("double-listed cost = %s, want 180.00", got)
	}
}

func TestProductCost_ReflectsPriceEdit(t *testing.T) {
	cat := newWorkshopCatalog()
	svc := core.NewCostingService(cat, testRate)
	ctx := context.Background()

	before, err := svc.ProductCost(ctx, gardenRoomID)
	if err != nil {
		t.Fatalf("ProductCost: %v", err)
	}

	item := cat.stockItems[timberID]
	item.CostPerUnit = dec("3.00")
	cat.stockItems[timberID] = item

	after, err := svc.ProductCost(ctx, gardenRoomID)
	if err != nil {
		t.Fatalf("ProductCost after edit: %v", err)
	}
	// 20 units of timber in the panel, each up 0.50
	if !after.Sub(before).Equal(dec("10.00")) {
		t.Errorf("cost moved by %s after price edit, want 10.00", after.Sub(before))
	}
}

func TestProductCost_ZeroLabourRate(t *testing.T) {
	cat := newWorkshopCatalog()
	svc := core.NewCostingService(cat, decimal.Zero)

	got, err := svc.ProductCost(context.Background(), gardenRoomID)
	if err != nil {
		t.Fatalf("ProductCost: %v", err)
	}
	// materials only: 20 timber × 2.50
	if !decEq(got, "50.00") {
		t.Errorf("materials-only cost = %s, want 50.00", got)
	}
}
