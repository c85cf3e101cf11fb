package core_test

import (
	"testing"

	"shopfloor/internal/core"
)

func TestStock_ReceiveWeightedAverageCost(t *testing.T) {
	pool, ctx := setupTestDB(t)
	catalog := core.NewCatalogService(pool)
	ids := seedWorkshop(t, ctx, catalog)
	stock := core.NewStockService(pool)

	// Start the screws from a clean slate: 0 on hand.
	if err := stock.Adjust(ctx, ids.screws, dec("0"), "stocktake"); err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	// 100 @ 2.00, then 100 @ 3.00 → avg 2.50
	if err := stock.Receive(ctx, ids.screws, dec("100"), dec("2.00"), "first delivery"); err != nil {
		t.Fatalf("first Receive: %v", err)
	}
	if err := stock.Receive(ctx, ids.screws, dec("100"), dec("3.00"), "second delivery"); err != nil {
		t.Fatalf("second Receive: %v", err)
	}

	item, err := catalog.StockItem(ctx, ids.screws)
	if err != nil {
		t.Fatalf("StockItem: %v", err)
	}
	if !decEq(item.CurrentQuantity, "200") {
		t.Errorf("on hand = %s, want 200", item.CurrentQuantity)
	}
	if !decEq(item.CostPerUnit, "2.50") {
		t.Errorf("weighted average cost = %s, want 2.50", item.CostPerUnit)
	}
}

func TestStock_IssueInsufficient(t *testing.T) {
	pool, ctx := setupTestDB(t)
	catalog := core.NewCatalogService(pool)
	ids := seedWorkshop(t, ctx, catalog)
	stock := core.NewStockService(pool)

	// 20 on hand.
	err := stock.Issue(ctx, ids.timber, dec("25"), "job 17")
	if !core.IsValidation(err) {
		t.Fatalf("over-issue: got %v, want ValidationError", err)
	}

	item, err := catalog.StockItem(ctx, ids.timber)
	if err != nil {
		t.Fatalf("StockItem: %v", err)
	}
	if !decEq(item.CurrentQuantity, "20") {
		t.Errorf("failed issue changed stock to %s", item.CurrentQuantity)
	}
}

func TestStock_AdjustRecordsDelta(t *testing.T) {
	pool, ctx := setupTestDB(t)
	catalog := core.NewCatalogService(pool)
	ids := seedWorkshop(t, ctx, catalog)
	stock := core.NewStockService(pool)

	if err := stock.Adjust(ctx, ids.timber, dec("18"), "stocktake correction"); err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	movements, err := stock.Movements(ctx, ids.timber)
	if err != nil {
		t.Fatalf("Movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("got %d movements, want 1", len(movements))
	}
	m := movements[0]
	if m.Type != core.MovementAdjustment {
		t.Errorf("movement type = %s, want ADJUSTMENT", m.Type)
	}
	if !decEq(m.Quantity, "-2") {
		t.Errorf("movement quantity = %s, want -2", m.Quantity)
	}
}

func TestStock_CompleteComponentBuild(t *testing.T) {
	pool, ctx := setupTestDB(t)
	catalog := core.NewCatalogService(pool)
	ids := seedWorkshop(t, ctx, catalog)
	stock := core.NewStockService(pool)

	// 2 frames consume 20 timber, exactly what is on hand.
	if err := stock.CompleteBuild(ctx, core.ItemComponent, ids.frame, dec("2")); err != nil {
		t.Fatalf("CompleteBuild: %v", err)
	}

	item, err := catalog.StockItem(ctx, ids.timber)
	if err != nil {
		t.Fatalf("StockItem: %v", err)
	}
	if !item.CurrentQuantity.IsZero() {
		t.Errorf("timber = %s after build, want 0", item.CurrentQuantity)
	}

	comp, err := catalog.Component(ctx, ids.frame)
	if err != nil {
		t.Fatalf("Component: %v", err)
	}
	if !decEq(comp.BuiltQuantity, "2") {
		t.Errorf("built quantity = %s, want 2", comp.BuiltQuantity)
	}

	movements, err := stock.Movements(ctx, ids.timber)
	if err != nil {
		t.Fatalf("Movements: %v", err)
	}
	if len(movements) != 1 || movements[0].Type != core.MovementBuild {
		t.Fatalf("movements = %+v, want one BUILD", movements)
	}
	if !decEq(movements[0].Quantity, "-20") {
		t.Errorf("consumed %s, want -20", movements[0].Quantity)
	}
}

func TestStock_CompleteBuild_InsufficientRollsBack(t *testing.T) {
	pool, ctx := setupTestDB(t)
	catalog := core.NewCatalogService(pool)
	ids := seedWorkshop(t, ctx, catalog)
	stock := core.NewStockService(pool)

	// 3 frames need 30 timber; only 20 on hand.
	err := stock.CompleteBuild(ctx, core.ItemComponent, ids.frame, dec("3"))
	if !core.IsValidation(err) {
		t.Fatalf("short build: got %v, want ValidationError", err)
	}

	item, err := catalog.StockItem(ctx, ids.timber)
	if err != nil {
		t.Fatalf("StockItem: %v", err)
	}
	if !decEq(item.CurrentQuantity, "20") {
		t.Errorf("failed build consumed stock: %s left", item.CurrentQuantity)
	}
	comp, err := catalog.Component(ctx, ids.frame)
	if err != nil {
		t.Fatalf("Component: %v", err)
	}
	if !comp.BuiltQuantity.IsZero() {
		t.Errorf("failed build incremented built quantity to %s", comp.BuiltQuantity)
	}

	movements, err := stock.Movements(ctx, ids.timber)
	if err != nil {
		t.Fatalf("Movements: %v", err)
	}
	if len(movements) != 0 {
		t.Errorf("failed build left %d movements behind", len(movements))
	}
}

func TestStock_CompleteBuiltItemBuild(t *testing.T) {
	pool, ctx := setupTestDB(t)
	catalog := core.NewCatalogService(pool)
	ids := seedWorkshop(t, ctx, catalog)
	stock := core.NewStockService(pool)

	// Build the frames first, then a panel from them.
	if err := stock.CompleteBuild(ctx, core.ItemComponent, ids.frame, dec("2")); err != nil {
		t.Fatalf("build frames: %v", err)
	}
	if err := stock.CompleteBuild(ctx, core.ItemBuiltItem, ids.wallPanel, dec("1")); err != nil {
		t.Fatalf("build panel: %v", err)
	}

	comp, err := catalog.Component(ctx, ids.frame)
	if err != nil {
		t.Fatalf("Component: %v", err)
	}
	if !comp.BuiltQuantity.IsZero() {
		t.Errorf("frames left after panel build: %s", comp.BuiltQuantity)
	}
	bi, err := catalog.BuiltItem(ctx, ids.wallPanel)
	if err != nil {
		t.Fatalf("BuiltItem: %v", err)
	}
	if !decEq(bi.BuiltQuantity, "1") {
		t.Errorf("panel built quantity = %s, want 1", bi.BuiltQuantity)
	}
}

func TestStock_CompleteBuild_NoComponentStock(t *testing.T) {
	pool, ctx := setupTestDB(t)
	catalog := core.NewCatalogService(pool)
	ids := seedWorkshop(t, ctx, catalog)
	stock := core.NewStockService(pool)

	// No frames built yet: the panel build must fail, not dip into raw timber.
	err := stock.CompleteBuild(ctx, core.ItemBuiltItem, ids.wallPanel, dec("1"))
	if !core.IsValidation(err) {
		t.Fatalf("panel without frames: got %v, want ValidationError", err)
	}
}

func TestStock_MovementsNewestFirst(t *testing.T) {
	pool, ctx := setupTestDB(t)
	catalog := core.NewCatalogService(pool)
	ids := seedWorkshop(t, ctx, catalog)
	stock := core.NewStockService(pool)

	if err := stock.Receive(ctx, ids.timber, dec("10"), dec("2.50"), "delivery"); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := stock.Issue(ctx, ids.timber, dec("5"), "job 17"); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	movements, err := stock.Movements(ctx, ids.timber)
	if err != nil {
		t.Fatalf("Movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("got %d movements, want 2", len(movements))
	}
	if movements[0].Type != core.MovementIssue || movements[1].Type != core.MovementReceipt {
		t.Errorf("order = %s, %s; want ISSUE then RECEIPT", movements[0].Type, movements[1].Type)
	}
}
