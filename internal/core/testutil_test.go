package core_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"shopfloor/internal/core"

	"github.com/shopspring/decimal"
)

// memCatalog is an in-memory stand-in for the Postgres catalog. The
// calculation services only ever read, so a map-backed fake exercises them
// exactly as the real store does.
type memCatalog struct {
	stockItems map[int]core.StockItem
	components map[int]core.Component
	builtItems map[int]core.BuiltItem
	products   map[int]core.Product
	orders     map[int]core.Order
	planners   map[int]core.WeeklyPlanner
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		stockItems: make(map[int]core.StockItem),
		components: make(map[int]core.Component),
		builtItems: make(map[int]core.BuiltItem),
		products:   make(map[int]core.Product),
		orders:     make(map[int]core.Order),
		planners:   make(map[int]core.WeeklyPlanner),
	}
}

func (m *memCatalog) StockItem(_ context.Context, id int) (*core.StockItem, error) {
	item, ok := m.stockItems[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "stock item", ID: id}
	}
	return &item, nil
}

func (m *memCatalog) Component(_ context.Context, id int) (*core.Component, error) {
	comp, ok := m.components[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "component", ID: id}
	}
	return &comp, nil
}

func (m *memCatalog) BuiltItem(_ context.Context, id int) (*core.BuiltItem, error) {
	bi, ok := m.builtItems[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "built item", ID: id}
	}
	return &bi, nil
}

func (m *memCatalog) Product(_ context.Context, id int) (*core.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "product", ID: id}
	}
	return &p, nil
}

func (m *memCatalog) Order(_ context.Context, id int) (*core.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "order", ID: id}
	}
	return &o, nil
}

func (m *memCatalog) Planner(_ context.Context, id int) (*core.WeeklyPlanner, error) {
	p, ok := m.planners[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: "planner", ID: id}
	}
	return &p, nil
}

func (m *memCatalog) StockItems(_ context.Context) ([]core.StockItem, error) {
	out := make([]core.StockItem, 0, len(m.stockItems))
	for _, item := range m.stockItems {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCatalog) Components(_ context.Context) ([]core.Component, error) {
	out := make([]core.Component, 0, len(m.components))
	for _, comp := range m.components {
		out = append(out, comp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCatalog) BuiltItems(_ context.Context) ([]core.BuiltItem, error) {
	out := make([]core.BuiltItem, 0, len(m.builtItems))
	for _, bi := range m.builtItems {
		out = append(out, bi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Fixture ids for the workshop scenario.
const (
	timberID     = 1
	screwsID     = 2
	frameID      = 10
	wallPanelID  = 20
	gardenRoomID = 30
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("bad decimal literal: " + s)
	}
	return d
}

// newWorkshopCatalog seeds the joinery-shop fixture used across the
// calculation tests:
//
//	Timber 4x2   @ 2.50/unit, 20 on hand
//	Frame        = 10 × Timber + 1.5h labour         → 47.50 at rate 15
//	Wall Panel   = 2 × Frame  + 0.5h labour          → 102.50
//	Garden Room  = 1 × Wall Panel, 2h load time      → 132.50
func newWorkshopCatalog() *memCatalog {
	m := newMemCatalog()

	m.stockItems[timberID] = core.StockItem{
		ID: timberID, Name: "Timber 4x2", Unit: "unit",
		CurrentQuantity: dec("20"), MinQuantity: dec("30"), CostPerUnit: dec("2.50"),
		Category: "timber", Location: "rack A",
	}
	m.stockItems[screwsID] = core.StockItem{
		ID: screwsID, Name: "Screws 50mm (box)", Unit: "box",
		CurrentQuantity: dec("40"), MinQuantity: dec("10"), CostPerUnit: dec("3.00"),
		Category: "fixings", Location: "bin 3",
	}

	m.components[frameID] = core.Component{
		ID: frameID, Name: "Frame",
		BuiltQuantity: dec("0"), MinStock: dec("4"), LabourHours: dec("1.5"),
		BOM: []core.ComponentBOMEntry{
			{ID: 1, ComponentID: frameID, StockItemID: timberID, Quantity: dec("10"), Unit: "unit"},
		},
	}

	m.builtItems[wallPanelID] = core.BuiltItem{
		ID: wallPanelID, Name: "Wall Panel",
		BuiltQuantity: dec("0"), MinStock: dec("2"), LabourHours: dec("0.5"),
		BOM: []core.BuiltItemBOMEntry{
			{ID: 1, BuiltItemID: wallPanelID, ItemType: core.ItemComponent, ItemID: frameID, Quantity: dec("2"), Unit: "unit"},
		},
	}

	m.products[gardenRoomID] = core.Product{
		ID: gardenRoomID, Name: "Garden Room", Category: "garden buildings",
		EstimatedLoadTime: dec("2"), EstimatedInstallTime: dec("8"),
		Composition: []core.CompositionEntry{
			{ID: 1, ProductID: gardenRoomID, ItemType: core.ItemBuiltItem, ItemID: wallPanelID, Quantity: dec("1"), Unit: "unit"},
		},
	}

	return m
}

// labour rate shared by the calculation tests.
var testRate = dec("15")

func decEq(a decimal.Decimal, want string) bool {
	return a.Equal(dec(want))
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}
