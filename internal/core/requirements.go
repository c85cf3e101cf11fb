package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RequirementLine is one row of a requirements report: the combined demand
// for an item across every order line fed into the calculation, netted
// against the stock already on hand.
type RequirementLine struct {
	Item          ItemRef         `json:"item"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit,omitempty"`
	GrossRequired decimal.Decimal `json:"gross_required"`
	Available     decimal.Decimal `json:"available"`
	NetRequired   decimal.Decimal `json:"net_required"` // max(0, gross - available)
}

// RequirementsReport is the full explosion of a set of order lines down to
// raw-material purchase quantities and sub-assembly build quantities.
type RequirementsReport struct {
	Requirements []RequirementLine `json:"requirements"`
}

// LoadSheet is the requirements expansion for one specific order, split into
// the materials to pick and the sub-assemblies to build.
type LoadSheet struct {
	OrderID   int               `json:"order_id"`
	Reference string            `json:"reference"`
	Materials []RequirementLine `json:"materials"`
	SubBuilds []RequirementLine `json:"sub_builds"`
}

// RequirementsPlanner explodes order lines through the assembly graph into
// gross and net requirements. Each Calculate call is a pure read: it mutates
// nothing and owns no state beyond the call, so re-running after a BOM or
// stock edit settles yields a corrected result.
type RequirementsPlanner struct {
	reader BOMReader
	orders OrderReader
}

// NewRequirementsPlanner constructs a RequirementsPlanner.
func NewRequirementsPlanner(reader BOMReader, orders OrderReader) *RequirementsPlanner {
	return &RequirementsPlanner{reader: reader, orders: orders}
}

// Calculate explodes the given demand lines and nets the combined totals
// against on-hand stock. Lines referencing the same product, or different
// products sharing sub-assemblies, accumulate into the same totals.
func (p *RequirementsPlanner) Calculate(ctx context.Context, lines []DemandLine) (*RequirementsReport, error) {
	for i, line := range lines {
		if line.Quantity.Sign() <= 0 {
			return nil, Validationf("order line %d: quantity must be positive, got %s", i+1, line.Quantity)
		}
	}

	walk := newExplosion(p.reader)
	for _, line := range lines {
		if err := walk.addProductDemand(ctx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}
	return &RequirementsReport{Requirements: walk.report()}, nil
}

// CalculateForOrder runs Calculate over the lines of one stored order.
func (p *RequirementsPlanner) CalculateForOrder(ctx context.Context, orderID int) (*RequirementsReport, error) {
	order, err := p.orders.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lines := make([]DemandLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, DemandLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return p.Calculate(ctx, lines)
}

// LoadSheet expands a single order and splits the result into materials to
// pick and sub-assemblies to build.
func (p *RequirementsPlanner) LoadSheet(ctx context.Context, orderID int) (*LoadSheet, error) {
	order, err := p.orders.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	report, err := p.CalculateForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	sheet := &LoadSheet{
		OrderID:   order.ID,
		Reference: order.Reference,
		Materials: []RequirementLine{},
		SubBuilds: []RequirementLine{},
	}
	for _, line := range report.Requirements {
		if line.Item.Type == ItemRawMaterial {
			sheet.Materials = append(sheet.Materials, line)
		} else {
			sheet.SubBuilds = append(sheet.SubBuilds, line)
		}
	}
	return sheet, nil
}

// ── Explosion walk ────────────────────────────────────────────────────────────

// contribution is one item requirement produced by building a single unit of
// a sub-assembly. Memoized per (type, id) so a component shared by many
// parents is expanded once per calculation, not once per reference.
type contribution struct {
	ref ItemRef
	qty decimal.Decimal
}

type itemMeta struct {
	name      string
	unit      string
	available decimal.Decimal
}

// explosion holds the per-call accumulator, memo table, and item metadata for
// one Calculate invocation. Nothing survives the call.
type explosion struct {
	reader BOMReader
	gross  map[ItemRef]decimal.Decimal
	meta   map[ItemRef]itemMeta
	memo   map[ItemRef][]contribution
}

func newExplosion(reader BOMReader) *explosion {
	return &explosion{
		reader: reader,
		gross:  make(map[ItemRef]decimal.Decimal),
		meta:   make(map[ItemRef]itemMeta),
		memo:   make(map[ItemRef][]contribution),
	}
}

func (e *explosion) add(ref ItemRef, qty decimal.Decimal) {
	e.gross[ref] = e.gross[ref].Add(qty)
}

// addProductDemand expands one order line through the product's composition.
// Sub-assembly entries accumulate both as buildable requirements and, through
// their own BOMs, as raw-material purchase requirements.
func (e *explosion) addProductDemand(ctx context.Context, productID int, qty decimal.Decimal) error {
	product, err := e.reader.Product(ctx, productID)
	if err != nil {
		return err
	}
	for _, entry := range product.Composition {
		scaled := entry.Quantity.Mul(qty)
		switch entry.ItemType {
		case ItemRawMaterial:
			if err := e.noteStockItem(ctx, entry.ItemID); err != nil {
				return fmt.Errorf("product %d composition entry %d: %w", product.ID, entry.ID, err)
			}
			e.add(ItemRef{ItemRawMaterial, entry.ItemID}, scaled)
		case ItemComponent, ItemBuiltItem:
			ref := ItemRef{entry.ItemType, entry.ItemID}
			contribs, err := e.expand(ctx, ref, nil)
			if err != nil {
				return fmt.Errorf("product %d composition entry %d: %w", product.ID, entry.ID, err)
			}
			e.add(ref, scaled)
			for _, c := range contribs {
				e.add(c.ref, c.qty.Mul(scaled))
			}
		default:
			return Validationf("product %d composition entry %d has invalid component type %q",
				product.ID, entry.ID, entry.ItemType)
		}
	}
	return nil
}

// expand returns the per-unit downstream requirements of one sub-assembly,
// memoized by (type, id). path is the visited set for the current expansion
// chain: a revisit means the BOM data holds a cycle, which fails the whole
// request rather than recursing without bound. The layered write-side
// validation makes that unreachable in well-formed data; the guard covers
// data written before validation existed or outside it.
func (e *explosion) expand(ctx context.Context, ref ItemRef, path []ItemRef) ([]contribution, error) {
	for _, seen := range path {
		if seen == ref {
			return nil, &CycleError{Path: append(append([]ItemRef{}, path...), ref)}
		}
	}
	if cached, ok := e.memo[ref]; ok {
		return cached, nil
	}
	path = append(path, ref)

	var contribs []contribution
	switch ref.Type {
	case ItemComponent:
		comp, err := e.reader.Component(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		e.noteMeta(ref, comp.Name, "", comp.BuiltQuantity)
		for _, entry := range comp.BOM {
			if err := e.noteStockItem(ctx, entry.StockItemID); err != nil {
				return nil, fmt.Errorf("component %d BOM entry %d: %w", comp.ID, entry.ID, err)
			}
			contribs = append(contribs, contribution{ItemRef{ItemRawMaterial, entry.StockItemID}, entry.Quantity})
		}
	case ItemBuiltItem:
		bi, err := e.reader.BuiltItem(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		e.noteMeta(ref, bi.Name, "", bi.BuiltQuantity)
		for _, entry := range bi.BOM {
			switch entry.ItemType {
			case ItemRawMaterial:
				if err := e.noteStockItem(ctx, entry.ItemID); err != nil {
					return nil, fmt.Errorf("built item %d BOM entry %d: %w", bi.ID, entry.ID, err)
				}
				contribs = append(contribs, contribution{ItemRef{ItemRawMaterial, entry.ItemID}, entry.Quantity})
			case ItemComponent, ItemBuiltItem:
				// Nested sub-assembly: count it as a build requirement and
				// carry its own expansion through. Built-item-in-built-item
				// is outside the layering invariant but is walked rather
				// than rejected, with the cycle guard as the backstop.
				childRef := ItemRef{entry.ItemType, entry.ItemID}
				childContribs, err := e.expand(ctx, childRef, path)
				if err != nil {
					return nil, fmt.Errorf("built item %d BOM entry %d: %w", bi.ID, entry.ID, err)
				}
				contribs = append(contribs, contribution{childRef, entry.Quantity})
				for _, c := range childContribs {
					contribs = append(contribs, contribution{c.ref, c.qty.Mul(entry.Quantity)})
				}
			default:
				return nil, Validationf("built item %d BOM entry %d has invalid item type %q",
					bi.ID, entry.ID, entry.ItemType)
			}
		}
	default:
		return nil, Validationf("cannot expand item type %q", ref.Type)
	}

	e.memo[ref] = contribs
	return contribs, nil
}

// noteStockItem fetches and records a stock item's metadata once per call.
func (e *explosion) noteStockItem(ctx context.Context, id int) error {
	ref := ItemRef{ItemRawMaterial, id}
	if _, ok := e.meta[ref]; ok {
		return nil
	}
	item, err := e.reader.StockItem(ctx, id)
	if err != nil {
		return err
	}
	e.noteMeta(ref, item.Name, item.Unit, item.CurrentQuantity)
	return nil
}

func (e *explosion) noteMeta(ref ItemRef, name, unit string, available decimal.Decimal) {
	if _, ok := e.meta[ref]; !ok {
		e.meta[ref] = itemMeta{name: name, unit: unit, available: available}
	}
}

// typeOrder fixes the report ordering: purchases first, then builds.
func typeOrder(t ItemType) int {
	switch t {
	case ItemRawMaterial:
		return 0
	case ItemComponent:
		return 1
	default:
		return 2
	}
}

// report nets the accumulated gross totals against available stock and
// returns deterministically ordered lines. Surplus stock reports a zero net
// requirement; gross and available stay visible so callers can see excess.
func (e *explosion) report() []RequirementLine {
	lines := make([]RequirementLine, 0, len(e.gross))
	for ref, gross := range e.gross {
		m := e.meta[ref]
		net := gross.Sub(m.available)
		if net.Sign() < 0 {
			net = decimal.Zero
		}
		lines = append(lines, RequirementLine{
			Item:          ref,
			Name:          m.name,
			Unit:          m.unit,
			GrossRequired: gross,
			Available:     m.available,
			NetRequired:   net,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i].Item, lines[j].Item
		if typeOrder(a.Type) != typeOrder(b.Type) {
			return typeOrder(a.Type) < typeOrder(b.Type)
		}
		return a.ID < b.ID
	})
	return lines
}
