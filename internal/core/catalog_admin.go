package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Administrative operations over the catalog. Writes validate the layering
// invariant at the boundary: a component BOM references stock items only, a
// built item BOM stock items or components, a product composition any of the
// three. Deletes run the referential-integrity guard and fail with a
// ConstraintError naming the referencing records.

// StockItemInput is the input for creating or updating a stock item.
type StockItemInput struct {
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	Category        string          `json:"category"`
	Location        string          `json:"location"`
}

// ComponentBOMEntryInput is one BOM line for a component.
type ComponentBOMEntryInput struct {
	StockItemID int             `json:"stock_item_id"`
	Quantity    decimal.Decimal `json:"quantity_required"`
	Unit        string          `json:"unit"`
}

// ComponentInput is the input for creating a component.
type ComponentInput struct {
	Name        string                   `json:"name"`
	MinStock    decimal.Decimal          `json:"min_stock"`
	LabourHours decimal.Decimal          `json:"labour_hours"`
	BOM         []ComponentBOMEntryInput `json:"bom"`
}

// BuiltItemBOMEntryInput is one BOM line for a built item.
type BuiltItemBOMEntryInput struct {
	ItemType ItemType        `json:"item_type"`
	ItemID   int             `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity_required"`
	Unit     string          `json:"unit"`
}

// BuiltItemInput is the input for creating a built item.
type BuiltItemInput struct {
	Name        string                   `json:"name"`
	MinStock    decimal.Decimal          `json:"min_stock"`
	LabourHours decimal.Decimal          `json:"labour_hours"`
	BOM         []BuiltItemBOMEntryInput `json:"bom"`
}

// CompositionEntryInput is one composition line for a product.
type CompositionEntryInput struct {
	ItemType ItemType        `json:"component_type"`
	ItemID   int             `json:"component_id"`
	Quantity decimal.Decimal `json:"quantity_required"`
	Unit     string          `json:"unit"`
}

// ProductInput is the input for creating a product.
type ProductInput struct {
	Name                 string                  `json:"name"`
	Category             string                  `json:"category"`
	EstimatedLoadTime    decimal.Decimal         `json:"estimated_load_time"`
	EstimatedInstallTime decimal.Decimal         `json:"estimated_install_time"`
	Composition          []CompositionEntryInput `json:"composition"`
}

// ── Stock items ───────────────────────────────────────────────────────────────

// CreateStockItem inserts a new raw material.
func (s *CatalogService) CreateStockItem(ctx context.Context, in StockItemInput) (*StockItem, error) {
	if in.Name == "" {
		return nil, Validationf("stock item name is required")
	}
	if in.CurrentQuantity.Sign() < 0 || in.MinQuantity.Sign() < 0 || in.CostPerUnit.Sign() < 0 {
		return nil, Validationf("stock item quantities and cost must be non-negative")
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO stock_items (name, unit, current_quantity, min_quantity, cost_per_unit, category, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, in.Name, in.Unit, in.CurrentQuantity, in.MinQuantity, in.CostPerUnit, in.Category, in.Location).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stock item: %w", err)
	}
	return s.StockItem(ctx, id)
}

// UpdateStockItem replaces a stock item's descriptive fields and thresholds.
// Quantity changes go through StockService movements, not here.
func (s *CatalogService) UpdateStockItem(ctx context.Context, id int, in StockItemInput) (*StockItem, error) {
	if in.Name == "" {
		return nil, Validationf("stock item name is required")
	}
	if in.MinQuantity.Sign() < 0 || in.CostPerUnit.Sign() < 0 {
		return nil, Validationf("stock item threshold and cost must be non-negative")
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE stock_items
		SET name = $1, unit = $2, min_quantity = $3, cost_per_unit = $4, category = $5, location = $6
		WHERE id = $7
	`, in.Name, in.Unit, in.MinQuantity, in.CostPerUnit, in.Category, in.Location, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Kind: "stock item", ID: id}
	}
	return s.StockItem(ctx, id)
}

// DeleteStockItem removes a raw material, refusing while any BOM or
// composition entry still references it.
func (s *CatalogService) DeleteStockItem(ctx context.Context, id int) error {
	if _, err := s.StockItem(ctx, id); err != nil {
		return err
	}

	refs, err := s.stockItemReferences(ctx, id)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ConstraintError{Kind: "stock item", ID: id, References: refs}
	}

	if _, err := s.pool.Exec(ctx, "DELETE FROM stock_items WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete stock item %d: %w", id, err)
	}
	return nil
}

func (s *CatalogService) stockItemReferences(ctx context.Context, id int) ([]string, error) {
	var refs []string

	rows, err := s.pool.Query(ctx, `
		SELECT e.id, c.name
		FROM component_bom_entries e
		JOIN components c ON c.id = e.component_id
		WHERE e.stock_item_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check component BOM references: %w", err)
	}
	refs, err = collectRefs(rows, refs, "component %q BOM entry %d")
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT e.id, b.name
		FROM built_item_bom_entries e
		JOIN built_items b ON b.id = e.built_item_id
		WHERE e.item_type = 'raw_material' AND e.item_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check built item BOM references: %w", err)
	}
	refs, err = collectRefs(rows, refs, "built item %q BOM entry %d")
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT e.id, p.name
		FROM product_composition_entries e
		JOIN products p ON p.id = e.product_id
		WHERE e.component_type = 'raw_material' AND e.component_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check composition references: %w", err)
	}
	return collectRefs(rows, refs, "product %q composition entry %d")
}

// ── Components ────────────────────────────────────────────────────────────────

// CreateComponent inserts a component and its BOM entries in one transaction.
func (s *CatalogService) CreateComponent(ctx context.Context, in ComponentInput) (*Component, error) {
	if in.Name == "" {
		return nil, Validationf("component name is required")
	}
	if in.MinStock.Sign() < 0 || in.LabourHours.Sign() < 0 {
		return nil, Validationf("component min stock and labour hours must be non-negative")
	}
	for i, entry := range in.BOM {
		if entry.Quantity.Sign() <= 0 {
			return nil, Validationf("component BOM entry %d: quantity must be positive, got %s", i+1, entry.Quantity)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO components (name, built_quantity, min_stock, labour_hours)
		VALUES ($1, 0, $2, $3)
		RETURNING id
	`, in.Name, in.MinStock, in.LabourHours).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert component: %w", err)
	}

	for i, entry := range in.BOM {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM stock_items WHERE id = $1)", entry.StockItemID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check stock item %d: %w", entry.StockItemID, err)
		}
		if !exists {
			return nil, fmt.Errorf("component BOM entry %d: %w", i+1, &NotFoundError{Kind: "stock item", ID: entry.StockItemID})
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO component_bom_entries (component_id, stock_item_id, quantity, unit)
			VALUES ($1, $2, $3, $4)
		`, id, entry.StockItemID, entry.Quantity, entry.Unit)
		if err != nil {
			return nil, fmt.Errorf("failed to insert component BOM entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit component: %w", err)
	}
	return s.Component(ctx, id)
}

// DeleteComponent removes a component and its own BOM entries, refusing
// while any built item, product, or planner still references it.
func (s *CatalogService) DeleteComponent(ctx context.Context, id int) error {
	if _, err := s.Component(ctx, id); err != nil {
		return err
	}

	var refs []string
	rows, err := s.pool.Query(ctx, `
		SELECT e.id, b.name
		FROM built_item_bom_entries e
		JOIN built_items b ON b.id = e.built_item_id
		WHERE e.item_type = 'component' AND e.item_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to check built item BOM references: %w", err)
	}
	refs, err = collectRefs(rows, refs, "built item %q BOM entry %d")
	if err != nil {
		return err
	}

	rows, err = s.pool.Query(ctx, `
		SELECT e.id, p.name
		FROM product_composition_entries e
		JOIN products p ON p.id = e.product_id
		WHERE e.component_type = 'component' AND e.component_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to check composition references: %w", err)
	}
	refs, err = collectRefs(rows, refs, "product %q composition entry %d")
	if err != nil {
		return err
	}

	refs, err = s.plannerReferences(ctx, PlannerComponent, id, refs)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ConstraintError{Kind: "component", ID: id, References: refs}
	}

	// Own BOM entries cascade with the component row.
	if _, err := s.pool.Exec(ctx, "DELETE FROM components WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete component %d: %w", id, err)
	}
	return nil
}

// ── Built items ───────────────────────────────────────────────────────────────

// CreateBuiltItem inserts a built item and its BOM entries in one
// transaction. Entries may reference raw materials or components only.
func (s *CatalogService) CreateBuiltItem(ctx context.Context, in BuiltItemInput) (*BuiltItem, error) {
	if in.Name == "" {
		return nil, Validationf("built item name is required")
	}
	if in.MinStock.Sign() < 0 || in.LabourHours.Sign() < 0 {
		return nil, Validationf("built item min stock and labour hours must be non-negative")
	}
	for i, entry := range in.BOM {
		if entry.ItemType != ItemRawMaterial && entry.ItemType != ItemComponent {
			return nil, Validationf("built item BOM entry %d: invalid item type %q", i+1, entry.ItemType)
		}
		if entry.Quantity.Sign() <= 0 {
			return nil, Validationf("built item BOM entry %d: quantity must be positive, got %s", i+1, entry.Quantity)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO built_items (name, built_quantity, min_stock, labour_hours)
		VALUES ($1, 0, $2, $3)
		RETURNING id
	`, in.Name, in.MinStock, in.LabourHours).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert built item: %w", err)
	}

	for i, entry := range in.BOM {
		if err := referencedItemExistsTx(ctx, tx, entry.ItemType, entry.ItemID); err != nil {
			return nil, fmt.Errorf("built item BOM entry %d: %w", i+1, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO built_item_bom_entries (built_item_id, item_type, item_id, quantity, unit)
			VALUES ($1, $2, $3, $4, $5)
		`, id, entry.ItemType, entry.ItemID, entry.Quantity, entry.Unit)
		if err != nil {
			return nil, fmt.Errorf("failed to insert built item BOM entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit built item: %w", err)
	}
	return s.BuiltItem(ctx, id)
}

// DeleteBuiltItem removes a built item and its own BOM entries, refusing
// while any product or planner still references it.
func (s *CatalogService) DeleteBuiltItem(ctx context.Context, id int) error {
	if _, err := s.BuiltItem(ctx, id); err != nil {
		return err
	}

	var refs []string
	rows, err := s.pool.Query(ctx, `
		SELECT e.id, p.name
		FROM product_composition_entries e
		JOIN products p ON p.id = e.product_id
		WHERE e.component_type = 'built_item' AND e.component_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to check composition references: %w", err)
	}
	refs, err = collectRefs(rows, refs, "product %q composition entry %d")
	if err != nil {
		return err
	}

	refs, err = s.plannerReferences(ctx, PlannerBuiltItem, id, refs)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ConstraintError{Kind: "built item", ID: id, References: refs}
	}

	if _, err := s.pool.Exec(ctx, "DELETE FROM built_items WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete built item %d: %w", id, err)
	}
	return nil
}

// ── Products ──────────────────────────────────────────────────────────────────

// CreateProduct inserts a product and its composition entries in one
// transaction. Entries may reference any of the three lower layers.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if in.Name == "" {
		return nil, Validationf("product name is required")
	}
	if in.EstimatedLoadTime.Sign() < 0 || in.EstimatedInstallTime.Sign() < 0 {
		return nil, Validationf("product load and install times must be non-negative")
	}
	for i, entry := range in.Composition {
		if !entry.ItemType.Valid() {
			return nil, Validationf("product composition entry %d: invalid component type %q", i+1, entry.ItemType)
		}
		if entry.Quantity.Sign() <= 0 {
			return nil, Validationf("product composition entry %d: quantity must be positive, got %s", i+1, entry.Quantity)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO products (name, category, estimated_load_time, estimated_install_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, in.Name, in.Category, in.EstimatedLoadTime, in.EstimatedInstallTime).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	for i, entry := range in.Composition {
		if err := referencedItemExistsTx(ctx, tx, entry.ItemType, entry.ItemID); err != nil {
			return nil, fmt.Errorf("product composition entry %d: %w", i+1, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO product_composition_entries (product_id, component_type, component_id, quantity, unit)
			VALUES ($1, $2, $3, $4, $5)
		`, id, entry.ItemType, entry.ItemID, entry.Quantity, entry.Unit)
		if err != nil {
			return nil, fmt.Errorf("failed to insert composition entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit product: %w", err)
	}
	return s.Product(ctx, id)
}

// DeleteProduct removes a product and its composition entries, refusing
// while any order line still references it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	if _, err := s.Product(ctx, id); err != nil {
		return err
	}

	var refs []string
	rows, err := s.pool.Query(ctx, `
		SELECT l.id, o.reference
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		WHERE l.product_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to check order line references: %w", err)
	}
	refs, err = collectRefs(rows, refs, "order %q line %d")
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ConstraintError{Kind: "product", ID: id, References: refs}
	}

	if _, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// ── Shared helpers ────────────────────────────────────────────────────────────

func (s *CatalogService) plannerReferences(ctx context.Context, t PlannerItemType, id int, refs []string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, to_char(p.week_starting, 'YYYY-MM-DD')
		FROM planner_items i
		JOIN weekly_planners p ON p.id = i.planner_id
		WHERE i.item_type = $1 AND i.item_id = $2
	`, t, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check planner references: %w", err)
	}
	return collectRefs(rows, refs, "planner week %q item %d")
}

// collectRefs drains rows of (id, label) pairs into reference descriptions.
func collectRefs(rows pgx.Rows, refs []string, format string) ([]string, error) {
	defer rows.Close()
	for rows.Next() {
		var entryID int
		var label string
		if err := rows.Scan(&entryID, &label); err != nil {
			return nil, fmt.Errorf("failed to scan reference row: %w", err)
		}
		refs = append(refs, fmt.Sprintf(format, label, entryID))
	}
	return refs, rows.Err()
}

// referencedItemExistsTx verifies that a typed BOM/composition reference
// points at an existing row of the declared layer.
func referencedItemExistsTx(ctx context.Context, tx pgx.Tx, t ItemType, id int) error {
	var table string
	switch t {
	case ItemRawMaterial:
		table = "stock_items"
	case ItemComponent:
		table = "components"
	case ItemBuiltItem:
		table = "built_items"
	default:
		return Validationf("invalid item type %q", t)
	}
	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = $1)", id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check %s %d: %w", t.Label(), id, err)
	}
	if !exists {
		return &NotFoundError{Kind: t.Label(), ID: id}
	}
	return nil
}
