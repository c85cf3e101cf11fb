package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService is the Postgres-backed view of the assembly graph: stock
// items, components, built items, products, and their BOM/composition
// entries. It satisfies BOMReader and CatalogLister for the calculation
// services and carries the administrative operations in catalog_admin.go.
type CatalogService struct {
	pool *pgxpool.Pool
}

// NewCatalogService constructs a CatalogService over the given pool.
func NewCatalogService(pool *pgxpool.Pool) *CatalogService {
	return &CatalogService{pool: pool}
}

// StockItem fetches one raw material by id.
func (s *CatalogService) StockItem(ctx context.Context, id int) (*StockItem, error) {
	var item StockItem
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, unit, current_quantity, min_quantity, cost_per_unit, category, location, created_at
		FROM stock_items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Unit, &item.CurrentQuantity, &item.MinQuantity,
		&item.CostPerUnit, &item.Category, &item.Location, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "stock item", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch stock item %d: %w", id, err)
	}
	return &item, nil
}

// Component fetches one component with its BOM entries.
func (s *CatalogService) Component(ctx context.Context, id int) (*Component, error) {
	var comp Component
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, built_quantity, min_stock, labour_hours
		FROM components
		WHERE id = $1
	`, id).Scan(&comp.ID, &comp.Name, &comp.BuiltQuantity, &comp.MinStock, &comp.LabourHours)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "component", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch component %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, component_id, stock_item_id, quantity, unit
		FROM component_bom_entries
		WHERE component_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query BOM for component %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry ComponentBOMEntry
		if err := rows.Scan(&entry.ID, &entry.ComponentID, &entry.StockItemID, &entry.Quantity, &entry.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan BOM entry for component %d: %w", id, err)
		}
		comp.BOM = append(comp.BOM, entry)
	}
	return &comp, rows.Err()
}

// BuiltItem fetches one built item with its BOM entries.
func (s *CatalogService) BuiltItem(ctx context.Context, id int) (*BuiltItem, error) {
	var bi BuiltItem
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, built_quantity, min_stock, labour_hours
		FROM built_items
		WHERE id = $1
	`, id).Scan(&bi.ID, &bi.Name, &bi.BuiltQuantity, &bi.MinStock, &bi.LabourHours)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "built item", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch built item %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, built_item_id, item_type, item_id, quantity, unit
		FROM built_item_bom_entries
		WHERE built_item_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query BOM for built item %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry BuiltItemBOMEntry
		if err := rows.Scan(&entry.ID, &entry.BuiltItemID, &entry.ItemType, &entry.ItemID, &entry.Quantity, &entry.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan BOM entry for built item %d: %w", id, err)
		}
		bi.BOM = append(bi.BOM, entry)
	}
	return &bi, rows.Err()
}

// Product fetches one product with its composition entries.
func (s *CatalogService) Product(ctx context.Context, id int) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, category, estimated_load_time, estimated_install_time
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Category, &p.EstimatedLoadTime, &p.EstimatedInstallTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "product", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, component_type, component_id, quantity, unit
		FROM product_composition_entries
		WHERE product_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query composition for product %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry CompositionEntry
		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.ItemType, &entry.ItemID, &entry.Quantity, &entry.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan composition entry for product %d: %w", id, err)
		}
		p.Composition = append(p.Composition, entry)
	}
	return &p, rows.Err()
}

// StockItems lists all raw materials ordered by name.
func (s *CatalogService) StockItems(ctx context.Context) ([]StockItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, unit, current_quantity, min_quantity, cost_per_unit, category, location, created_at
		FROM stock_items
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock items: %w", err)
	}
	defer rows.Close()

	var items []StockItem
	for rows.Next() {
		var item StockItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.CurrentQuantity, &item.MinQuantity,
			&item.CostPerUnit, &item.Category, &item.Location, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Components lists all components, without BOM entries.
func (s *CatalogService) Components(ctx context.Context) ([]Component, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, built_quantity, min_stock, labour_hours
		FROM components
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var comps []Component
	for rows.Next() {
		var comp Component
		if err := rows.Scan(&comp.ID, &comp.Name, &comp.BuiltQuantity, &comp.MinStock, &comp.LabourHours); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		comps = append(comps, comp)
	}
	return comps, rows.Err()
}

// BuiltItems lists all built items, without BOM entries.
func (s *CatalogService) BuiltItems(ctx context.Context) ([]BuiltItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, built_quantity, min_stock, labour_hours
		FROM built_items
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query built items: %w", err)
	}
	defer rows.Close()

	var items []BuiltItem
	for rows.Next() {
		var bi BuiltItem
		if err := rows.Scan(&bi.ID, &bi.Name, &bi.BuiltQuantity, &bi.MinStock, &bi.LabourHours); err != nil {
			return nil, fmt.Errorf("failed to scan built item: %w", err)
		}
		items = append(items, bi)
	}
	return items, rows.Err()
}

// Products lists all products, without composition entries.
func (s *CatalogService) Products(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category, estimated_load_time, estimated_install_time
		FROM products
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.EstimatedLoadTime, &p.EstimatedInstallTime); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
