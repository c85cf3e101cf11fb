package core

import "context"

// The calculation services read externally-owned data through these narrow
// interfaces. CatalogService implements all of them against Postgres; tests
// run the same calculations against an in-memory fake.

// BOMReader resolves assembly-graph nodes by id. Component, BuiltItem, and
// Product are returned with their BOM/composition entries loaded. A missing
// id yields a NotFoundError.
type BOMReader interface {
	StockItem(ctx context.Context, id int) (*StockItem, error)
	Component(ctx context.Context, id int) (*Component, error)
	BuiltItem(ctx context.Context, id int) (*BuiltItem, error)
	Product(ctx context.Context, id int) (*Product, error)
}

// OrderReader resolves an order with its lines loaded.
type OrderReader interface {
	Order(ctx context.Context, id int) (*Order, error)
}

// PlannerReader resolves a weekly planner with its items loaded.
type PlannerReader interface {
	Planner(ctx context.Context, id int) (*WeeklyPlanner, error)
}

// CatalogLister enumerates whole layers of the catalog; the low-stock and
// WIP report views are built on it.
type CatalogLister interface {
	StockItems(ctx context.Context) ([]StockItem, error)
	Components(ctx context.Context) ([]Component, error)
	BuiltItems(ctx context.Context) ([]BuiltItem, error)
}
