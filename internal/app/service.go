package app

import (
	"context"

	"shopfloor/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ── Costing ──

	// GetComponentCost returns the true cost of building one unit of a component.
	GetComponentCost(ctx context.Context, componentID int) (*CostResult, error)

	// GetBuiltItemCost returns a built item's BOM value (materials and
	// components, excluding its own labour) and its true cost.
	GetBuiltItemCost(ctx context.Context, builtItemID int) (*BuiltItemCostResult, error)

	// GetProductCost returns the fully rolled-up cost of one unit of a product.
	GetProductCost(ctx context.Context, productID int) (*CostResult, error)

	// ── Requirements ──

	// CalculateRequirements explodes a set of demand lines into gross and net
	// purchase/build requirements.
	CalculateRequirements(ctx context.Context, lines []core.DemandLine) (*core.RequirementsReport, error)

	// CalculateOrderRequirements runs the requirements calculation over one
	// stored order's lines.
	CalculateOrderRequirements(ctx context.Context, orderID int) (*core.RequirementsReport, error)

	// GetLoadSheet expands one order into materials to pick and sub-assemblies
	// to build.
	GetLoadSheet(ctx context.Context, orderID int) (*core.LoadSheet, error)

	// ── Capacity ──

	// GetBuildRate returns the feasibility of one weekly planner. A week with
	// no planner data yields the neutral zero-load result.
	GetBuildRate(ctx context.Context, plannerID int) (*core.Feasibility, error)

	// ── Reports ──

	// GetLowStock lists stock items, components, and built items below their
	// minimum levels.
	GetLowStock(ctx context.Context) (*core.LowStockReport, error)

	// GetWIPValuation values built-but-unconsumed sub-assembly stock at
	// current true cost.
	GetWIPValuation(ctx context.Context) (*core.WIPReport, error)

	// ── Catalog ──

	ListStockItems(ctx context.Context) ([]core.StockItem, error)
	ListComponents(ctx context.Context) ([]core.Component, error)
	ListBuiltItems(ctx context.Context) ([]core.BuiltItem, error)
	ListProducts(ctx context.Context) ([]core.Product, error)

	GetStockItem(ctx context.Context, id int) (*core.StockItem, error)
	GetComponent(ctx context.Context, id int) (*core.Component, error)
	GetBuiltItem(ctx context.Context, id int) (*core.BuiltItem, error)
	GetProduct(ctx context.Context, id int) (*core.Product, error)

	CreateStockItem(ctx context.Context, in core.StockItemInput) (*core.StockItem, error)
	UpdateStockItem(ctx context.Context, id int, in core.StockItemInput) (*core.StockItem, error)
	DeleteStockItem(ctx context.Context, id int) error

	CreateComponent(ctx context.Context, in core.ComponentInput) (*core.Component, error)
	DeleteComponent(ctx context.Context, id int) error

	CreateBuiltItem(ctx context.Context, in core.BuiltItemInput) (*core.BuiltItem, error)
	DeleteBuiltItem(ctx context.Context, id int) error

	CreateProduct(ctx context.Context, in core.ProductInput) (*core.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	// ── Stock ──

	// ReceiveStock records an inbound delivery, recomputing the weighted
	// average unit cost.
	ReceiveStock(ctx context.Context, req StockMovementRequest) error

	// IssueStock records stock going out to a job or sale.
	IssueStock(ctx context.Context, req StockMovementRequest) error

	// AdjustStock sets a stock item's level to an absolute stocktake figure.
	AdjustStock(ctx context.Context, req StockMovementRequest) error

	// CompleteBuild records finished units of a component or built item,
	// consuming its BOM inputs in one transaction.
	CompleteBuild(ctx context.Context, req CompleteBuildRequest) error

	// GetStockMovements lists one stock item's audit trail, newest first.
	GetStockMovements(ctx context.Context, stockItemID int) ([]core.StockMovement, error)

	// ── Orders ──

	CreateOrder(ctx context.Context, in core.OrderInput) (*core.Order, error)
	GetOrder(ctx context.Context, id int) (*core.Order, error)
	ListOrders(ctx context.Context, status *core.OrderStatus) ([]core.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status core.OrderStatus) (*core.Order, error)

	// ── Weekly planners ──

	CreatePlanner(ctx context.Context, in core.PlannerInput) (*core.WeeklyPlanner, error)
	AddPlannerItem(ctx context.Context, plannerID int, in core.PlannerItemInput) (*core.WeeklyPlanner, error)
	GetPlanner(ctx context.Context, id int) (*core.WeeklyPlanner, error)
	ListPlanners(ctx context.Context) ([]core.WeeklyPlanner, error)
}
