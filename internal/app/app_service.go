package app

import (
	"context"

	"shopfloor/internal/core"

	"github.com/shopspring/decimal"
)

type appService struct {
	catalog      *core.CatalogService
	stock        *core.StockService
	orders       *core.OrderService
	planners     *core.PlannerService
	costing      *core.CostingService
	requirements *core.RequirementsPlanner
	capacity     *core.CapacityPlanner
	reporting    *core.ReportingService
}

// NewAppService wires the core services into an ApplicationService. The
// calculation services read through the same catalog the write operations
// mutate, so every result reflects the latest committed edit.
func NewAppService(
	catalog *core.CatalogService,
	stock *core.StockService,
	orders *core.OrderService,
	planners *core.PlannerService,
	labourRate decimal.Decimal,
) ApplicationService {
	costing := core.NewCostingService(catalog, labourRate)
	return &appService{
		catalog:      catalog,
		stock:        stock,
		orders:       orders,
		planners:     planners,
		costing:      costing,
		requirements: core.NewRequirementsPlanner(catalog, orders),
		capacity:     core.NewCapacityPlanner(planners, catalog),
		reporting:    core.NewReportingService(catalog, costing),
	}
}

// ── Costing ───────────────────────────────────────────────────────────────────

func (s *appService) GetComponentCost(ctx context.Context, componentID int) (*CostResult, error) {
	comp, err := s.catalog.Component(ctx, componentID)
	if err != nil {
		return nil, err
	}
	cost, err := s.costing.ComponentTrueCost(ctx, componentID)
	if err != nil {
		return nil, err
	}
	return &CostResult{
		Kind:       "component",
		ID:         componentID,
		Name:       comp.Name,
		LabourRate: s.costing.LabourRate(),
		TrueCost:   cost,
	}, nil
}

func (s *appService) GetBuiltItemCost(ctx context.Context, builtItemID int) (*BuiltItemCostResult, error) {
	bi, err := s.catalog.BuiltItem(ctx, builtItemID)
	if err != nil {
		return nil, err
	}
	bomValue, err := s.costing.BuiltItemBOMValue(ctx, builtItemID)
	if err != nil {
		return nil, err
	}
	trueCost, err := s.costing.BuiltItemTrueCost(ctx, builtItemID)
	if err != nil {
		return nil, err
	}
	return &BuiltItemCostResult{
		CostResult: CostResult{
			Kind:       "built_item",
			ID:         builtItemID,
			Name:       bi.Name,
			LabourRate: s.costing.LabourRate(),
			TrueCost:   trueCost,
		},
		BOMValue: bomValue,
	}, nil
}

func (s *appService) GetProductCost(ctx context.Context, productID int) (*CostResult, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	cost, err := s.costing.ProductCost(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &CostResult{
		Kind:       "product",
		ID:         productID,
		Name:       product.Name,
		LabourRate: s.costing.LabourRate(),
		TrueCost:   cost,
	}, nil
}

// ── Requirements ──────────────────────────────────────────────────────────────

func (s *appService) CalculateRequirements(ctx context.Context, lines []core.DemandLine) (*core.RequirementsReport, error) {
	return s.requirements.Calculate(ctx, lines)
}

func (s *appService) CalculateOrderRequirements(ctx context.Context, orderID int) (*core.RequirementsReport, error) {
	return s.requirements.CalculateForOrder(ctx, orderID)
}

func (s *appService) GetLoadSheet(ctx context.Context, orderID int) (*core.LoadSheet, error) {
	return s.requirements.LoadSheet(ctx, orderID)
}

// ── Capacity ──────────────────────────────────────────────────────────────────

func (s *appService) GetBuildRate(ctx context.Context, plannerID int) (*core.Feasibility, error) {
	return s.capacity.BuildRate(ctx, plannerID)
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) GetLowStock(ctx context.Context) (*core.LowStockReport, error) {
	return s.reporting.LowStock(ctx)
}

func (s *appService) GetWIPValuation(ctx context.Context) (*core.WIPReport, error) {
	return s.reporting.WIPValuation(ctx)
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *appService) ListStockItems(ctx context.Context) ([]core.StockItem, error) {
	return s.catalog.StockItems(ctx)
}

func (s *appService) ListComponents(ctx context.Context) ([]core.Component, error) {
	return s.catalog.Components(ctx)
}

func (s *appService) ListBuiltItems(ctx context.Context) ([]core.BuiltItem, error) {
	return s.catalog.BuiltItems(ctx)
}

func (s *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.catalog.Products(ctx)
}

func (s *appService) GetStockItem(ctx context.Context, id int) (*core.StockItem, error) {
	return s.catalog.StockItem(ctx, id)
}

func (s *appService) GetComponent(ctx context.Context, id int) (*core.Component, error) {
	return s.catalog.Component(ctx, id)
}

func (s *appService) GetBuiltItem(ctx context.Context, id int) (*core.BuiltItem, error) {
	return s.catalog.BuiltItem(ctx, id)
}

func (s *appService) GetProduct(ctx context.Context, id int) (*core.Product, error) {
	return s.catalog.Product(ctx, id)
}

func (s *appService) CreateStockItem(ctx context.Context, in core.StockItemInput) (*core.StockItem, error) {
	return s.catalog.CreateStockItem(ctx, in)
}

func (s *appService) UpdateStockItem(ctx context.Context, id int, in core.StockItemInput) (*core.StockItem, error) {
	return s.catalog.UpdateStockItem(ctx, id, in)
}

func (s *appService) DeleteStockItem(ctx context.Context, id int) error {
	return s.catalog.DeleteStockItem(ctx, id)
}

func (s *appService) CreateComponent(ctx context.Context, in core.ComponentInput) (*core.Component, error) {
	return s.catalog.CreateComponent(ctx, in)
}

func (s *appService) DeleteComponent(ctx context.Context, id int) error {
	return s.catalog.DeleteComponent(ctx, id)
}

func (s *appService) CreateBuiltItem(ctx context.Context, in core.BuiltItemInput) (*core.BuiltItem, error) {
	return s.catalog.CreateBuiltItem(ctx, in)
}

func (s *appService) DeleteBuiltItem(ctx context.Context, id int) error {
	return s.catalog.DeleteBuiltItem(ctx, id)
}

func (s *appService) CreateProduct(ctx context.Context, in core.ProductInput) (*core.Product, error) {
	return s.catalog.CreateProduct(ctx, in)
}

func (s *appService) DeleteProduct(ctx context.Context, id int) error {
	return s.catalog.DeleteProduct(ctx, id)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func (s *appService) ReceiveStock(ctx context.Context, req StockMovementRequest) error {
	return s.stock.Receive(ctx, req.StockItemID, req.Quantity, req.UnitCost, req.Notes)
}

func (s *appService) IssueStock(ctx context.Context, req StockMovementRequest) error {
	return s.stock.Issue(ctx, req.StockItemID, req.Quantity, req.Notes)
}

func (s *appService) AdjustStock(ctx context.Context, req StockMovementRequest) error {
	return s.stock.Adjust(ctx, req.StockItemID, req.Quantity, req.Notes)
}

func (s *appService) CompleteBuild(ctx context.Context, req CompleteBuildRequest) error {
	return s.stock.CompleteBuild(ctx, req.ItemType, req.ItemID, req.Quantity)
}

func (s *appService) GetStockMovements(ctx context.Context, stockItemID int) ([]core.StockMovement, error) {
	return s.stock.Movements(ctx, stockItemID)
}

// ── Orders ────────────────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, in core.OrderInput) (*core.Order, error) {
	return s.orders.Create(ctx, in)
}

func (s *appService) GetOrder(ctx context.Context, id int) (*core.Order, error) {
	return s.orders.Order(ctx, id)
}

func (s *appService) ListOrders(ctx context.Context, status *core.OrderStatus) ([]core.Order, error) {
	return s.orders.Orders(ctx, status)
}

func (s *appService) UpdateOrderStatus(ctx context.Context, id int, status core.OrderStatus) (*core.Order, error) {
	return s.orders.UpdateStatus(ctx, id, status)
}

// ── Weekly planners ───────────────────────────────────────────────────────────

func (s *appService) CreatePlanner(ctx context.Context, in core.PlannerInput) (*core.WeeklyPlanner, error) {
	return s.planners.Create(ctx, in)
}

func (s *appService) AddPlannerItem(ctx context.Context, plannerID int, in core.PlannerItemInput) (*core.WeeklyPlanner, error) {
	return s.planners.AddItem(ctx, plannerID, in)
}

func (s *appService) GetPlanner(ctx context.Context, id int) (*core.WeeklyPlanner, error) {
	return s.planners.Planner(ctx, id)
}

func (s *appService) ListPlanners(ctx context.Context) ([]core.WeeklyPlanner, error) {
	return s.planners.Planners(ctx)
}
