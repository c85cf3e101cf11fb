package repl

import (
	"fmt"
	"strings"

	"shopfloor/internal/app"
	"shopfloor/internal/core"
)

func printStockItems(items []core.StockItem) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println("  STOCK ITEMS")
	fmt.Println(strings.Repeat("=", 78))
	if len(items) == 0 {
		fmt.Println("  No stock items found.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-4s %-26s %-6s %10s %10s %10s  %s\n", "ID", "NAME", "UNIT", "ON HAND", "MIN", "COST", "LOCATION")
	fmt.Println(strings.Repeat("-", 78))
	for _, it := range items {
		flag := " "
		if it.CurrentQuantity.LessThan(it.MinQuantity) {
			flag = "!"
		}
		fmt.Printf("%s %-4d %-26s %-6s %10s %10s %10s  %s\n",
			flag, it.ID, it.Name, it.Unit,
			it.CurrentQuantity.StringFixed(2), it.MinQuantity.StringFixed(2),
			it.CostPerUnit.StringFixed(2), it.Location)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printComponents(items []core.Component) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  COMPONENTS")
	fmt.Println(strings.Repeat("=", 70))
	if len(items) == 0 {
		fmt.Println("  No components found.")
		fmt.Println(strings.Repeat("=", 70))
		return
	}
	fmt.Printf("  %-4s %-30s %10s %10s %10s\n", "ID", "NAME", "BUILT", "MIN", "LABOUR h")
	fmt.Println(strings.Repeat("-", 70))
	for _, c := range items {
		fmt.Printf("  %-4d %-30s %10s %10s %10s\n",
			c.ID, c.Name, c.BuiltQuantity.StringFixed(2), c.MinStock.StringFixed(2), c.LabourHours.String())
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printBuiltItems(items []core.BuiltItem) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  BUILT ITEMS")
	fmt.Println(strings.Repeat("=", 70))
	if len(items) == 0 {
		fmt.Println("  No built items found.")
		fmt.Println(strings.Repeat("=", 70))
		return
	}
	fmt.Printf("  %-4s %-30s %10s %10s %10s\n", "ID", "NAME", "BUILT", "MIN", "LABOUR h")
	fmt.Println(strings.Repeat("-", 70))
	for _, b := range items {
		fmt.Printf("  %-4d %-30s %10s %10s %10s\n",
			b.ID, b.Name, b.BuiltQuantity.StringFixed(2), b.MinStock.StringFixed(2), b.LabourHours.String())
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printProducts(items []core.Product) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 74))
	fmt.Println("  PRODUCTS")
	fmt.Println(strings.Repeat("=", 74))
	if len(items) == 0 {
		fmt.Println("  No products found.")
		fmt.Println(strings.Repeat("=", 74))
		return
	}
	fmt.Printf("  %-4s %-30s %-14s %10s %10s\n", "ID", "NAME", "CATEGORY", "LOAD h", "INSTALL h")
	fmt.Println(strings.Repeat("-", 74))
	for _, p := range items {
		fmt.Printf("  %-4d %-30s %-14s %10s %10s\n",
			p.ID, p.Name, p.Category, p.EstimatedLoadTime.String(), p.EstimatedInstallTime.String())
	}
	fmt.Println(strings.Repeat("=", 74))
}

func printCost(result *app.CostResult) {
	fmt.Println()
	fmt.Printf("ITEM:        %s #%d — %s\n", result.Kind, result.ID, result.Name)
	fmt.Printf("LABOUR RATE: %s/hr\n", result.LabourRate.StringFixed(2))
	fmt.Printf("TRUE COST:   %s\n", result.TrueCost.StringFixed(2))
}

func printBuiltItemCost(result *app.BuiltItemCostResult) {
	fmt.Println()
	fmt.Printf("ITEM:        %s #%d — %s\n", result.Kind, result.ID, result.Name)
	fmt.Printf("LABOUR RATE: %s/hr\n", result.LabourRate.StringFixed(2))
	fmt.Printf("BOM VALUE:   %s  (materials and components only)\n", result.BOMValue.StringFixed(2))
	fmt.Printf("TRUE COST:   %s\n", result.TrueCost.StringFixed(2))
}

func printRequirements(report *core.RequirementsReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 84))
	fmt.Println("  REQUIREMENTS")
	fmt.Println(strings.Repeat("=", 84))
	printRequirementLines(report.Requirements)
	fmt.Println(strings.Repeat("=", 84))
}

func printRequirementLines(lines []core.RequirementLine) {
	if len(lines) == 0 {
		fmt.Println("  Nothing required.")
		return
	}
	fmt.Printf("  %-12s %-4s %-26s %10s %10s %10s\n", "LAYER", "ID", "NAME", "GROSS", "ON HAND", "NET")
	fmt.Println(strings.Repeat("-", 84))
	for _, l := range lines {
		fmt.Printf("  %-12s %-4d %-26s %10s %10s %10s\n",
			l.Item.Type.Label(), l.Item.ID, l.Name,
			l.GrossRequired.StringFixed(2), l.Available.StringFixed(2), l.NetRequired.StringFixed(2))
	}
}

func printLoadSheet(sheet *core.LoadSheet) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 84))
	fmt.Printf("  LOAD SHEET — Order #%d %s\n", sheet.OrderID, sheet.Reference)
	fmt.Println(strings.Repeat("=", 84))
	fmt.Println("  MATERIALS TO PICK")
	printRequirementLines(sheet.Materials)
	fmt.Println(strings.Repeat("-", 84))
	fmt.Println("  SUB-ASSEMBLIES TO BUILD")
	printRequirementLines(sheet.SubBuilds)
	fmt.Println(strings.Repeat("=", 84))
}

func printFeasibility(f *core.Feasibility) {
	fmt.Println()
	fmt.Printf("PLANNER:     #%d\n", f.PlannerID)
	fmt.Printf("AVAILABLE:   %s hours\n", f.HoursAvailable.StringFixed(2))
	fmt.Printf("REQUIRED:    %s hours\n", f.HoursRequired.StringFixed(2))
	fmt.Printf("BUILD RATE:  %s%%  [%s]\n", f.BuildRatePercent.StringFixed(2), strings.ToUpper(string(f.Indicator)))
	if f.IsFeasible {
		fmt.Printf("EXCESS:      %s hours spare\n", f.HoursExcess.StringFixed(2))
	} else {
		fmt.Printf("SHORTFALL:   %s hours over capacity\n", f.HoursShortfall.StringFixed(2))
	}
}

func printLowStock(report *core.LowStockReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  LOW STOCK")
	fmt.Println(strings.Repeat("=", 70))
	total := len(report.StockItems) + len(report.Components) + len(report.BuiltItems)
	if total == 0 {
		fmt.Println("  Nothing below minimum. All good.")
		fmt.Println(strings.Repeat("=", 70))
		return
	}
	fmt.Printf("  %-12s %-4s %-30s %10s %10s\n", "LAYER", "ID", "NAME", "ON HAND", "MIN")
	fmt.Println(strings.Repeat("-", 70))
	for _, it := range report.StockItems {
		fmt.Printf("  %-12s %-4d %-30s %10s %10s\n",
			"stock item", it.ID, it.Name, it.CurrentQuantity.StringFixed(2), it.MinQuantity.StringFixed(2))
	}
	for _, c := range report.Components {
		fmt.Printf("  %-12s %-4d %-30s %10s %10s\n",
			"component", c.ID, c.Name, c.BuiltQuantity.StringFixed(2), c.MinStock.StringFixed(2))
	}
	for _, b := range report.BuiltItems {
		fmt.Printf("  %-12s %-4d %-30s %10s %10s\n",
			"built item", b.ID, b.Name, b.BuiltQuantity.StringFixed(2), b.MinStock.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printWIP(report *core.WIPReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println("  WORK IN PROGRESS VALUATION")
	fmt.Println(strings.Repeat("=", 78))
	if len(report.Lines) == 0 {
		fmt.Println("  No built stock on hand.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-12s %-4s %-26s %8s %10s %12s\n", "LAYER", "ID", "NAME", "QTY", "UNIT COST", "VALUE")
	fmt.Println(strings.Repeat("-", 78))
	for _, l := range report.Lines {
		fmt.Printf("  %-12s %-4d %-26s %8s %10s %12s\n",
			l.Item.Type.Label(), l.Item.ID, l.Name,
			l.Quantity.StringFixed(2), l.UnitCost.StringFixed(2), l.Value.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 78))
	fmt.Printf("  %-44s %23s %12s\n", "TOTAL", "", report.TotalValue.StringFixed(2))
	fmt.Println(strings.Repeat("=", 78))
}

func printOrders(orders []core.Order) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 74))
	fmt.Println("  ORDERS")
	fmt.Println(strings.Repeat("=", 74))
	if len(orders) == 0 {
		fmt.Println("  No orders found.")
		fmt.Println(strings.Repeat("=", 74))
		return
	}
	fmt.Printf("  %-4s %-18s %-24s %-10s %s\n", "ID", "REFERENCE", "CUSTOMER", "STATUS", "CREATED")
	fmt.Println(strings.Repeat("-", 74))
	for _, o := range orders {
		fmt.Printf("  %-4d %-18s %-24s %-10s %s\n",
			o.ID, o.Reference, o.CustomerName, o.Status, o.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 74))
}

func printOrderDetail(o *core.Order) {
	fmt.Printf("\nOrder #%d  %s\n", o.ID, o.Reference)
	fmt.Printf("Customer: %s   Status: %s   Created: %s\n",
		o.CustomerName, o.Status, o.CreatedAt.Format("2006-01-02"))
	if len(o.Lines) == 0 {
		fmt.Println("  (no lines)")
		return
	}
	for _, l := range o.Lines {
		fmt.Printf("  product #%-4d x %s\n", l.ProductID, l.Quantity.String())
	}
}

func printPlanners(planners []core.WeeklyPlanner) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 66))
	fmt.Println("  WEEKLY PLANNERS")
	fmt.Println(strings.Repeat("=", 66))
	if len(planners) == 0 {
		fmt.Println("  No planners found.")
		fmt.Println(strings.Repeat("=", 66))
		return
	}
	fmt.Printf("  %-4s %-14s %12s  %s\n", "ID", "WEEK", "HOURS AVAIL", "NOTES")
	fmt.Println(strings.Repeat("-", 66))
	for _, p := range planners {
		fmt.Printf("  %-4d %-14s %12s  %s\n",
			p.ID, p.WeekStarting.Format("2006-01-02"), p.HoursAvailable.StringFixed(2), p.Notes)
	}
	fmt.Println(strings.Repeat("=", 66))
}

func printPlannerDetail(p *core.WeeklyPlanner) {
	fmt.Printf("\nPlanner #%d — week starting %s\n", p.ID, p.WeekStarting.Format("2006-01-02"))
	fmt.Printf("Hours available: %s\n", p.HoursAvailable.StringFixed(2))
	if p.Notes != "" {
		fmt.Printf("Notes: %s\n", p.Notes)
	}
	if len(p.Items) == 0 {
		fmt.Println("  (no planned work)")
		return
	}
	for _, it := range p.Items {
		switch it.Type {
		case core.PlannerJob:
			fmt.Printf("  job        %-30s %s hours\n", it.Description, it.Hours.String())
		default:
			fmt.Printf("  %-10s #%-4d x %s  %s\n", it.Type, it.ItemID, it.QuantityToBuild.String(), it.Description)
		}
	}
}

func printMovements(movements []core.StockMovement) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 76))
	fmt.Println("  STOCK MOVEMENTS (newest first)")
	fmt.Println(strings.Repeat("=", 76))
	if len(movements) == 0 {
		fmt.Println("  No movements recorded.")
		fmt.Println(strings.Repeat("=", 76))
		return
	}
	fmt.Printf("  %-12s %10s %10s %-12s %s\n", "TYPE", "QTY", "UNIT COST", "DATE", "NOTES")
	fmt.Println(strings.Repeat("-", 76))
	for _, m := range movements {
		fmt.Printf("  %-12s %10s %10s %-12s %s\n",
			m.Type, m.Quantity.StringFixed(2), m.UnitCost.StringFixed(2),
			m.MovementDate.Format("2006-01-02"), m.Notes)
	}
	fmt.Println(strings.Repeat("=", 76))
}

func printHelp() {
	fmt.Println(`
Catalog
  stock                      list stock items (! marks below minimum)
  components | built | products
Costing
  cost component <id>        true cost of one unit
  cost built <id>            BOM value and true cost
  cost product <id>          fully rolled-up product cost
Requirements
  requirements <product-id> <qty> [<product-id> <qty> ...]
  order-reqs <order-id>      requirements for one stored order
  loadsheet <order-id>       picking list and build list for one order
Orders
  orders [status]            list orders, optionally filtered
  order <id>                 show one order
  new-order                  interactive order entry
  set-status <id> <status>   DRAFT | CONFIRMED | COMPLETED | CANCELLED
Capacity
  planners                   list weekly planners
  planner <id>               show one planner's work lines
  buildrate <planner-id>     capacity traffic light for one week
  new-planner                interactive planner entry
Stock
  receive <stock-id> <qty> <unit-cost>
  issue <stock-id> <qty>
  adjust <stock-id> <new-qty>
  build component|built <id> <qty>
  movements <stock-id>
Reports
  lowstock | wip
Other
  help | exit | quit`)
}
