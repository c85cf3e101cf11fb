package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shopfloor/internal/app"
	"shopfloor/internal/core"
)

// Run starts the interactive shell loop. It reads one command per line and
// dispatches deterministically; multi-step entry (orders, planners) goes
// through the wizards.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Shop Floor")
	fmt.Println("Costing, requirements, and capacity for the workshop. Type 'help' for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatch := func(input string) error {
		tokens := strings.Fields(input)
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "stock":
			items, err := svc.ListStockItems(ctx)
			if err != nil {
				return err
			}
			printStockItems(items)

		case "components":
			items, err := svc.ListComponents(ctx)
			if err != nil {
				return err
			}
			printComponents(items)

		case "built":
			items, err := svc.ListBuiltItems(ctx)
			if err != nil {
				return err
			}
			printBuiltItems(items)

		case "products":
			items, err := svc.ListProducts(ctx)
			if err != nil {
				return err
			}
			printProducts(items)

		case "cost":
			if len(args) < 2 {
				fmt.Println("Usage: cost component|built|product <id>")
				return nil
			}
			id, ok := parseID(args[1])
			if !ok {
				return nil
			}
			switch strings.ToLower(args[0]) {
			case "component":
				result, err := svc.GetComponentCost(ctx, id)
				if err != nil {
					return err
				}
				printCost(result)
			case "built":
				result, err := svc.GetBuiltItemCost(ctx, id)
				if err != nil {
					return err
				}
				printBuiltItemCost(result)
			case "product":
				result, err := svc.GetProductCost(ctx, id)
				if err != nil {
					return err
				}
				printCost(result)
			default:
				fmt.Println("Usage: cost component|built|product <id>")
			}

		case "requirements", "reqs":
			if len(args) == 0 || len(args)%2 != 0 {
				fmt.Println("Usage: requirements <product-id> <qty> [<product-id> <qty> ...]")
				return nil
			}
			var lines []core.DemandLine
			for i := 0; i < len(args); i += 2 {
				id, ok := parseID(args[i])
				if !ok {
					return nil
				}
				qty, err := decimal.NewFromString(args[i+1])
				if err != nil {
					fmt.Printf("Invalid quantity: %s\n", args[i+1])
					return nil
				}
				lines = append(lines, core.DemandLine{ProductID: id, Quantity: qty})
			}
			report, err := svc.CalculateRequirements(ctx, lines)
			if err != nil {
				return err
			}
			printRequirements(report)

		case "order-reqs":
			if len(args) < 1 {
				fmt.Println("Usage: order-reqs <order-id>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			report, err := svc.CalculateOrderRequirements(ctx, id)
			if err != nil {
				return err
			}
			printRequirements(report)

		case "loadsheet":
			if len(args) < 1 {
				fmt.Println("Usage: loadsheet <order-id>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			sheet, err := svc.GetLoadSheet(ctx, id)
			if err != nil {
				return err
			}
			printLoadSheet(sheet)

		case "orders":
			var status *core.OrderStatus
			if len(args) > 0 {
				s := core.OrderStatus(strings.ToUpper(args[0]))
				status = &s
			}
			orders, err := svc.ListOrders(ctx, status)
			if err != nil {
				return err
			}
			printOrders(orders)

		case "order":
			if len(args) < 1 {
				fmt.Println("Usage: order <id>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			order, err := svc.GetOrder(ctx, id)
			if err != nil {
				return err
			}
			printOrderDetail(order)

		case "new-order":
			handleNewOrder(ctx, reader, svc)

		case "set-status":
			if len(args) < 2 {
				fmt.Println("Usage: set-status <order-id> <status>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			order, err := svc.UpdateOrderStatus(ctx, id, core.OrderStatus(strings.ToUpper(args[1])))
			if err != nil {
				return err
			}
			fmt.Printf("Order %s is now %s.\n", order.Reference, order.Status)

		case "planners":
			planners, err := svc.ListPlanners(ctx)
			if err != nil {
				return err
			}
			printPlanners(planners)

		case "planner":
			if len(args) < 1 {
				fmt.Println("Usage: planner <id>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			planner, err := svc.GetPlanner(ctx, id)
			if err != nil {
				return err
			}
			printPlannerDetail(planner)

		case "buildrate":
			if len(args) < 1 {
				fmt.Println("Usage: buildrate <planner-id>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			feasibility, err := svc.GetBuildRate(ctx, id)
			if err != nil {
				return err
			}
			printFeasibility(feasibility)

		case "new-planner":
			handleNewPlanner(ctx, reader, svc)

		case "receive":
			if len(args) < 3 {
				fmt.Println("Usage: receive <stock-id> <qty> <unit-cost>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			qty, cost, ok := parseQtyCost(args[1], args[2])
			if !ok {
				return nil
			}
			if err := svc.ReceiveStock(ctx, app.StockMovementRequest{
				StockItemID: id,
				Quantity:    qty,
				UnitCost:    cost,
			}); err != nil {
				return err
			}
			fmt.Printf("Received %s @ %s. Average cost recalculated.\n", qty.String(), cost.StringFixed(2))

		case "issue":
			if len(args) < 2 {
				fmt.Println("Usage: issue <stock-id> <qty>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			qty, err := decimal.NewFromString(args[1])
			if err != nil {
				fmt.Printf("Invalid quantity: %s\n", args[1])
				return nil
			}
			if err := svc.IssueStock(ctx, app.StockMovementRequest{StockItemID: id, Quantity: qty}); err != nil {
				return err
			}
			fmt.Printf("Issued %s.\n", qty.String())

		case "adjust":
			if len(args) < 2 {
				fmt.Println("Usage: adjust <stock-id> <new-qty>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			qty, err := decimal.NewFromString(args[1])
			if err != nil {
				fmt.Printf("Invalid quantity: %s\n", args[1])
				return nil
			}
			if err := svc.AdjustStock(ctx, app.StockMovementRequest{StockItemID: id, Quantity: qty}); err != nil {
				return err
			}
			fmt.Printf("Adjusted to %s.\n", qty.String())

		case "build":
			if len(args) < 3 {
				fmt.Println("Usage: build component|built <id> <qty>")
				return nil
			}
			var itemType core.ItemType
			switch strings.ToLower(args[0]) {
			case "component":
				itemType = core.ItemComponent
			case "built":
				itemType = core.ItemBuiltItem
			default:
				fmt.Println("Usage: build component|built <id> <qty>")
				return nil
			}
			id, ok := parseID(args[1])
			if !ok {
				return nil
			}
			qty, err := decimal.NewFromString(args[2])
			if err != nil {
				fmt.Printf("Invalid quantity: %s\n", args[2])
				return nil
			}
			if err := svc.CompleteBuild(ctx, app.CompleteBuildRequest{
				ItemType: itemType,
				ItemID:   id,
				Quantity: qty,
			}); err != nil {
				return err
			}
			fmt.Printf("Build recorded: %s x %s #%d. Inputs consumed.\n", qty.String(), args[0], id)

		case "movements":
			if len(args) < 1 {
				fmt.Println("Usage: movements <stock-id>")
				return nil
			}
			id, ok := parseID(args[0])
			if !ok {
				return nil
			}
			movements, err := svc.GetStockMovements(ctx, id)
			if err != nil {
				return err
			}
			printMovements(movements)

		case "lowstock":
			report, err := svc.GetLowStock(ctx)
			if err != nil {
				return err
			}
			printLowStock(report)

		case "wip":
			report, err := svc.GetWIPValuation(ctx)
			if err != nil {
				return err
			}
			printWIP(report)

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: %s  (type 'help' for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if err := dispatch(input); err != nil {
			if err == errExit {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func parseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		fmt.Printf("Invalid id: %s\n", s)
		return 0, false
	}
	return id, true
}

func parseQtyCost(qtyStr, costStr string) (decimal.Decimal, decimal.Decimal, bool) {
	qty, err := decimal.NewFromString(qtyStr)
	if err != nil || qty.IsNegative() || qty.IsZero() {
		fmt.Printf("Invalid quantity: %s\n", qtyStr)
		return decimal.Zero, decimal.Zero, false
	}
	cost, err := decimal.NewFromString(costStr)
	if err != nil || cost.IsNegative() {
		fmt.Printf("Invalid unit cost: %s\n", costStr)
		return decimal.Zero, decimal.Zero, false
	}
	return qty, cost, true
}
