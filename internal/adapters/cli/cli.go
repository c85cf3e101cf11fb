package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shopfloor/internal/app"
	"shopfloor/internal/core"
)

// Run executes a one-shot CLI command and exits. Results are printed as
// indented JSON so the output can be piped into other tools.
// args is os.Args[1:], the first element being the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "cost":
		if len(args) < 3 {
			log.Fatal("Usage: app cost component|built|product <id>")
		}
		id := mustID(args[2])
		switch strings.ToLower(args[1]) {
		case "component":
			result, err := svc.GetComponentCost(ctx, id)
			if err != nil {
				log.Fatalf("Cost failed: %v", err)
			}
			printJSON(result)
		case "built":
			result, err := svc.GetBuiltItemCost(ctx, id)
			if err != nil {
				log.Fatalf("Cost failed: %v", err)
			}
			printJSON(result)
		case "product":
			result, err := svc.GetProductCost(ctx, id)
			if err != nil {
				log.Fatalf("Cost failed: %v", err)
			}
			printJSON(result)
		default:
			log.Fatal("Usage: app cost component|built|product <id>")
		}

	case "requirements", "reqs":
		rest := args[1:]
		if len(rest) == 0 || len(rest)%2 != 0 {
			log.Fatal("Usage: app requirements <product-id> <qty> [<product-id> <qty> ...]")
		}
		var lines []core.DemandLine
		for i := 0; i < len(rest); i += 2 {
			qty, err := decimal.NewFromString(rest[i+1])
			if err != nil {
				log.Fatalf("Invalid quantity: %s", rest[i+1])
			}
			lines = append(lines, core.DemandLine{ProductID: mustID(rest[i]), Quantity: qty})
		}
		report, err := svc.CalculateRequirements(ctx, lines)
		if err != nil {
			log.Fatalf("Requirements failed: %v", err)
		}
		printJSON(report)

	case "loadsheet":
		if len(args) < 2 {
			log.Fatal("Usage: app loadsheet <order-id>")
		}
		sheet, err := svc.GetLoadSheet(ctx, mustID(args[1]))
		if err != nil {
			log.Fatalf("Load sheet failed: %v", err)
		}
		printJSON(sheet)

	case "buildrate":
		if len(args) < 2 {
			log.Fatal("Usage: app buildrate <planner-id>")
		}
		feasibility, err := svc.GetBuildRate(ctx, mustID(args[1]))
		if err != nil {
			log.Fatalf("Build rate failed: %v", err)
		}
		printJSON(feasibility)

	case "lowstock":
		report, err := svc.GetLowStock(ctx)
		if err != nil {
			log.Fatalf("Low stock report failed: %v", err)
		}
		printJSON(report)

	case "wip":
		report, err := svc.GetWIPValuation(ctx)
		if err != nil {
			log.Fatalf("WIP report failed: %v", err)
		}
		printJSON(report)

	case "receive":
		if len(args) < 4 {
			log.Fatal("Usage: app receive <stock-id> <qty> <unit-cost>")
		}
		qty := mustDecimal(args[2], "quantity")
		cost := mustDecimal(args[3], "unit cost")
		if err := svc.ReceiveStock(ctx, app.StockMovementRequest{
			StockItemID: mustID(args[1]),
			Quantity:    qty,
			UnitCost:    cost,
		}); err != nil {
			log.Fatalf("Receive failed: %v", err)
		}
		fmt.Println("Stock received.")

	case "issue":
		if len(args) < 3 {
			log.Fatal("Usage: app issue <stock-id> <qty>")
		}
		if err := svc.IssueStock(ctx, app.StockMovementRequest{
			StockItemID: mustID(args[1]),
			Quantity:    mustDecimal(args[2], "quantity"),
		}); err != nil {
			log.Fatalf("Issue failed: %v", err)
		}
		fmt.Println("Stock issued.")

	case "build":
		if len(args) < 4 {
			log.Fatal("Usage: app build component|built <id> <qty>")
		}
		var itemType core.ItemType
		switch strings.ToLower(args[1]) {
		case "component":
			itemType = core.ItemComponent
		case "built":
			itemType = core.ItemBuiltItem
		default:
			log.Fatal("Usage: app build component|built <id> <qty>")
		}
		if err := svc.CompleteBuild(ctx, app.CompleteBuildRequest{
			ItemType: itemType,
			ItemID:   mustID(args[2]),
			Quantity: mustDecimal(args[3], "quantity"),
		}); err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		fmt.Println("Build recorded.")

	default:
		log.Fatalf("Unknown command: %s\nAvailable: cost, requirements, loadsheet, buildrate, lowstock, wip, receive, issue, build", args[0])
	}
}

func mustID(s string) int {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		log.Fatalf("Invalid id: %s", s)
	}
	return id
}

func mustDecimal(s, what string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatalf("Invalid %s: %s", what, s)
	}
	return d
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
