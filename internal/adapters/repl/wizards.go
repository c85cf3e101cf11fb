package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shopfloor/internal/app"
	"shopfloor/internal/core"
)

// handleNewOrder runs an interactive order creation session.
func handleNewOrder(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Print("Order reference: ")
	reference, _ := reader.ReadString('\n')
	reference = strings.TrimSpace(reference)
	if reference == "" {
		fmt.Println("Reference is required. Order not created.")
		return
	}

	fmt.Print("Customer name (optional): ")
	customer, _ := reader.ReadString('\n')
	customer = strings.TrimSpace(customer)

	fmt.Println("Enter order lines. Type 'done' when finished, 'cancel' to abort.")
	fmt.Println("Format per line: <product-id> <quantity>")
	fmt.Println("  Example: 3 2")

	var lines []core.DemandLine
	lineNum := 1
	for {
		fmt.Printf("  Line %d: ", lineNum)
		raw, _ := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.ToLower(raw) == "cancel" {
			fmt.Println("Order creation cancelled.")
			return
		}
		if strings.ToLower(raw) == "done" {
			break
		}
		if raw == "" {
			continue
		}

		parts := strings.Fields(raw)
		if len(parts) != 2 {
			fmt.Println("  Invalid format. Use: <product-id> <quantity>")
			continue
		}
		productID, err := strconv.Atoi(parts[0])
		if err != nil || productID <= 0 {
			fmt.Println("  Invalid product id.")
			continue
		}
		qty, err := decimal.NewFromString(parts[1])
		if err != nil || qty.IsNegative() || qty.IsZero() {
			fmt.Println("  Invalid quantity.")
			continue
		}

		lines = append(lines, core.DemandLine{ProductID: productID, Quantity: qty})
		lineNum++
	}

	if len(lines) == 0 {
		fmt.Println("No lines entered. Order not created.")
		return
	}

	order, err := svc.CreateOrder(ctx, core.OrderInput{
		Reference:    reference,
		CustomerName: customer,
		Lines:        lines,
	})
	if err != nil {
		fmt.Printf("Error creating order: %v\n", err)
		return
	}

	fmt.Printf("\nOrder created (ID: %d, Status: DRAFT)\n", order.ID)
	printOrderDetail(order)
	fmt.Printf("Use 'loadsheet %d' to see what it needs.\n", order.ID)
}

// handleNewPlanner runs an interactive weekly planner session: the week
// header first, then a loop of work lines.
func handleNewPlanner(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Print("Week starting (YYYY-MM-DD): ")
	weekInput, _ := reader.ReadString('\n')
	weekInput = strings.TrimSpace(weekInput)
	week, err := time.Parse("2006-01-02", weekInput)
	if err != nil {
		fmt.Println("Invalid date. Planner not created.")
		return
	}

	fmt.Print("Staff hours available: ")
	hoursInput, _ := reader.ReadString('\n')
	hours, err := decimal.NewFromString(strings.TrimSpace(hoursInput))
	if err != nil || hours.IsNegative() {
		fmt.Println("Invalid hours. Planner not created.")
		return
	}

	fmt.Print("Notes (optional): ")
	notes, _ := reader.ReadString('\n')
	notes = strings.TrimSpace(notes)

	planner, err := svc.CreatePlanner(ctx, core.PlannerInput{
		WeekStarting:   week,
		HoursAvailable: hours,
		Notes:          notes,
	})
	if err != nil {
		fmt.Printf("Error creating planner: %v\n", err)
		return
	}
	fmt.Printf("Planner created (ID: %d).\n", planner.ID)

	fmt.Println("Enter work lines. Type 'done' when finished.")
	fmt.Println("Formats:")
	fmt.Println("  job <hours> <description...>       Example: job 8 Fit out unit 12")
	fmt.Println("  component <id> <qty-to-build>      Example: component 4 10")
	fmt.Println("  built <id> <qty-to-build>          Example: built 2 3")

	for {
		fmt.Print("  Item: ")
		raw, _ := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.ToLower(raw) == "done" {
			break
		}
		if raw == "" {
			continue
		}

		parts := strings.Fields(raw)
		var in core.PlannerItemInput
		switch strings.ToLower(parts[0]) {
		case "job":
			if len(parts) < 3 {
				fmt.Println("  Usage: job <hours> <description...>")
				continue
			}
			jobHours, err := decimal.NewFromString(parts[1])
			if err != nil || jobHours.IsNegative() {
				fmt.Println("  Invalid hours.")
				continue
			}
			in = core.PlannerItemInput{
				Type:        core.PlannerJob,
				Description: strings.Join(parts[2:], " "),
				Hours:       jobHours,
			}
		case "component", "built":
			if len(parts) != 3 {
				fmt.Printf("  Usage: %s <id> <qty-to-build>\n", parts[0])
				continue
			}
			itemID, err := strconv.Atoi(parts[1])
			if err != nil || itemID <= 0 {
				fmt.Println("  Invalid id.")
				continue
			}
			qty, err := decimal.NewFromString(parts[2])
			if err != nil || qty.IsNegative() || qty.IsZero() {
				fmt.Println("  Invalid quantity.")
				continue
			}
			itemType := core.PlannerComponent
			if strings.ToLower(parts[0]) == "built" {
				itemType = core.PlannerBuiltItem
			}
			in = core.PlannerItemInput{
				Type:            itemType,
				ItemID:          itemID,
				QuantityToBuild: qty,
			}
		default:
			fmt.Println("  Unknown line type. Use job, component, or built.")
			continue
		}

		planner, err = svc.AddPlannerItem(ctx, planner.ID, in)
		if err != nil {
			fmt.Printf("  Error: %v\n", err)
			continue
		}
	}

	printPlannerDetail(planner)
	fmt.Printf("Use 'buildrate %d' for the week's traffic light.\n", planner.ID)
}
