package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"shopfloor/internal/adapters/cli"
	"shopfloor/internal/adapters/repl"
	"shopfloor/internal/app"
	"shopfloor/internal/core"
	"shopfloor/internal/db"
)

const defaultLabourRate = "15"

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	rate := os.Getenv("LABOUR_RATE")
	if rate == "" {
		rate = defaultLabourRate
	}
	labourRate, err := decimal.NewFromString(rate)
	if err != nil {
		log.Fatalf("invalid LABOUR_RATE %q: %v", rate, err)
	}

	catalog := core.NewCatalogService(pool)
	stock := core.NewStockService(pool)
	orders := core.NewOrderService(pool)
	planners := core.NewPlannerService(pool)
	svc := app.NewAppService(catalog, stock, orders, planners, labourRate)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
