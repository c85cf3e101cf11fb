package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	webAdapter "shopfloor/internal/adapters/web"
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
		log.Fatalf("database: %v", err)
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

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s (labour rate %s/hr)", port, labourRate)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
