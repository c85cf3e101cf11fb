// seed-demo loads a small demonstration workshop into an empty database:
// a timber-and-fixings stock list, a frame component, a wall panel, a garden
// room product, one draft order, and one weekly planner.
//
// Usage: go run ./cmd/seed-demo
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"shopfloor/internal/db"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	var existing int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM stock_items").Scan(&existing); err != nil {
		log.Fatalf("Failed to inspect database, have migrations run?: %v", err)
	}
	if existing > 0 {
		log.Println("Database already holds catalog data. Nothing to do.")
		return
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Seeding stock items...")
	var timberID, screwsID, feltID int
	err = tx.QueryRow(ctx, `
		INSERT INTO stock_items (name, unit, current_quantity, min_quantity, cost_per_unit, category, location)
		VALUES ('Timber 2x4 2.4m', 'length', 120, 40, 4.20, 'timber', 'Rack A')
		RETURNING id`).Scan(&timberID)
	if err == nil {
		err = tx.QueryRow(ctx, `
			INSERT INTO stock_items (name, unit, current_quantity, min_quantity, cost_per_unit, category, location)
			VALUES ('Wood Screws 50mm (box)', 'box', 30, 10, 6.50, 'fixings', 'Bin 3')
			RETURNING id`).Scan(&screwsID)
	}
	if err == nil {
		err = tx.QueryRow(ctx, `
			INSERT INTO stock_items (name, unit, current_quantity, min_quantity, cost_per_unit, category, location)
			VALUES ('Roofing Felt 10m', 'roll', 8, 4, 22.00, 'roofing', 'Rack C')
			RETURNING id`).Scan(&feltID)
	}
	if err != nil {
		log.Fatalf("Failed to seed stock items: %v", err)
	}

	log.Println("Seeding components...")
	var frameID int
	err = tx.QueryRow(ctx, `
		INSERT INTO components (name, built_quantity, min_stock, labour_hours)
		VALUES ('Wall Frame 2.4m', 6, 4, 1.5)
		RETURNING id`).Scan(&frameID)
	if err == nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO component_bom_entries (component_id, stock_item_id, quantity, unit)
			VALUES ($1, $2, 8, 'length'), ($1, $3, 0.5, 'box')`,
			frameID, timberID, screwsID)
	}
	if err != nil {
		log.Fatalf("Failed to seed components: %v", err)
	}

	log.Println("Seeding built items...")
	var panelID int
	err = tx.QueryRow(ctx, `
		INSERT INTO built_items (name, built_quantity, min_stock, labour_hours)
		VALUES ('Insulated Wall Panel', 2, 2, 2)
		RETURNING id`).Scan(&panelID)
	if err == nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO built_item_bom_entries (built_item_id, item_type, item_id, quantity, unit)
			VALUES ($1, 'component', $2, 2, 'unit'), ($1, 'raw_material', $3, 1, 'box')`,
			panelID, frameID, screwsID)
	}
	if err != nil {
		log.Fatalf("Failed to seed built items: %v", err)
	}

	log.Println("Seeding products...")
	var roomID int
	err = tx.QueryRow(ctx, `
		INSERT INTO products (name, category, estimated_load_time, estimated_install_time)
		VALUES ('Garden Room 3x3', 'garden buildings', 2, 16)
		RETURNING id`).Scan(&roomID)
	if err == nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO product_composition_entries (product_id, component_type, component_id, quantity, unit)
			VALUES ($1, 'built_item', $2, 4, 'unit'), ($1, 'raw_material', $3, 2, 'roll')`,
			roomID, panelID, feltID)
	}
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seeding a draft order...")
	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (reference, customer_name, status)
		VALUES ('ORD-0001', 'J. Fletcher', 'DRAFT')
		RETURNING id`).Scan(&orderID)
	if err == nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, product_id, quantity) VALUES ($1, $2, 1)`,
			orderID, roomID)
	}
	if err != nil {
		log.Fatalf("Failed to seed order: %v", err)
	}

	log.Println("Seeding a weekly planner...")
	var plannerID int
	err = tx.QueryRow(ctx, `
		INSERT INTO weekly_planners (week_starting, hours_available, notes)
		VALUES (date_trunc('week', now())::date, 40, 'Demo week')
		RETURNING id`).Scan(&plannerID)
	if err == nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO planner_items (planner_id, item_type, item_id, description, quantity_to_build, hours)
			VALUES
			  ($1, 'component', $2, '', 4, 0),
			  ($1, 'built_item', $3, '', 2, 0),
			  ($1, 'job', 0, 'Site install, Hartley Rd', 0, 8)`,
			plannerID, frameID, panelID)
	}
	if err != nil {
		log.Fatalf("Failed to seed planner: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Demo workshop seeded.")
}
