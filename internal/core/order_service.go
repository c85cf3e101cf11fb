package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderService owns customer orders. The requirements planner reads orders
// through it; order capture itself lives with this service.
type OrderService struct {
	pool *pgxpool.Pool
}

// NewOrderService constructs an OrderService.
func NewOrderService(pool *pgxpool.Pool) *OrderService {
	return &OrderService{pool: pool}
}

// OrderInput is the input for creating an order.
type OrderInput struct {
	Reference    string       `json:"reference"`
	CustomerName string       `json:"customer_name"`
	Lines        []DemandLine `json:"lines"`
}

// Create inserts a draft order and its lines in one transaction. Every line
// must name an existing product and a positive quantity.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*Order, error) {
	if in.Reference == "" {
		return nil, Validationf("order reference is required")
	}
	if len(in.Lines) == 0 {
		return nil, Validationf("order must have at least one line")
	}
	for i, line := range in.Lines {
		if line.Quantity.Sign() <= 0 {
			return nil, Validationf("order line %d: quantity must be positive, got %s", i+1, line.Quantity)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (reference, customer_name, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`, in.Reference, in.CustomerName, OrderDraft).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, line := range in.Lines {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", line.ProductID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check product %d: %w", line.ProductID, err)
		}
		if !exists {
			return nil, fmt.Errorf("order line %d: %w", i+1, &NotFoundError{Kind: "product", ID: line.ProductID})
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, product_id, quantity)
			VALUES ($1, $2, $3)
		`, id, line.ProductID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}
	return s.Order(ctx, id)
}

// Order fetches one order with its lines.
func (s *OrderService) Order(ctx context.Context, id int) (*Order, error) {
	var o Order
	err := s.pool.QueryRow(ctx, `
		SELECT id, reference, customer_name, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.Reference, &o.CustomerName, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "order", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, product_id, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for order %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		o.Lines = append(o.Lines, line)
	}
	return &o, rows.Err()
}

// Orders lists all orders without lines, newest first, optionally filtered
// by status.
func (s *OrderService) Orders(ctx context.Context, status *OrderStatus) ([]Order, error) {
	query := `
		SELECT id, reference, customer_name, status, created_at
		FROM orders
	`
	args := []any{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.CustomerName, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus transitions an order's lifecycle state.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status OrderStatus) (*Order, error) {
	switch status {
	case OrderDraft, OrderConfirmed, OrderCompleted, OrderCancelled:
	default:
		return nil, Validationf("invalid order status %q", status)
	}
	tag, err := s.pool.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Kind: "order", ID: id}
	}
	return s.Order(ctx, id)
}
