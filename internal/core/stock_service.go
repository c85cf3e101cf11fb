package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockService mutates stock levels. Every change locks the affected rows,
// applies the movement, and appends a stock_movements audit record in one
// transaction. The calculation core never writes through this service; it
// only reads the levels these operations maintain.
type StockService struct {
	pool *pgxpool.Pool
}

// NewStockService constructs a StockService.
func NewStockService(pool *pgxpool.Pool) *StockService {
	return &StockService{pool: pool}
}

// Receive records an inbound delivery of a raw material. cost_per_unit is
// recomputed as the weighted average of the existing holding and the receipt.
func (s *StockService) Receive(ctx context.Context, stockItemID int, qty, unitCost decimal.Decimal, notes string) error {
	if qty.Sign() <= 0 {
		return Validationf("receive quantity must be positive, got %s", qty)
	}
	if unitCost.Sign() < 0 {
		return Validationf("unit cost cannot be negative, got %s", unitCost)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	oldQty, oldCost, err := lockStockItem(ctx, tx, stockItemID)
	if err != nil {
		return err
	}

	newQty := oldQty.Add(qty)
	newCost := unitCost
	if !newQty.IsZero() {
		newCost = oldQty.Mul(oldCost).Add(qty.Mul(unitCost)).Div(newQty)
	}

	_, err = tx.Exec(ctx, `
		UPDATE stock_items SET current_quantity = $1, cost_per_unit = $2 WHERE id = $3
	`, newQty, newCost, stockItemID)
	if err != nil {
		return fmt.Errorf("failed to update stock item %d: %w", stockItemID, err)
	}

	if err := insertMovementTx(ctx, tx, stockItemID, MovementReceipt, qty, unitCost, notes); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stock receipt: %w", err)
	}
	return nil
}

// Issue records stock going out (to a job, wastage, or sale). Issuing more
// than is on hand is rejected rather than driving the level negative.
func (s *StockService) Issue(ctx context.Context, stockItemID int, qty decimal.Decimal, notes string) error {
	if qty.Sign() <= 0 {
		return Validationf("issue quantity must be positive, got %s", qty)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	onHand, unitCost, err := lockStockItem(ctx, tx, stockItemID)
	if err != nil {
		return err
	}
	if onHand.LessThan(qty) {
		return Validationf("insufficient stock for item %d: %s on hand, %s requested", stockItemID, onHand, qty)
	}

	_, err = tx.Exec(ctx, `
		UPDATE stock_items SET current_quantity = current_quantity - $1 WHERE id = $2
	`, qty, stockItemID)
	if err != nil {
		return fmt.Errorf("failed to update stock item %d: %w", stockItemID, err)
	}

	if err := insertMovementTx(ctx, tx, stockItemID, MovementIssue, qty.Neg(), unitCost, notes); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stock issue: %w", err)
	}
	return nil
}

// Adjust sets a stock item's level to an absolute figure, recording the
// delta. Used for stocktake corrections.
func (s *StockService) Adjust(ctx context.Context, stockItemID int, newQty decimal.Decimal, notes string) error {
	if newQty.Sign() < 0 {
		return Validationf("adjusted quantity cannot be negative, got %s", newQty)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	onHand, unitCost, err := lockStockItem(ctx, tx, stockItemID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE stock_items SET current_quantity = $1 WHERE id = $2
	`, newQty, stockItemID)
	if err != nil {
		return fmt.Errorf("failed to update stock item %d: %w", stockItemID, err)
	}

	if err := insertMovementTx(ctx, tx, stockItemID, MovementAdjustment, newQty.Sub(onHand), unitCost, notes); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stock adjustment: %w", err)
	}
	return nil
}

// CompleteBuild records qty finished units of a component or built item:
// the BOM's raw materials (and, for built items, its components) are
// consumed and built_quantity is incremented, all in one transaction. Any
// shortage fails the whole build; nothing is partially consumed.
func (s *StockService) CompleteBuild(ctx context.Context, itemType ItemType, id int, qty decimal.Decimal) error {
	if qty.Sign() <= 0 {
		return Validationf("build quantity must be positive, got %s", qty)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	switch itemType {
	case ItemComponent:
		err = s.completeComponentBuildTx(ctx, tx, id, qty)
	case ItemBuiltItem:
		err = s.completeBuiltItemBuildTx(ctx, tx, id, qty)
	default:
		return Validationf("cannot build item type %q", itemType)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit build: %w", err)
	}
	return nil
}

func (s *StockService) completeComponentBuildTx(ctx context.Context, tx pgx.Tx, componentID int, qty decimal.Decimal) error {
	var name string
	err := tx.QueryRow(ctx, "SELECT name FROM components WHERE id = $1 FOR UPDATE", componentID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Kind: "component", ID: componentID}
		}
		return fmt.Errorf("failed to lock component %d: %w", componentID, err)
	}

	entries, err := componentBOMTx(ctx, tx, componentID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		need := entry.Quantity.Mul(qty)
		if err := consumeStockTx(ctx, tx, entry.StockItemID, need,
			fmt.Sprintf("Consumed building %s × %s", qty, name)); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, "UPDATE components SET built_quantity = built_quantity + $1 WHERE id = $2", qty, componentID)
	if err != nil {
		return fmt.Errorf("failed to increment built quantity for component %d: %w", componentID, err)
	}
	return nil
}

func (s *StockService) completeBuiltItemBuildTx(ctx context.Context, tx pgx.Tx, builtItemID int, qty decimal.Decimal) error {
	var name string
	err := tx.QueryRow(ctx, "SELECT name FROM built_items WHERE id = $1 FOR UPDATE", builtItemID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Kind: "built item", ID: builtItemID}
		}
		return fmt.Errorf("failed to lock built item %d: %w", builtItemID, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT item_type, item_id, quantity
		FROM built_item_bom_entries
		WHERE built_item_id = $1
		ORDER BY id
	`, builtItemID)
	if err != nil {
		return fmt.Errorf("failed to query BOM for built item %d: %w", builtItemID, err)
	}
	type bomLine struct {
		itemType ItemType
		itemID   int
		quantity decimal.Decimal
	}
	var entries []bomLine
	for rows.Next() {
		var l bomLine
		if err := rows.Scan(&l.itemType, &l.itemID, &l.quantity); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan BOM entry: %w", err)
		}
		entries = append(entries, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating BOM entries: %w", err)
	}

	note := fmt.Sprintf("Consumed building %s × %s", qty, name)
	for _, entry := range entries {
		need := entry.quantity.Mul(qty)
		switch entry.itemType {
		case ItemRawMaterial:
			if err := consumeStockTx(ctx, tx, entry.itemID, need, note); err != nil {
				return err
			}
		case ItemComponent:
			if err := consumeComponentTx(ctx, tx, entry.itemID, need); err != nil {
				return err
			}
		default:
			return Validationf("built item %d BOM entry has invalid item type %q", builtItemID, entry.itemType)
		}
	}

	_, err = tx.Exec(ctx, "UPDATE built_items SET built_quantity = built_quantity + $1 WHERE id = $2", qty, builtItemID)
	if err != nil {
		return fmt.Errorf("failed to increment built quantity for built item %d: %w", builtItemID, err)
	}
	return nil
}

// Movements lists the audit trail for one stock item, newest first.
func (s *StockService) Movements(ctx context.Context, stockItemID int) ([]StockMovement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, stock_item_id, movement_type, quantity, unit_cost, notes, movement_date
		FROM stock_movements
		WHERE stock_item_id = $1
		ORDER BY movement_date DESC, id DESC
	`, stockItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for stock item %d: %w", stockItemID, err)
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.StockItemID, &m.Type, &m.Quantity, &m.UnitCost, &m.Notes, &m.MovementDate); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// ── TX helpers ────────────────────────────────────────────────────────────────

func lockStockItem(ctx context.Context, tx pgx.Tx, id int) (onHand, unitCost decimal.Decimal, err error) {
	err = tx.QueryRow(ctx,
		"SELECT current_quantity, cost_per_unit FROM stock_items WHERE id = $1 FOR UPDATE", id,
	).Scan(&onHand, &unitCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, &NotFoundError{Kind: "stock item", ID: id}
		}
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to lock stock item %d: %w", id, err)
	}
	return onHand, unitCost, nil
}

func consumeStockTx(ctx context.Context, tx pgx.Tx, stockItemID int, qty decimal.Decimal, notes string) error {
	onHand, unitCost, err := lockStockItem(ctx, tx, stockItemID)
	if err != nil {
		return err
	}
	if onHand.LessThan(qty) {
		return Validationf("insufficient stock for item %d: %s on hand, %s needed", stockItemID, onHand, qty)
	}
	_, err = tx.Exec(ctx, "UPDATE stock_items SET current_quantity = current_quantity - $1 WHERE id = $2", qty, stockItemID)
	if err != nil {
		return fmt.Errorf("failed to deduct stock item %d: %w", stockItemID, err)
	}
	return insertMovementTx(ctx, tx, stockItemID, MovementBuild, qty.Neg(), unitCost, notes)
}

func consumeComponentTx(ctx context.Context, tx pgx.Tx, componentID int, qty decimal.Decimal) error {
	var built decimal.Decimal
	err := tx.QueryRow(ctx, "SELECT built_quantity FROM components WHERE id = $1 FOR UPDATE", componentID).Scan(&built)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Kind: "component", ID: componentID}
		}
		return fmt.Errorf("failed to lock component %d: %w", componentID, err)
	}
	if built.LessThan(qty) {
		return Validationf("insufficient built stock for component %d: %s built, %s needed", componentID, built, qty)
	}
	_, err = tx.Exec(ctx, "UPDATE components SET built_quantity = built_quantity - $1 WHERE id = $2", qty, componentID)
	if err != nil {
		return fmt.Errorf("failed to deduct component %d: %w", componentID, err)
	}
	return nil
}

func componentBOMTx(ctx context.Context, tx pgx.Tx, componentID int) ([]ComponentBOMEntry, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, component_id, stock_item_id, quantity, unit
		FROM component_bom_entries
		WHERE component_id = $1
		ORDER BY id
	`, componentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query BOM for component %d: %w", componentID, err)
	}
	defer rows.Close()

	var entries []ComponentBOMEntry
	for rows.Next() {
		var e ComponentBOMEntry
		if err := rows.Scan(&e.ID, &e.ComponentID, &e.StockItemID, &e.Quantity, &e.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan BOM entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func insertMovementTx(ctx context.Context, tx pgx.Tx, stockItemID int, t MovementType, qty, unitCost decimal.Decimal, notes string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO stock_movements (stock_item_id, movement_type, quantity, unit_cost, notes, movement_date)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, stockItemID, t, qty, unitCost, notes)
	if err != nil {
		return fmt.Errorf("failed to insert stock movement: %w", err)
	}
	return nil
}
