package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PlannerService owns weekly planners and their work items. The capacity
// planner reads through it.
type PlannerService struct {
	pool *pgxpool.Pool
}

// NewPlannerService constructs a PlannerService.
func NewPlannerService(pool *pgxpool.Pool) *PlannerService {
	return &PlannerService{pool: pool}
}

// PlannerInput is the input for creating a weekly planner.
type PlannerInput struct {
	WeekStarting   time.Time       `json:"week_starting"`
	HoursAvailable decimal.Decimal `json:"hours_available"`
	Notes          string          `json:"notes"`
}

// PlannerItemInput is the input for adding one line of planned work.
type PlannerItemInput struct {
	Type            PlannerItemType `json:"item_type"`
	ItemID          int             `json:"item_id"`
	Description     string          `json:"description"`
	QuantityToBuild decimal.Decimal `json:"quantity_to_build"`
	Hours           decimal.Decimal `json:"hours"`
}

// Create inserts a planner for one week.
func (s *PlannerService) Create(ctx context.Context, in PlannerInput) (*WeeklyPlanner, error) {
	if in.WeekStarting.IsZero() {
		return nil, Validationf("planner week_starting is required")
	}
	if in.HoursAvailable.Sign() < 0 {
		return nil, Validationf("hours available cannot be negative, got %s", in.HoursAvailable)
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO weekly_planners (week_starting, hours_available, notes)
		VALUES ($1, $2, $3)
		RETURNING id
	`, in.WeekStarting, in.HoursAvailable, in.Notes).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert planner: %w", err)
	}
	return s.Planner(ctx, id)
}

// AddItem appends one line of work to a planner. Job lines need positive
// hours; component and built-item lines need an existing referenced item and
// a positive quantity to build.
func (s *PlannerService) AddItem(ctx context.Context, plannerID int, in PlannerItemInput) (*WeeklyPlanner, error) {
	if !in.Type.Valid() {
		return nil, Validationf("invalid planner item type %q", in.Type)
	}
	switch in.Type {
	case PlannerJob:
		if in.Hours.Sign() <= 0 {
			return nil, Validationf("job hours must be positive, got %s", in.Hours)
		}
	case PlannerComponent, PlannerBuiltItem:
		if in.QuantityToBuild.Sign() <= 0 {
			return nil, Validationf("quantity to build must be positive, got %s", in.QuantityToBuild)
		}
		table := "components"
		kind := "component"
		if in.Type == PlannerBuiltItem {
			table = "built_items"
			kind = "built item"
		}
		var exists bool
		if err := s.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = $1)", in.ItemID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check %s %d: %w", kind, in.ItemID, err)
		}
		if !exists {
			return nil, &NotFoundError{Kind: kind, ID: in.ItemID}
		}
	}

	if _, err := s.Planner(ctx, plannerID); err != nil {
		return nil, err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO planner_items (planner_id, item_type, item_id, description, quantity_to_build, hours)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, plannerID, in.Type, in.ItemID, in.Description, in.QuantityToBuild, in.Hours)
	if err != nil {
		return nil, fmt.Errorf("failed to insert planner item: %w", err)
	}
	return s.Planner(ctx, plannerID)
}

// Planner fetches one planner with its items.
func (s *PlannerService) Planner(ctx context.Context, id int) (*WeeklyPlanner, error) {
	var p WeeklyPlanner
	err := s.pool.QueryRow(ctx, `
		SELECT id, week_starting, hours_available, notes
		FROM weekly_planners
		WHERE id = $1
	`, id).Scan(&p.ID, &p.WeekStarting, &p.HoursAvailable, &p.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "planner", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch planner %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, planner_id, item_type, item_id, description, quantity_to_build, hours
		FROM planner_items
		WHERE planner_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for planner %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item PlannerItem
		if err := rows.Scan(&item.ID, &item.PlannerID, &item.Type, &item.ItemID,
			&item.Description, &item.QuantityToBuild, &item.Hours); err != nil {
			return nil, fmt.Errorf("failed to scan planner item: %w", err)
		}
		p.Items = append(p.Items, item)
	}
	return &p, rows.Err()
}

// Planners lists all planners without items, most recent week first.
func (s *PlannerService) Planners(ctx context.Context) ([]WeeklyPlanner, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, week_starting, hours_available, notes
		FROM weekly_planners
		ORDER BY week_starting DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query planners: %w", err)
	}
	defer rows.Close()

	var planners []WeeklyPlanner
	for rows.Next() {
		var p WeeklyPlanner
		if err := rows.Scan(&p.ID, &p.WeekStarting, &p.HoursAvailable, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan planner: %w", err)
		}
		planners = append(planners, p)
	}
	return planners, rows.Err()
}
