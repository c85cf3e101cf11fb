package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannerItemType classifies a weekly planner line. A job carries its own
// hours figure; component and built-item lines derive hours from
// quantity_to_build × the item's labour_hours.
type PlannerItemType string

const (
	PlannerJob       PlannerItemType = "job"
	PlannerComponent PlannerItemType = "component"
	PlannerBuiltItem PlannerItemType = "built_item"
)

// Valid reports whether t is a known planner line type.
func (t PlannerItemType) Valid() bool {
	switch t {
	case PlannerJob, PlannerComponent, PlannerBuiltItem:
		return true
	}
	return false
}

// WeeklyPlanner is one week's production plan: the staff-hours available and
// the work lined up against them.
type WeeklyPlanner struct {
	ID             int             `json:"id"`
	WeekStarting   time.Time       `json:"week_starting"`
	HoursAvailable decimal.Decimal `json:"hours_available"`
	Notes          string          `json:"notes"`
	Items          []PlannerItem   `json:"items,omitempty"`
}

// PlannerItem is one line of work in a weekly planner. For PlannerJob lines
// Hours is authoritative and ItemID/QuantityToBuild are zero; for component
// and built-item lines Hours is ignored and derived at calculation time.
type PlannerItem struct {
	ID              int             `json:"id"`
	PlannerID       int             `json:"planner_id"`
	Type            PlannerItemType `json:"item_type"`
	ItemID          int             `json:"item_id,omitempty"`
	Description     string          `json:"description"`
	QuantityToBuild decimal.Decimal `json:"quantity_to_build"`
	Hours           decimal.Decimal `json:"hours"`
}

// FeasibilityIndicator is the traffic-light band for a week's build rate.
type FeasibilityIndicator string

const (
	IndicatorGreen FeasibilityIndicator = "green" // comfortably feasible, ≤ 85%
	IndicatorAmber FeasibilityIndicator = "amber" // tight, 85–100%
	IndicatorRed   FeasibilityIndicator = "red"   // infeasible, > 100%
)

// Feasibility is the capacity result for one weekly planner.
type Feasibility struct {
	PlannerID        int                  `json:"planner_id"`
	HoursAvailable   decimal.Decimal      `json:"hours_available"`
	HoursRequired    decimal.Decimal      `json:"hours_required"`
	HoursShortfall   decimal.Decimal      `json:"hours_shortfall"`
	HoursExcess      decimal.Decimal      `json:"hours_excess"`
	BuildRatePercent decimal.Decimal      `json:"build_rate_percent"`
	IsFeasible       bool                 `json:"is_feasible"`
	Indicator        FeasibilityIndicator `json:"indicator"`
}
