package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred        = decimal.NewFromInt(100)
	amberThreshold = decimal.NewFromInt(85)
)

// CapacityPlanner compares the build-hours a weekly planner demands against
// the staff-hours it has available and classifies the result into
// green/amber/red feasibility bands.
type CapacityPlanner struct {
	planners PlannerReader
	reader   BOMReader
}

// NewCapacityPlanner constructs a CapacityPlanner.
func NewCapacityPlanner(planners PlannerReader, reader BOMReader) *CapacityPlanner {
	return &CapacityPlanner{planners: planners, reader: reader}
}

// BuildRate computes the feasibility of one weekly planner. A planner with
// no data yields the neutral fully-feasible zero-load result rather than an
// error: week screens render before any work has been planned.
func (p *CapacityPlanner) BuildRate(ctx context.Context, plannerID int) (*Feasibility, error) {
	planner, err := p.planners.Planner(ctx, plannerID)
	if err != nil {
		if IsNotFound(err) {
			return neutralFeasibility(plannerID), nil
		}
		return nil, err
	}

	required := decimal.Zero
	for _, item := range planner.Items {
		hours, err := p.itemHours(ctx, item)
		if err != nil {
			return nil, err
		}
		required = required.Add(hours)
	}
	return classify(plannerID, planner.HoursAvailable, required), nil
}

// itemHours resolves the build-hours one planner line demands. Job lines
// carry their own figure; component and built-item lines multiply the
// quantity to build by the referenced item's per-unit labour hours.
func (p *CapacityPlanner) itemHours(ctx context.Context, item PlannerItem) (decimal.Decimal, error) {
	switch item.Type {
	case PlannerJob:
		return item.Hours, nil
	case PlannerComponent:
		comp, err := p.reader.Component(ctx, item.ItemID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("planner item %d: %w", item.ID, err)
		}
		return item.QuantityToBuild.Mul(comp.LabourHours), nil
	case PlannerBuiltItem:
		bi, err := p.reader.BuiltItem(ctx, item.ItemID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("planner item %d: %w", item.ID, err)
		}
		return item.QuantityToBuild.Mul(bi.LabourHours), nil
	default:
		return decimal.Zero, Validationf("planner item %d has invalid type %q", item.ID, item.Type)
	}
}

// classify derives shortfall, excess, build-rate percentage, and the
// traffic-light band from the required and available hours.
func classify(plannerID int, available, required decimal.Decimal) *Feasibility {
	f := &Feasibility{
		PlannerID:      plannerID,
		HoursAvailable: available,
		HoursRequired:  required,
		HoursShortfall: decimal.Zero,
		HoursExcess:    decimal.Zero,
		IsFeasible:     required.LessThanOrEqual(available),
	}
	if diff := required.Sub(available); diff.Sign() > 0 {
		f.HoursShortfall = diff
	} else {
		f.HoursExcess = diff.Neg()
	}

	if available.Sign() > 0 {
		f.BuildRatePercent = required.Div(available).Mul(hundred).Round(2)
	} else {
		f.BuildRatePercent = hundred
	}

	switch {
	case required.IsZero():
		// Zero load is always comfortable, even for a week with no hours.
		f.Indicator = IndicatorGreen
	case f.BuildRatePercent.GreaterThan(hundred):
		f.Indicator = IndicatorRed
	case f.BuildRatePercent.GreaterThan(amberThreshold):
		f.Indicator = IndicatorAmber
	default:
		f.Indicator = IndicatorGreen
	}
	return f
}

// neutralFeasibility is the zero-load result returned when no planner data
// exists for the requested week.
func neutralFeasibility(plannerID int) *Feasibility {
	return classify(plannerID, decimal.Zero, decimal.Zero)
}
