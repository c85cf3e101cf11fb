package web

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"shopfloor/internal/core"
)

// plannerBody accepts week_starting as a plain YYYY-MM-DD date, which is how
// the UI sends it.
type plannerBody struct {
	WeekStarting   string          `json:"week_starting"`
	HoursAvailable decimal.Decimal `json:"hours_available"`
	Notes          string          `json:"notes"`
}

func (h *Handler) listPlanners(w http.ResponseWriter, r *http.Request) {
	planners, err := h.svc.ListPlanners(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, planners)
}

func (h *Handler) createPlanner(w http.ResponseWriter, r *http.Request) {
	var body plannerBody
	if !decodeJSON(w, r, &body) {
		return
	}
	week, err := time.Parse("2006-01-02", body.WeekStarting)
	if err != nil {
		writeError(w, r, "week_starting must be a date in YYYY-MM-DD form", "VALIDATION", http.StatusBadRequest)
		return
	}
	planner, err := h.svc.CreatePlanner(r.Context(), core.PlannerInput{
		WeekStarting:   week,
		HoursAvailable: body.HoursAvailable,
		Notes:          body.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, planner)
}

func (h *Handler) getPlanner(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	planner, err := h.svc.GetPlanner(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, planner)
}

func (h *Handler) addPlannerItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in core.PlannerItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	planner, err := h.svc.AddPlannerItem(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, planner)
}

func (h *Handler) plannerBuildRate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	feasibility, err := h.svc.GetBuildRate(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, feasibility)
}
