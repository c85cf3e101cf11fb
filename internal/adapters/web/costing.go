package web

import (
	"net/http"

	"shopfloor/internal/core"
)

// ── Costing ───────────────────────────────────────────────────────────────────

func (h *Handler) componentCost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetComponentCost(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) builtItemCost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetBuiltItemCost(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) productCost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetProductCost(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// ── Requirements ──────────────────────────────────────────────────────────────

// calculateRequirements handles POST /api/requirements with a body of
// {"lines": [{"product_id": …, "quantity": …}, …]}.
func (h *Handler) calculateRequirements(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lines []core.DemandLine `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if len(body.Lines) == 0 {
		writeError(w, r, "at least one demand line is required", "VALIDATION", http.StatusBadRequest)
		return
	}
	report, err := h.svc.CalculateRequirements(r.Context(), body.Lines)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) orderRequirements(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	report, err := h.svc.CalculateOrderRequirements(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) orderLoadSheet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sheet, err := h.svc.GetLoadSheet(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sheet)
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (h *Handler) lowStockReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetLowStock(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) wipReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetWIPValuation(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}
