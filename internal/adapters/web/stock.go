package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"shopfloor/internal/app"
	"shopfloor/internal/core"
)

type movementBody struct {
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Notes    string          `json:"notes"`
}

func (h *Handler) receiveStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body movementBody
	if !decodeJSON(w, r, &body) {
		return
	}
	err := h.svc.ReceiveStock(r.Context(), app.StockMovementRequest{
		StockItemID: id,
		Quantity:    body.Quantity,
		UnitCost:    body.UnitCost,
		Notes:       body.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) issueStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body movementBody
	if !decodeJSON(w, r, &body) {
		return
	}
	err := h.svc.IssueStock(r.Context(), app.StockMovementRequest{
		StockItemID: id,
		Quantity:    body.Quantity,
		Notes:       body.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body movementBody
	if !decodeJSON(w, r, &body) {
		return
	}
	err := h.svc.AdjustStock(r.Context(), app.StockMovementRequest{
		StockItemID: id,
		Quantity:    body.Quantity,
		Notes:       body.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stockMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	movements, err := h.svc.GetStockMovements(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, movements)
}

// completeBuild handles POST /api/builds with a body of
// {"item_type": "component"|"built_item", "item_id": …, "quantity": …}.
func (h *Handler) completeBuild(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemType core.ItemType   `json:"item_type"`
		ItemID   int             `json:"item_id"`
		Quantity decimal.Decimal `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	err := h.svc.CompleteBuild(r.Context(), app.CompleteBuildRequest{
		ItemType: body.ItemType,
		ItemID:   body.ItemID,
		Quantity: body.Quantity,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
