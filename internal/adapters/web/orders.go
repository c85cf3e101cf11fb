package web

import (
	"net/http"

	"shopfloor/internal/core"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var status *core.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := core.OrderStatus(raw)
		status = &s
	}
	orders, err := h.svc.ListOrders(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, orders)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in core.OrderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Status core.OrderStatus `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	order, err := h.svc.UpdateOrderStatus(r.Context(), id, body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}
