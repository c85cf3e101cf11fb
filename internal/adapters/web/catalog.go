package web

import (
	"net/http"

	"shopfloor/internal/core"
)

// ── Stock items ───────────────────────────────────────────────────────────────

func (h *Handler) listStockItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListStockItems(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, items)
}

func (h *Handler) getStockItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, err := h.svc.GetStockItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

func (h *Handler) createStockItem(w http.ResponseWriter, r *http.Request) {
	var in core.StockItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.svc.CreateStockItem(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, item)
}

func (h *Handler) updateStockItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in core.StockItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.svc.UpdateStockItem(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

func (h *Handler) deleteStockItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteStockItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Components ────────────────────────────────────────────────────────────────

func (h *Handler) listComponents(w http.ResponseWriter, r *http.Request) {
	comps, err := h.svc.ListComponents(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, comps)
}

func (h *Handler) getComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	comp, err := h.svc.GetComponent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, comp)
}

func (h *Handler) createComponent(w http.ResponseWriter, r *http.Request) {
	var in core.ComponentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	comp, err := h.svc.CreateComponent(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, comp)
}

func (h *Handler) deleteComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteComponent(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Built items ───────────────────────────────────────────────────────────────

func (h *Handler) listBuiltItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListBuiltItems(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, items)
}

func (h *Handler) getBuiltItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	bi, err := h.svc.GetBuiltItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, bi)
}

func (h *Handler) createBuiltItem(w http.ResponseWriter, r *http.Request) {
	var in core.BuiltItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	bi, err := h.svc.CreateBuiltItem(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, bi)
}

func (h *Handler) deleteBuiltItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteBuiltItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Products ──────────────────────────────────────────────────────────────────

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in core.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
