package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shopfloor/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Catalog: stock items ──────────────────────────────────────────────
		r.Get("/api/stock-items", h.listStockItems)
		r.Post("/api/stock-items", h.createStockItem)
		r.Get("/api/stock-items/{id}", h.getStockItem)
		r.Put("/api/stock-items/{id}", h.updateStockItem)
		r.Delete("/api/stock-items/{id}", h.deleteStockItem)

		// ── Catalog: components ───────────────────────────────────────────────
		r.Get("/api/components", h.listComponents)
		r.Post("/api/components", h.createComponent)
		r.Get("/api/components/{id}", h.getComponent)
		r.Delete("/api/components/{id}", h.deleteComponent)
		r.Get("/api/components/{id}/cost", h.componentCost)

		// ── Catalog: built items ──────────────────────────────────────────────
		r.Get("/api/built-items", h.listBuiltItems)
		r.Post("/api/built-items", h.createBuiltItem)
		r.Get("/api/built-items/{id}", h.getBuiltItem)
		r.Delete("/api/built-items/{id}", h.deleteBuiltItem)
		r.Get("/api/built-items/{id}/cost", h.builtItemCost)

		// ── Catalog: products ─────────────────────────────────────────────────
		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)
		r.Get("/api/products/{id}", h.getProduct)
		r.Delete("/api/products/{id}", h.deleteProduct)
		r.Get("/api/products/{id}/cost", h.productCost)

		// ── Stock movements ───────────────────────────────────────────────────
		r.Post("/api/stock-items/{id}/receive", h.receiveStock)
		r.Post("/api/stock-items/{id}/issue", h.issueStock)
		r.Post("/api/stock-items/{id}/adjust", h.adjustStock)
		r.Get("/api/stock-items/{id}/movements", h.stockMovements)
		r.Post("/api/builds", h.completeBuild)

		// ── Orders and requirements ───────────────────────────────────────────
		r.Get("/api/orders", h.listOrders)
		r.Post("/api/orders", h.createOrder)
		r.Get("/api/orders/{id}", h.getOrder)
		r.Post("/api/orders/{id}/status", h.updateOrderStatus)
		r.Get("/api/orders/{id}/requirements", h.orderRequirements)
		r.Get("/api/orders/{id}/load-sheet", h.orderLoadSheet)
		r.Post("/api/requirements", h.calculateRequirements)

		// ── Weekly planners ───────────────────────────────────────────────────
		r.Get("/api/planners", h.listPlanners)
		r.Post("/api/planners", h.createPlanner)
		r.Get("/api/planners/{id}", h.getPlanner)
		r.Post("/api/planners/{id}/items", h.addPlannerItem)
		r.Get("/api/planners/{id}/build-rate", h.plannerBuildRate)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/low-stock", h.lowStockReport)
		r.Get("/api/reports/wip", h.wipReport)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the numeric {id} URL parameter. A non-numeric id writes a
// 400 and returns false.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id: "+chi.URLParam(r, "id"), "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the size limit set by RequestBodyLimit middleware; HTTP 400 for all
// other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
