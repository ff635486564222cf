// Package api serves a read-only view of one order store over HTTP.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"purchase-tracker/internal/logger"
	"purchase-tracker/internal/models"
	"purchase-tracker/internal/render"
	"purchase-tracker/internal/utils"
)

type Handler struct {
	StorePath string
	Orders    []models.Order
	Logger    *logger.Logger
}

func NewHandler(storePath string, orders []models.Order, log *logger.Logger) *Handler {
	return &Handler{StorePath: storePath, Orders: orders, Logger: log}
}

// Router wires the handler's routes with request logging.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{index}", h.GetOrder)
		r.Get("/{index}/text", h.GetOrderText)
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Logger.LogAPI(r.Method, r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start).String())
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", map[string]any{
		"store":  h.StorePath,
		"orders": len(h.Orders),
	}))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse(
		fmt.Sprintf("%d orders in %s", len(h.Orders), h.StorePath), h.Orders))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("order found", o))
}

func (h *Handler) GetOrderText(w http.ResponseWriter, r *http.Request) {
	o, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := render.Order(w, o); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Failed to write order text: %v", err))
	}
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (models.Order, bool) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid order index", fmt.Sprintf("%q is not a number", raw)))
		return models.Order{}, false
	}
	if index < 0 || index >= len(h.Orders) {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("order not found",
			fmt.Sprintf("index %d is outside 0..%d", index, len(h.Orders)-1)))
		return models.Order{}, false
	}
	return h.Orders[index], true
}
