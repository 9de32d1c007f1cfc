package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// OrdersHandler is a read-only ops surface for inspecting a customer's
// orders without going through the chat.
type OrdersHandler struct {
	orders interfaces.OrderRepository
	logger logger.Logger
}

func NewOrdersHandler(orders interfaces.OrderRepository, lgr logger.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, logger: lgr}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *OrdersHandler) ListByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	orders, err := h.orders.ListByPhone(r.Context(), phone)
	if err != nil {
		h.logger.Error("orders_list_failed", "Failed to list orders", middleware.GetReqID(r.Context()), map[string]interface{}{
			"phone": phone,
		}, err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list orders"})
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := h.orders.FindByID(r.Context(), id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "order not found"})
		return
	}
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load order"})
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
