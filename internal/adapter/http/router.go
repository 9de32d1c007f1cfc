package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
)

// NewRouter wires the webhook and ops endpoints.
func NewRouter(webhook *WebhookHandler, orders *OrdersHandler, lgr logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RecoveryMiddleware(lgr))
	r.Use(LoggingMiddleware(lgr))

	r.Get("/webhook", webhook.Verify)
	r.Post("/webhook", webhook.Receive)

	r.Get("/orders/{id}", orders.GetByID)
	r.Get("/customers/{phone}/orders", orders.ListByPhone)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
