package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	platformhealth "github.com/dika087/payment-api/platform/health/http"
)

// NewRouter создаёт и настраивает HTTP роутер Payment API
// readiness - функция проверки готовности сервиса (ping БД).
// Если readiness возвращает false, health endpoint вернёт 503 Service Unavailable
func NewRouter(handler *Handler, readiness func() bool) chi.Router {
	router := chi.NewRouter()

	router.Route("/transactions", func(r chi.Router) {
		r.Post("/", handler.CreateTransaction)
		r.Get("/", handler.ListTransactions)

		// Webhook шлюза: до {transaction_id}, чтобы notify не матчился как ID
		r.Post("/notify", handler.Notify)

		r.Get("/{transaction_id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "transaction_id")
			handler.GetTransaction(w, r, id)
		})
		r.Patch("/{transaction_id}/status", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "transaction_id")
			handler.UpdateTransactionStatus(w, r, id)
		})
	})

	router.Get("/products", handler.ListProducts)

	// Health без envelope
	router.Get("/health", platformhealth.Handler(readiness))

	return router
}
