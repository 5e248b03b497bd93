package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/dika087/payment-api/internal/repository"
	"github.com/dika087/payment-api/internal/service"
)

// Handler содержит HTTP-обработчики Payment API
// Зависит от service слоя, но не знает о деталях реализации (Kafka, БД и т.д.)
type Handler struct {
	logger  *zap.Logger
	service *service.TransactionService
}

// NewHandler создаёт новый HTTP handler
func NewHandler(logger *zap.Logger, svc *service.TransactionService) *Handler {
	return &Handler{
		logger:  logger,
		service: svc,
	}
}

// transactionItemView представляет позицию заказа в HTTP ответе
type transactionItemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int32  `json:"quantity"`
}

// transactionView представляет транзакцию в HTTP ответе
type transactionView struct {
	ID              string                `json:"id"`
	Status          string                `json:"status"`
	GrossAmount     int64                 `json:"gross_amount"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	PaymentMethod   string                `json:"payment_method,omitempty"`
	SnapToken       string                `json:"snap_token"`
	SnapRedirectURL string                `json:"snap_redirect_url"`
	Items           []transactionItemView `json:"items"`
	CreatedAt       int64                 `json:"created_at"`
}

func toView(out *service.TransactionOutput) transactionView {
	items := make([]transactionItemView, 0, len(out.Items))
	for _, item := range out.Items {
		items = append(items, transactionItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return transactionView{
		ID:              out.ID,
		Status:          string(out.Status),
		GrossAmount:     out.GrossAmount,
		CustomerName:    out.CustomerName,
		CustomerEmail:   out.CustomerEmail,
		PaymentMethod:   out.PaymentMethod,
		SnapToken:       out.SnapToken,
		SnapRedirectURL: out.SnapRedirectURL,
		Items:           items,
		CreatedAt:       out.CreatedAt,
	}
}

// createTransactionRequest представляет HTTP запрос на создание транзакции
// Указатели, чтобы отличать отсутствующие поля от пустых
type createTransactionRequest struct {
	Products *[]struct {
		ID       *string `json:"id"`
		Quantity *int    `json:"quantity"`
	} `json:"products"`
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email"`
}

// CreateTransaction обрабатывает POST /transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqBody createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	// Валидация входных данных
	if reqBody.Products == nil || len(*reqBody.Products) == 0 {
		h.writeError(w, http.StatusBadRequest, "products are required")
		return
	}
	if reqBody.CustomerName == nil || *reqBody.CustomerName == "" {
		h.writeError(w, http.StatusBadRequest, "customer_name is required")
		return
	}
	if reqBody.CustomerEmail == nil || *reqBody.CustomerEmail == "" {
		h.writeError(w, http.StatusBadRequest, "customer_email is required")
		return
	}

	products := make([]service.ProductQuantity, 0, len(*reqBody.Products))
	for i, p := range *reqBody.Products {
		if p.ID == nil || *p.ID == "" {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("product id is required in products[%d]", i))
			return
		}
		if p.Quantity == nil || *p.Quantity <= 0 {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("quantity must be > 0 in products[%d]", i))
			return
		}
		products = append(products, service.ProductQuantity{
			ID:       *p.ID,
			Quantity: int32(*p.Quantity),
		})
	}

	out, err := h.service.CreateTransaction(ctx, service.CreateTransactionInput{
		Products:      products,
		CustomerName:  *reqBody.CustomerName,
		CustomerEmail: *reqBody.CustomerEmail,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoProducts) {
			h.writeError(w, http.StatusBadRequest, "products not found")
			return
		}
		h.logger.Error("failed to create transaction", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	h.writeSuccess(w, http.StatusOK, toView(out))
}

// ListTransactions обрабатывает GET /transactions?status=
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	statusFilter := r.URL.Query().Get("status")

	out, err := h.service.ListTransactions(ctx, statusFilter)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidStatus) {
			h.writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		h.logger.Error("failed to list transactions", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	views := make([]transactionView, 0, len(out))
	for _, trx := range out {
		views = append(views, toView(trx))
	}
	h.writeSuccess(w, http.StatusOK, views)
}

// GetTransaction обрабатывает GET /transactions/{transaction_id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	out, err := h.service.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error("failed to get transaction",
			zap.Error(err),
			zap.String("transaction_id", id),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to get transaction")
		return
	}

	h.writeSuccess(w, http.StatusOK, toView(out))
}

// updateStatusRequest представляет HTTP запрос на ручное обновление статуса
type updateStatusRequest struct {
	Status *string `json:"status"`
}

// UpdateTransactionStatus обрабатывает PATCH /transactions/{transaction_id}/status
func (h *Handler) UpdateTransactionStatus(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	var reqBody updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if reqBody.Status == nil || *reqBody.Status == "" {
		h.writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	out, err := h.service.UpdateStatus(ctx, id, *reqBody.Status)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidStatus) {
			h.writeError(w, http.StatusBadRequest, "invalid status value")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error("failed to update transaction status",
			zap.Error(err),
			zap.String("transaction_id", id),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to update transaction status")
		return
	}

	h.writeSuccess(w, http.StatusOK, toView(out))
}

// notifyRequest представляет уведомление платёжного шлюза
// Формат зафиксирован Midtrans-ом
type notifyRequest struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

// Notify обрабатывает POST /transactions/notify
// Всегда отвечает 200: шлюз ретраит не-2xx ответы, а валидность уведомления
// ему не принадлежит. Обработка уходит в очередь и происходит в фоне
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ack := func() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "success",
			"message": "OK",
		})
	}

	var reqBody notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.logger.Warn("gateway notification: decode failed", zap.Error(err))
		ack()
		return
	}

	if err := h.service.EnqueueNotification(ctx, service.GatewayNotification{
		OrderID:           reqBody.OrderID,
		StatusCode:        reqBody.StatusCode,
		GrossAmount:       reqBody.GrossAmount,
		SignatureKey:      reqBody.SignatureKey,
		TransactionStatus: reqBody.TransactionStatus,
		FraudStatus:       reqBody.FraudStatus,
		PaymentType:       reqBody.PaymentType,
	}); err != nil {
		// Уведомление потеряно, но шлюз ретраит по расписанию - не 5xx-им
		h.logger.Error("gateway notification: enqueue failed",
			zap.Error(err),
			zap.String("order_id", reqBody.OrderID),
		)
	}

	ack()
}

// ListProducts обрабатывает GET /products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	type productView struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	h.writeSuccess(w, http.StatusOK, views)
}

// writeSuccess пишет success envelope
func (h *Handler) writeSuccess(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "success",
		"data":   data,
	}); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError пишет error envelope
func (h *Handler) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": message,
	}); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
