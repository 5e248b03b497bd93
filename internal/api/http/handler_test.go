package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dika087/payment-api/internal/repository"
	"github.com/dika087/payment-api/internal/repository/memory"
	"github.com/dika087/payment-api/internal/service"
	"github.com/dika087/payment-api/internal/service/mocks"
)

// newTestRouter собирает роутер на in-memory репозиториях с мокнутым шлюзом
func newTestRouter(t *testing.T) (http.Handler, *mocks.SnapGateway, *mocks.NotificationQueue) {
	t.Helper()

	trxRepo := memory.NewTransactionRepository()
	productRepo := memory.NewProductRepository(
		repository.Product{ID: "prod-1", Name: "Kaos Polos", Price: 50000},
		repository.Product{ID: "prod-2", Name: "Topi", Price: 25000},
	)
	gateway := mocks.NewSnapGateway(t)
	queue := mocks.NewNotificationQueue(t)
	processed := mocks.NewProcessedNotificationsStore(t)

	svc := service.NewTransactionService(
		zap.NewNop(),
		trxRepo,
		productRepo,
		gateway,
		queue,
		processed,
		"server-key",
		"http://localhost:5173",
		24*time.Hour,
	)

	handler := NewHandler(zap.NewNop(), svc)
	router := NewRouter(handler, func() bool { return true })
	return router, gateway, queue
}

func TestHandler_CreateTransaction(t *testing.T) {
	t.Run("200 on success", func(t *testing.T) {
		router, gateway, _ := newTestRouter(t)

		gateway.On("CreateSnapSession", mock.Anything, mock.Anything).
			Return(service.SnapSession{Token: "snap-token", RedirectURL: "https://example.com/snap"}, nil).Once()

		body := `{"products":[{"id":"prod-1","quantity":2}],"customer_name":"Budi","customer_email":"budi@example.com"}`
		req := httptest.NewRequest("POST", "/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string          `json:"status"`
			Data   transactionView `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "success", resp.Status)
		require.Equal(t, "PENDING_PAYMENT", resp.Data.Status)
		require.Equal(t, int64(100000), resp.Data.GrossAmount)
		require.Equal(t, "snap-token", resp.Data.SnapToken)
	})

	t.Run("400 on missing fields", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"products":[{"id":"prod-1","quantity":2}]}`
		req := httptest.NewRequest("POST", "/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "customer_name is required")
	})

	t.Run("400 on non-positive quantity", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"products":[{"id":"prod-1","quantity":0}],"customer_name":"Budi","customer_email":"budi@example.com"}`
		req := httptest.NewRequest("POST", "/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 when no products resolve", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"products":[{"id":"ghost","quantity":1}],"customer_name":"Budi","customer_email":"budi@example.com"}`
		req := httptest.NewRequest("POST", "/transactions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "products not found")
	})
}

func TestHandler_GetTransaction(t *testing.T) {
	t.Run("404 on unknown id", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		req := httptest.NewRequest("GET", "/transactions/TRX-missing-00000000", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"error"`)
	})
}

func TestHandler_ListTransactions(t *testing.T) {
	t.Run("400 on invalid status filter", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		req := httptest.NewRequest("GET", "/transactions?status=paid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("200 with empty list", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		req := httptest.NewRequest("GET", "/transactions", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"data":[]`)
	})
}

func TestHandler_UpdateTransactionStatus(t *testing.T) {
	t.Run("400 on invalid status value", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"status":"SHIPPED"}`
		req := httptest.NewRequest("PATCH", "/transactions/TRX-a/status", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("404 on unknown transaction", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"status":"PAID"}`
		req := httptest.NewRequest("PATCH", "/transactions/TRX-missing/status", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Notify(t *testing.T) {
	t.Run("200 and enqueue on valid payload", func(t *testing.T) {
		router, _, queue := newTestRouter(t)

		queue.On("Enqueue", mock.Anything, mock.MatchedBy(func(n service.GatewayNotification) bool {
			return n.OrderID == "TRX-ab12-cd345678" && n.TransactionStatus == "settlement"
		})).Return(nil).Once()

		body := `{"order_id":"TRX-ab12-cd345678","status_code":"200","gross_amount":"10000","signature_key":"abc","transaction_status":"settlement","payment_type":"gopay"}`
		req := httptest.NewRequest("POST", "/transactions/notify", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"message":"OK"`)
	})

	t.Run("200 even on malformed payload", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		req := httptest.NewRequest("POST", "/transactions/notify", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"success"`)
	})

	t.Run("200 even when enqueue fails", func(t *testing.T) {
		router, _, queue := newTestRouter(t)

		queue.On("Enqueue", mock.Anything, mock.Anything).
			Return(context.DeadlineExceeded).Once()

		body := `{"order_id":"TRX-ab12-cd345678","transaction_status":"settlement"}`
		req := httptest.NewRequest("POST", "/transactions/notify", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandler_ListProducts(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Kaos Polos")
	require.Contains(t, rec.Body.String(), "Topi")
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}
