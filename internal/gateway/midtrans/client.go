package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dika087/payment-api/internal/service"
)

// Client реализует service.SnapGateway поверх Midtrans Snap API
// Snap - hosted checkout: мы создаём сессию, покупатель платит на странице Midtrans
type Client struct {
	logger    *zap.Logger
	baseURL   string
	serverKey string
	client    *http.Client
}

// NewClient создаёт новый Midtrans Snap клиент
// baseURL - sandbox или production URL Midtrans (без завершающего слэша)
func NewClient(logger *zap.Logger, baseURL, serverKey string) *Client {
	return &Client{
		logger:    logger,
		baseURL:   strings.TrimRight(baseURL, "/"),
		serverKey: serverKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// snapRequest - тело запроса к POST /snap/v1/transactions
// Формат зафиксирован Midtrans-ом, поэтому snake_case
type snapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	ItemDetails []snapItemDetail `json:"item_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
	} `json:"customer_details"`
	Callbacks struct {
		Finish  string `json:"finish"`
		Error   string `json:"error"`
		Pending string `json:"pending"`
	} `json:"callbacks"`
}

type snapItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int32  `json:"quantity"`
	Name     string `json:"name"`
}

type snapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// CreateSnapSession создаёт checkout-сессию в Midtrans
func (c *Client) CreateSnapSession(ctx context.Context, req service.SnapSessionRequest) (service.SnapSession, error) {
	url := fmt.Sprintf("%s/snap/v1/transactions", c.baseURL)

	// Готовим payload в формате Snap API
	var payload snapRequest
	payload.TransactionDetails.OrderID = req.OrderID
	payload.TransactionDetails.GrossAmount = req.GrossAmount
	payload.CustomerDetails.FirstName = req.CustomerName
	payload.CustomerDetails.Email = req.CustomerEmail
	payload.Callbacks.Finish = req.FinishURL
	payload.Callbacks.Error = req.ErrorURL
	payload.Callbacks.Pending = req.PendingURL
	for _, item := range req.Items {
		payload.ItemDetails = append(payload.ItemDetails, snapItemDetail{
			ID:       item.ID,
			Price:    item.Price,
			Quantity: item.Quantity,
			Name:     item.Name,
		})
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return service.SnapSession{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return service.SnapSession{}, fmt.Errorf("failed to create request: %w", err)
	}

	// Midtrans аутентифицирует по Basic auth: base64(server_key + ":")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return service.SnapSession{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Snap отвечает 201 на создание; на всякий случай принимаем весь 2xx
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return service.SnapSession{}, fmt.Errorf("midtrans snap API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result snapResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return service.SnapSession{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Token == "" || result.RedirectURL == "" {
		return service.SnapSession{}, fmt.Errorf("midtrans snap API returned incomplete session: token=%q redirect_url=%q", result.Token, result.RedirectURL)
	}

	c.logger.Debug("snap session created",
		zap.String("order_id", req.OrderID),
		zap.Int64("gross_amount", req.GrossAmount),
	)

	return service.SnapSession{
		Token:       result.Token,
		RedirectURL: result.RedirectURL,
	}, nil
}
