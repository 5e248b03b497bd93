package service

import (
	"context"
	"time"
)

// SnapItem представляет позицию заказа в запросе на создание checkout-сессии
type SnapItem struct {
	ID       string
	Price    int64
	Quantity int32
	Name     string
}

// SnapSessionRequest содержит данные для создания hosted checkout-сессии у шлюза
type SnapSessionRequest struct {
	OrderID       string
	GrossAmount   int64
	Items         []SnapItem
	CustomerName  string
	CustomerEmail string
	// Callback URL-ы фронтенда: шлюз отправит туда покупателя после оплаты
	FinishURL  string
	ErrorURL   string
	PendingURL string
}

// SnapSession представляет созданную шлюзом checkout-сессию
type SnapSession struct {
	Token       string
	RedirectURL string
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=SnapGateway --dir=. --output=./mocks --outpkg=mocks

// SnapGateway определяет интерфейс для работы с платёжным шлюзом
// Использует доменные типы вместо wire-формата - это делает service независимым от HTTP API шлюза
type SnapGateway interface {
	// CreateSnapSession создаёт hosted checkout-сессию
	// Возвращает ошибку, если шлюз ответил не-успехом
	CreateSnapSession(ctx context.Context, req SnapSessionRequest) (SnapSession, error)
}

// GatewayNotification представляет асинхронное уведомление платёжного шлюза
// о результате оплаты (webhook payload)
type GatewayNotification struct {
	EventID           string // ID события из envelope очереди, для трассировки
	OrderID           string
	StatusCode        string
	GrossAmount       string // строка как в payload: участвует в подписи как есть
	SignatureKey      string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=NotificationQueue --dir=. --output=./mocks --outpkg=mocks

// NotificationQueue определяет интерфейс для постановки уведомления в очередь
// HTTP-обработчик webhook-а подтверждает приём сразу, а обработку выполняет
// фоновый consumer - очередь разделяет эти две стороны
type NotificationQueue interface {
	// Enqueue кладёт уведомление в очередь для фоновой обработки
	Enqueue(ctx context.Context, n GatewayNotification) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ProcessedNotificationsStore --dir=. --output=./mocks --outpkg=mocks

// ProcessedNotificationsStore хранит ключи уже применённых уведомлений
// Обеспечивает идемпотентность: повторная доставка того же уведомления - no-op
type ProcessedNotificationsStore interface {
	// MarkProcessed сохраняет key как обработанный. Должен быть idempotent сам по себе.
	// ttl определяет время жизни записи
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) error

	// IsProcessed возвращает true если key уже был обработан и ещё не истёк ttl
	IsProcessed(ctx context.Context, key string) (bool, error)
}
