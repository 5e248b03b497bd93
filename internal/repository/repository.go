package repository

import (
	"context"
	"errors"
	"fmt"
)

// Status представляет статус жизненного цикла транзакции
// Закрытый enum: других значений в хранилище быть не может
type Status string

const (
	// StatusPendingPayment - транзакция создана, оплата ещё не пришла
	StatusPendingPayment Status = "PENDING_PAYMENT"
	// StatusPaid - шлюз подтвердил оплату
	StatusPaid Status = "PAID"
	// StatusCanceled - оплата отменена, отклонена или просрочена
	StatusCanceled Status = "CANCELED"
)

// ErrInvalidStatus возвращается для строк вне enum-а статусов
var ErrInvalidStatus = errors.New("invalid transaction status")

// ParseStatus преобразует строку в Status
// Возвращает ErrInvalidStatus для любого значения вне enum-а
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPendingPayment, StatusPaid, StatusCanceled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Transaction представляет доменную модель транзакции (заказ + его оплата)
// Это бизнес-сущность, не привязанная к HTTP или БД
type Transaction struct {
	ID              string
	GrossAmount     int64
	CustomerName    string
	CustomerEmail   string
	Status          Status
	PaymentMethod   string // пустая строка = оплата ещё не прошла (NULL в БД)
	SnapToken       string
	SnapRedirectURL string
	Items           []TransactionItem
	CreatedAt       int64 // Unix timestamp для простоты
}

// TransactionItem представляет позицию заказа
// Снимок цены и названия на момент покупки: последующие изменения
// товара на него не влияют
type TransactionItem struct {
	ProductID string
	Name      string
	Price     int64
	Quantity  int32
}

// Product представляет товар каталога
// Для workflow транзакций каталог read-only
type Product struct {
	ID    string
	Name  string
	Price int64
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=TransactionRepository --dir=. --output=./mocks --outpkg=mocks

// TransactionRepository определяет интерфейс для работы с хранилищем транзакций
// Service слой зависит от этого интерфейса, а не от конкретной реализации
type TransactionRepository interface {
	// Create атомарно сохраняет транзакцию вместе с её позициями
	Create(ctx context.Context, trx Transaction) error

	// GetByID получает транзакцию (с позициями) по ID
	// Возвращает ErrNotFound, если транзакция не найдена
	GetByID(ctx context.Context, id string) (Transaction, error)

	// List возвращает транзакции, отфильтрованные по статусу
	// Пустой status = все транзакции
	List(ctx context.Context, status Status) ([]Transaction, error)

	// UpdateStatus обновляет статус транзакции; paymentMethod записывается
	// только если он непустой. Возвращает обновлённую транзакцию
	// или ErrNotFound, если транзакции нет
	UpdateStatus(ctx context.Context, id string, status Status, paymentMethod string) (Transaction, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ProductRepository --dir=. --output=./mocks --outpkg=mocks

// ProductRepository определяет интерфейс для чтения каталога товаров
type ProductRepository interface {
	// GetByIDs возвращает товары с указанными ID
	// Неизвестные ID молча пропускаются: результат может быть короче запроса
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)

	// List возвращает все товары каталога
	List(ctx context.Context) ([]Product, error)
}

// ErrNotFound возвращается, когда транзакция не найдена в хранилище
var ErrNotFound = errors.New("transaction not found")
