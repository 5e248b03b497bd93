package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dika087/payment-api/internal/repository"
)

// ErrNoProducts возвращается, когда ни один из запрошенных товаров не найден в каталоге
var ErrNoProducts = errors.New("products not found")

// ErrInvalidSignature возвращается, когда подпись уведомления шлюза не сошлась
// Статус транзакции при этом не меняется
var ErrInvalidSignature = errors.New("invalid notification signature")

// TransactionService содержит бизнес-логику работы с транзакциями:
// создание заказа, чтение, административное обновление статуса
// и применение уведомлений платёжного шлюза
// Зависит от интерфейсов, а не от конкретных реализаций - это позволяет
// легко подменять их в тестах
type TransactionService struct {
	logger       *zap.Logger
	transactions repository.TransactionRepository
	products     repository.ProductRepository
	gateway      SnapGateway
	queue        NotificationQueue
	processed    ProcessedNotificationsStore

	serverKey      string
	frontEndURL    string
	idempotencyTTL time.Duration
}

// NewTransactionService создаёт новый экземпляр TransactionService
func NewTransactionService(
	logger *zap.Logger,
	transactions repository.TransactionRepository,
	products repository.ProductRepository,
	gateway SnapGateway,
	queue NotificationQueue,
	processed ProcessedNotificationsStore,
	serverKey string,
	frontEndURL string,
	idempotencyTTL time.Duration,
) *TransactionService {
	return &TransactionService{
		logger:         logger,
		transactions:   transactions,
		products:       products,
		gateway:        gateway,
		queue:          queue,
		processed:      processed,
		serverKey:      serverKey,
		frontEndURL:    frontEndURL,
		idempotencyTTL: idempotencyTTL,
	}
}

// ProductQuantity представляет запрошенный товар в заказе
type ProductQuantity struct {
	ID       string
	Quantity int32
}

// CreateTransactionInput содержит входные данные для создания транзакции
type CreateTransactionInput struct {
	Products      []ProductQuantity
	CustomerName  string
	CustomerEmail string
}

// TransactionOutput содержит публичное представление транзакции
type TransactionOutput struct {
	ID              string
	Status          repository.Status
	GrossAmount     int64
	CustomerName    string
	CustomerEmail   string
	PaymentMethod   string
	SnapToken       string
	SnapRedirectURL string
	Items           []repository.TransactionItem
	CreatedAt       int64
}

func toOutput(trx repository.Transaction) *TransactionOutput {
	return &TransactionOutput{
		ID:              trx.ID,
		Status:          trx.Status,
		GrossAmount:     trx.GrossAmount,
		CustomerName:    trx.CustomerName,
		CustomerEmail:   trx.CustomerEmail,
		PaymentMethod:   trx.PaymentMethod,
		SnapToken:       trx.SnapToken,
		SnapRedirectURL: trx.SnapRedirectURL,
		Items:           trx.Items,
		CreatedAt:       trx.CreatedAt,
	}
}

// CreateTransaction создаёт новую транзакцию
// Порядок важен: сначала checkout-сессия у шлюза, потом запись в БД.
// Если шлюз ответил ошибкой, в БД не остаётся ничего
func (s *TransactionService) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionOutput, error) {
	s.logger.Info("creating transaction",
		zap.Int("requested_products", len(input.Products)),
		zap.String("customer_email", input.CustomerEmail),
	)

	// 1. Резолвим запрошенные товары по каталогу
	ids := make([]string, 0, len(input.Products))
	for _, p := range input.Products {
		ids = append(ids, p.ID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	// Пустой результат = ни одного известного товара в запросе
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	// 2. Пришиваем запрошенное количество к каждому найденному товару
	quantities := make(map[string]int32, len(input.Products))
	for _, p := range input.Products {
		quantities[p.ID] = p.Quantity
	}

	items := make([]repository.TransactionItem, 0, len(products))
	var grossAmount int64
	for _, p := range products {
		qty := quantities[p.ID]
		items = append(items, repository.TransactionItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty,
		})
		grossAmount += int64(qty) * p.Price
	}

	// 3. Генерируем ID транзакции
	trxID, err := NewTransactionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	// 4. Создаём checkout-сессию у шлюза
	// Все три callback-а ведут на одну страницу статуса заказа
	callbackURL := fmt.Sprintf("%s/order_status?transaction_id=%s", s.frontEndURL, trxID)

	snapItems := make([]SnapItem, 0, len(items))
	for _, item := range items {
		snapItems = append(snapItems, SnapItem{
			ID:       item.ProductID,
			Price:    item.Price,
			Quantity: item.Quantity,
			Name:     item.Name,
		})
	}

	session, err := s.gateway.CreateSnapSession(ctx, SnapSessionRequest{
		OrderID:       trxID,
		GrossAmount:   grossAmount,
		Items:         snapItems,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		FinishURL:     callbackURL,
		ErrorURL:      callbackURL,
		PendingURL:    callbackURL,
	})
	if err != nil {
		s.logger.Error("snap session creation failed",
			zap.Error(err),
			zap.String("transaction_id", trxID),
		)
		// Ничего не персистим: заказа без checkout-сессии не существует
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}

	// 5. Персистим транзакцию с позициями атомарно
	trx := repository.Transaction{
		ID:              trxID,
		GrossAmount:     grossAmount,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		Status:          repository.StatusPendingPayment,
		SnapToken:       session.Token,
		SnapRedirectURL: session.RedirectURL,
		Items:           items,
	}

	if err := s.transactions.Create(ctx, trx); err != nil {
		s.logger.Error("failed to save transaction",
			zap.Error(err),
			zap.String("transaction_id", trxID),
		)
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Info("transaction created",
		zap.String("transaction_id", trxID),
		zap.Int64("gross_amount", grossAmount),
		zap.Int("items", len(items)),
	)

	return toOutput(trx), nil
}

// ListTransactions возвращает транзакции с опциональным фильтром по статусу
// Непустой фильтр валидируется по enum-у
func (s *TransactionService) ListTransactions(ctx context.Context, statusFilter string) ([]*TransactionOutput, error) {
	var status repository.Status
	if statusFilter != "" {
		parsed, err := repository.ParseStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	transactions, err := s.transactions.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	out := make([]*TransactionOutput, 0, len(transactions))
	for _, trx := range transactions {
		out = append(out, toOutput(trx))
	}
	return out, nil
}

// GetTransaction получает транзакцию по ID
// Возвращает repository.ErrNotFound, если транзакции нет
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*TransactionOutput, error) {
	trx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOutput(trx), nil
}

// ListProducts возвращает весь каталог товаров
func (s *TransactionService) ListProducts(ctx context.Context) ([]repository.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// UpdateStatus выполняет административное обновление статуса
// Значение статуса валидируется по enum-у и транзакция должна существовать,
// но легальность перехода не проверяется: PAID -> PENDING_PAYMENT разрешён,
// это сознательная админская власть
func (s *TransactionService) UpdateStatus(ctx context.Context, id string, status string) (*TransactionOutput, error) {
	parsed, err := repository.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	trx, err := s.transactions.UpdateStatus(ctx, id, parsed, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction status updated manually",
		zap.String("transaction_id", id),
		zap.String("status", string(parsed)),
	)

	return toOutput(trx), nil
}

// EnqueueNotification кладёт уведомление шлюза в очередь для фоновой обработки
// Вызывается HTTP-обработчиком webhook-а после того, как приём уже подтверждён
func (s *TransactionService) EnqueueNotification(ctx context.Context, n GatewayNotification) error {
	if err := s.queue.Enqueue(ctx, n); err != nil {
		s.logger.Error("failed to enqueue gateway notification",
			zap.Error(err),
			zap.String("order_id", n.OrderID),
		)
		return err
	}

	s.logger.Info("gateway notification enqueued",
		zap.String("order_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
	)
	return nil
}

// ResolveNotification применяет уведомление шлюза к хранимой транзакции
// Вызывается фоновым consumer-ом. Возвращает nil, *TransactionOutput при
// применённом статусе; nil, nil - когда уведомление обработано, но статус
// менять не нужно ("success, no data")
//
// Идемпотентность: ключ = signature_key уведомления (подпись покрывает
// order_id + status_code + gross_amount, поэтому повторная доставка того же
// уведомления даёт тот же ключ)
func (s *TransactionService) ResolveNotification(ctx context.Context, n GatewayNotification) (*TransactionOutput, error) {
	// 1. Проверяем, не было ли это уведомление уже применено
	processed, err := s.processed.IsProcessed(ctx, n.SignatureKey)
	if err != nil {
		s.logger.Error("failed to check processed notifications store",
			zap.Error(err),
			zap.String("order_id", n.OrderID),
		)
		return nil, err
	}
	if processed {
		s.logger.Info("notification already processed, skipping",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus),
		)
		return nil, nil
	}

	// 2. Уведомление о неизвестном заказе не обрабатываем
	trx, err := s.transactions.GetByID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("notification for unknown transaction, skipping",
				zap.String("order_id", n.OrderID),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	// 3. Сверяем подпись; расхождение = уведомление не от шлюза, статус не трогаем
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, s.serverKey)
	if n.SignatureKey != expected {
		s.logger.Warn("notification signature mismatch",
			zap.String("order_id", n.OrderID),
			zap.String("status_code", n.StatusCode),
		)
		return nil, ErrInvalidSignature
	}

	// 4. Отображаем статусы шлюза в целевой статус транзакции
	target, withPaymentMethod, ok := statusFromNotification(n.TransactionStatus, n.FraudStatus)

	var out *TransactionOutput
	if ok {
		paymentMethod := ""
		if withPaymentMethod {
			paymentMethod = n.PaymentType
		}

		updated, err := s.transactions.UpdateStatus(ctx, trx.ID, target, paymentMethod)
		if err != nil {
			return nil, fmt.Errorf("failed to update transaction status: %w", err)
		}
		out = toOutput(updated)

		s.logger.Info("transaction status resolved from notification",
			zap.String("transaction_id", trx.ID),
			zap.String("transaction_status", n.TransactionStatus),
			zap.String("fraud_status", n.FraudStatus),
			zap.String("status", string(target)),
		)
	} else {
		// capture с fraud challenge и нераспознанные статусы: успех без данных
		s.logger.Info("notification does not change transaction status",
			zap.String("transaction_id", trx.ID),
			zap.String("transaction_status", n.TransactionStatus),
			zap.String("fraud_status", n.FraudStatus),
		)
	}

	// 5. Помечаем уведомление обработанным
	// Ошибка вызовет повторную обработку, но применение статуса идемпотентно
	if err := s.processed.MarkProcessed(ctx, n.SignatureKey, s.idempotencyTTL); err != nil {
		s.logger.Error("failed to mark notification as processed",
			zap.Error(err),
			zap.String("order_id", n.OrderID),
		)
		return nil, err
	}

	return out, nil
}
