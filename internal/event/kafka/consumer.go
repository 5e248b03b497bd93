package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dika087/payment-api/internal/service"
)

// NotificationConsumer обрабатывает уведомления платёжного шлюза из Kafka
// Webhook уже подтверждён 200-кой, поэтому вся валидация (подпись, известность
// заказа, отображение статусов) происходит здесь, в фоне
type NotificationConsumer struct {
	logger       *zap.Logger
	reader       *kafka.Reader
	service      *service.TransactionService
	dlqPublisher *DLQPublisher
	maxAttempts  int
	backoffBase  time.Duration
}

// NewNotificationConsumer создаёт новый consumer для уведомлений шлюза
func NewNotificationConsumer(
	logger *zap.Logger,
	brokers []string,
	groupID, topic string,
	svc *service.TransactionService,
	dlqPublisher *DLQPublisher,
	maxAttempts int,
	backoffBase time.Duration,
) *NotificationConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &NotificationConsumer{
		logger:       logger,
		reader:       reader,
		service:      svc,
		dlqPublisher: dlqPublisher,
		maxAttempts:  maxAttempts,
		backoffBase:  backoffBase,
	}
}

// Start запускает consumer и начинает обработку сообщений
// At-least-once семантика: FetchMessage + CommitMessages после обработки.
// Повторная доставка безопасна - применение уведомления идемпотентно
func (c *NotificationConsumer) Start(ctx context.Context) error {
	c.logger.Info("starting kafka consumer",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group_id", c.reader.Config().GroupID),
		zap.Int("max_retry_attempts", c.maxAttempts),
		zap.Duration("retry_backoff_base", c.backoffBase),
	)

	for {
		// FetchMessage вместо ReadMessage для ручного контроля commit
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer context cancelled, stopping")
				return nil
			}
			c.logger.Error("failed to fetch message from kafka",
				zap.Error(err),
			)
			continue
		}

		shouldCommit := c.processMessage(ctx, m)

		// Коммитим offset только после обработки
		if shouldCommit {
			if err := c.reader.CommitMessages(ctx, m); err != nil {
				c.logger.Error("failed to commit message offset",
					zap.Error(err),
					zap.String("topic", m.Topic),
					zap.Int("partition", m.Partition),
					zap.Int64("offset", m.Offset),
				)
				continue
			}

			c.logger.Debug("message offset committed",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
			)
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
// Возвращает true, если нужно закоммитить offset
func (c *NotificationConsumer) processMessage(ctx context.Context, m kafka.Message) bool {
	var payload map[string]interface{}
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		c.logger.Error("failed to unmarshal kafka message",
			zap.Error(err),
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
		// Битый JSON не станет лучше от повторов: в DLQ и коммитим
		if dlqErr := c.dlqPublisher.Publish(context.Background(), m, err, "", ""); dlqErr != nil {
			c.logger.Error("failed to publish to DLQ, not committing",
				zap.Error(dlqErr),
			)
			return false
		}
		return true
	}

	notification, err := c.parseNotification(payload)
	if err != nil {
		c.logger.Error("failed to parse gateway notification",
			zap.Error(err),
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
		eventID, _ := payload["event_id"].(string)
		orderID, _ := payload["order_id"].(string)
		if dlqErr := c.dlqPublisher.Publish(context.Background(), m, err, eventID, orderID); dlqErr != nil {
			c.logger.Error("failed to publish to DLQ, not committing",
				zap.Error(dlqErr),
			)
			return false
		}
		return true
	}

	c.logger.Info("received gateway notification",
		zap.String("event_id", notification.EventID),
		zap.String("order_id", notification.OrderID),
		zap.String("transaction_status", notification.TransactionStatus),
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	)

	success := c.handleWithRetry(ctx, notification)

	if !success {
		// Retry исчерпан: в DLQ и коммитим, чтобы не блокировать партицию
		c.logger.Error("failed to resolve gateway notification after all retries, sending to DLQ",
			zap.String("order_id", notification.OrderID),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
		dlqErr := fmt.Errorf("exhausted all retry attempts")
		if err := c.dlqPublisher.Publish(context.Background(), m, dlqErr, notification.EventID, notification.OrderID); err != nil {
			c.logger.Error("failed to publish to DLQ, not committing",
				zap.Error(err),
			)
			return false
		}
		return true
	}

	c.logger.Info("gateway notification processed",
		zap.String("order_id", notification.OrderID),
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	)

	return true
}

// handleWithRetry применяет уведомление с retry логикой
// Возвращает true при успешной обработке, false при исчерпании попыток.
// Невалидная подпись - не транзиентная ошибка: повторять бессмысленно,
// сообщение считается обработанным (статус не меняется)
func (c *NotificationConsumer) handleWithRetry(ctx context.Context, n service.GatewayNotification) bool {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		// Backoff: 1s, 2s, 4s (экспоненциально)
		if attempt > 1 {
			backoff := c.backoffBase * time.Duration(1<<uint(attempt-2))
			c.logger.Info("retrying gateway notification",
				zap.String("order_id", n.OrderID),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxAttempts),
				zap.Duration("backoff", backoff),
			)

			select {
			case <-ctx.Done():
				return false
			case <-time.After(backoff):
			}
		}

		_, err := c.service.ResolveNotification(ctx, n)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("gateway notification processed after retry",
					zap.String("order_id", n.OrderID),
					zap.Int("attempt", attempt),
				)
			}
			return true
		}

		if errors.Is(err, service.ErrInvalidSignature) {
			c.logger.Warn("gateway notification rejected: invalid signature",
				zap.String("order_id", n.OrderID),
			)
			return true
		}

		lastErr = err
		c.logger.Warn("failed to resolve gateway notification",
			zap.Error(err),
			zap.String("order_id", n.OrderID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
		)
	}

	c.logger.Error("exhausted all retry attempts",
		zap.Error(lastErr),
		zap.String("order_id", n.OrderID),
		zap.Int("max_attempts", c.maxAttempts),
	)

	return false
}

// parseNotification преобразует payload в GatewayNotification
func (c *NotificationConsumer) parseNotification(payload map[string]interface{}) (service.GatewayNotification, error) {
	n := service.GatewayNotification{}

	if v, ok := payload["event_id"].(string); ok {
		n.EventID = v
	}
	if v, ok := payload["order_id"].(string); ok {
		n.OrderID = v
	} else {
		return n, &ParseError{Field: "order_id", Message: "order_id is required"}
	}
	if v, ok := payload["signature_key"].(string); ok {
		n.SignatureKey = v
	} else {
		return n, &ParseError{Field: "signature_key", Message: "signature_key is required"}
	}
	if v, ok := payload["status_code"].(string); ok {
		n.StatusCode = v
	}
	if v, ok := payload["gross_amount"].(string); ok {
		n.GrossAmount = v
	}
	if v, ok := payload["transaction_status"].(string); ok {
		n.TransactionStatus = v
	}
	if v, ok := payload["fraud_status"].(string); ok {
		n.FraudStatus = v
	}
	if v, ok := payload["payment_type"].(string); ok {
		n.PaymentType = v
	}

	return n, nil
}

// Close закрывает Kafka reader
func (c *NotificationConsumer) Close() error {
	c.logger.Info("closing kafka consumer")
	return c.reader.Close()
}
