package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dika087/payment-api/internal/service"
)

// NotificationPublisher реализует service.NotificationQueue поверх Kafka
// Webhook-обработчик кладёт сюда уведомления шлюза, обработка идёт фоном
type NotificationPublisher struct {
	logger *zap.Logger
	writer *kafka.Writer
	topic  string
}

// NewNotificationPublisher создаёт новый Kafka publisher для уведомлений шлюза
func NewNotificationPublisher(logger *zap.Logger, brokers []string, topic string) *NotificationPublisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &NotificationPublisher{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Close закрывает Kafka writer
func (p *NotificationPublisher) Close() error {
	return p.writer.Close()
}

// Enqueue публикует уведомление шлюза в Kafka
// Key = order_id: все уведомления одного заказа попадают в одну партицию
// и обрабатываются по порядку
func (p *NotificationPublisher) Enqueue(ctx context.Context, n service.GatewayNotification) error {
	payload := map[string]interface{}{
		"event_id":           uuid.New().String(),
		"event_type":         "payment.notification.received",
		"event_version":      1,
		"occurred_at":        time.Now().UTC().Format(time.RFC3339),
		"order_id":           n.OrderID,
		"status_code":        n.StatusCode,
		"gross_amount":       n.GrossAmount,
		"signature_key":      n.SignatureKey,
		"transaction_status": n.TransactionStatus,
		"fraud_status":       n.FraudStatus,
		"payment_type":       n.PaymentType,
	}

	valueBytes, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal gateway notification",
			zap.Error(err),
			zap.String("order_id", n.OrderID),
		)
		return err
	}

	message := kafka.Message{
		Key:   []byte(n.OrderID),
		Value: valueBytes,
	}

	err = p.writer.WriteMessages(ctx, message)
	if err != nil {
		p.logger.Error("failed to publish gateway notification",
			zap.Error(err),
			zap.String("topic", p.topic),
			zap.String("order_id", n.OrderID),
		)
		return err
	}

	p.logger.Info("gateway notification published",
		zap.String("topic", p.topic),
		zap.String("order_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
	)

	return nil
}
