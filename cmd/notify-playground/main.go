// Package main содержит тестовый publisher уведомлений платёжного шлюза.
//
// Публикует в топик payment.notification корректно подписанное уведомление,
// чтобы локально прогнать фоновый consumer без реального Midtrans:
//   - использует платформенный логгер (platform/logging) на основе zap
//   - использует платформенную конфигурацию Kafka (platform/kafka)
//   - подпись считается тем же алгоритмом, что проверяет consumer
//
// Переменные окружения:
//   - KAFKA_BROKERS (например, "localhost:19092" или "kafka:9092" для Docker)
//   - KAFKA_NOTIFICATION_TOPIC (по умолчанию payment.notification)
//   - MIDTRANS_SERVER_KEY - ключ, которым подписывается уведомление
//   - ORDER_ID, GROSS_AMOUNT, TRANSACTION_STATUS - параметры уведомления
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dika087/payment-api/internal/service"
	platformkafka "github.com/dika087/payment-api/platform/kafka"
	platformlogging "github.com/dika087/payment-api/platform/logging"
)

func getenv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Инициализируем платформенный логгер
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "notify-playground",
		Env:         "local",
		Level:       "info",
		Format:      "console",
		AddCaller:   true,
	})
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer platformlogging.Sync(logger)

	// Загружаем конфигурацию Kafka из переменных окружения
	cfg := platformkafka.DefaultConfig()
	if err := platformkafka.LoadEnv(&cfg); err != nil {
		logger.Error("failed to load kafka config", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("kafka config loaded",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.NotificationTopic),
	)

	// Параметры тестового уведомления
	orderID := getenv("ORDER_ID", "TRX-ab12-cd345678")
	statusCode := getenv("STATUS_CODE", "200")
	grossAmount := getenv("GROSS_AMOUNT", "10000")
	transactionStatus := getenv("TRANSACTION_STATUS", "settlement")
	// Ключ должен совпадать с MIDTRANS_SERVER_KEY сервиса,
	// иначе consumer отбросит уведомление как неподписанное
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		logger.Error("MIDTRANS_SERVER_KEY is required")
		os.Exit(1)
	}

	payload := map[string]interface{}{
		"event_id":           uuid.New().String(),
		"event_type":         "payment.notification.received",
		"event_version":      1,
		"occurred_at":        time.Now().UTC().Format(time.RFC3339),
		"order_id":           orderID,
		"status_code":        statusCode,
		"gross_amount":       grossAmount,
		"signature_key":      service.Signature(orderID, statusCode, grossAmount, serverKey),
		"transaction_status": transactionStatus,
		"fraud_status":       getenv("FRAUD_STATUS", ""),
		"payment_type":       getenv("PAYMENT_TYPE", "gopay"),
	}

	valueBytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal notification", zap.Error(err))
		os.Exit(1)
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.NotificationTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close kafka writer", zap.Error(err))
		}
	}()

	message := kafka.Message{
		Key:   []byte(orderID),
		Value: valueBytes,
	}

	logger.Info("sending test notification to kafka",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.NotificationTopic),
		zap.String("order_id", orderID),
		zap.String("transaction_status", transactionStatus),
	)

	if err := writer.WriteMessages(ctx, message); err != nil {
		logger.Error("failed to send notification",
			zap.Error(err),
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.NotificationTopic),
		)
		os.Exit(1)
	}

	logger.Info("test notification sent",
		zap.String("order_id", orderID),
		zap.String("transaction_status", transactionStatus),
	)
}
