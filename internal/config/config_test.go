package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_LocalDefaults(t *testing.T) {
	// Очищаем env
	os.Clearenv()
	os.Setenv("APP_ENV", "local")
	os.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != EnvLocal {
		t.Errorf("Expected AppEnv=local, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != "127.0.0.1:8080" {
		t.Errorf("Expected HTTPAddr=127.0.0.1:8080, got %s", cfg.HTTPAddr)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:19092" {
		t.Errorf("Expected KafkaBrokers=[localhost:19092], got %v", cfg.KafkaBrokers)
	}
	if cfg.NotificationTopic != "payment.notification" {
		t.Errorf("Expected NotificationTopic=payment.notification, got %s", cfg.NotificationTopic)
	}
	if cfg.NotificationDLQTopic != "payment.notification.dlq" {
		t.Errorf("Expected NotificationDLQTopic=payment.notification.dlq, got %s", cfg.NotificationDLQTopic)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("Expected RetryMaxAttempts=3, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Errorf("Expected IdempotencyTTL=24h, got %s", cfg.IdempotencyTTL)
	}
	if cfg.RedisEnabled {
		t.Error("Expected RedisEnabled=false by default")
	}
}

func TestLoad_DockerDefaults(t *testing.T) {
	// Очищаем env
	os.Clearenv()
	os.Setenv("APP_ENV", "docker")
	os.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != EnvDocker {
		t.Errorf("Expected AppEnv=docker, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Expected HTTPAddr=0.0.0.0:8080, got %s", cfg.HTTPAddr)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "kafka:9092" {
		t.Errorf("Expected KafkaBrokers=[kafka:9092], got %v", cfg.KafkaBrokers)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("Expected RedisAddr=redis:6379, got %s", cfg.RedisAddr)
	}
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "staging")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for invalid APP_ENV")
	}
}

func TestLoad_KafkaBrokersOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")
	os.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-test-key")
	os.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "kafka-1:9092" || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("Expected KafkaBrokers=[kafka-1:9092 kafka-2:9092], got %v", cfg.KafkaBrokers)
	}
}

func TestLoad_InvalidRetryBackoff(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")
	os.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-test-key")
	os.Setenv("PAYMENT_KAFKA_RETRY_BACKOFF_BASE", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for invalid PAYMENT_KAFKA_RETRY_BACKOFF_BASE")
	}
}

func TestLoad_MissingMidtransServerKey(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")

	// Ключ подписи не имеет дефолта: без него сервис стартовать не должен
	if _, err := Load(); err == nil {
		t.Fatal("Expected error when MIDTRANS_SERVER_KEY is not set")
	}
}
