package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	platformlogging "github.com/dika087/payment-api/platform/logging"
	platformshutdown "github.com/dika087/payment-api/platform/shutdown"

	httpapi "github.com/dika087/payment-api/internal/api/http"
	"github.com/dika087/payment-api/internal/config"
	eventkafka "github.com/dika087/payment-api/internal/event/kafka"
	"github.com/dika087/payment-api/internal/gateway/midtrans"
	"github.com/dika087/payment-api/internal/idempotency"
	"github.com/dika087/payment-api/internal/repository/postgres"
	"github.com/dika087/payment-api/internal/service"
)

// App содержит все зависимости для запуска и корректного shutdown Payment API
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	consumer    *eventkafka.NotificationConsumer
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости Payment API
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"

	// Создаём logger
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "payment-api",
		Env:         string(cfg.AppEnv),
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
	})
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("op", op))
	logger.Info("Building Payment API",
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("notification_topic", cfg.NotificationTopic),
		zap.Int("retry_max_attempts", cfg.RetryMaxAttempts),
		zap.Duration("retry_backoff_base", cfg.RetryBackoffBase),
	)

	// Подключаемся к PostgreSQL
	logger.Info("Connecting to PostgreSQL")
	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("PostgreSQL connection established")

	// Применяем миграции
	logger.Info("Applying database migrations")
	db, err := goose.OpenDBWithDriver("pgx", cfg.PostgresDSN)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		pool.Close()
		return nil, err
	}
	migrationsDir := filepath.Join(wd, "migrations")

	if err := goose.Up(db, migrationsDir); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("Database migrations applied successfully")

	// Функция readiness для health check
	readiness := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			return false
		}
		return true
	}

	// Создаём PostgreSQL репозитории
	transactionRepo := postgres.NewRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	// Processed-notifications store: Redis, если включён, иначе in-memory
	var processedStore service.ProcessedNotificationsStore
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		logger.Info("Connecting to Redis", zap.String("addr", cfg.RedisAddr))
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   0,
		})

		ctxRedis, cancelRedis := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelRedis()
		if err := redisClient.Ping(ctxRedis).Err(); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("Redis connection established")

		processedStore = idempotency.NewRedisStore(redisClient, logger)
	} else {
		logger.Warn("Redis disabled, processed notifications tracked in memory only")
		processedStore = idempotency.NewMemoryStore()
	}

	// Midtrans Snap клиент
	snapGateway := midtrans.NewClient(logger, cfg.MidtransAppURL, cfg.MidtransServerKey)

	// Kafka publisher для уведомлений шлюза
	notificationPublisher := eventkafka.NewNotificationPublisher(
		logger,
		cfg.KafkaBrokers,
		cfg.NotificationTopic,
	)

	// DLQ publisher
	dlqPublisher := eventkafka.NewDLQPublisher(
		logger,
		cfg.KafkaBrokers,
		cfg.NotificationDLQTopic,
	)

	// Создаём service слой
	transactionService := service.NewTransactionService(
		logger,
		transactionRepo,
		productRepo,
		snapGateway,
		notificationPublisher,
		processedStore,
		cfg.MidtransServerKey,
		cfg.FrontEndURL,
		cfg.IdempotencyTTL,
	)

	// Kafka consumer для фоновой обработки уведомлений
	consumer := eventkafka.NewNotificationConsumer(
		logger,
		cfg.KafkaBrokers,
		cfg.NotificationGroupID,
		cfg.NotificationTopic,
		transactionService,
		dlqPublisher,
		cfg.RetryMaxAttempts,
		cfg.RetryBackoffBase,
	)

	// HTTP сервер
	handler := httpapi.NewHandler(logger, transactionService)
	router := httpapi.NewRouter(handler, readiness)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Создаём shutdown manager
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)

	// Регистрируем shutdown функции в порядке запуска:
	// manager выполняет их в обратном порядке, поэтому сначала гасятся
	// HTTP сервер и consumer, и только потом закрываются pool и writer-ы
	shutdownMgr.Add("postgres_pool", platformshutdown.ClosePool(pool))
	if redisClient != nil {
		shutdownMgr.Add("redis_client", platformshutdown.CloseWithError(redisClient))
	}
	shutdownMgr.Add("notification_publisher", platformshutdown.CloseWithError(notificationPublisher))
	shutdownMgr.Add("dlq_publisher", platformshutdown.CloseWithError(dlqPublisher))
	shutdownMgr.Add("kafka_consumer", platformshutdown.CloseWithError(consumer))
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		consumer:    consumer,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting Payment API")

	// Контекст для consumer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем HTTP сервер
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	a.logger.Info("HTTP server listening", zap.String("addr", a.httpServer.Addr))

	// Запускаем Kafka consumer в отдельной горутине
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil {
			a.logger.Error("kafka consumer error", zap.Error(err))
		}
	}()
	a.logger.Info("Kafka consumer started")

	// Ожидаем сигнал и выполняем shutdown
	a.shutdownMgr.Wait()

	// Отменяем контекст consumer
	cancel()

	// Ждём завершения всех горутин
	a.wg.Wait()

	a.logger.Info("Payment API stopped")
	return nil
}
