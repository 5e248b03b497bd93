package kafka

// Config содержит конфигурацию для подключения к Kafka
type Config struct {
	// Brokers — список брокеров Kafka, через который подключается сервис.
	// Значение зависит от среды выполнения:
	//   - локальная разработка (go run): localhost:19092
	//   - запуск в Docker: kafka:9092
	// Можно указать несколько брокеров через запятую: "broker1:9092,broker2:9092"
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	// NotificationTopic — топик, в который HTTP-обработчик webhook-а кладёт
	// сырые уведомления платёжного шлюза для фоновой обработки.
	NotificationTopic string `env:"KAFKA_NOTIFICATION_TOPIC" envDefault:"payment.notification"`
	// DLQTopic — топик для сообщений, которые не удалось обработать.
	DLQTopic string `env:"KAFKA_DLQ_TOPIC" envDefault:"payment.notification.dlq"`
}

// DefaultConfig возвращает конфигурацию с дефолтными значениями для локальной разработки.
// Сервис должен получать актуальные значения через переменные окружения.
func DefaultConfig() Config {
	return Config{
		Brokers:           []string{"localhost:19092"},
		NotificationTopic: "payment.notification",
		DLQTopic:          "payment.notification.dlq",
	}
}
