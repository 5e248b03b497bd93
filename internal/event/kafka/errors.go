package kafka

// ParseError представляет ошибку парсинга уведомления из Kafka-сообщения
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}
