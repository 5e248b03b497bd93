package service

import (
	"crypto/rand"
	"fmt"
)

// Алфавит из 64 символов: каждый случайный байт маскируется в индекс без перекоса
const trxIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// NewTransactionID генерирует ID транзакции вида TRX-xxxx-xxxxxxxx
// (4 + 8 случайных символов из URL-safe алфавита)
func NewTransactionID() (string, error) {
	short, err := randomString(4)
	if err != nil {
		return "", err
	}
	long, err := randomString(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TRX-%s-%s", short, long), nil
}

func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = trxIDAlphabet[int(b)&63]
	}
	return string(buf), nil
}
