package service

import (
	"crypto/sha512"
	"encoding/hex"
)

// Signature вычисляет подпись уведомления платёжного шлюза:
// hex(sha512(order_id + status_code + gross_amount + server_key)).
// Алгоритм и порядок конкатенации зафиксированы документацией Midtrans.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
