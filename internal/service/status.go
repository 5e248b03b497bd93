package service

import (
	"github.com/dika087/payment-api/internal/repository"
)

// statusFromNotification отображает пару (transaction_status, fraud_status)
// шлюза в целевой статус транзакции.
// Возвращает ok=false, если уведомление не должно менять статус:
// capture с fraud_status != accept и любые нераспознанные значения.
// withPaymentMethod=true означает, что вместе со статусом нужно записать
// payment_type из уведомления.
func statusFromNotification(transactionStatus, fraudStatus string) (status repository.Status, withPaymentMethod bool, ok bool) {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return repository.StatusPaid, true, true
		}
		// capture с challenge/deny остаётся как есть до следующего уведомления
		return "", false, false
	case "settlement":
		return repository.StatusPaid, true, true
	case "cancel", "deny", "expire":
		return repository.StatusCanceled, false, true
	case "pending":
		return repository.StatusPendingPayment, false, true
	default:
		return "", false, false
	}
}
