package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dika087/payment-api/internal/repository"
)

// TransactionRepository реализует repository.TransactionRepository используя in-memory хранилище
// Используется для разработки и тестирования
// В production заменяется на реализацию с PostgreSQL
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]repository.Transaction
}

// NewTransactionRepository создаёт новый in-memory репозиторий транзакций
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]repository.Transaction),
	}
}

// Create сохраняет транзакцию с позициями в памяти
func (r *TransactionRepository) Create(ctx context.Context, trx repository.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if trx.CreatedAt == 0 {
		trx.CreatedAt = time.Now().Unix()
	}

	r.transactions[trx.ID] = trx
	return nil
}

// GetByID получает транзакцию по ID из памяти
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (repository.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trx, exists := r.transactions[id]
	if !exists {
		return repository.Transaction{}, repository.ErrNotFound
	}

	return trx, nil
}

// List возвращает транзакции с опциональным фильтром по статусу
// Сортирует по времени создания (новые первыми), как и PostgreSQL реализация
func (r *TransactionRepository) List(ctx context.Context, status repository.Status) ([]repository.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.Transaction, 0)
	for _, trx := range r.transactions {
		if status != "" && trx.Status != status {
			continue
		}
		out = append(out, trx)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})

	return out, nil
}

// UpdateStatus обновляет статус транзакции в памяти
// payment_method перезаписывается только непустым значением
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status repository.Status, paymentMethod string) (repository.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trx, exists := r.transactions[id]
	if !exists {
		return repository.Transaction{}, repository.ErrNotFound
	}

	trx.Status = status
	if paymentMethod != "" {
		trx.PaymentMethod = paymentMethod
	}
	r.transactions[id] = trx

	return trx, nil
}

// ProductRepository реализует repository.ProductRepository используя in-memory хранилище
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]repository.Product
}

// NewProductRepository создаёт новый in-memory каталог
// seed позволяет сразу наполнить каталог товарами (удобно в тестах)
func NewProductRepository(seed ...repository.Product) *ProductRepository {
	products := make(map[string]repository.Product, len(seed))
	for _, p := range seed {
		products[p.ID] = p
	}
	return &ProductRepository{
		products: products,
	}
}

// GetByIDs возвращает товары с указанными ID, неизвестные ID пропускаются
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]repository.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// List возвращает все товары каталога
func (r *ProductRepository) List(ctx context.Context) ([]repository.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
