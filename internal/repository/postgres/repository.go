package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dika087/payment-api/internal/repository"
)

// Repository реализует TransactionRepository и ProductRepository используя PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт новый PostgreSQL репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

// Create атомарно сохраняет транзакцию и её позиции
// Использует транзакцию БД: либо записывается всё, либо ничего
func (r *Repository) Create(ctx context.Context, trx repository.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	// Гарантируем откат в случае ошибки
	defer tx.Rollback(ctx)

	var paymentMethod *string
	if trx.PaymentMethod != "" {
		paymentMethod = &trx.PaymentMethod
	}

	// Если CreatedAt == 0, используем DEFAULT now() из БД
	if trx.CreatedAt > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO transactions (id, gross_amount, customer_name, customer_email, status, payment_method, snap_token, snap_redirect_url, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			trx.ID, trx.GrossAmount, trx.CustomerName, trx.CustomerEmail, string(trx.Status),
			paymentMethod, trx.SnapToken, trx.SnapRedirectURL, time.Unix(trx.CreatedAt, 0))
	} else {
		_, err = tx.Exec(ctx,
			`INSERT INTO transactions (id, gross_amount, customer_name, customer_email, status, payment_method, snap_token, snap_redirect_url)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			trx.ID, trx.GrossAmount, trx.CustomerName, trx.CustomerEmail, string(trx.Status),
			paymentMethod, trx.SnapToken, trx.SnapRedirectURL)
	}
	if err != nil {
		return err
	}

	// Сохраняем позиции: снимок цены и названия на момент покупки
	for _, item := range trx.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO transaction_items (transaction_id, product_id, name, price, quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			trx.ID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// GetByID получает транзакцию по ID из PostgreSQL
// Собирает transaction и transaction_items в доменную модель
func (r *Repository) GetByID(ctx context.Context, id string) (repository.Transaction, error) {
	var trx repository.Transaction
	var status string
	var paymentMethod *string
	var createdAt time.Time

	err := r.pool.QueryRow(ctx,
		`SELECT id, gross_amount, customer_name, customer_email, status, payment_method, snap_token, snap_redirect_url, created_at
		 FROM transactions
		 WHERE id = $1`,
		id).Scan(&trx.ID, &trx.GrossAmount, &trx.CustomerName, &trx.CustomerEmail,
		&status, &paymentMethod, &trx.SnapToken, &trx.SnapRedirectURL, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Transaction{}, repository.ErrNotFound
		}
		return repository.Transaction{}, err
	}

	trx.Status = repository.Status(status)
	if paymentMethod != nil {
		trx.PaymentMethod = *paymentMethod
	}
	trx.CreatedAt = createdAt.Unix()

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return repository.Transaction{}, err
	}
	trx.Items = items

	return trx, nil
}

// List возвращает транзакции с опциональным фильтром по статусу
func (r *Repository) List(ctx context.Context, status repository.Status) ([]repository.Transaction, error) {
	var rows pgx.Rows
	var err error

	if status != "" {
		rows, err = r.pool.Query(ctx,
			`SELECT id, gross_amount, customer_name, customer_email, status, payment_method, snap_token, snap_redirect_url, created_at
			 FROM transactions
			 WHERE status = $1
			 ORDER BY created_at DESC`,
			string(status))
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT id, gross_amount, customer_name, customer_email, status, payment_method, snap_token, snap_redirect_url, created_at
			 FROM transactions
			 ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]repository.Transaction, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var trx repository.Transaction
		var st string
		var paymentMethod *string
		var createdAt time.Time
		if err := rows.Scan(&trx.ID, &trx.GrossAmount, &trx.CustomerName, &trx.CustomerEmail,
			&st, &paymentMethod, &trx.SnapToken, &trx.SnapRedirectURL, &createdAt); err != nil {
			return nil, err
		}
		trx.Status = repository.Status(st)
		if paymentMethod != nil {
			trx.PaymentMethod = *paymentMethod
		}
		trx.CreatedAt = createdAt.Unix()
		trx.Items = make([]repository.TransactionItem, 0)
		transactions = append(transactions, trx)
		ids = append(ids, trx.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(transactions) == 0 {
		return transactions, nil
	}

	// Подгружаем позиции одним запросом для всех транзакций
	itemRows, err := r.pool.Query(ctx,
		`SELECT transaction_id, product_id, name, price, quantity
		 FROM transaction_items
		 WHERE transaction_id = ANY($1)
		 ORDER BY product_id`,
		ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	byID := make(map[string]int, len(transactions))
	for i, trx := range transactions {
		byID[trx.ID] = i
	}

	for itemRows.Next() {
		var trxID string
		var item repository.TransactionItem
		if err := itemRows.Scan(&trxID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		if i, ok := byID[trxID]; ok {
			transactions[i].Items = append(transactions[i].Items, item)
		}
	}
	if err = itemRows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

// UpdateStatus обновляет статус транзакции
// payment_method перезаписывается только непустым значением:
// отмена оплаты не должна стирать метод, которым платили
func (r *Repository) UpdateStatus(ctx context.Context, id string, status repository.Status, paymentMethod string) (repository.Transaction, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE transactions
		 SET status = $2,
		     payment_method = COALESCE(NULLIF($3, ''), payment_method)
		 WHERE id = $1`,
		id, string(status), paymentMethod)
	if err != nil {
		return repository.Transaction{}, err
	}
	if ct.RowsAffected() == 0 {
		return repository.Transaction{}, repository.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// ProductRepository реализует repository.ProductRepository используя PostgreSQL
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository создаёт новый PostgreSQL репозиторий каталога
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{
		pool: pool,
	}
}

// GetByIDs возвращает товары каталога с указанными ID
// Неизвестные ID пропускаются
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]repository.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price
		 FROM products
		 WHERE id = ANY($1)
		 ORDER BY id`,
		ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// List возвращает все товары каталога
func (r *ProductRepository) List(ctx context.Context) ([]repository.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price
		 FROM products
		 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]repository.Product, error) {
	products := make([]repository.Product, 0)
	for rows.Next() {
		var p repository.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// loadItems получает позиции транзакции
func (r *Repository) loadItems(ctx context.Context, trxID string) ([]repository.TransactionItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, name, price, quantity
		 FROM transaction_items
		 WHERE transaction_id = $1
		 ORDER BY product_id`,
		trxID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.TransactionItem, 0)
	for rows.Next() {
		var item repository.TransactionItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
