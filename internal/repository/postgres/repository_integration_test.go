//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	_ "github.com/jackc/pgx/v5/stdlib" //для goose миграций

	"github.com/dika087/payment-api/internal/repository"
)

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()

	// Поднимаем PostgreSQL контейнер через testcontainers
	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("payments"),
		postgres.WithUsername("payment_user"),
		postgres.WithPassword("payment_password"),
	)
	require.NoError(t, err)
	defer func() {
		err := postgresContainer.Terminate(ctx)
		require.NoError(t, err)
	}()

	// Получаем DSN из контейнера (реальный порт может быть не 5432)
	dsn, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Открываем *sql.DB через pgx stdlib для goose миграций
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer db.Close()

	// Ждём готовности БД через ping с retry
	var pingErr error
	for i := 0; i < 10; i++ {
		pingErr = db.PingContext(ctx)
		if pingErr == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, pingErr, "Failed to ping database after retries")

	// Вычисляем путь к migrations относительно текущего файла
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	// Текущий файл: internal/repository/postgres/repository_integration_test.go
	// Нужно получить: migrations в корне модуля
	testDir := filepath.Dir(filename)
	repoDir := filepath.Dir(testDir)     // internal/repository
	internalDir := filepath.Dir(repoDir) // internal
	moduleDir := filepath.Dir(internalDir)
	migrationsDir := filepath.Join(moduleDir, "migrations")

	// Накатываем миграции через goose
	err = goose.UpContext(ctx, db, migrationsDir)
	require.NoError(t, err, "Failed to run migrations")

	// Создаём pgxpool для repository
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewRepository(pool)
	productRepo := NewProductRepository(pool)

	t.Run("Create and GetByID", func(t *testing.T) {
		trx := repository.Transaction{
			ID:              "TRX-ab12-cd345678",
			GrossAmount:     150000,
			CustomerName:    "Budi",
			CustomerEmail:   "budi@example.com",
			Status:          repository.StatusPendingPayment,
			SnapToken:       "snap-token",
			SnapRedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/snap-token",
			Items: []repository.TransactionItem{
				{ProductID: "prod-001", Name: "Kaos Polos Hitam", Price: 75000, Quantity: 2},
			},
		}

		err := repo.Create(ctx, trx)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, "TRX-ab12-cd345678")
		require.NoError(t, err)

		require.Equal(t, trx.ID, got.ID)
		require.Equal(t, trx.GrossAmount, got.GrossAmount)
		require.Equal(t, repository.StatusPendingPayment, got.Status)
		require.Empty(t, got.PaymentMethod)
		require.Equal(t, trx.SnapToken, got.SnapToken)
		require.NotZero(t, got.CreatedAt)

		require.Len(t, got.Items, 1)
		require.Equal(t, trx.Items[0].ProductID, got.Items[0].ProductID)
		require.Equal(t, trx.Items[0].Price, got.Items[0].Price)
		require.Equal(t, trx.Items[0].Quantity, got.Items[0].Quantity)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "TRX-missing-00000000")
		require.Error(t, err)
		require.True(t, errors.Is(err, repository.ErrNotFound), "Expected ErrNotFound, got: %v", err)
	})

	t.Run("UpdateStatus records payment method and keeps it on cancel", func(t *testing.T) {
		updated, err := repo.UpdateStatus(ctx, "TRX-ab12-cd345678", repository.StatusPaid, "gopay")
		require.NoError(t, err)
		require.Equal(t, repository.StatusPaid, updated.Status)
		require.Equal(t, "gopay", updated.PaymentMethod)

		// Пустой paymentMethod не стирает записанный
		updated, err = repo.UpdateStatus(ctx, "TRX-ab12-cd345678", repository.StatusCanceled, "")
		require.NoError(t, err)
		require.Equal(t, repository.StatusCanceled, updated.Status)
		require.Equal(t, "gopay", updated.PaymentMethod)
	})

	t.Run("UpdateStatus_NotFound", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, "TRX-missing-00000000", repository.StatusPaid, "")
		require.True(t, errors.Is(err, repository.ErrNotFound), "Expected ErrNotFound, got: %v", err)
	})

	t.Run("List with status filter", func(t *testing.T) {
		second := repository.Transaction{
			ID:            "TRX-ef34-gh567890",
			GrossAmount:   45000,
			CustomerName:  "Sari",
			CustomerEmail: "sari@example.com",
			Status:        repository.StatusPendingPayment,
			Items: []repository.TransactionItem{
				{ProductID: "prod-003", Name: "Topi Baseball", Price: 45000, Quantity: 1},
			},
		}
		require.NoError(t, repo.Create(ctx, second))

		pending, err := repo.List(ctx, repository.StatusPendingPayment)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.Equal(t, "TRX-ef34-gh567890", pending[0].ID)
		require.Len(t, pending[0].Items, 1)

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("Products GetByIDs skips unknown ids", func(t *testing.T) {
		products, err := productRepo.GetByIDs(ctx, []string{"prod-001", "prod-003", "ghost"})
		require.NoError(t, err)
		require.Len(t, products, 2)
		require.Equal(t, "prod-001", products[0].ID)
		require.Equal(t, "prod-003", products[1].ID)
	})

	t.Run("Products List returns seeded catalog", func(t *testing.T) {
		products, err := productRepo.List(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(products), 5)
	})
}
