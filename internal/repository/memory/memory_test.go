package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dika087/payment-api/internal/repository"
)

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()

	newTrx := func(id string, status repository.Status, createdAt int64) repository.Transaction {
		return repository.Transaction{
			ID:            id,
			GrossAmount:   10000,
			CustomerName:  "Budi",
			CustomerEmail: "budi@example.com",
			Status:        status,
			CreatedAt:     createdAt,
			Items: []repository.TransactionItem{
				{ProductID: "prod-1", Name: "Kaos", Price: 5000, Quantity: 2},
			},
		}
	}

	t.Run("Create and GetByID", func(t *testing.T) {
		repo := NewTransactionRepository()

		require.NoError(t, repo.Create(ctx, newTrx("TRX-a", repository.StatusPendingPayment, 0)))

		got, err := repo.GetByID(ctx, "TRX-a")
		require.NoError(t, err)
		require.Equal(t, "TRX-a", got.ID)
		require.NotZero(t, got.CreatedAt, "CreatedAt should be filled on create")
		require.Len(t, got.Items, 1)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		repo := NewTransactionRepository()

		_, err := repo.GetByID(ctx, "TRX-missing")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("List filters by status and sorts newest first", func(t *testing.T) {
		repo := NewTransactionRepository()

		require.NoError(t, repo.Create(ctx, newTrx("TRX-old", repository.StatusPaid, 100)))
		require.NoError(t, repo.Create(ctx, newTrx("TRX-new", repository.StatusPaid, 200)))
		require.NoError(t, repo.Create(ctx, newTrx("TRX-pending", repository.StatusPendingPayment, 150)))

		paid, err := repo.List(ctx, repository.StatusPaid)
		require.NoError(t, err)
		require.Len(t, paid, 2)
		require.Equal(t, "TRX-new", paid[0].ID)
		require.Equal(t, "TRX-old", paid[1].ID)

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
	})

	t.Run("UpdateStatus keeps payment method on empty value", func(t *testing.T) {
		repo := NewTransactionRepository()

		require.NoError(t, repo.Create(ctx, newTrx("TRX-a", repository.StatusPendingPayment, 0)))

		updated, err := repo.UpdateStatus(ctx, "TRX-a", repository.StatusPaid, "gopay")
		require.NoError(t, err)
		require.Equal(t, "gopay", updated.PaymentMethod)

		updated, err = repo.UpdateStatus(ctx, "TRX-a", repository.StatusCanceled, "")
		require.NoError(t, err)
		require.Equal(t, repository.StatusCanceled, updated.Status)
		require.Equal(t, "gopay", updated.PaymentMethod)
	})

	t.Run("UpdateStatus not found", func(t *testing.T) {
		repo := NewTransactionRepository()

		_, err := repo.UpdateStatus(ctx, "TRX-missing", repository.StatusPaid, "")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()

	seed := []repository.Product{
		{ID: "prod-2", Name: "Topi", Price: 45000},
		{ID: "prod-1", Name: "Kaos", Price: 75000},
	}

	t.Run("GetByIDs skips unknown and dedupes", func(t *testing.T) {
		repo := NewProductRepository(seed...)

		products, err := repo.GetByIDs(ctx, []string{"prod-1", "prod-1", "ghost", "prod-2"})
		require.NoError(t, err)
		require.Len(t, products, 2)
		require.Equal(t, "prod-1", products[0].ID)
		require.Equal(t, "prod-2", products[1].ID)
	})

	t.Run("List returns catalog sorted by id", func(t *testing.T) {
		repo := NewProductRepository(seed...)

		products, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		require.Equal(t, "prod-1", products[0].ID)
	})
}
