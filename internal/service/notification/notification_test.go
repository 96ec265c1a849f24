package notification_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
	"github.com/bakikhata/bakikhata/internal/repository/postgres"
	"github.com/bakikhata/bakikhata/internal/service/notification"
	"github.com/bakikhata/bakikhata/internal/testutil"
)

func TestNotificationService(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	type fixtures struct {
		storage  repository.Storage
		service  *notification.NotificationService
		owner    models.User
		buyer    models.User
		shop     models.Shop
		customer models.Customer
	}

	setup := func(t *testing.T, tx pgx.Tx) fixtures {
		t.Helper()

		storage := postgres.NewStorage(tx)
		now := time.Now()

		owner, err := storage.User().CreateUser(t.Context(), models.User{
			ID: uuid.New(), CreatedAt: now, Phone: "01711111111", HashedPassword: "hash",
		})
		require.NoError(t, err)

		buyer, err := storage.User().CreateUser(t.Context(), models.User{
			ID: uuid.New(), CreatedAt: now, Phone: "01722222222", HashedPassword: "hash",
		})
		require.NoError(t, err)

		shop, err := storage.Shop().CreateShop(t.Context(), models.Shop{
			ID: uuid.New(), OwnerID: owner.ID, Name: "Rahim Store", Type: models.ShopTypeGrocery, CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)

		customer, err := storage.Customer().CreateCustomer(t.Context(), models.Customer{
			ID: uuid.New(), ShopID: shop.ID, UserID: &buyer.ID, Phone: buyer.Phone, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)

		return fixtures{
			storage:  storage,
			service:  notification.NewService(storage, nil),
			owner:    owner,
			buyer:    buyer,
			shop:     shop,
			customer: customer,
		}
	}

	entry := func(f fixtures, status string) models.Entry {
		return models.Entry{
			ID:         uuid.New(),
			Kind:       models.EntryKindCredit,
			ShopID:     f.shop.ID,
			CustomerID: f.customer.ID,
			Amount:     decimal.NewFromInt(100),
			Status:     status,
		}
	}

	t.Run("EntryCreated notifies the linked buyer", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			f := setup(t, tx)

			f.service.EntryCreated(t.Context(), entry(f, models.EntryStatusPending), f.customer)

			got, err := f.service.List(t.Context(), f.buyer.ID)
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.Equal(t, models.NotificationEntryPending, got[0].Type)
		})
	})

	t.Run("EntryCreated skips unlinked customers", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			f := setup(t, tx)
			unlinked := f.customer
			unlinked.UserID = nil

			f.service.EntryCreated(t.Context(), entry(f, models.EntryStatusPending), unlinked)

			got, err := f.service.List(t.Context(), f.buyer.ID)
			require.NoError(t, err)
			require.Empty(t, got, "nobody to notify, nothing to store")
		})
	})

	t.Run("EntryResolved notifies the shop owner", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			f := setup(t, tx)

			f.service.EntryResolved(t.Context(), entry(f, models.EntryStatusConfirmed), f.customer)

			got, err := f.service.List(t.Context(), f.owner.ID)
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.Equal(t, models.NotificationEntryConfirmed, got[0].Type)
		})
	})

	t.Run("MarkRead", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			f := setup(t, tx)

			f.service.EntryCreated(t.Context(), entry(f, models.EntryStatusPending), f.customer)
			got, err := f.service.List(t.Context(), f.buyer.ID)
			require.NoError(t, err)
			require.Len(t, got, 1)

			err = f.service.MarkRead(t.Context(), f.buyer.ID, got[0].ID)
			require.NoError(t, err)

			got, err = f.service.List(t.Context(), f.buyer.ID)
			require.NoError(t, err)
			require.True(t, got[0].IsRead)
		})
	})

	t.Run("MarkRead someone else's notification", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			f := setup(t, tx)

			f.service.EntryCreated(t.Context(), entry(f, models.EntryStatusPending), f.customer)
			got, err := f.service.List(t.Context(), f.buyer.ID)
			require.NoError(t, err)
			require.Len(t, got, 1)

			err = f.service.MarkRead(t.Context(), f.owner.ID, got[0].ID)

			require.Error(t, err)
			require.ErrorIs(t, err, apperrors.ErrNotificationNotFound, "notifications are private to their user")
		})
	})

	t.Run("MarkAllRead", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			f := setup(t, tx)

			f.service.EntryCreated(t.Context(), entry(f, models.EntryStatusPending), f.customer)
			f.service.EntryCreated(t.Context(), entry(f, models.EntryStatusPending), f.customer)

			err := f.service.MarkAllRead(t.Context(), f.buyer.ID)
			require.NoError(t, err)

			got, err := f.service.List(t.Context(), f.buyer.ID)
			require.NoError(t, err)
			require.Len(t, got, 2)
			for _, n := range got {
				require.True(t, n.IsRead)
			}
		})
	})
}
