package postgres

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
	"github.com/bakikhata/bakikhata/internal/testutil"
)

func TestCustomerRepo(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.InTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	t.Run("CreateCustomer", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			owner := mustUser(t, storage, "01711111111")
			shop := mustShop(t, storage, owner.ID)

			t.Run("create ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					customer := mustCustomer(t, storage, shop.ID, "01722222222", nil)

					require.Equal(t, shop.ID, customer.ShopID)
					require.Nil(t, customer.UserID, "new customer should not be linked")
					require.True(t, customer.Balance.IsZero(), "new customer balance should be zero")
				})
			})

			t.Run("duplicate phone in one shop", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					mustCustomer(t, storage, shop.ID, "01722222222", nil)

					now := time.Now()
					_, err := storage.Customer().CreateCustomer(t.Context(), models.Customer{
						ID:        uuid.New(),
						ShopID:    shop.ID,
						Phone:     "01722222222",
						Name:      "Another Karim",
						Balance:   decimal.Zero,
						CreatedAt: now,
						UpdatedAt: now,
					})

					require.Error(t, err, "same phone twice in one shop should fail")
					require.ErrorIs(t, err, apperrors.ErrCustomerPhoneTaken, "should return well known error")
				})
			})

			t.Run("same phone in another shop", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					mustCustomer(t, storage, shop.ID, "01722222222", nil)

					otherOwner := mustUser(t, storage, "01733333333")
					otherShop := mustShop(t, storage, otherOwner.ID)

					customer := mustCustomer(t, storage, otherShop.ID, "01722222222", nil)

					require.Equal(t, otherShop.ID, customer.ShopID, "phone is unique per shop, not globally")
				})
			})
		})
	})

	t.Run("GetShopCustomer", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			owner := mustUser(t, storage, "01711111111")
			shop := mustShop(t, storage, owner.ID)
			customer := mustCustomer(t, storage, shop.ID, "01722222222", nil)

			t.Run("visible to own shop", func(t *testing.T) {
				got, err := storage.Customer().GetShopCustomer(t.Context(), shop.ID, customer.ID)

				require.NoError(t, err)
				require.Equal(t, customer.ID, got.ID)
			})

			t.Run("invisible to another shop", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					otherOwner := mustUser(t, storage, "01733333333")
					otherShop := mustShop(t, storage, otherOwner.ID)

					_, err := storage.Customer().GetShopCustomer(t.Context(), otherShop.ID, customer.ID)

					require.Error(t, err)
					require.ErrorIs(t, err, apperrors.ErrCustomerNotFound, "customer of one shop should be hidden from another")
				})
			})
		})
	})

	t.Run("UpdateCustomer", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			owner := mustUser(t, storage, "01711111111")
			shop := mustShop(t, storage, owner.ID)
			customer := mustCustomer(t, storage, shop.ID, "01722222222", nil)

			t.Run("partial update keeps other fields", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.Customer().UpdateCustomer(t.Context(), shop.ID, customer.ID, repository.UpdateCustomerParams{Name: "Karim Mia"})

					require.NoError(t, err)
					require.Equal(t, "Karim Mia", got.Name)
					require.Equal(t, customer.Phone, got.Phone, "phone should stay unchanged")
				})
			})

			t.Run("update for wrong shop", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					otherOwner := mustUser(t, storage, "01733333333")
					otherShop := mustShop(t, storage, otherOwner.ID)

					_, err := storage.Customer().UpdateCustomer(t.Context(), otherShop.ID, customer.ID, repository.UpdateCustomerParams{Name: "Nope"})

					require.Error(t, err)
					require.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
				})
			})
		})
	})

	t.Run("LinkUserByPhone", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			owner := mustUser(t, storage, "01711111111")
			otherOwner := mustUser(t, storage, "01733333333")
			shop := mustShop(t, storage, owner.ID)
			otherShop := mustShop(t, storage, otherOwner.ID)

			t.Run("links matching rows across shops", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					first := mustCustomer(t, storage, shop.ID, "01722222222", nil)
					second := mustCustomer(t, storage, otherShop.ID, "01722222222", nil)
					unrelated := mustCustomer(t, storage, shop.ID, "01744444444", nil)

					user := mustUser(t, storage, "01722222222")

					linked, err := storage.Customer().LinkUserByPhone(t.Context(), user.ID, user.Phone)

					require.NoError(t, err)
					require.EqualValues(t, 2, linked, "both shops' rows with the phone should link")

					for _, id := range []uuid.UUID{first.ID, second.ID} {
						got, err := storage.Customer().GetCustomerByID(t.Context(), id)
						require.NoError(t, err)
						require.NotNil(t, got.UserID)
						require.Equal(t, user.ID, *got.UserID)
					}

					got, err := storage.Customer().GetCustomerByID(t.Context(), unrelated.ID)
					require.NoError(t, err)
					require.Nil(t, got.UserID, "different phone should stay unlinked")
				})
			})

			t.Run("already linked rows stay put", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					user := mustUser(t, storage, "01722222222")
					customer := mustCustomer(t, storage, shop.ID, "01722222222", &user.ID)

					intruder := mustUser(t, storage, "01755555555")
					linked, err := storage.Customer().LinkUserByPhone(t.Context(), intruder.ID, "01722222222")

					require.NoError(t, err)
					require.Zero(t, linked, "linked row should never be relinked")

					got, err := storage.Customer().GetCustomerByID(t.Context(), customer.ID)
					require.NoError(t, err)
					require.Equal(t, user.ID, *got.UserID)
				})
			})
		})
	})

	t.Run("Balance", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			owner := mustUser(t, storage, "01711111111")
			shop := mustShop(t, storage, owner.ID)
			customer := mustCustomer(t, storage, shop.ID, "01722222222", nil)

			t.Run("apply delta", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.Customer().ApplyBalance(t.Context(), customer.ID, decimal.NewFromInt(100))
					require.NoError(t, err)
					require.True(t, got.Balance.Equal(decimal.NewFromInt(100)))

					got, err = storage.Customer().ApplyBalance(t.Context(), customer.ID, decimal.NewFromInt(-30))
					require.NoError(t, err)
					require.True(t, got.Balance.Equal(decimal.NewFromInt(70)), "negative delta should reduce the balance")
				})
			})

			t.Run("apply to nonexistent customer", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Customer().ApplyBalance(t.Context(), uuid.New(), decimal.NewFromInt(10))

					require.Error(t, err)
					require.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
				})
			})

			t.Run("sum confirmed only", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					credit := mustEntry(t, storage, shop.ID, customer.ID, models.EntryKindCredit, 200)
					payment := mustEntry(t, storage, shop.ID, customer.ID, models.EntryKindPayment, 50)
					mustEntry(t, storage, shop.ID, customer.ID, models.EntryKindCredit, 999) // stays pending

					now := time.Now()
					_, err := storage.Entry().ResolveEntry(t.Context(), credit.ID, models.EntryStatusConfirmed, "", &now)
					require.NoError(t, err)
					_, err = storage.Entry().ResolveEntry(t.Context(), payment.ID, models.EntryStatusConfirmed, "", &now)
					require.NoError(t, err)

					sum, err := storage.Customer().SumConfirmed(t.Context(), customer.ID)

					require.NoError(t, err)
					require.True(t, sum.Equal(decimal.NewFromInt(150)), "sum should be confirmed credits minus confirmed payments, got %s", sum)
				})
			})

			t.Run("sum with no confirmed entries is zero", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					sum, err := storage.Customer().SumConfirmed(t.Context(), customer.ID)

					require.NoError(t, err)
					require.True(t, sum.IsZero())
				})
			})
		})
	})
}
