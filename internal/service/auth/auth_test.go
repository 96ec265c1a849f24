package auth_test

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
	"github.com/bakikhata/bakikhata/internal/service/auth"
	"github.com/bakikhata/bakikhata/internal/service/auth/tokenmanager"
	"github.com/bakikhata/bakikhata/internal/testutil"
)

func TestAuthService(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withService := func(t *testing.T, fn func(s *auth.AuthService, storage repository.Storage)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Refresh())
			require.NoError(t, err, "token manager should be created without errors")

			s, err := auth.NewService(auth.Config{}, tokenManager, storage)
			require.NoError(t, err, "auth service should be created without errors")

			fn(s, storage)
		})
	}

	t.Run("Register", func(t *testing.T) {
		t.Run("creates user and issues tokens", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				user, pair, err := s.Register(t.Context(), auth.RegisterParams{
					Phone:     "01711111111",
					Password:  "password",
					FirstName: "Rahim",
					LastName:  "Uddin",
				})

				require.NoError(t, err)
				require.Equal(t, "01711111111", user.Phone)
				require.NotEqual(t, "password", user.HashedPassword, "password must never be stored as is")
				require.NotEmpty(t, pair.Access.Value)
				require.NotEmpty(t, pair.Refresh.Value)
			})
		})

		t.Run("duplicate phone", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				_, _, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01711111111", Password: "password"})
				require.NoError(t, err)

				_, _, err = s.Register(t.Context(), auth.RegisterParams{Phone: "01711111111", Password: "other"})

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})

		t.Run("links customer rows with same phone", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				// A shop already keeps a tab under the phone before the
				// person registers
				owner, _, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01799999999", Password: "password"})
				require.NoError(t, err)

				now := time.Now()
				shop, err := storage.Shop().CreateShop(t.Context(), models.Shop{
					ID: uuid.New(), OwnerID: owner.ID, Name: "Rahim Store", Type: models.ShopTypeGrocery, CreatedAt: now, UpdatedAt: now,
				})
				require.NoError(t, err)

				customer, err := storage.Customer().CreateCustomer(t.Context(), models.Customer{
					ID: uuid.New(), ShopID: shop.ID, Phone: "01722222222", Name: "Karim", Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now,
				})
				require.NoError(t, err)

				user, _, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01722222222", Password: "password"})
				require.NoError(t, err)

				got, err := storage.Customer().GetCustomerByID(t.Context(), customer.ID)
				require.NoError(t, err)
				require.NotNil(t, got.UserID, "customer row should be linked on registration")
				require.Equal(t, user.ID, *got.UserID)
			})
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("valid credentials", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				registered, _, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01711111111", Password: "password"})
				require.NoError(t, err)

				user, pair, err := s.Login(t.Context(), "01711111111", "password")

				require.NoError(t, err)
				require.Equal(t, registered.ID, user.ID)
				require.NotEmpty(t, pair.Access.Value)
			})
		})

		t.Run("wrong password", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				_, _, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01711111111", Password: "password"})
				require.NoError(t, err)

				_, _, err = s.Login(t.Context(), "01711111111", "wrong")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserNotFound, "wrong password should be indistinguishable from unknown user")
			})
		})

		t.Run("unknown phone", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				_, _, err := s.Login(t.Context(), "01700000000", "password")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("rotates the pair", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				_, pair, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01711111111", Password: "password"})
				require.NoError(t, err)

				fresh, err := s.Refresh(t.Context(), pair.Refresh.Value)

				require.NoError(t, err)
				require.NotEqual(t, pair.Refresh.Value, fresh.Refresh.Value, "refresh token should rotate")
			})
		})

		t.Run("token is single use", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				_, pair, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01711111111", Password: "password"})
				require.NoError(t, err)

				_, err = s.Refresh(t.Context(), pair.Refresh.Value)
				require.NoError(t, err)

				_, err = s.Refresh(t.Context(), pair.Refresh.Value)
				require.Error(t, err, "second use of the same refresh token must fail")
			})
		})
	})

	t.Run("Role", func(t *testing.T) {
		t.Run("shop owner acts as owner", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				user, _, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01711111111", Password: "password"})
				require.NoError(t, err)

				now := time.Now()
				_, err = storage.Shop().CreateShop(t.Context(), models.Shop{
					ID: uuid.New(), OwnerID: user.ID, Name: "Rahim Store", Type: models.ShopTypeGrocery, CreatedAt: now, UpdatedAt: now,
				})
				require.NoError(t, err)

				role, err := s.Role(t.Context(), user)

				require.NoError(t, err)
				require.Equal(t, models.RoleOwner, role)
			})
		})

		t.Run("user without shop acts as customer", func(t *testing.T) {
			withService(t, func(s *auth.AuthService, storage repository.Storage) {
				user, _, err := s.Register(t.Context(), auth.RegisterParams{Phone: "01711111111", Password: "password"})
				require.NoError(t, err)

				role, err := s.Role(t.Context(), user)

				require.NoError(t, err)
				require.Equal(t, models.RoleCustomer, role)
			})
		})
	})
}
