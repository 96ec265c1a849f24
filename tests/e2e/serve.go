package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/bakikhata/bakikhata/internal/handlers"
	"github.com/bakikhata/bakikhata/internal/logger"
	"github.com/bakikhata/bakikhata/internal/repository"
	"github.com/bakikhata/bakikhata/internal/repository/postgres"
	"github.com/bakikhata/bakikhata/internal/service/auth"
	"github.com/bakikhata/bakikhata/internal/service/auth/tokenmanager"
	"github.com/bakikhata/bakikhata/internal/service/customer"
	"github.com/bakikhata/bakikhata/internal/service/ledger"
	"github.com/bakikhata/bakikhata/internal/service/notification"
	"github.com/bakikhata/bakikhata/internal/service/shop"
	"github.com/bakikhata/bakikhata/internal/service/subscription"
	"github.com/bakikhata/bakikhata/internal/testutil"
)

type Services struct {
	Storage             repository.Storage
	AuthService         *auth.AuthService
	LedgerService       *ledger.LedgerService
	CustomerService     *customer.CustomerService
	ShopService         *shop.ShopService
	SubscriptionService *subscription.SubscriptionService
	NotificationService *notification.NotificationService
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.InTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)
		noopLogger := logger.NewNoOpLogger()

		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Refresh())
		require.NoError(t, err, "token manager should be created without errors")

		authService, err := auth.NewService(auth.Config{}, tokenManager, storage)
		require.NoError(t, err, "auth service starting error")

		notificationService := notification.NewService(storage, noopLogger)
		ledgerService := ledger.NewService(storage, notificationService)
		customerService := customer.NewService(storage)
		shopService := shop.NewService(storage)
		subscriptionService := subscription.NewService(storage)

		router := handlers.NewRouter(
			authService,
			ledgerService,
			customerService,
			shopService,
			subscriptionService,
			notificationService,
			noopLogger,
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			Storage:             storage,
			AuthService:         authService,
			LedgerService:       ledgerService,
			CustomerService:     customerService,
			ShopService:         shopService,
			SubscriptionService: subscriptionService,
			NotificationService: notificationService,
		})
	})
}
