package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/bakikhata/bakikhata/internal/handlers/middleware"
	"github.com/bakikhata/bakikhata/internal/logger"
	"github.com/bakikhata/bakikhata/internal/models"
	"github.com/bakikhata/bakikhata/internal/repository"
	"github.com/bakikhata/bakikhata/internal/service/auth"
	"github.com/bakikhata/bakikhata/internal/service/customer"
	"github.com/bakikhata/bakikhata/internal/service/ledger"
	"github.com/bakikhata/bakikhata/internal/service/shop"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	ledgerService ledgerService,
	customerService customerService,
	shopService shopService,
	subscriptionService subscriptionService,
	notificationService notificationService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	api := http.NewServeMux()

	api.Handle("POST /auth/register", handleRegister(authService, logger))
	api.Handle("POST /auth/login", handleLogin(authService, logger))
	api.Handle("POST /auth/refresh", handleTokenRefresh(authService, logger))
	api.Handle("GET /auth/profile", withAuth(handleProfile(authService, logger)))

	api.Handle("GET /auth/notifications", withAuth(handleListNotifications(notificationService, logger)))
	api.Handle("PUT /auth/notifications/{id}/read", withAuth(handleMarkNotificationRead(notificationService, logger)))
	api.Handle("PUT /auth/notifications/read-all", withAuth(handleMarkAllNotificationsRead(notificationService, logger)))

	api.Handle("GET /shops", withAuth(handleGetShop(shopService, logger)))
	api.Handle("POST /shops/create", withAuth(handleCreateShop(shopService, logger)))
	api.Handle("PUT /shops/update", withAuth(handleUpdateShop(shopService, logger)))

	api.Handle("GET /customers", withAuth(handleListCustomers(customerService, shopService, logger)))
	api.Handle("POST /customers/create", withAuth(handleCreateCustomer(customerService, shopService, logger)))
	api.Handle("GET /customers/{id}", withAuth(handleGetCustomer(customerService, shopService, logger)))
	api.Handle("PUT /customers/{id}/update", withAuth(handleUpdateCustomer(customerService, shopService, logger)))

	api.Handle("GET /subscriptions", withAuth(handleGetSubscription(subscriptionService, shopService, logger)))
	api.Handle("POST /subscriptions/activate", withAuth(handleActivateSubscription(subscriptionService, shopService, logger)))

	api.Handle("POST /transactions/credits/create", withAuth(handleCreateEntry(ledgerService, shopService, models.EntryKindCredit, logger)))
	api.Handle("POST /transactions/payments/create", withAuth(handleCreateEntry(ledgerService, shopService, models.EntryKindPayment, logger)))
	api.Handle("POST /transactions/credits/{id}/confirm", withAuth(handleResolveEntry(ledgerService, models.EntryKindCredit, logger)))
	api.Handle("POST /transactions/payments/{id}/confirm", withAuth(handleResolveEntry(ledgerService, models.EntryKindPayment, logger)))
	api.Handle("GET /transactions/ledger/pending", withAuth(handleListPending(ledgerService, shopService, logger)))
	api.Handle("GET /transactions/ledger/shop", withAuth(handleShopLedger(ledgerService, shopService, logger)))
	api.Handle("GET /transactions/ledger/my", withAuth(handleMyLedger(ledgerService, customerService, shopService, logger)))
	api.Handle("GET /transactions/ledger/customer/{id}", withAuth(handleCustomerLedger(ledgerService, customerService, shopService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("GET /metrics", promhttp.Handler())

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
		middleware.MetricsMiddleware(),
	)

	return handler
}

type authService interface {
	// Register user with phone and password and link recorded customers
	// Has to return apperrors.ErrUserAlreadyExists if phone is taken
	Register(ctx context.Context, params auth.RegisterParams) (models.User, models.TokenPair, error)

	// Login user with phone and password
	// Has to return apperrors.ErrUserNotFound if credentials don't match
	Login(ctx context.Context, phone string, password string) (models.User, models.TokenPair, error)

	// Refresh tokens using refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token not found: has to return apperrors.ErrRefreshTokenNotFound
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Server-asserted session role: owner or customer
	Role(ctx context.Context, user models.User) (string, error)

	// Set auth tokens (access, refresh) to response
	SetTokens(ctx context.Context, w http.ResponseWriter, pair models.TokenPair)

	// Get refresh token from request
	GetRefresh(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type ledgerService interface {
	CreateEntry(ctx context.Context, shop models.Shop, params ledger.CreateEntryParams) (models.Entry, error)
	ResolveEntry(ctx context.Context, caller models.User, entryID uuid.UUID, action string, rejectedReason string) (models.Entry, error)
	ListShopPending(ctx context.Context, shopID uuid.UUID) (ledger.PendingEntries, error)
	ListUserPending(ctx context.Context, userID uuid.UUID) (ledger.PendingEntries, error)
	ListShopEntries(ctx context.Context, shopID uuid.UUID, kind string) ([]models.Entry, error)
	ListCustomerEntries(ctx context.Context, customerID uuid.UUID, kind string) ([]models.Entry, error)
	ListUserEntries(ctx context.Context, userID uuid.UUID, kind string) ([]models.Entry, error)
	ComputeBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}

type customerService interface {
	Create(ctx context.Context, shop models.Shop, params customer.CreateParams) (models.Customer, error)
	Get(ctx context.Context, shop models.Shop, customerID uuid.UUID) (models.Customer, error)
	List(ctx context.Context, shop models.Shop) ([]models.Customer, error)
	ListLinked(ctx context.Context, userID uuid.UUID) ([]models.Customer, error)
	Update(ctx context.Context, shop models.Shop, customerID uuid.UUID, params repository.UpdateCustomerParams) (models.Customer, error)
}

type shopService interface {
	Create(ctx context.Context, owner models.User, params shop.CreateParams) (models.Shop, error)
	GetOwned(ctx context.Context, owner models.User) (models.Shop, error)
	GetByID(ctx context.Context, shopID uuid.UUID) (models.Shop, error)
	Update(ctx context.Context, owner models.User, params repository.UpdateShopParams) (models.Shop, error)
}

type subscriptionService interface {
	Get(ctx context.Context, shopID uuid.UUID) (models.Subscription, error)
	Activate(ctx context.Context, shopID uuid.UUID) (models.Subscription, error)
}

type notificationService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
