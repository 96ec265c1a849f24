package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bakikhata/bakikhata/internal/db"
	"github.com/bakikhata/bakikhata/internal/handlers"
	"github.com/bakikhata/bakikhata/internal/logger"
	"github.com/bakikhata/bakikhata/internal/repository/postgres"
	"github.com/bakikhata/bakikhata/internal/service/auth"
	"github.com/bakikhata/bakikhata/internal/service/auth/tokenmanager"
	"github.com/bakikhata/bakikhata/internal/service/customer"
	"github.com/bakikhata/bakikhata/internal/service/ledger"
	"github.com/bakikhata/bakikhata/internal/service/notification"
	"github.com/bakikhata/bakikhata/internal/service/shop"
	"github.com/bakikhata/bakikhata/internal/service/subscription"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	var l logger.Logger
	var err error
	switch c.Environment {
	case EnvDevelopment:
		l, err = logger.NewTextLogger(c.LogLevel)
	default:
		l, err = logger.NewJSONLogger(c.LogLevel)
	}
	if err != nil {
		return nil, fmt.Errorf("error while creating logger. Err: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	notificationService := notification.NewService(storage, l)
	ledgerService := ledger.NewService(storage, notificationService)
	customerService := customer.NewService(storage)
	shopService := shop.NewService(storage)
	subscriptionService := subscription.NewService(storage)

	mux := handlers.NewRouter(
		authService,
		ledgerService,
		customerService,
		shopService,
		subscriptionService,
		notificationService,
		l,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
