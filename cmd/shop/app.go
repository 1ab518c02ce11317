package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkiryanov/shop/internal/db"
	"github.com/nkiryanov/shop/internal/handlers"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/repository/postgres"
	"github.com/nkiryanov/shop/internal/service/auth"
	"github.com/nkiryanov/shop/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/shop/internal/service/cart"
	"github.com/nkiryanov/shop/internal/service/catalog"
	"github.com/nkiryanov/shop/internal/service/eventlog"
	"github.com/nkiryanov/shop/internal/service/order"
	"github.com/nkiryanov/shop/internal/service/review"
	"github.com/nkiryanov/shop/internal/service/role"
	"github.com/nkiryanov/shop/internal/service/sweeper"
	"github.com/nkiryanov/shop/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	pool     *pgxpool.Pool
	recorder *eventlog.Recorder
	sweeper  *sweeper.Sweeper
	logger   logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		SecretKey:  c.SecretKey,
		Alg:        c.JWTAlgorithm,
		AccessTTL:  c.AccessTTL(),
		RefreshTTL: c.RefreshTTL(),
	}, storage.Refresh())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	recorder := eventlog.NewRecorder(eventlog.RecorderConfig{
		CountWorkers: c.AuditWorkers,
		QueueSize:    c.AuditQueueSize,
	}, storage.Event(), logger)

	// Registered and admin created users get the same role unless admin picks one
	authService, err := auth.NewService(
		auth.Config{DefaultRoleID: c.DefaultRoleID, Hasher: auth.DefaultHasher},
		tokenManager,
		storage.User(),
		recorder,
		logger,
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	mux := handlers.NewRouter(handlers.Services{
		Resolver: auth.NewResolver(tokenManager, storage.User()),
		Auth:     authService,
		User:     user.NewService(user.Config{DefaultRoleID: c.DefaultRoleID, Hasher: auth.DefaultHasher}, storage, recorder, logger),
		Role:     role.NewService(storage.Role(), recorder),
		Catalog:  catalog.NewService(storage, recorder),
		Cart:     cart.NewService(storage, recorder),
		Order:    order.NewService(storage, recorder),
		Review:   review.NewService(storage, recorder),
		Event:    eventlog.NewService(storage.Event()),
		DB:       pool,
	}, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		pool:       pool,
		recorder:   recorder,
		sweeper:    sweeper.New(c.TokenSweepInterval, tokenManager, logger),
		logger:     logger,
	}, nil
}

// Run starts http server and background workers
// On context cancellation the server is closed gracefully, pending audit events are flushed
// and the database pool is closed
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	recorderStopped := s.recorder.Start(srvCtx)
	sweeperStopped := s.sweeper.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	// No handlers are running anymore, so nothing can be recorded after Stop
	s.recorder.Stop()
	<-recorderStopped
	<-sweeperStopped
	s.pool.Close()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
