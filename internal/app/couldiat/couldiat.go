// Package couldiat assembles the HTTP API: storage, cache, notification
// bus, business services, router and server lifecycle.
package couldiat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/Ing-Nahine/concours-backend/internal/cache"
	"github.com/Ing-Nahine/concours-backend/internal/config"
	"github.com/Ing-Nahine/concours-backend/internal/lib/jwt"
	"github.com/Ing-Nahine/concours-backend/internal/lib/uploads"
	"github.com/Ing-Nahine/concours-backend/internal/migrations"
	"github.com/Ing-Nahine/concours-backend/internal/rabbitmq"
	adminservice "github.com/Ing-Nahine/concours-backend/internal/services/admin"
	authservice "github.com/Ing-Nahine/concours-backend/internal/services/auth"
	concoursservice "github.com/Ing-Nahine/concours-backend/internal/services/concours"
	resetservice "github.com/Ing-Nahine/concours-backend/internal/services/passwordreset"
	progressionservice "github.com/Ing-Nahine/concours-backend/internal/services/progression"
	subscriptionservice "github.com/Ing-Nahine/concours-backend/internal/services/subscription"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// App owns the HTTP server and the connections it serves from.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New wires the whole API together.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	notifier := rabbitmq.NewNotifier(ch)

	files, err := uploads.NewDiskStore(cfg.UploadDir)
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, notifier, logger)
	resetService := resetservice.NewResetService(db, cacheRedis, notifier, logger)
	concoursService := concoursservice.NewConcoursService(db, files, logger)
	adminService := adminservice.NewAdminService(db, notifier, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, notifier, logger)
	progressionService := progressionservice.NewProgressionService(db, subscriptionService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Reset:        resetService,
		Concours:     concoursService,
		Admin:        adminService,
		Subscription: subscriptionService,
		Progression:  progressionService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
