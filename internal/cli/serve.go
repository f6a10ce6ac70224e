package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ghostname-service/internal/api/http"
	"github.com/spec-kit/ghostname-service/internal/api/http/handlers"
	"github.com/spec-kit/ghostname-service/internal/auth"
	"github.com/spec-kit/ghostname-service/internal/events"
	"github.com/spec-kit/ghostname-service/internal/observability"
	"github.com/spec-kit/ghostname-service/internal/persistence"
	"github.com/spec-kit/ghostname-service/internal/repository"
	"github.com/spec-kit/ghostname-service/internal/service"
	"github.com/spec-kit/ghostname-service/internal/worker"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default APP_HOST:APP_PORT)")

	return cmd
}

func runServe(parent context.Context, opts *ServeOptions) error {
	cfg, logger, err := opts.bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	db, err := persistence.Open(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var outcomes observability.OutcomeRecorder = observability.NewMemoryOutcomes()
	var redisPinger handlers.Pinger
	if redis != nil {
		outcomes = observability.NewRedisOutcomeStore(redis.Client,
			observability.WithOutcomePrefix(cfg.Redis.StatsPrefix),
			observability.WithOutcomeTTL(cfg.Redis.StatsTTL),
		)
		redisPinger = redis
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(logger, cfg.Notification)
	notifications := worker.NewNotificationWorker(dispatcher, notifier, logger, 0)
	go notifications.Run(ctx)

	store := repository.NewStore(db.DB)
	alloc := service.NewAllocationService(service.AllocationDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Outcomes:   outcomes,
		Logger:     logger,
		HoldTTL:    cfg.Reservation.HoldTTL,
		OfferSize:  cfg.Reservation.OfferSize,
	})
	commit := service.NewCommitService(service.CommitDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Outcomes:   outcomes,
		Logger:     logger,
		Clock:      service.SystemClock,
		HoldTTL:    cfg.Reservation.HoldTTL,
		OfferSize:  cfg.Reservation.OfferSize,
	})
	users := service.NewUserService(service.UserDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
		Clock:      service.SystemClock,
	})
	listing := service.NewListingService(store)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLMinutes)

	var limiter *httptransport.LimiterStore
	if cfg.Reservation.OfferRPS > 0 {
		limiter = httptransport.NewLimiterStore(cfg.Reservation.OfferRPS, cfg.Reservation.OfferBurst)
		limiter.StartJanitor(ctx)
	}

	app := httptransport.NewApp(cfg.App, logger, observability.NewMetrics(), httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redisPinger),
		GhostNames:     handlers.NewGhostNamesHandler(listing, alloc, commit, service.SystemClock),
		Account:        handlers.NewAccountHandler(users),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		OfferLimiter:   limiter,
	})

	addr := opts.Addr
	if addr == "" {
		addr = cfg.App.Addr()
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("store", db.Driver))
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber listen: %w", err)
	case <-waitForShutdown(ctx, logger):
	}

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	cancel()
	return nil
}

func waitForShutdown(ctx context.Context, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			logger.Info("shutting down", zap.String("signal", sig.String()))
		case <-ctx.Done():
			logger.Info("shutting down", zap.Error(ctx.Err()))
		}
	}()
	return done
}
