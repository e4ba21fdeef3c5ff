package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/mmvit/garudar/internal/config"
	"github.com/mmvit/garudar/internal/logging"
	"github.com/mmvit/garudar/internal/server"
	"github.com/mmvit/garudar/internal/server/jwt"
	"github.com/mmvit/garudar/internal/server/metrics"
	"github.com/mmvit/garudar/internal/server/middleware"
	"github.com/mmvit/garudar/internal/server/storage"
	"github.com/mmvit/garudar/internal/server/storage/memory"
	"github.com/mmvit/garudar/internal/server/storage/postgres"
	"github.com/mmvit/garudar/internal/server/storage/sqlite"
	"github.com/mmvit/garudar/internal/server/users"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load("garudar-server", os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		os.Exit(0)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close storage", slog.Any("error", err))
		}
	}()
	logger.Info("storage ready", slog.String("driver", cfg.Storage.Driver))

	if cfg.Bootstrap.AdminUsername != "" {
		created, err := users.NewService(logger, store).EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("bootstrap admin created", slog.String("username", cfg.Bootstrap.AdminUsername))
		}
	}

	tokens, err := jwt.NewService([]byte(cfg.JWT.Secret), cfg.JWT.TTL)
	if err != nil {
		return fmt.Errorf("failed to init token service: %w", err)
	}

	trusted, err := cfg.RateLimit.TrustedPrefixes()
	if err != nil {
		return err
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.LoginRate, cfg.RateLimit.LoginWindow, logger,
		middleware.WithTrustedProxies(trusted))
	defer limiter.Stop()

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: server.NewRouter(server.Deps{
			Logger:  logger,
			Store:   store,
			Tokens:  tokens,
			Metrics: metrics.New("garudar"),
			Limiter: limiter,
			Version: Version,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("garudar server listening",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.HTTP.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// openStorage выбирает backend по storage.driver
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return s, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func printVersion() {
	fmt.Printf("garudar server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
