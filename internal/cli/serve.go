package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/common/messaging"
	natsclient "github.com/vaultline/vaultline/common/messaging/nats"
	"github.com/vaultline/vaultline/internal/auth"
	"github.com/vaultline/vaultline/internal/handlers"
	"github.com/vaultline/vaultline/internal/insights"
	"github.com/vaultline/vaultline/internal/reader"
	"github.com/vaultline/vaultline/internal/repository"
	"github.com/vaultline/vaultline/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the activity HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("activity"))
	logging.SetDefault(logger)

	slog.Info("Starting activity service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
	)

	if err := runMigrations(cfg.Database.ConnString()); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	repo, err := repository.NewPostgresRepository(context.Background(), cfg.Database.ConnString())
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer repo.Close()

	var cache insights.CardCache
	if cfg.Redis.Enabled {
		redisCache, err := insights.NewRedisCardCache(cfg.Redis.URL)
		if err != nil {
			log.Printf("WARNING: Redis unavailable, card caching disabled: %v", err)
		} else {
			cache = redisCache
			defer redisCache.Close()
		}
	}

	var publisher messaging.Publisher
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			log.Printf("WARNING: NATS unavailable, refresh hints disabled: %v", err)
		} else {
			publisher = client
			defer client.Close()
		}
	}

	feedReader := reader.New(repo, reader.Options{
		DefaultLimit: cfg.Activity.DefaultLimit,
		MaxLimit:     cfg.Activity.MaxLimit,
	})
	aggregator := insights.NewAggregator(repo, logger, cfg.Insights.QueryTimeout)
	cardProvider := insights.NewCardProvider(aggregator, repo, cache, cfg.Insights.CardCacheTTL, publisher, logger)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	handler := handlers.New(feedReader, aggregator, cardProvider, logger)
	router := server.NewRouter(handler, verifier, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
