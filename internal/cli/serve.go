package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quizwire/quizwire/internal/api"
	"github.com/quizwire/quizwire/internal/config"
	"github.com/quizwire/quizwire/internal/factory"
	"github.com/quizwire/quizwire/internal/grading"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Info("config loaded", slog.String("path", configPath))
	}

	strategy := grading.FromName(cfg.Scoring.Strategy, cfg.Scoring.DecayFloor)

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		CatalogTTL:  config.Duration(cfg.Catalog.CacheTTL, 10*time.Minute),
		ArchiveTTL:  config.Duration(cfg.Archive.TTL, 0),
		Strategy:    strategy,
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		factoryCfg.RedisConfig = &factory.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		}
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if cfg.Catalog.QuizFile != "" {
		n, err := app.LoadQuizFile(cfg.Catalog.QuizFile)
		if err != nil {
			return err
		}
		logger.Info("quizzes loaded",
			slog.String("path", cfg.Catalog.QuizFile),
			slog.Int("count", n))
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Coordinator: app.Coordinator,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	if cfg.Server.Port != 0 {
		serverConfig.Port = cfg.Server.Port
	}
	server := api.NewServer(router, serverConfig, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			logger.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Reclaim codes from sessions nobody started and from ended ones
	// past their lingering window
	idleTTL := config.Duration(cfg.Session.IdleTTL, 30*time.Minute)
	sweepInterval := config.Duration(cfg.Session.SweepInterval, time.Minute)
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := app.Coordinator.SweepIdleSessions(idleTTL); n > 0 {
					logger.Info("idle sessions swept", slog.Int("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
