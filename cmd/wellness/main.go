package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wellness/internal/config"
	"wellness/internal/server"
	"wellness/internal/storage/sqlite"
	"wellness/internal/upstream"
	"wellness/internal/util"
)

func main() {
	configFlag := flag.String("config", util.EnvOrDefault("WELLNESS_CONFIG", "wellness.yaml"), "Path to YAML config file")
	envFlag := flag.String("env-file", util.EnvOrDefault("WELLNESS_ENV_FILE", ".env"), "Path to .env file")
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbFlag := flag.String("db", "", "Path to sqlite database file (overrides config)")
	staticFlag := flag.String("static", "", "Directory with built frontend (overrides config)")
	upstreamFlag := flag.String("upstream", "", "Base URL of the wellness API (overrides config)")
	seedFlag := flag.Int64("seed", 0, "Enrichment seed, 0 picks one from the clock (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configFlag, *envFlag)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addrFlag
		case "db":
			cfg.DBPath = *dbFlag
		case "static":
			cfg.StaticDir = *staticFlag
		case "upstream":
			cfg.UpstreamURL = *upstreamFlag
		case "seed":
			cfg.Seed = *seedFlag
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("wellness dashboard backend",
		slog.String("upstream", cfg.UpstreamURL),
		slog.String("organization", cfg.Organization),
		slog.Int("page_size", cfg.PageSize))

	store, err := sqlite.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	api := upstream.New(cfg.UpstreamURL,
		upstream.WithLogger(logger),
		upstream.WithOrganization(cfg.Organization),
		upstream.WithTimeout(cfg.UpstreamTimeout),
	)

	srv := server.New(store, api, logger, server.Options{
		StaticDir:     cfg.StaticDir,
		PageSize:      cfg.PageSize,
		Seed:          cfg.Seed,
		SeedDemoTasks: cfg.SeedDemoTasks,
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
