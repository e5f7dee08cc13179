package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seopanel-go/internal/config"
	"seopanel-go/internal/handler"
	"seopanel-go/pkg/backend"
	"seopanel-go/pkg/logger"
	"seopanel-go/pkg/prefs"
)

func main() {
	var (
		configPath = flag.String("config", "config/dev.yaml", "Configuration file path")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if err := run(*configPath, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "seopanel: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	manager := config.NewManager()
	cfg, err := manager.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if debug {
		cfg.Logger.Level = "debug"
	}
	logger.SetLogger(logger.New(cfg.Logger))
	log := logger.GetLogger().WithComponent("main")

	store, err := prefs.NewFileStore(cfg.Prefs.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open preference store: %w", err)
	}

	client, err := backend.New(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		Timeout:        time.Duration(cfg.Backend.TimeoutS) * time.Second,
		AuditRateLimit: cfg.Audit.RateLimit,
		AuditBurst:     cfg.Audit.Burst,
	})
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}

	app := handler.NewRouter(handler.New(client, store))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Server listening")
		errCh <- app.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
