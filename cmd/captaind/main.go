package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tableserve/captain/api/routes"
	"github.com/tableserve/captain/internal/fallback"
	"github.com/tableserve/captain/internal/orchestrator"
	"github.com/tableserve/captain/internal/orders"
	"github.com/tableserve/captain/internal/printer"
	"github.com/tableserve/captain/internal/store"
	"github.com/tableserve/captain/pkg/config"
	"github.com/tableserve/captain/pkg/logger"
	"github.com/tableserve/captain/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "captaind"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "captaind",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeClient, err := store.New(ctx, cfg.Store, logg)
	if err != nil {
		logg.Error(ctx, "failed to open local store", err)
		os.Exit(1)
	}
	defer func() {
		if err := storeClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing local store", err)
		}
	}()

	registry := prometheus.NewRegistry()
	printMetrics := metrics.NewPrintMetrics(registry)

	adapter, err := printer.NewBLEAdapter()
	if err != nil {
		logg.Error(ctx, "failed to enable BLE adapter", err)
		os.Exit(1)
	}

	settings := store.NewPrinterSettings(storeClient.DB())
	transport, err := printer.NewTransport(adapter, settings, cfg.Printer, logg, printMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create printer transport", err)
		os.Exit(1)
	}
	adapter.SetDisconnectHandler(func() {
		transport.OnDisconnected(context.Background())
	})

	if err := transport.Reconnect(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "reason", err.Error()), "no printer connected at startup")
	}

	orderClient, err := orders.NewClient(cfg.OrderAPI, logg)
	if err != nil {
		logg.Error(ctx, "failed to create order API client", err)
		os.Exit(1)
	}

	renderer, err := fallback.NewRenderer()
	if err != nil {
		logg.Error(ctx, "failed to build fallback templates", err)
		os.Exit(1)
	}

	orchestratorSvc, err := orchestrator.NewService(
		transport,
		orderClient,
		store.NewSnapshots(storeClient.DB()),
		renderer,
		cfg.Outlet,
		logg,
		printMetrics,
	)
	if err != nil {
		logg.Error(ctx, "failed to create print orchestrator", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting captain print agent")

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(cfg, logg, transport, orchestratorSvc, registry),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "captain agent stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(context.Background(), "graceful shutdown failed", err)
		}
		_ = transport.Disconnect(context.Background())
	}
}
