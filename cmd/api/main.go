package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-api/internal/config"
	"storefront-api/internal/db"
	"storefront-api/internal/httpserver"
	productrepo "storefront-api/internal/repository/product"
	autofillsvc "storefront-api/internal/service/autofill"
	downloadsvc "storefront-api/internal/service/download"
	"storefront-api/internal/storage"
	"storefront-api/internal/tasks"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	// Fail fast on storage misconfiguration: the error names every
	// missing key instead of surfacing on the first download request.
	store, err := storage.NewR2(cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("init storage client: %v", err)
	}

	runner := tasks.NewRunner(logger, cfg.CallTimeout)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	downloadService := downloadsvc.New(productRepo, store, runner, logger, cfg.CallTimeout)
	autoFillService := autofillsvc.New(productRepo, store, logger, cfg.CallTimeout)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Download: downloadService,
		AutoFill: autoFillService,
	}, httpserver.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		ReleaseMode:    cfg.ReleaseMode,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}

	// Let in-flight bookkeeping finish before the process exits.
	runner.Wait()
}
