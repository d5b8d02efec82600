package main

import (
	"context"
	"flag"
	"log"
	"os"

	"storefront-api/internal/config"
	"storefront-api/internal/db"
	productrepo "storefront-api/internal/repository/product"
	autofillsvc "storefront-api/internal/service/autofill"
	"storefront-api/internal/storage"
)

func main() {
	productID := flag.String("product", "", "product slug or id to backfill")
	flag.Parse()

	logger := log.New(os.Stdout, "[autofill] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if *productID == "" {
		logger.Fatal("usage: autofill -product <slug-or-id>")
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	store, err := storage.NewR2(cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("init storage client: %v", err)
	}

	svc := autofillsvc.New(productrepo.NewPostgres(pool, logger), store, logger, cfg.CallTimeout)
	updates, err := svc.Run(ctx, *productID)
	if err != nil {
		logger.Fatalf("auto-fill %s: %v", *productID, err)
	}

	if len(updates) == 0 {
		logger.Printf("product %s: metadata already complete", *productID)
		return
	}
	for field, value := range updates {
		logger.Printf("product %s: %s = %v", *productID, field, value)
	}
}
