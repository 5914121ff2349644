package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/log"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/seed"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/legacy"
)

const (
	sourceSample = "sample"
	sourceMongo  = "mongo"
)

func main() {
	destroy := flag.Bool("d", false, "delete every product instead of importing")
	source := flag.String("source", sourceSample, "where to import products from: sample or mongo")
	flag.Parse()

	if err := run(*destroy, *source); err != nil {
		fmt.Printf("error running seed application: %v\n", err)
		os.Exit(1)
	}
}

func run(destroy bool, source string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Admin    config.Admin
		Mongo    config.Mongo
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)
	seeder := seed.New(logger, dbClient, repository.NewProductRepository(dbClient))

	if destroy {
		if _, err := seeder.Destroy(ctx); err != nil {
			return fmt.Errorf("error destroying data: %w", err)
		}
		return nil
	}

	products, err := loadProducts(ctx, logger, source, cfg.Admin, cfg.Mongo)
	if err != nil {
		return err
	}

	if _, err := seeder.Import(ctx, products); err != nil {
		return fmt.Errorf("error importing data: %w", err)
	}

	return nil
}

func loadProducts(
	ctx context.Context,
	logger *slog.Logger,
	source string,
	admin config.Admin,
	mongoCfg config.Mongo,
) ([]model.Product, error) {
	switch source {
	case sourceSample:
		products, err := seed.SampleProducts(admin.Email, time.Now())
		if err != nil {
			return nil, fmt.Errorf("error loading sample products: %w", err)
		}
		return products, nil

	case sourceMongo:
		src, err := legacy.NewMongoSource(ctx, mongoCfg)
		if err != nil {
			return nil, fmt.Errorf("error connecting to legacy mongo: %w", err)
		}
		defer func() {
			if err := src.Close(ctx); err != nil {
				logger.ErrorContext(ctx, "error closing legacy mongo", slog.Any("error", err))
			}
		}()

		products, err := src.Products(ctx)
		if err != nil {
			return nil, fmt.Errorf("error reading legacy products: %w", err)
		}
		logger.InfoContext(ctx, "legacy products loaded",
			slog.Int("count", len(products)),
			slog.String("collection", mongoCfg.Collection))
		return products, nil

	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}
