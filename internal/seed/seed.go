// Package seed loads and clears catalog sample data.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

//go:embed products.json
var sampleProductsJSON []byte

type sampleProduct struct {
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
	Rating       float64 `json:"rating"`
	NumReviews   int     `json:"numReviews"`
}

// SampleProducts returns the bundled catalog owned by owner. Creation times
// are spaced a millisecond apart from now so the listing order matches the
// file order.
func SampleProducts(owner string, now time.Time) ([]model.Product, error) {
	var samples []sampleProduct
	if err := json.Unmarshal(sampleProductsJSON, &samples); err != nil {
		return nil, fmt.Errorf("unmarshal sample products: %w", err)
	}

	now = now.UTC().Truncate(time.Microsecond)
	products := make([]model.Product, 0, len(samples))
	for i, sample := range samples {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generate uuid v7: %w", err)
		}

		createdAt := now.Add(time.Duration(i) * time.Millisecond)
		p := model.Product{
			ID:           id,
			Name:         sample.Name,
			Image:        sample.Image,
			Brand:        sample.Brand,
			Category:     sample.Category,
			Description:  sample.Description,
			Price:        sample.Price,
			CountInStock: sample.CountInStock,
			Rating:       sample.Rating,
			NumReviews:   sample.NumReviews,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		}
		if owner != "" {
			p.UserID = &owner
		}
		products = append(products, p)
	}

	return products, nil
}

// Seeder replaces or clears the product table.
type Seeder struct {
	logger      *slog.Logger
	db          db.DB
	productRepo repository.ProductRepository
}

func New(logger *slog.Logger, db db.DB, productRepo repository.ProductRepository) *Seeder {
	return &Seeder{
		logger:      logger.With(slog.String("service", "seed")),
		db:          db,
		productRepo: productRepo,
	}
}

// Import deletes every product and inserts products in one transaction.
func (s *Seeder) Import(ctx context.Context, products []model.Product) (int64, error) {
	var inserted int64

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)

		deleted, err := productRepo.DeleteAllProducts(ctx)
		if err != nil {
			return fmt.Errorf("product repository delete all products: %w", err)
		}
		s.logger.InfoContext(ctx, "existing products removed", slog.Int64("count", deleted))

		inserted, err = productRepo.BulkCreateProducts(ctx, products)
		if err != nil {
			return fmt.Errorf("product repository bulk create products: %w", err)
		}

		return nil
	}); err != nil {
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "data imported", slog.Int64("count", inserted))

	return inserted, nil
}

// Destroy deletes every product.
func (s *Seeder) Destroy(ctx context.Context) (int64, error) {
	deleted, err := s.productRepo.DeleteAllProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("product repository delete all products: %w", err)
	}

	s.logger.InfoContext(ctx, "data destroyed", slog.Int64("count", deleted))

	return deleted, nil
}
