package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

// newTestDB connects to POSTGRES_URL, applies migrations and empties the
// catalog tables before and after the test. The database is wiped, so point
// POSTGRES_URL at a disposable one.
func newTestDB(t *testing.T) *db.Client {
	t.Helper()

	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL is not set")
	}

	ctx := context.Background()
	pool, err := db.NewPgxPool(ctx, config.Postgres{
		URL:      url,
		MaxConns: 4,
		MinConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(pool))

	client := db.NewClient(pool)
	truncate := func() {
		_, err := client.Exec(ctx, `TRUNCATE products, outbox_messages`)
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(truncate)

	return client
}

func newTestProduct(t *testing.T, name string, createdAt time.Time) model.Product {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return model.Product{
		ID:           id,
		UserID:       ptr.New("admin@curtain.com"),
		Name:         name,
		Image:        "/uploads/image-1.jpg",
		Brand:        "Curtain Co",
		Category:     "Blackout",
		Description:  "<p>Thermal lined</p>",
		Price:        129.99,
		CountInStock: 4,
		Rating:       4.5,
		NumReviews:   12,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestProductRepositoryPostgres(t *testing.T) {
	client := newTestDB(t)
	repo := repository.NewProductRepository(client)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 0, 0, 0, 123456000, time.UTC)

	t.Run("Should list an empty table as an empty slice", func(t *testing.T) {
		products, err := repo.ListAllProducts(ctx)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("Should read back what was created", func(t *testing.T) {
		product := newTestProduct(t, "Velvet Luxury Blue", base)
		require.NoError(t, repo.CreateProduct(ctx, product))

		got, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product, got)
	})

	t.Run("Should list by creation time", func(t *testing.T) {
		later := newTestProduct(t, "later", base.Add(2*time.Second))
		earlier := newTestProduct(t, "earlier", base.Add(time.Second))
		require.NoError(t, repo.CreateProduct(ctx, later))
		require.NoError(t, repo.CreateProduct(ctx, earlier))

		products, err := repo.ListAllProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Velvet Luxury Blue", products[0].Name)
		assert.Equal(t, earlier.ID, products[1].ID)
		assert.Equal(t, later.ID, products[2].ID)
	})

	t.Run("Should overwrite every mutable column on update", func(t *testing.T) {
		product := newTestProduct(t, "Linen Natural", base)
		require.NoError(t, repo.CreateProduct(ctx, product))

		replaced := model.Product{
			ID:        product.ID,
			UserID:    product.UserID,
			Name:      "Linen Natural v2",
			Price:     59,
			CreatedAt: product.CreatedAt,
			UpdatedAt: base.Add(time.Minute),
		}
		require.NoError(t, repo.UpdateProduct(ctx, replaced))

		got, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, replaced, got)
		assert.Empty(t, got.Brand)
		assert.Zero(t, got.Rating)
	})

	t.Run("Should lock the row inside a transaction", func(t *testing.T) {
		product := newTestProduct(t, "Locked", base)
		require.NoError(t, repo.CreateProduct(ctx, product))

		err := client.WithTx(ctx, func(tx db.DB) error {
			got, err := repo.WithDB(tx).GetProductForUpdate(ctx, product.ID)
			if err != nil {
				return err
			}
			assert.Equal(t, product, got)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("Should report missing rows as not found", func(t *testing.T) {
		missing := uuid.New()

		_, err := repo.GetProduct(ctx, missing)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		err = repo.UpdateProduct(ctx, model.Product{ID: missing})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		err = repo.DeleteProduct(ctx, missing)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Should delete a product", func(t *testing.T) {
		product := newTestProduct(t, "Doomed", base)
		require.NoError(t, repo.CreateProduct(ctx, product))

		require.NoError(t, repo.DeleteProduct(ctx, product.ID))

		_, err := repo.GetProduct(ctx, product.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestProductServicePostgresRoundTrip(t *testing.T) {
	client := newTestDB(t)
	ctx := context.Background()

	productRepo := repository.NewProductRepository(client)
	svc := service.NewProductService(
		client,
		validator.NewDefaultValidator(),
		productRepo,
		repository.NewOutboxMsgRepository(client),
	)

	created, err := svc.CreateProduct(ctx, service.CreateProductParams{
		Name:  ptr.New("Sheer White"),
		Price: ptr.New(24.95),
	})
	require.NoError(t, err)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	replaced, err := svc.ReplaceProduct(ctx, created.ID, service.ReplaceProductParams{
		Name:         "Sheer Ivory",
		CountInStock: 2,
	})
	require.NoError(t, err)

	got, err = svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, replaced, got)

	patched, err := svc.PatchProduct(ctx, created.ID, service.PatchProductParams{Price: ptr.New(30.0)})
	require.NoError(t, err)

	got, err = svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, patched, got)

	msgs, err := repository.NewOutboxMsgRepository(client).
		ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 10})
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}
