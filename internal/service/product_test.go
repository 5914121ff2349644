package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

func newProductService(t *testing.T) (service.ProductService, *memProductRepo, *memOutboxRepo) {
	t.Helper()

	productRepo := newMemProductRepo()
	outboxRepo := &memOutboxRepo{}
	svc := service.NewProductService(fakeDB{}, validator.NewDefaultValidator(), productRepo, outboxRepo)
	return svc, productRepo, outboxRepo
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, outboxRepo := newProductService(t)

	created, err := svc.CreateProduct(ctx, service.CreateProductParams{
		Name:         ptr.New("Velvet Luxury Blue"),
		Price:        ptr.New(129.99),
		CountInStock: ptr.New(5),
	})
	require.NoError(t, err)

	assert.Equal(t, uuid.Version(7), created.ID.Version())
	assert.Equal(t, "Velvet Luxury Blue", created.Name)
	assert.Equal(t, 129.99, created.Price)
	assert.Equal(t, 5, created.CountInStock)
	assert.Empty(t, created.Brand)
	assert.Zero(t, created.Rating)
	assert.Nil(t, created.UserID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	require.Len(t, outboxRepo.msgs, 1)
	msg := outboxRepo.msgs[0]
	assert.Equal(t, event.TopicProductCreated, msg.Topic)
	require.NotNil(t, msg.PartitionKey)
	assert.Equal(t, created.ID.String(), *msg.PartitionKey)

	var payload event.ProductEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, created.ID.String(), payload.ProductID)
	assert.Equal(t, 129.99, payload.Price)
}

func TestProductTimestampsMatchStoredPrecision(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProductService(t)

	berlin := time.FixedZone("CET", 3600)
	createdAt := time.Date(2026, 10, 16, 1, 0, 0, 123456789, berlin)
	service.SetProductServiceClock(svc, func() time.Time { return createdAt })

	created, err := svc.CreateProduct(ctx, service.CreateProductParams{Name: ptr.New("Sheer White")})
	require.NoError(t, err)

	want := time.Date(2026, 10, 16, 0, 0, 0, 123456000, time.UTC)
	assert.Equal(t, want, created.CreatedAt)
	assert.Equal(t, want, created.UpdatedAt)

	updatedAt := createdAt.Add(time.Second + 999)
	service.SetProductServiceClock(svc, func() time.Time { return updatedAt })

	replaced, err := svc.ReplaceProduct(ctx, created.ID, service.ReplaceProductParams{Name: "Sheer Ivory"})
	require.NoError(t, err)
	assert.Equal(t, want, replaced.CreatedAt)
	assert.Equal(t, updatedAt.UTC().Truncate(time.Microsecond), replaced.UpdatedAt)
	assert.Zero(t, replaced.UpdatedAt.Nanosecond()%int(time.Microsecond))
}

func TestCreateProductEmptyBody(t *testing.T) {
	svc, _, _ := newProductService(t)

	created, err := svc.CreateProduct(context.Background(), service.CreateProductParams{})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Empty(t, created.Name)
	assert.Zero(t, created.Price)
	assert.False(t, created.InStock())
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name   string
		params service.CreateProductParams
	}{
		{name: "negative price", params: service.CreateProductParams{Price: ptr.New(-1.0)}},
		{name: "negative stock", params: service.CreateProductParams{CountInStock: ptr.New(-3)}},
		{name: "rating above five", params: service.CreateProductParams{Rating: ptr.New(5.5)}},
		{name: "negative reviews", params: service.CreateProductParams{NumReviews: ptr.New(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, productRepo, outboxRepo := newProductService(t)

			_, err := svc.CreateProduct(context.Background(), tt.params)
			require.Error(t, err)
			assert.True(t, validator.IsValidationError(err))
			assert.Empty(t, productRepo.products)
			assert.Empty(t, outboxRepo.msgs)
		})
	}
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProductService(t)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	first, err := svc.CreateProduct(ctx, service.CreateProductParams{Name: ptr.New("first")})
	require.NoError(t, err)
	second, err := svc.CreateProduct(ctx, service.CreateProductParams{Name: ptr.New("second")})
	require.NoError(t, err)

	products, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, first.ID, products[0].ID)
	assert.Equal(t, second.ID, products[1].ID)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _, _ := newProductService(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
}

func TestReplaceProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, outboxRepo := newProductService(t)

	created, err := svc.CreateProduct(ctx, service.CreateProductParams{
		UserID:      ptr.New("admin"),
		Name:        ptr.New("Linen Natural"),
		Brand:       ptr.New("Curtain Co"),
		Description: ptr.New("Light filtering"),
		Price:       ptr.New(49.5),
		Rating:      ptr.New(4.5),
		NumReviews:  ptr.New(12),
	})
	require.NoError(t, err)

	replaced, err := svc.ReplaceProduct(ctx, created.ID, service.ReplaceProductParams{
		Name:         "Linen Natural v2",
		Price:        59,
		CountInStock: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, created.UserID, replaced.UserID)
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)
	assert.Equal(t, "Linen Natural v2", replaced.Name)
	assert.Equal(t, 59.0, replaced.Price)
	assert.Equal(t, 3, replaced.CountInStock)
	// Omitted fields are cleared.
	assert.Empty(t, replaced.Brand)
	assert.Empty(t, replaced.Description)
	assert.Zero(t, replaced.Rating)
	assert.Zero(t, replaced.NumReviews)
	assert.False(t, replaced.UpdatedAt.Before(created.UpdatedAt))

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, replaced, got)

	assert.Equal(t, []string{event.TopicProductCreated, event.TopicProductUpdated}, outboxRepo.topics())
}

func TestReplaceProductNotFound(t *testing.T) {
	svc, _, outboxRepo := newProductService(t)

	_, err := svc.ReplaceProduct(context.Background(), uuid.New(), service.ReplaceProductParams{Name: "x"})
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	assert.Empty(t, outboxRepo.msgs)
}

func TestReplaceProductValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProductService(t)

	created, err := svc.CreateProduct(ctx, service.CreateProductParams{Name: ptr.New("keep")})
	require.NoError(t, err)

	_, err = svc.ReplaceProduct(ctx, created.ID, service.ReplaceProductParams{Rating: 7})
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Name)
}

func TestPatchProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProductService(t)

	created, err := svc.CreateProduct(ctx, service.CreateProductParams{
		Name:         ptr.New("Blackout Grey"),
		Brand:        ptr.New("Curtain Co"),
		Price:        ptr.New(89.0),
		CountInStock: ptr.New(10),
	})
	require.NoError(t, err)

	patched, err := svc.PatchProduct(ctx, created.ID, service.PatchProductParams{
		CountInStock: ptr.New(0),
	})
	require.NoError(t, err)

	assert.Equal(t, "Blackout Grey", patched.Name)
	assert.Equal(t, "Curtain Co", patched.Brand)
	assert.Equal(t, 89.0, patched.Price)
	assert.Equal(t, 0, patched.CountInStock)
	assert.False(t, patched.InStock())
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, outboxRepo := newProductService(t)

	created, err := svc.CreateProduct(ctx, service.CreateProductParams{Name: ptr.New("gone")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	_, err = svc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)

	err = svc.DeleteProduct(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)

	assert.Equal(t, []string{event.TopicProductCreated, event.TopicProductDeleted}, outboxRepo.topics())
}
