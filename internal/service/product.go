package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/outbox"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

// CreateProductParams is a partial product; nil fields take the zero value.
type CreateProductParams struct {
	UserID       *string  `json:"user"`
	Name         *string  `json:"name"`
	Image        *string  `json:"image"`
	Brand        *string  `json:"brand"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	CountInStock *int     `json:"countInStock" validate:"omitempty,gte=0"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	NumReviews   *int     `json:"numReviews" validate:"omitempty,gte=0"`
}

// ReplaceProductParams is the full editable document. Every field is written.
type ReplaceProductParams struct {
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"gte=0"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	NumReviews   int     `json:"numReviews" validate:"gte=0"`
}

// PatchProductParams changes only the non-nil fields.
type PatchProductParams struct {
	Name         *string  `json:"name"`
	Image        *string  `json:"image"`
	Brand        *string  `json:"brand"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	CountInStock *int     `json:"countInStock" validate:"omitempty,gte=0"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	NumReviews   *int     `json:"numReviews" validate:"omitempty,gte=0"`
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	ReplaceProduct(ctx context.Context, id uuid.UUID, params ReplaceProductParams) (model.Product, error)
	PatchProduct(ctx context.Context, id uuid.UUID, params PatchProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	db            db.DB
	validator     validator.Validator
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           func() time.Time
}

func NewProductService(
	db db.DB,
	validator validator.Validator,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		db:            db,
		validator:     validator,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           time.Now,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list all products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, notFoundOr(err, "product repository get product")
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate create product params: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.timestamp()
	product := model.Product{
		ID:           id,
		UserID:       params.UserID,
		Name:         ptr.ValueOr(params.Name, ""),
		Image:        ptr.ValueOr(params.Image, ""),
		Brand:        ptr.ValueOr(params.Brand, ""),
		Category:     ptr.ValueOr(params.Category, ""),
		Description:  ptr.ValueOr(params.Description, ""),
		Price:        ptr.ValueOr(params.Price, 0),
		CountInStock: ptr.ValueOr(params.CountInStock, 0),
		Rating:       ptr.ValueOr(params.Rating, 0),
		NumReviews:   ptr.ValueOr(params.NumReviews, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return s.writeEvent(ctx, db, event.TopicProductCreated, product)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) ReplaceProduct(ctx context.Context, id uuid.UUID, params ReplaceProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate replace product params: %w", err)
	}

	return s.update(ctx, id, func(current model.Product) model.Product {
		current.Name = params.Name
		current.Image = params.Image
		current.Brand = params.Brand
		current.Category = params.Category
		current.Description = params.Description
		current.Price = params.Price
		current.CountInStock = params.CountInStock
		current.Rating = params.Rating
		current.NumReviews = params.NumReviews
		return current
	})
}

func (s *productService) PatchProduct(ctx context.Context, id uuid.UUID, params PatchProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate patch product params: %w", err)
	}

	return s.update(ctx, id, func(current model.Product) model.Product {
		current.Name = ptr.ValueOr(params.Name, current.Name)
		current.Image = ptr.ValueOr(params.Image, current.Image)
		current.Brand = ptr.ValueOr(params.Brand, current.Brand)
		current.Category = ptr.ValueOr(params.Category, current.Category)
		current.Description = ptr.ValueOr(params.Description, current.Description)
		current.Price = ptr.ValueOr(params.Price, current.Price)
		current.CountInStock = ptr.ValueOr(params.CountInStock, current.CountInStock)
		current.Rating = ptr.ValueOr(params.Rating, current.Rating)
		current.NumReviews = ptr.ValueOr(params.NumReviews, current.NumReviews)
		return current
	})
}

// update applies mutate to the locked current row. ID, owner and creation
// time survive any mutation.
func (s *productService) update(ctx context.Context, id uuid.UUID, mutate func(model.Product) model.Product) (model.Product, error) {
	var updated model.Product

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)

		current, err := productRepo.GetProductForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "product repository get product for update")
		}

		updated = mutate(current)
		updated.ID = current.ID
		updated.UserID = current.UserID
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = s.timestamp()

		if err := productRepo.UpdateProduct(ctx, updated); err != nil {
			return notFoundOr(err, "product repository update product")
		}

		return s.writeEvent(ctx, db, event.TopicProductUpdated, updated)
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)

		product, err := productRepo.GetProductForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "product repository get product for update")
		}

		if err := productRepo.DeleteProduct(ctx, id); err != nil {
			return notFoundOr(err, "product repository delete product")
		}

		return s.writeEvent(ctx, db, event.TopicProductDeleted, product)
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

// timestamp is the current time at the precision of a TIMESTAMPTZ column, so
// the product returned from a write equals the one read back later.
func (s *productService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *productService) writeEvent(ctx context.Context, db db.DB, topic string, product model.Product) error {
	payload, err := json.Marshal(event.NewProductEvent(product, s.now()))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: ptr.New(product.ID.String()),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.ProductNotFoundErr.WrapParent(err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
