package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

// ErrNotFound is returned when a lookup, update or delete matches no row.
var ErrNotFound = errors.New("not found")

const productColumns = `id, user_id, name, image, brand, category, description,
	price, count_in_stock, rating, num_reviews, created_at, updated_at`

var productCopyColumns = []string{
	"id", "user_id", "name", "image", "brand", "category", "description",
	"price", "count_in_stock", "rating", "num_reviews", "created_at", "updated_at",
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	BulkCreateProducts(ctx context.Context, products []model.Product) (int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	// GetProductForUpdate locks the row until the surrounding transaction ends.
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DeleteAllProducts(ctx context.Context) (int64, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

type productRow struct {
	ID           uuid.UUID      `db:"id"`
	UserID       *string        `db:"user_id"`
	Name         string         `db:"name"`
	Image        string         `db:"image"`
	Brand        string         `db:"brand"`
	Category     string         `db:"category"`
	Description  string         `db:"description"`
	Price        pgtype.Numeric `db:"price"`
	CountInStock int32          `db:"count_in_stock"`
	Rating       float64        `db:"rating"`
	NumReviews   int32          `db:"num_reviews"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args, err := productNamedArgs(product)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (
			@id, @user_id, @name, @image, @brand, @category, @description,
			@price, @count_in_stock, @rating, @num_reviews, @created_at, @updated_at
		)
	`, args); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r productRepository) BulkCreateProducts(ctx context.Context, products []model.Product) (int64, error) {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		stock, reviews, err := int32Counters(p)
		if err != nil {
			return 0, err
		}

		rows = append(rows, []any{
			p.ID, p.UserID, p.Name, p.Image, p.Brand, p.Category, p.Description,
			floatToNumeric(p.Price), stock, p.Rating, reviews, p.CreatedAt, p.UpdatedAt,
		})
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"products"}, productCopyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy products: %w", err)
	}

	return n, nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return r.getProduct(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r productRepository) GetProductForUpdate(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return r.getProduct(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r productRepository) getProduct(ctx context.Context, query string, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return rowToModelProduct(row)
}

func (r productRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		product, err := rowToModelProduct(row)
		if err != nil {
			return nil, fmt.Errorf("convert product %s: %w", row.ID, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// UpdateProduct overwrites every mutable column. user_id and created_at are
// never changed after creation.
func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	args, err := productNamedArgs(product)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products SET
			name           = @name,
			image          = @image,
			brand          = @brand,
			category       = @category,
			description    = @description,
			price          = @price,
			count_in_stock = @count_in_stock,
			rating         = @rating,
			num_reviews    = @num_reviews,
			updated_at     = @updated_at
		WHERE id = @id
	`, args)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
	}

	return nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r productRepository) DeleteAllProducts(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}

	return tag.RowsAffected(), nil
}

func productNamedArgs(p model.Product) (pgx.NamedArgs, error) {
	stock, reviews, err := int32Counters(p)
	if err != nil {
		return nil, err
	}

	return pgx.NamedArgs{
		"id":             p.ID,
		"user_id":        p.UserID,
		"name":           p.Name,
		"image":          p.Image,
		"brand":          p.Brand,
		"category":       p.Category,
		"description":    p.Description,
		"price":          floatToNumeric(p.Price),
		"count_in_stock": stock,
		"rating":         p.Rating,
		"num_reviews":    reviews,
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}, nil
}

func int32Counters(p model.Product) (stock, reviews int32, err error) {
	if p.CountInStock > math.MaxInt32 || p.CountInStock < math.MinInt32 {
		return 0, 0, fmt.Errorf("count in stock out of range: %d", p.CountInStock)
	}
	if p.NumReviews > math.MaxInt32 || p.NumReviews < math.MinInt32 {
		return 0, 0, fmt.Errorf("num reviews out of range: %d", p.NumReviews)
	}
	return int32(p.CountInStock), int32(p.NumReviews), nil
}

func rowToModelProduct(row productRow) (model.Product, error) {
	price, err := numericToFloat(row.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price: %w", err)
	}

	return model.Product{
		ID:           row.ID,
		UserID:       row.UserID,
		Name:         row.Name,
		Image:        row.Image,
		Brand:        row.Brand,
		Category:     row.Category,
		Description:  row.Description,
		Price:        price,
		CountInStock: int(row.CountInStock),
		Rating:       row.Rating,
		NumReviews:   int(row.NumReviews),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}, nil
}
