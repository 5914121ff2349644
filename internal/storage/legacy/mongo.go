// Package legacy reads products out of the MongoDB database the storefront
// used before the catalog moved to Postgres.
package legacy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
)

// ProductDocument is a product as stored in the legacy collection.
type ProductDocument struct {
	ID           primitive.ObjectID  `bson:"_id"`
	User         *primitive.ObjectID `bson:"user,omitempty"`
	Name         string              `bson:"name"`
	Image        string              `bson:"image"`
	Brand        string              `bson:"brand"`
	Category     string              `bson:"category"`
	Description  string              `bson:"description"`
	Price        float64             `bson:"price"`
	CountInStock int                 `bson:"countInStock"`
	Rating       float64             `bson:"rating"`
	NumReviews   int                 `bson:"numReviews"`
	CreatedAt    time.Time           `bson:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt"`
}

// ToModel converts the document to a catalog product with a fresh id. The
// legacy user reference is kept as its hex string. Documents without
// timestamps fall back to the time embedded in their ObjectID.
func (d ProductDocument) ToModel() (model.Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = d.ID.Timestamp()
	}
	updatedAt := d.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	p := model.Product{
		ID:           id,
		Name:         d.Name,
		Image:        d.Image,
		Brand:        d.Brand,
		Category:     d.Category,
		Description:  d.Description,
		Price:        d.Price,
		CountInStock: d.CountInStock,
		Rating:       d.Rating,
		NumReviews:   d.NumReviews,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
	}
	if d.User != nil && !d.User.IsZero() {
		user := d.User.Hex()
		p.UserID = &user
	}

	return p, nil
}

// MongoSource reads the legacy products collection.
type MongoSource struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoSource(ctx context.Context, cfg config.Mongo) (*MongoSource, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		//nolint:errcheck
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoSource{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		timeout:    cfg.Timeout,
	}, nil
}

// Products returns every legacy product converted to the catalog model,
// oldest first.
func (s *MongoSource) Products(ctx context.Context) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	var docs []ProductDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.ToModel()
		if err != nil {
			return nil, fmt.Errorf("convert product %s: %w", doc.ID.Hex(), err)
		}
		products = append(products, p)
	}

	return products, nil
}

func (s *MongoSource) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.client.Disconnect(ctx)
}
