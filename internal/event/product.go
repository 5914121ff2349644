package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
)

const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"
)

// ProductTopics lists every catalog topic the event service consumes.
var ProductTopics = []string{
	TopicProductCreated,
	TopicProductUpdated,
	TopicProductDeleted,
}

// ProductEvent is the payload written to the outbox for every catalog change.
type ProductEvent struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"count_in_stock"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewProductEvent(p model.Product, occurredAt time.Time) ProductEvent {
	return ProductEvent{
		ProductID:    p.ID.String(),
		Name:         p.Name,
		Category:     p.Category,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		OccurredAt:   occurredAt,
	}
}

func (e ProductEvent) attrs() []any {
	return []any{
		slog.String("product_id", e.ProductID),
		slog.String("name", e.Name),
		slog.String("category", e.Category),
		slog.Float64("price", e.Price),
		slog.Int("count_in_stock", e.CountInStock),
	}
}

func (s *Service) handleProductEvent(ctx context.Context, topic string, ev ProductEvent) error {
	switch topic {
	case TopicProductCreated:
		s.logger.InfoContext(ctx, "product added to catalog", ev.attrs()...)
	case TopicProductUpdated:
		s.logger.InfoContext(ctx, "product updated", ev.attrs()...)
		if ev.CountInStock <= 0 {
			s.logger.WarnContext(ctx, "product out of stock", ev.attrs()...)
		}
	case TopicProductDeleted:
		s.logger.InfoContext(ctx, "product removed from catalog", ev.attrs()...)
	}

	return nil
}
