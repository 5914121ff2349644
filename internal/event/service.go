package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/mq"
)

// Service consumes catalog events: an audit trail of product changes and
// out-of-stock alerts.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	for _, topic := range ProductTopics {
		if err := s.mqConsumer.RegisterHandler(topic, s.consumeProductEvent); err != nil {
			return nil, fmt.Errorf("register %s handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return CleanupFunc(mqCleanup), nil
}

func (s *Service) consumeProductEvent(ctx context.Context, topic string, payload []byte) error {
	var ev ProductEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("unmarshal product event: %w", err)
	}

	if err := s.handleProductEvent(ctx, topic, ev); err != nil {
		return fmt.Errorf("handle %s: %w", topic, err)
	}

	return nil
}
