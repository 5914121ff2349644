package event

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	runErr   error
	ran      bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if c.handlers == nil {
		c.handlers = map[string]mq.HandlerFunc{}
	}
	if _, ok := c.handlers[topic]; ok {
		return errors.New("already registered")
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	if c.runErr != nil {
		return nil, c.runErr
	}
	c.ran = true
	return func() {}, nil
}

func newTestService(t *testing.T) (*Service, *fakeConsumer, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	consumer := &fakeConsumer{}

	return New(logger, consumer), consumer, &buf
}

func TestServiceRun(t *testing.T) {
	t.Run("Should register every catalog topic", func(t *testing.T) {
		svc, consumer, _ := newTestService(t)

		cleanup, err := svc.Run(context.Background())
		require.NoError(t, err)
		cleanup()

		assert.True(t, consumer.ran)
		assert.Len(t, consumer.handlers, len(ProductTopics))
		for _, topic := range ProductTopics {
			assert.Contains(t, consumer.handlers, topic)
		}
	})

	t.Run("Should fail when consumer cannot run", func(t *testing.T) {
		svc, consumer, _ := newTestService(t)
		consumer.runErr = errors.New("broker down")

		_, err := svc.Run(context.Background())
		assert.ErrorContains(t, err, "broker down")
	})
}

func TestConsumeProductEvent(t *testing.T) {
	product := model.Product{
		ID:           uuid.MustParse("0194f0a2-7c1e-7000-8000-00000000000a"),
		Name:         "Velvet Luxury Blue",
		Category:     "Bedroom",
		Price:        129.99,
		CountInStock: 0,
	}
	payload, err := json.Marshal(NewProductEvent(product, time.Now()))
	require.NoError(t, err)

	t.Run("Should warn when an update leaves no stock", func(t *testing.T) {
		svc, _, buf := newTestService(t)

		err := svc.consumeProductEvent(context.Background(), TopicProductUpdated, payload)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "product updated")
		assert.Contains(t, buf.String(), "product out of stock")
		assert.Contains(t, buf.String(), product.ID.String())
	})

	t.Run("Should log deletions", func(t *testing.T) {
		svc, _, buf := newTestService(t)

		err := svc.consumeProductEvent(context.Background(), TopicProductDeleted, payload)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "product removed from catalog")
		assert.NotContains(t, buf.String(), "out of stock")
	})

	t.Run("Should reject malformed payloads", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		err := svc.consumeProductEvent(context.Background(), TopicProductCreated, []byte("{"))
		assert.ErrorContains(t, err, "unmarshal product event")
	})
}
