package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/outbox"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
)

// Service moves catalog events from the outbox table to Kafka.
type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer
	metrics       *metrics

	stopChan chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
	reg prometheus.Registerer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		metrics:       newMetrics(reg),
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

// Run starts polling in the background. The returned cleanup waits for the
// in-flight batch, cancelling it after 5 seconds.
func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
			cancel()
			<-stoppedChan
		}
		cancel()
	}
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			n, err := s.RelayBatch(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
				continue
			}
			if n > 0 {
				s.logger.InfoContext(ctx, "relayed outbox msgs", slog.Int("count", n))
			}
		}
	}
}

// RelayBatch publishes one batch of unprocessed messages and marks each as
// processed, recording the produce error if any. It returns the batch size.
func (s *Service) RelayBatch(ctx context.Context) (int, error) {
	var count int

	err := s.db.WithTx(ctx, func(db db.DB) error {
		outboxMsgs, err := s.outboxMsgRepo.
			WithDB(db).
			ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
				//nolint:gosec
				BatchSize: int32(s.cfg.BatchSize),
			})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		count = len(outboxMsgs)
		if count == 0 {
			return nil
		}
		s.metrics.batchSize.Observe(float64(count))

		items := make([]repository.BulkUpdateOutboxMsgsItem, 0, count)
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)

		for _, msg := range outboxMsgs {
			wg.Go(func() {
				item := repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}
				if err := s.produce(ctx, msg); err != nil {
					s.logger.ErrorContext(ctx, "error producing message",
						slog.String("outbox_msg_id", msg.ID.String()),
						slog.String("topic", msg.Topic),
						slog.Any("error", err),
					)
					item.Error = ptr.New(err.Error())
					s.metrics.messages.WithLabelValues(msg.Topic, resultFailed).Inc()
				} else {
					s.metrics.messages.WithLabelValues(msg.Topic, resultProduced).Inc()
				}

				mu.Lock()
				items = append(items, item)
				mu.Unlock()
			})
		}

		wg.Wait()

		if err := s.outboxMsgRepo.
			WithDB(db).
			BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
				Items: items,
			}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		return nil
	})

	return count, err
}

func (s *Service) produce(ctx context.Context, msg repository.ListUnprocessedOutboxMsgsResult) error {
	// continue the trace of the request that wrote the message
	msgCtx := outbox.ExtractContextFromHeaders(ctx, msg.Headers)

	if err := s.mqProducer.Produce(msgCtx, mq.ProduceMsg{
		Topic:        msg.Topic,
		Headers:      msg.Headers,
		Payload:      msg.Payload,
		PartitionKey: msg.PartitionKey,
	}); err != nil {
		return fmt.Errorf("produce message: %w", err)
	}

	return nil
}
