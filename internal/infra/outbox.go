package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/geoguard/platform/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxPoller drains the event_outbox table and publishes events to Kafka.
// When the producer is disabled it still drains the table, logging each
// event, so outbox rows never accumulate in dev setups.
type OutboxPoller struct {
	pool      *pgxpool.Pool
	producer  *KafkaProducer
	outbox    repository.OutboxRepository
	topic     string
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates a new outbox poller.
func NewOutboxPoller(pool *pgxpool.Pool, producer *KafkaProducer, topic string, logger *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		pool:      pool,
		producer:  producer,
		outbox:    repository.NewOutboxRepository(),
		topic:     topic,
		logger:    logger,
		interval:  500 * time.Millisecond,
		batchSize: 100,
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *OutboxPoller) Start(ctx context.Context) {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("outbox poller stopped")
				return
			case <-ticker.C:
				if err := p.Poll(ctx); err != nil {
					p.logger.Error("outbox poll error", "error", err)
				}
			}
		}
	}()
}

// Poll processes one batch of unpublished events.
func (p *OutboxPoller) Poll(ctx context.Context) error {
	rows, err := p.outbox.FetchUnpublished(ctx, p.pool, p.batchSize)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if p.producer.Enabled() {
			value, err := json.Marshal(row.OutboxDraft)
			if err != nil {
				return err
			}
			if err := p.producer.Publish(ctx, p.topic, []byte(row.PartitionKey), value); err != nil {
				return err
			}
		} else {
			p.logger.Info("outbox event",
				"seq_id", row.SeqID,
				"event_id", row.EventID,
				"aggregate_type", row.AggregateType,
				"event_type", row.EventType,
				"aggregate_id", row.AggregateID,
			)
		}
		ids = append(ids, row.SeqID)
	}

	if err := p.outbox.MarkPublished(ctx, p.pool, ids); err != nil {
		return err
	}

	p.logger.Info("processed outbox batch", "count", len(ids))
	return nil
}
