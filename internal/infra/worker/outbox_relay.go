package worker

import (
	"context"
	"log/slog"
	"time"

	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/config"
	"servicebay/internal/usecase/shared"
)

const maxRelayBackoff = 10 * time.Minute

// EventPublisher is satisfied by mq.Publisher and mq.LogPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, key string, body []byte) error
}

// OutboxRelay drains outbox_events to the broker. Delivery is at least once.
type OutboxRelay struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	clock     clock.Clock
	cfg       config.MQConfig
	logger    *slog.Logger
}

func NewOutboxRelay(uow shared.UnitOfWork, publisher EventPublisher, clk clock.Clock, cfg config.MQConfig, logger *slog.Logger) *OutboxRelay {
	return &OutboxRelay{uow: uow, publisher: publisher, clock: clk, cfg: cfg, logger: logger}
}

func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("outbox relay failed", "error", err)
			}
		}
	}
}

// Drain relays one claimed batch and reports how many events were delivered.
func (r *OutboxRelay) Drain(ctx context.Context) (int, error) {
	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()
		events, err := tx.Outbox().ClaimBatch(ctx, r.cfg.BatchSize, now)
		if err != nil {
			return err
		}

		for _, e := range events {
			if pubErr := r.publisher.Publish(ctx, e.Topic, e.Payload); pubErr != nil {
				attempts := e.Attempts + 1
				dead := r.cfg.MaxAttempts > 0 && attempts >= r.cfg.MaxAttempts
				if dead {
					r.logger.Error("outbox event dead-lettered", "id", e.ID, "topic", e.Topic, "attempts", attempts, "error", pubErr)
				}
				if err := tx.Outbox().MarkFailed(ctx, e.ID, pubErr.Error(), now.Add(relayBackoff(attempts)), dead); err != nil {
					return err
				}
				continue
			}
			if err := tx.Outbox().MarkSent(ctx, e.ID, now); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	return sent, err
}

func relayBackoff(attempts int32) time.Duration {
	d := time.Second
	for i := int32(1); i < attempts; i++ {
		d *= 2
		if d >= maxRelayBackoff {
			return maxRelayBackoff
		}
	}
	return d
}
