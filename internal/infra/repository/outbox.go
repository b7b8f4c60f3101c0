package repository

import (
	"context"
	"encoding/json"
	"time"

	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	insertOutboxSQL = `
INSERT INTO outbox_events (topic, payload, status, run_at)
VALUES ($1, $2, 'queued', $3)`

	// SKIP LOCKED lets several relay instances drain the queue without double delivery.
	claimOutboxSQL = `
SELECT id, topic, payload, attempts, run_at
FROM outbox_events
WHERE status = 'queued' AND run_at <= $1
ORDER BY run_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED`

	markOutboxSentSQL = `
UPDATE outbox_events SET status = 'sent', updated_at = $2 WHERE id = $1`

	markOutboxFailedSQL = `
UPDATE outbox_events
SET attempts = attempts + 1, last_error = $2, run_at = $3,
	status = CASE WHEN $4 THEN 'dead' ELSE 'queued' END, updated_at = now()
WHERE id = $1`
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, topic string, payload any, runAt time.Time) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to encode outbox payload")
	}
	if _, err := r.db.Exec(ctx, insertOutboxSQL, topic, body, runAt); err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

func (r *OutboxRepository) ClaimBatch(ctx context.Context, limit int32, now time.Time) ([]shared.OutboxEvent, error) {
	rows, err := r.db.Query(ctx, claimOutboxSQL, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox events", err)
	}
	defer rows.Close()

	var events []shared.OutboxEvent
	for rows.Next() {
		var e shared.OutboxEvent
		if err := rows.Scan(&e.ID, &e.Topic, &e.Payload, &e.Attempts, &e.RunAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return events, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error {
	if _, err := r.db.Exec(ctx, markOutboxSentSQL, id, now); err != nil {
		return infra.WrapRepoErr("failed to mark outbox event sent", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, nextRun time.Time, dead bool) error {
	if _, err := r.db.Exec(ctx, markOutboxFailedSQL, id, lastErr, nextRun, dead); err != nil {
		return infra.WrapRepoErr("failed to mark outbox event failed", err)
	}
	return nil
}
