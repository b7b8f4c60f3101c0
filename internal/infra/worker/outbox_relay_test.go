//go:build unit

package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/config"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failedMark struct {
	nextRun time.Time
	dead    bool
}

type fakeOutbox struct {
	shared.OutboxRepository
	batch  []shared.OutboxEvent
	sent   []uuid.UUID
	failed map[uuid.UUID]failedMark
}

func (o *fakeOutbox) ClaimBatch(context.Context, int32, time.Time) ([]shared.OutboxEvent, error) {
	return o.batch, nil
}

func (o *fakeOutbox) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	o.sent = append(o.sent, id)
	return nil
}

func (o *fakeOutbox) MarkFailed(_ context.Context, id uuid.UUID, _ string, nextRun time.Time, dead bool) error {
	o.failed[id] = failedMark{nextRun: nextRun, dead: dead}
	return nil
}

type fakeTx struct {
	shared.Tx
	outbox *fakeOutbox
}

func (t fakeTx) Outbox() shared.OutboxRepository { return t.outbox }

type fakeUoW struct{ tx fakeTx }

func (u fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u fakeUoW) CommandReads() shared.CommandReads { return nil }

type fakePublisher struct {
	failTopics map[string]bool
	published  []string
}

func (p *fakePublisher) Publish(_ context.Context, key string, _ []byte) error {
	if p.failTopics[key] {
		return errs.New("broker unreachable")
	}
	p.published = append(p.published, key)
	return nil
}

func TestOutboxRelayDrain(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	ok := shared.OutboxEvent{ID: uuid.New(), Topic: shared.TopicBookingConfirmed, Payload: []byte(`{}`)}
	retry := shared.OutboxEvent{ID: uuid.New(), Topic: shared.TopicJobAssigned, Payload: []byte(`{}`), Attempts: 2}
	dead := shared.OutboxEvent{ID: uuid.New(), Topic: shared.TopicFeedbackSubmitted, Payload: []byte(`{}`), Attempts: 4}

	outbox := &fakeOutbox{batch: []shared.OutboxEvent{ok, retry, dead}, failed: map[uuid.UUID]failedMark{}}
	pub := &fakePublisher{failTopics: map[string]bool{shared.TopicJobAssigned: true, shared.TopicFeedbackSubmitted: true}}
	cfg := config.MQConfig{BatchSize: 10, MaxAttempts: 5}
	relay := NewOutboxRelay(fakeUoW{tx: fakeTx{outbox: outbox}}, pub, clock.NewMockClock(now), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	sent, err := relay.Drain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{shared.TopicBookingConfirmed}, pub.published)
	assert.Equal(t, []uuid.UUID{ok.ID}, outbox.sent)
	assert.Equal(t, failedMark{nextRun: now.Add(4 * time.Second)}, outbox.failed[retry.ID])
	assert.Equal(t, failedMark{nextRun: now.Add(16 * time.Second), dead: true}, outbox.failed[dead.ID])
}

func TestRelayBackoff(t *testing.T) {
	tests := []struct {
		attempts int32
		want     time.Duration
	}{
		{attempts: 1, want: time.Second},
		{attempts: 2, want: 2 * time.Second},
		{attempts: 5, want: 16 * time.Second},
		{attempts: 10, want: 512 * time.Second},
		{attempts: 11, want: maxRelayBackoff},
		{attempts: 40, want: maxRelayBackoff},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relayBackoff(tt.attempts), "attempts=%d", tt.attempts)
	}
}
