package lock

import (
	"context"
	"log/slog"
	"time"

	"servicebay/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

const retryEvery = 50 * time.Millisecond

type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *slog.Logger
}

func NewRedisLock(client *redis.Client, ttl, wait time.Duration, logger *slog.Logger) *RedisLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLock{client: client, ttl: ttl, wait: wait, logger: logger}
}

// Acquire sets key with NX and a TTL. When another holder owns the key past
// the configured wait, it returns commands.ErrCaptureInProgress.
func (l *RedisLock) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if !time.Now().Before(deadline) {
			return nil, commands.ErrCaptureInProgress
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryEvery):
		}
	}

	release := func() {
		// the caller's context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release capture lock", "key", key, "error", err)
		}
	}
	return release, nil
}
