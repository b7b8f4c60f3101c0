package bootstrap

import (
	"context"
	"log/slog"

	"servicebay/internal/infra/lock"
	"servicebay/internal/pkg/config"
	"servicebay/internal/usecase/commands"

	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewCaptureLock,
	),
)

// NewCaptureLock falls back to an in-process lock when Redis is disabled,
// which is only safe for a single instance.
func NewCaptureLock(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (commands.CaptureLock, error) {
	if !cfg.Redis.Enabled {
		logger.Warn("redis disabled, capture lock is process-local")
		return lock.NewLocalLock(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Booking.DirectoryTimeout)
	defer cancel()
	client, err := lock.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return lock.NewRedisLock(client, cfg.Redis.CaptureLockTTL, cfg.Redis.CaptureLockWait, logger), nil
}
