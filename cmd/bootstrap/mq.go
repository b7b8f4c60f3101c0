package bootstrap

import (
	"context"
	"log/slog"

	"servicebay/internal/infra/mq"
	"servicebay/internal/infra/worker"
	"servicebay/internal/pkg/config"

	"go.uber.org/fx"
)

var MQModule = fx.Module("mq",
	fx.Provide(
		NewEventPublisher,
	),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (worker.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return mq.NewLogPublisher(logger), nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}
