package bootstrap

import (
	"context"

	"servicebay/internal/pkg/config"
	"servicebay/internal/pkg/obs"

	"go.uber.org/fx"
)

const serviceVersion = "0.1.0"

var TracingModule = fx.Module("tracing",
	fx.Invoke(registerTracer),
)

func registerTracer(lc fx.Lifecycle, cfg config.Config) error {
	shutdown, err := obs.InitTracer(context.Background(), cfg.Tracing, serviceVersion)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: shutdown,
	})
	return nil
}
