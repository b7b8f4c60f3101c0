package bootstrap

import (
	"context"
	"log/slog"
	"sync"

	"servicebay/internal/infra/worker"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/config"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/shared"

	"go.uber.org/fx"
)

var WorkersModule = fx.Module("workers",
	fx.Provide(
		NewOutboxRelay,
		NewPendingSweeper,
	),
	fx.Invoke(startWorkers),
)

func NewOutboxRelay(uow shared.UnitOfWork, pub worker.EventPublisher, clk clock.Clock, cfg config.Config, logger *slog.Logger) *worker.OutboxRelay {
	return worker.NewOutboxRelay(uow, pub, clk, cfg.MQ, logger)
}

func NewPendingSweeper(bookings commands.BookingCommands, cfg config.Config, logger *slog.Logger) *worker.PendingSweeper {
	return worker.NewPendingSweeper(bookings, cfg.Booking.SweepInterval, logger)
}

func startWorkers(lc fx.Lifecycle, relay *worker.OutboxRelay, sweeper *worker.PendingSweeper, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				relay.Run(ctx)
			}()
			go func() {
				defer wg.Done()
				sweeper.Run(ctx)
			}()
			logger.Info("background workers started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			wg.Wait()
			return nil
		},
	})
}
