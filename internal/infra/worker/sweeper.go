package worker

import (
	"context"
	"log/slog"
	"time"

	"servicebay/internal/usecase/commands"
)

const sweepBatch = 100

// PendingSweeper cancels PENDING bookings whose payment never landed.
type PendingSweeper struct {
	bookings commands.BookingCommands
	interval time.Duration
	logger   *slog.Logger
}

func NewPendingSweeper(bookings commands.BookingCommands, interval time.Duration, logger *slog.Logger) *PendingSweeper {
	return &PendingSweeper{bookings: bookings, interval: interval, logger: logger}
}

func (s *PendingSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *PendingSweeper) sweep(ctx context.Context) {
	for {
		res, err := s.bookings.ExpireStale(ctx, sweepBatch)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error("pending sweep failed", "error", err)
			}
			return
		}
		if res.Cancelled > 0 {
			s.logger.Info("expired stale bookings", "count", res.Cancelled)
		}
		if res.Cancelled < sweepBatch {
			return
		}
	}
}
