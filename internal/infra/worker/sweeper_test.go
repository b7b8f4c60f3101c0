//go:build unit

package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/commands"
	commandsmock "servicebay/tests/mock/commands"

	"go.uber.org/mock/gomock"
)

func TestPendingSweeperSweep(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("keeps sweeping while batches come back full", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		bookings := commandsmock.NewMockBookingCommands(ctrl)
		gomock.InOrder(
			bookings.EXPECT().ExpireStale(gomock.Any(), int32(sweepBatch)).Return(&commands.ExpireResult{Cancelled: sweepBatch}, nil),
			bookings.EXPECT().ExpireStale(gomock.Any(), int32(sweepBatch)).Return(&commands.ExpireResult{Cancelled: 3}, nil),
		)

		NewPendingSweeper(bookings, time.Minute, logger).sweep(context.Background())
	})

	t.Run("stops on error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		bookings := commandsmock.NewMockBookingCommands(ctrl)
		bookings.EXPECT().ExpireStale(gomock.Any(), gomock.Any()).Return(nil, errs.New("db down")).Times(1)

		NewPendingSweeper(bookings, time.Minute, logger).sweep(context.Background())
	})
}
