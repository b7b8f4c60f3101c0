package components

import (
	"servicebay/internal/domain/pricing"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/config"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/queries"
	"servicebay/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	pricing.NewEngine,
	NewSagaConfig,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		commands.NewPaymentUseCase,
		NewJobUseCase,
		commands.NewFeedbackUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewJobQueries,
		queries.NewTechnicianQueries,
		queries.NewInvoiceQueries,
		queries.NewFeedbackQueries,
	),
)

func NewSagaConfig(cfg config.Config) commands.SagaConfig {
	return commands.SagaConfig{
		GatewayTimeout:   cfg.Gateway.CaptureTimeout,
		DirectoryTimeout: cfg.Booking.DirectoryTimeout,
		PendingTTL:       cfg.Booking.PendingTTL,
	}
}

func NewJobUseCase(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.JobCommands {
	return commands.NewJobUseCase(uow, clk, cfg.Dispatch.EnforceAvailability)
}
