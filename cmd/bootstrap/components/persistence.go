package components

import (
	"servicebay/internal/infra/db"
	"servicebay/internal/infra/directory"
	"servicebay/internal/infra/readstore"
	"servicebay/internal/infra/uow"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		// Job
		fx.Annotate(
			readstore.NewJobReadStore,
			fx.As(new(queries.JobReadStore)),
		),
		// Technician
		fx.Annotate(
			readstore.NewTechnicianReadStore,
			fx.As(new(queries.TechnicianReadStore)),
		),
		// Invoice
		fx.Annotate(
			readstore.NewInvoiceReadStore,
			fx.As(new(queries.InvoiceReadStore)),
		),
		// Feedback
		fx.Annotate(
			readstore.NewFeedbackReadStore,
			fx.As(new(queries.FeedbackReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Directory lookups share the booking database for now
		fx.Annotate(
			directory.NewPostgres,
			fx.As(new(commands.Directory)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
