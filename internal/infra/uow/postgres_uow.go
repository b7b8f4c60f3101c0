package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/feedback"
	"servicebay/internal/domain/job"
	"servicebay/internal/domain/payment"
	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/infra/repository"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxTxAttempts = 4

var (
	errTransactionBegin  = errs.New("failed to begin transaction")
	errTransactionCommit = errs.New("failed to commit transaction")
)

type PostgresUoW struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresUoW(pool *pgxpool.Pool, logger *slog.Logger) shared.UnitOfWork {
	return &PostgresUoW{pool: pool, logger: logger}
}

// Within runs at READ COMMITTED. Repositories that need check-then-write
// safety take row locks themselves; serialization failures and deadlocks
// re-run fn from scratch.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	attempt := 0
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			attempt++
			err := u.runOnce(ctx, fn)
			if err != nil && !infra.IsTransient(err) {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		},
		backoff.WithBackOff(txBackOff()),
		backoff.WithMaxTries(maxTxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			u.logger.WarnContext(ctx, "retrying transaction", "attempt", attempt, "wait", wait, "error", err)
		}),
	)
	return err
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

func (u *PostgresUoW) runOnce(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) (err error) {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			u.logger.WarnContext(ctx, "rollback failed", "error", rbErr)
		}
	}()

	if err = fn(ctx, &pgTx{dbtx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func txBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	return b
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	bookingRepo  shared.BookingRepository
	paymentRepo  shared.PaymentRepository
	invoiceRepo  shared.InvoiceRepository
	sagaRepo     shared.SagaRepository
	jobRepo      shared.JobRepository
	feedbackRepo shared.FeedbackRepository
	outboxRepo   shared.OutboxRepository
	commandReads shared.CommandReads
}

// Bookings row-locks on read so check-then-write sequences stay consistent.
func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewLockingBookingRepository(t.dbtx)
	}
	return t.bookingRepo
}

func (t *pgTx) Payments() shared.PaymentRepository {
	if t.paymentRepo == nil {
		t.paymentRepo = repository.NewPaymentRepository(t.dbtx)
	}
	return t.paymentRepo
}

func (t *pgTx) Invoices() shared.InvoiceRepository {
	if t.invoiceRepo == nil {
		t.invoiceRepo = repository.NewInvoiceRepository(t.dbtx)
	}
	return t.invoiceRepo
}

func (t *pgTx) Sagas() shared.SagaRepository {
	if t.sagaRepo == nil {
		t.sagaRepo = repository.NewSagaRepository(t.dbtx)
	}
	return t.sagaRepo
}

func (t *pgTx) Jobs() shared.JobRepository {
	if t.jobRepo == nil {
		t.jobRepo = repository.NewLockingJobRepository(t.dbtx)
	}
	return t.jobRepo
}

func (t *pgTx) Feedback() shared.FeedbackRepository {
	if t.feedbackRepo == nil {
		t.feedbackRepo = repository.NewFeedbackRepository(t.dbtx)
	}
	return t.feedbackRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewOutboxRepository(t.dbtx)
	}
	return t.outboxRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{
			dbtx: t.dbtx,
		}
	}
	return t.commandReads
}

// commandReads serves fresh, unlocked reads for command-side checks.
type commandReads struct {
	dbtx db.DBTX
}

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return repository.NewBookingRepository(r.dbtx).FindByID(ctx, id)
}

func (r *commandReads) SagaByBookingID(ctx context.Context, bookingID uuid.UUID) (*booking.Saga, error) {
	return repository.NewSagaRepository(r.dbtx).FindByBookingID(ctx, bookingID)
}

func (r *commandReads) SagaByReference(ctx context.Context, reference string) (*booking.Saga, error) {
	return repository.NewSagaRepository(r.dbtx).FindByReference(ctx, reference)
}

func (r *commandReads) PaymentByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	return repository.NewPaymentRepository(r.dbtx).FindByReference(ctx, reference)
}

func (r *commandReads) PaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	return repository.NewPaymentRepository(r.dbtx).FindByBookingID(ctx, bookingID)
}

func (r *commandReads) InvoiceByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Invoice, error) {
	return repository.NewInvoiceRepository(r.dbtx).FindByPaymentID(ctx, paymentID)
}

func (r *commandReads) JobByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return repository.NewJobRepository(r.dbtx).FindByID(ctx, id)
}

func (r *commandReads) FeedbackByBookingID(ctx context.Context, bookingID uuid.UUID) (*feedback.Feedback, error) {
	return repository.NewFeedbackRepository(r.dbtx).FindByBookingID(ctx, bookingID)
}
