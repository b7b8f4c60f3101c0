package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/payment"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("servicebay/usecase/commands")

var ErrPaymentDeclined = errs.New("payment declined by provider")

type SagaConfig struct {
	GatewayTimeout   time.Duration
	DirectoryTimeout time.Duration
	PendingTTL       time.Duration
}

// captureFlow runs the payment half of the booking saga and persists a step
// marker after every external effect so an interrupted run can be resumed.
type captureFlow struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	lock    CaptureLock
	clock   clock.Clock
	cfg     SagaConfig
	logger  *slog.Logger
}

type captureOutcome struct {
	BookingID uuid.UUID
	PaymentID uuid.UUID
	InvoiceID uuid.UUID
	Reference string
	Replayed  bool
}

func newCaptureFlow(uow shared.UnitOfWork, gateway PaymentGateway, lock CaptureLock, clk clock.Clock, cfg SagaConfig, logger *slog.Logger) *captureFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &captureFlow{uow: uow, gateway: gateway, lock: lock, clock: clk, cfg: cfg, logger: logger}
}

func lockKey(bookingID uuid.UUID) string {
	return "capture:booking:" + bookingID.String()
}

func (f *captureFlow) captureLocked(ctx context.Context, b *booking.Booking, ins payment.Instrument, reference string) (*captureOutcome, error) {
	release, err := f.lock.Acquire(ctx, lockKey(b.ID()))
	if err != nil {
		return nil, err
	}
	defer release()
	return f.capture(ctx, b, ins, reference)
}

func (f *captureFlow) capture(ctx context.Context, b *booking.Booking, ins payment.Instrument, reference string) (*captureOutcome, error) {
	ctx, span := tracer.Start(ctx, "saga.capture")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", b.ID().String()),
		attribute.String("payment.method", ins.Method.String()),
		attribute.String("payment.reference", reference),
	)

	saga := booking.Saga{
		BookingID: b.ID(),
		Step:      booking.SagaPaymentValidated,
		Reference: reference,
		Method:    ins.Method.String(),
		Amount:    ins.Amount,
		CardLast4: ins.CardLast4,
		CreatedBy: ins.CreatedBy,
		Notes:     ins.Notes,
		UpdatedAt: f.clock.Now(),
	}
	if err := f.saveSaga(ctx, saga); err != nil {
		return nil, err
	}

	res, err := f.charge(ctx, b, ins, reference)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "capture failed")
		saga.Step = booking.SagaFailed
		saga.LastError = err.Error()
		saga.UpdatedAt = f.clock.Now()
		if serr := f.saveSaga(context.WithoutCancel(ctx), saga); serr != nil {
			f.logger.Error("failed to record saga failure", "booking_id", b.ID(), "error", serr)
		}
		return nil, &errs.PaymentFailedError{BookingID: b.ID().String(), Reference: reference, Cause: err}
	}

	// The charge happened; nothing below may be abandoned because the caller went away.
	ctx = context.WithoutCancel(ctx)

	saga.Step = booking.SagaPaymentCaptured
	saga.ProviderPaymentID = res.ProviderPaymentID
	saga.UpdatedAt = f.clock.Now()
	if err := f.saveSaga(ctx, saga); err != nil {
		f.logger.Error("captured payment but failed to persist saga marker",
			"booking_id", b.ID(), "reference", reference, "provider_payment_id", res.ProviderPaymentID, "error", err)
	}

	return f.finalize(ctx, saga)
}

func (f *captureFlow) charge(ctx context.Context, b *booking.Booking, ins payment.Instrument, reference string) (CaptureResult, error) {
	if !ins.Method.RequiresGateway() {
		return CaptureResult{Status: "collected"}, nil
	}

	cctx, cancel := context.WithTimeout(ctx, f.cfg.GatewayTimeout)
	defer cancel()

	res, err := f.gateway.Capture(cctx, CaptureRequest{
		BookingID:   b.ID(),
		Reference:   reference,
		Instrument:  ins,
		Description: "Booking " + b.ID().String(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return CaptureResult{}, errs.NewTimeout("payment gateway")
		}
		return CaptureResult{}, errs.Wrap(err, "payment gateway capture")
	}
	switch res.Status {
	case "rejected", "cancelled", "refunded", "charged_back":
		return CaptureResult{}, errs.Wrapf(ErrPaymentDeclined, "provider status %s", res.Status)
	}
	return res, nil
}

// finalize records payment, invoice and confirmation in one transaction.
func (f *captureFlow) finalize(ctx context.Context, saga booking.Saga) (*captureOutcome, error) {
	ctx, span := tracer.Start(ctx, "saga.finalize")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", saga.BookingID.String()))

	var out *captureOutcome
	err := f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		out = nil
		b, err := tx.Bookings().FindByID(ctx, saga.BookingID)
		if err != nil {
			return err
		}

		existing, err := findOptional(tx.Payments().FindByBookingID(ctx, b.ID()))
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Reference() != saga.Reference {
				return errs.NewConflict("booking is already paid under another reference")
			}
			inv, err := tx.Invoices().FindByPaymentID(ctx, existing.ID())
			if err != nil {
				return err
			}
			out = &captureOutcome{BookingID: b.ID(), PaymentID: existing.ID(), InvoiceID: inv.ID(), Reference: existing.Reference(), Replayed: true}
			return nil
		}

		if b.Status() != booking.StatusPending {
			return errs.NewInvalidState("confirm booking", b.Status().String())
		}
		if b.Quote().Total != saga.Amount {
			return errs.NewInvalidState("confirm booking", "PENDING with a changed total")
		}

		now := f.clock.Now()
		p := payment.NewPayment(b.ID(), payment.Instrument{
			Method:    payment.Method(saga.Method),
			Amount:    saga.Amount,
			CardLast4: saga.CardLast4,
			CreatedBy: saga.CreatedBy,
			Notes:     saga.Notes,
		}, saga.Reference, saga.ProviderPaymentID, now)
		if err := tx.Payments().Create(ctx, p); err != nil {
			if errs.Is(err, errs.ErrConflict) {
				return errs.NewConflict("payment reference already used")
			}
			return err
		}
		inv := payment.NewInvoice(p, b.Quote(), now)
		if err := tx.Invoices().Create(ctx, inv); err != nil {
			return err
		}

		ok, err := tx.Bookings().UpdateStatus(ctx, b.ID(), booking.StatusPending, booking.StatusConfirmed, now)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NewInvalidState("confirm booking", "changed concurrently")
		}

		confirmed := saga
		confirmed.Step = booking.SagaConfirmed
		confirmed.LastError = ""
		confirmed.UpdatedAt = now
		if err := tx.Sagas().Save(ctx, confirmed); err != nil {
			return err
		}

		if err := tx.Outbox().Enqueue(ctx, shared.TopicBookingConfirmed, bookingEvent{
			BookingID: b.ID(), CustomerID: b.CustomerID(), Status: booking.StatusConfirmed.String(),
			Previous: booking.StatusPending.String(), TotalCents: b.Quote().Total.Cents(), OccurredAt: now,
		}, now); err != nil {
			return err
		}
		if err := tx.Outbox().Enqueue(ctx, shared.TopicPaymentCaptured, paymentEvent{
			BookingID: b.ID(), PaymentID: p.ID(), InvoiceID: inv.ID(), Reference: p.Reference(),
			Method: p.Method().String(), AmountCents: p.Amount().Cents(), OccurredAt: now,
		}, now); err != nil {
			return err
		}

		out = &captureOutcome{BookingID: b.ID(), PaymentID: p.ID(), InvoiceID: inv.ID(), Reference: p.Reference()}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "finalize failed")
		if errs.Is(err, errs.ErrInvalidState) || errs.Is(err, errs.ErrConflict) {
			f.logger.Error("payment captured for a booking that can no longer be confirmed; refund required",
				"booking_id", saga.BookingID, "reference", saga.Reference, "provider_payment_id", saga.ProviderPaymentID, "error", err)
			failed := saga
			failed.Step = booking.SagaFailed
			failed.LastError = "refund required: " + err.Error()
			failed.UpdatedAt = f.clock.Now()
			if serr := f.saveSaga(ctx, failed); serr != nil {
				f.logger.Error("failed to record saga failure", "booking_id", saga.BookingID, "error", serr)
			}
		}
		return nil, err
	}
	return out, nil
}

func (f *captureFlow) saveSaga(ctx context.Context, s booking.Saga) error {
	return f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Sagas().Save(ctx, s)
	})
}

func markSagaCompensated(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, now time.Time, reason string) error {
	saga, err := findOptional(tx.Sagas().FindByBookingID(ctx, bookingID))
	if err != nil {
		return err
	}
	if saga == nil {
		saga = &booking.Saga{BookingID: bookingID}
	}
	saga.Step = booking.SagaCompensated
	saga.LastError = reason
	saga.UpdatedAt = now
	return tx.Sagas().Save(ctx, *saga)
}

// findOptional turns a not-found lookup into a nil result.
func findOptional[T any](v *T, err error) (*T, error) {
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}
