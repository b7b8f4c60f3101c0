package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/payment"
	"servicebay/internal/domain/pricing"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrVehicleNotOwned     = errs.NewValidation("vehicleId", "vehicle does not belong to the customer")
	ErrLocationUnavailable = errs.NewValidation("locationId", "location does not exist or is inactive")
	ErrBookingModified     = errs.NewConflict("booking was modified concurrently")
	ErrCaptureInProgress   = errs.NewConflict("payment capture in progress for this booking")
)

type SubmitBookingCommand struct {
	Draft     booking.Draft
	Payment   payment.Input
	Reference string
}

type SubmitBookingResult struct {
	BookingID uuid.UUID
	PaymentID uuid.UUID
	InvoiceID uuid.UUID
	Reference string
	SagaStep  booking.SagaStep
	Replayed  bool
}

type ExpireResult struct {
	Cancelled int
}

type BookingCommands interface {
	Submit(ctx context.Context, s *auth.Session, cmd SubmitBookingCommand) (*SubmitBookingResult, error)
	Edit(ctx context.Context, s *auth.Session, id uuid.UUID, patch booking.Patch) error
	Cancel(ctx context.Context, s *auth.Session, id uuid.UUID) error
	Advance(ctx context.Context, s *auth.Session, id uuid.UUID, target booking.Status) error
	ResumeSaga(ctx context.Context, s *auth.Session, id uuid.UUID) (*SubmitBookingResult, error)
	ExpireStale(ctx context.Context, limit int32) (*ExpireResult, error)
}

type bookingUseCaseImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	engine    pricing.Engine
	validator *payment.Validator
	directory Directory
	flow      *captureFlow
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	clk clock.Clock,
	engine pricing.Engine,
	directory Directory,
	gateway PaymentGateway,
	lock CaptureLock,
	cfg SagaConfig,
	logger *slog.Logger,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:       uow,
		clock:     clk,
		engine:    engine,
		validator: payment.NewValidator(clk),
		directory: directory,
		flow:      newCaptureFlow(uow, gateway, lock, clk, cfg, logger),
	}
}

func (uc *bookingUseCaseImpl) Submit(ctx context.Context, s *auth.Session, cmd SubmitBookingCommand) (*SubmitBookingResult, error) {
	ctx, span := tracer.Start(ctx, "booking.submit")
	defer span.End()

	if _, err := auth.Authorize(s, auth.ActionBookingCreate, auth.Resource{OwnerID: cmd.Draft.CustomerID}); err != nil {
		return nil, err
	}
	if replay, err := uc.replaySubmit(ctx, cmd); replay != nil || err != nil {
		return replay, err
	}
	if _, err := cmd.Draft.Validate(); err != nil {
		return nil, err
	}

	quote, err := uc.quote(ctx, cmd.Draft)
	if err != nil {
		return nil, err
	}

	ins, err := validateInstrument(uc.validator, cmd.Payment, quote)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	b, err := booking.NewBooking(cmd.Draft, quote, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.id", b.ID().String()))

	reference := cmd.Reference
	if reference == "" {
		reference = payment.NewReference(b.ID())
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}
		if err := tx.Sagas().Save(ctx, booking.Saga{
			BookingID: b.ID(),
			Step:      booking.SagaBookingCreated,
			Reference: reference,
			Method:    ins.Method.String(),
			Amount:    quote.Total,
			CreatedBy: ins.CreatedBy,
			Notes:     ins.Notes,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		return tx.Outbox().Enqueue(ctx, shared.TopicBookingCreated, bookingEvent{
			BookingID:  b.ID(),
			CustomerID: b.CustomerID(),
			Status:     b.Status().String(),
			TotalCents: quote.Total.Cents(),
			OccurredAt: now,
		}, now)
	})
	if err != nil {
		// A concurrent submission claimed the same reference first.
		if cmd.Reference != "" && errs.Is(err, errs.ErrConflict) {
			if replay, rerr := uc.replaySubmit(ctx, cmd); replay != nil || rerr != nil {
				return replay, rerr
			}
		}
		return nil, err
	}

	out, err := uc.flow.captureLocked(ctx, b, ins, reference)
	if err != nil {
		return nil, err
	}
	return &SubmitBookingResult{
		BookingID: out.BookingID,
		PaymentID: out.PaymentID,
		InvoiceID: out.InvoiceID,
		Reference: out.Reference,
		SagaStep:  booking.SagaConfirmed,
	}, nil
}

// replaySubmit resolves a client reference that an earlier submission already
// used, so a repeated request never creates a second booking or charge.
func (uc *bookingUseCaseImpl) replaySubmit(ctx context.Context, cmd SubmitBookingCommand) (*SubmitBookingResult, error) {
	if cmd.Reference == "" {
		return nil, nil
	}
	reads := uc.uow.CommandReads()

	p, err := findOptional(reads.PaymentByReference(ctx, cmd.Reference))
	if err != nil {
		return nil, err
	}
	if p != nil {
		b, err := reads.BookingByID(ctx, p.BookingID())
		if err != nil {
			return nil, err
		}
		if b.CustomerID() != cmd.Draft.CustomerID {
			return nil, ErrReferenceBoundElsewhere
		}
		inv, err := reads.InvoiceByPaymentID(ctx, p.ID())
		if err != nil {
			return nil, err
		}
		return &SubmitBookingResult{
			BookingID: b.ID(),
			PaymentID: p.ID(),
			InvoiceID: inv.ID(),
			Reference: p.Reference(),
			SagaStep:  booking.SagaConfirmed,
			Replayed:  true,
		}, nil
	}

	saga, err := findOptional(reads.SagaByReference(ctx, cmd.Reference))
	if err != nil || saga == nil {
		return nil, err
	}
	b, err := reads.BookingByID(ctx, saga.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID() != cmd.Draft.CustomerID {
		return nil, ErrReferenceBoundElsewhere
	}
	switch saga.Step {
	case booking.SagaPaymentCaptured:
		return nil, ErrSagaAwaitingResume
	case booking.SagaFailed:
		// Same answer as the first attempt; retry goes through POST /payments.
		return nil, &errs.PaymentFailedError{BookingID: b.ID().String(), Reference: saga.Reference, Cause: errs.New("previous attempt failed: " + saga.LastError)}
	case booking.SagaBookingCreated, booking.SagaPaymentValidated:
		return nil, ErrCaptureInProgress
	default:
		return nil, errs.NewInvalidState("submit booking", b.Status().String())
	}
}

func (uc *bookingUseCaseImpl) Edit(ctx context.Context, s *auth.Session, id uuid.UUID, patch booking.Patch) error {
	b, err := uc.uow.CommandReads().BookingByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := auth.Authorize(s, auth.ActionBookingEdit, auth.Resource{OwnerID: b.CustomerID()}); err != nil {
		return err
	}
	if b.Status() != booking.StatusPending {
		return errs.NewInvalidState("edit booking", b.Status().String())
	}

	draft := patch.Apply(b.Draft())
	if _, err := draft.Validate(); err != nil {
		return err
	}
	quote, err := uc.quote(ctx, draft)
	if err != nil {
		return err
	}

	release, err := uc.flow.lock.Acquire(ctx, lockKey(id))
	if err != nil {
		return err
	}
	defer release()

	expectedVersion := b.Version()
	if err := b.Edit(draft, quote, uc.clock.Now()); err != nil {
		return err
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := rejectCapturedSaga(ctx, tx, id); err != nil {
			return err
		}
		ok, err := tx.Bookings().Update(ctx, b, booking.StatusPending, expectedVersion)
		if err != nil {
			return err
		}
		if !ok {
			return uc.diagnoseCAS(ctx, tx, id, "edit booking")
		}
		return nil
	})
}

func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, s *auth.Session, id uuid.UUID) error {
	b, err := uc.uow.CommandReads().BookingByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := auth.Authorize(s, auth.ActionBookingCancel, auth.Resource{OwnerID: b.CustomerID()}); err != nil {
		return err
	}
	now := uc.clock.Now()
	if err := b.Cancel(now); err != nil {
		return err
	}

	release, err := uc.flow.lock.Acquire(ctx, lockKey(id))
	if err != nil {
		return err
	}
	defer release()

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := rejectCapturedSaga(ctx, tx, id); err != nil {
			return err
		}
		return uc.cancelPending(ctx, tx, b, now, "cancelled by "+principalLabel(s))
	})
}

// Advance is the staff lifecycle override. Confirmation only happens through payment.
func (uc *bookingUseCaseImpl) Advance(ctx context.Context, s *auth.Session, id uuid.UUID, target booking.Status) error {
	if _, err := auth.Authorize(s, auth.ActionBookingAdvance, auth.Resource{}); err != nil {
		return err
	}
	if !target.IsValid() {
		return errs.NewValidation("status", "unknown booking status "+target.String())
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		from := b.Status()
		now := uc.clock.Now()
		if err := b.TransitionTo(target, now); err != nil {
			return err
		}
		if target == booking.StatusConfirmed {
			return errs.NewInvalidState("confirm booking without payment", from.String())
		}

		ok, err := tx.Bookings().UpdateStatus(ctx, id, from, target, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBookingModified
		}

		topic := shared.TopicBookingStatusChanged
		if target == booking.StatusCancelled {
			topic = shared.TopicBookingCancelled
			if err := markSagaCompensated(ctx, tx, id, now, "cancelled by staff from "+from.String()); err != nil {
				return err
			}
		}
		return tx.Outbox().Enqueue(ctx, topic, bookingEvent{
			BookingID:  id,
			CustomerID: b.CustomerID(),
			Status:     target.String(),
			Previous:   from.String(),
			TotalCents: b.Quote().Total.Cents(),
			OccurredAt: now,
		}, now)
	})
}

// ResumeSaga finishes a submission whose payment was captured but never recorded.
func (uc *bookingUseCaseImpl) ResumeSaga(ctx context.Context, s *auth.Session, id uuid.UUID) (*SubmitBookingResult, error) {
	if _, err := auth.Authorize(s, auth.ActionSagaResume, auth.Resource{}); err != nil {
		return nil, err
	}

	saga, err := uc.uow.CommandReads().SagaByBookingID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch saga.Step {
	case booking.SagaConfirmed:
		p, err := uc.uow.CommandReads().PaymentByBookingID(ctx, id)
		if err != nil {
			return nil, err
		}
		inv, err := uc.uow.CommandReads().InvoiceByPaymentID(ctx, p.ID())
		if err != nil {
			return nil, err
		}
		return &SubmitBookingResult{BookingID: id, PaymentID: p.ID(), InvoiceID: inv.ID(), Reference: p.Reference(), SagaStep: saga.Step}, nil
	case booking.SagaPaymentCaptured:
		release, err := uc.flow.lock.Acquire(ctx, lockKey(id))
		if err != nil {
			return nil, err
		}
		defer release()

		out, err := uc.flow.finalize(context.WithoutCancel(ctx), *saga)
		if err != nil {
			return nil, err
		}
		return &SubmitBookingResult{BookingID: id, PaymentID: out.PaymentID, InvoiceID: out.InvoiceID, Reference: out.Reference, SagaStep: booking.SagaConfirmed}, nil
	default:
		return nil, errs.NewInvalidState("resume saga", saga.Step.String())
	}
}

// ExpireStale cancels PENDING bookings that never got a captured payment.
func (uc *bookingUseCaseImpl) ExpireStale(ctx context.Context, limit int32) (*ExpireResult, error) {
	before := uc.clock.Now().Add(-uc.flow.cfg.PendingTTL)
	var ids []uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		ids, err = tx.Bookings().ListStalePending(ctx, before, []booking.SagaStep{booking.SagaBookingCreated, booking.SagaFailed}, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := &ExpireResult{}
	for _, id := range ids {
		var cancelled bool
		err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			cancelled = false
			b, err := tx.Bookings().FindByID(ctx, id)
			if err != nil {
				return err
			}
			if b.Status() != booking.StatusPending {
				return nil
			}
			saga, err := tx.Sagas().FindByBookingID(ctx, id)
			if err != nil {
				return err
			}
			if saga.Step != booking.SagaBookingCreated && saga.Step != booking.SagaFailed {
				return nil
			}
			now := uc.clock.Now()
			if err := b.Cancel(now); err != nil {
				return err
			}
			if err := uc.cancelPending(ctx, tx, b, now, "expired after pending TTL"); err != nil {
				return err
			}
			cancelled = true
			return nil
		})
		if err != nil {
			if errs.Is(err, errs.ErrConflict) || errs.Is(err, errs.ErrInvalidState) {
				continue
			}
			return res, err
		}
		if cancelled {
			res.Cancelled++
		}
	}
	return res, nil
}

// cancelPending persists a PENDING->CANCELLED move already applied to b.
func (uc *bookingUseCaseImpl) cancelPending(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time, reason string) error {
	ok, err := tx.Bookings().UpdateStatus(ctx, b.ID(), booking.StatusPending, booking.StatusCancelled, now)
	if err != nil {
		return err
	}
	if !ok {
		return uc.diagnoseCAS(ctx, tx, b.ID(), "cancel booking")
	}
	if err := markSagaCompensated(ctx, tx, b.ID(), now, reason); err != nil {
		return err
	}
	return tx.Outbox().Enqueue(ctx, shared.TopicBookingCancelled, bookingEvent{
		BookingID:  b.ID(),
		CustomerID: b.CustomerID(),
		Status:     booking.StatusCancelled.String(),
		Previous:   booking.StatusPending.String(),
		TotalCents: b.Quote().Total.Cents(),
		OccurredAt: now,
	}, now)
}

// quote resolves directory facts under a deadline and prices the draft.
func (uc *bookingUseCaseImpl) quote(ctx context.Context, d booking.Draft) (pricing.Quote, error) {
	dctx, cancel := context.WithTimeout(ctx, uc.flow.cfg.DirectoryTimeout)
	defer cancel()

	owned, err := uc.directory.VehicleOwnedBy(dctx, d.VehicleID, d.CustomerID)
	if err != nil {
		return pricing.Quote{}, directoryErr(dctx, err)
	}
	if !owned {
		return pricing.Quote{}, ErrVehicleNotOwned
	}
	active, err := uc.directory.LocationActive(dctx, d.LocationID)
	if err != nil {
		return pricing.Quote{}, directoryErr(dctx, err)
	}
	if !active {
		return pricing.Quote{}, ErrLocationUnavailable
	}

	var servicePrice *pricing.Money
	if d.Kind == pricing.KindService {
		price, err := uc.directory.ServicePrice(dctx, *d.ServiceTypeID)
		if err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				return pricing.Quote{}, errs.NewValidation("serviceTypeId", "unknown service type")
			}
			return pricing.Quote{}, directoryErr(dctx, err)
		}
		servicePrice = &price
	}

	return uc.engine.Price(d.PricingRequest(servicePrice))
}

// validateInstrument checks the payment input against the quoted total.
// An omitted total means the quote is accepted as is.
func validateInstrument(v *payment.Validator, in payment.Input, quote pricing.Quote) (payment.Instrument, error) {
	if in.Total == 0 {
		in.Total = quote.Total.Float64()
	}
	ins, err := v.Validate(in)
	if err != nil {
		return payment.Instrument{}, err
	}
	if ins.Amount != quote.Total {
		return payment.Instrument{}, errs.NewValidation("total", "must equal the quoted total "+quote.Total.String())
	}
	return ins, nil
}

func (uc *bookingUseCaseImpl) diagnoseCAS(ctx context.Context, tx shared.Tx, id uuid.UUID, op string) error {
	current, err := tx.Bookings().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status() != booking.StatusPending {
		return errs.NewInvalidState(op, current.Status().String())
	}
	return ErrBookingModified
}

func directoryErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errs.NewTimeout("directory")
	}
	return errs.Wrap(err, "directory lookup")
}

func rejectCapturedSaga(ctx context.Context, tx shared.Tx, id uuid.UUID) error {
	saga, err := findOptional(tx.Sagas().FindByBookingID(ctx, id))
	if err != nil {
		return err
	}
	if saga != nil && saga.Step == booking.SagaPaymentCaptured {
		return ErrCaptureInProgress
	}
	return nil
}

func principalLabel(s *auth.Session) string {
	p, ok := s.Principal()
	if !ok {
		return "system"
	}
	return p.Role.String()
}
