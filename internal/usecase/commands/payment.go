package commands

import (
	"context"
	"log/slog"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/payment"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrReferenceBoundElsewhere = errs.NewConflict("payment reference belongs to another booking")
	ErrSagaAwaitingResume      = errs.NewConflict("payment already captured; resume the booking saga instead")
)

type CapturePaymentCommand struct {
	BookingID uuid.UUID
	Reference string
	Payment   payment.Input
}

type CapturePaymentResult struct {
	BookingID uuid.UUID
	PaymentID uuid.UUID
	InvoiceID uuid.UUID
	Reference string
	Replayed  bool
}

type PaymentCommands interface {
	Capture(ctx context.Context, s *auth.Session, cmd CapturePaymentCommand) (*CapturePaymentResult, error)
}

type paymentUseCaseImpl struct {
	uow       shared.UnitOfWork
	validator *payment.Validator
	flow      *captureFlow
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	clk clock.Clock,
	gateway PaymentGateway,
	lock CaptureLock,
	cfg SagaConfig,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:       uow,
		validator: payment.NewValidator(clk),
		flow:      newCaptureFlow(uow, gateway, lock, clk, cfg, logger),
	}
}

// Capture retries payment for a PENDING booking. Repeating a reference
// returns the payment it already produced.
func (uc *paymentUseCaseImpl) Capture(ctx context.Context, s *auth.Session, cmd CapturePaymentCommand) (*CapturePaymentResult, error) {
	ctx, span := tracer.Start(ctx, "payment.capture")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", cmd.BookingID.String()))

	reads := uc.uow.CommandReads()
	b, err := reads.BookingByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if _, err := auth.Authorize(s, auth.ActionPaymentCapture, auth.Resource{OwnerID: b.CustomerID()}); err != nil {
		return nil, err
	}

	if replay, err := uc.replay(ctx, cmd); replay != nil || err != nil {
		return replay, err
	}

	if err := uc.checkPayable(ctx, b); err != nil {
		return nil, err
	}
	ins, err := validateInstrument(uc.validator, cmd.Payment, b.Quote())
	if err != nil {
		return nil, err
	}

	release, err := uc.flow.lock.Acquire(ctx, lockKey(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	// Another capture may have finished while the lock was held elsewhere.
	if replay, err := uc.replay(ctx, cmd); replay != nil || err != nil {
		return replay, err
	}

	b, err = reads.BookingByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkPayable(ctx, b); err != nil {
		return nil, err
	}
	if ins.Amount != b.Quote().Total {
		return nil, errs.NewValidation("total", "must equal the quoted total "+b.Quote().Total.String())
	}

	saga, err := findOptional(reads.SagaByBookingID(ctx, b.ID()))
	if err != nil {
		return nil, err
	}
	if saga != nil && !saga.Step.Retryable() {
		if saga.Step == booking.SagaPaymentCaptured {
			return nil, ErrSagaAwaitingResume
		}
		return nil, errs.NewInvalidState("capture payment", saga.Step.String())
	}

	reference := cmd.Reference
	if reference == "" {
		reference = payment.NewReference(b.ID())
	}

	out, err := uc.flow.capture(ctx, b, ins, reference)
	if err != nil {
		return nil, err
	}
	return &CapturePaymentResult{
		BookingID: out.BookingID,
		PaymentID: out.PaymentID,
		InvoiceID: out.InvoiceID,
		Reference: out.Reference,
		Replayed:  out.Replayed,
	}, nil
}

func (uc *paymentUseCaseImpl) checkPayable(ctx context.Context, b *booking.Booking) error {
	existing, err := findOptional(uc.uow.CommandReads().PaymentByBookingID(ctx, b.ID()))
	if err != nil {
		return err
	}
	if existing != nil {
		return errs.NewConflict("booking already paid under reference " + existing.Reference())
	}
	if b.Status() != booking.StatusPending {
		return errs.NewInvalidState("capture payment", b.Status().String())
	}
	return nil
}

func (uc *paymentUseCaseImpl) replay(ctx context.Context, cmd CapturePaymentCommand) (*CapturePaymentResult, error) {
	if cmd.Reference == "" {
		return nil, nil
	}
	reads := uc.uow.CommandReads()
	p, err := findOptional(reads.PaymentByReference(ctx, cmd.Reference))
	if err != nil {
		return nil, err
	}
	if p == nil {
		saga, err := findOptional(reads.SagaByReference(ctx, cmd.Reference))
		if err != nil {
			return nil, err
		}
		if saga != nil && saga.BookingID != cmd.BookingID {
			return nil, ErrReferenceBoundElsewhere
		}
		return nil, nil
	}
	if p.BookingID() != cmd.BookingID {
		return nil, ErrReferenceBoundElsewhere
	}
	inv, err := reads.InvoiceByPaymentID(ctx, p.ID())
	if err != nil {
		return nil, err
	}
	return &CapturePaymentResult{
		BookingID: p.BookingID(),
		PaymentID: p.ID(),
		InvoiceID: inv.ID(),
		Reference: p.Reference(),
		Replayed:  true,
	}, nil
}
