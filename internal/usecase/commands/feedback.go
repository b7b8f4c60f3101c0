package commands

import (
	"context"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/feedback"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrFeedbackExists = errs.NewConflict("feedback already submitted for this booking")

type SubmitFeedbackCommand struct {
	BookingID uuid.UUID
	Rating    int
	Comment   string
}

type SubmitFeedbackResult struct {
	FeedbackID uuid.UUID
}

type FeedbackCommands interface {
	Submit(ctx context.Context, s *auth.Session, cmd SubmitFeedbackCommand) (*SubmitFeedbackResult, error)
}

type feedbackUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewFeedbackUseCase(uow shared.UnitOfWork, clk clock.Clock) FeedbackCommands {
	return &feedbackUseCaseImpl{uow: uow, clock: clk}
}

// Submit reads the booking status fresh; the insert re-checks it atomically.
func (uc *feedbackUseCaseImpl) Submit(ctx context.Context, s *auth.Session, cmd SubmitFeedbackCommand) (*SubmitFeedbackResult, error) {
	reads := uc.uow.CommandReads()
	b, err := reads.BookingByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	p, err := auth.Authorize(s, auth.ActionFeedbackSubmit, auth.Resource{OwnerID: b.CustomerID()})
	if err != nil {
		return nil, err
	}
	if b.Status() != booking.StatusCompleted {
		return nil, errs.NewInvalidState("submit feedback", b.Status().String())
	}

	f, err := feedback.NewFeedback(b.ID(), p.UserID, cmd.Rating, cmd.Comment, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	existing, err := findOptional(reads.FeedbackByBookingID(ctx, b.ID()))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrFeedbackExists
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Feedback().InsertIfCompleted(ctx, f)
		if err != nil {
			return err
		}
		if !inserted {
			return uc.diagnose(ctx, tx, b.ID())
		}
		return tx.Outbox().Enqueue(ctx, shared.TopicFeedbackSubmitted, feedbackEvent{
			FeedbackID: f.ID(),
			BookingID:  f.BookingID(),
			Rating:     f.Rating().Value(),
			OccurredAt: f.CreatedAt(),
		}, f.CreatedAt())
	})
	if err != nil {
		return nil, err
	}
	return &SubmitFeedbackResult{FeedbackID: f.ID()}, nil
}

// diagnose explains why the conditional insert wrote nothing.
func (uc *feedbackUseCaseImpl) diagnose(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) error {
	existing, err := findOptional(tx.Feedback().FindByBookingID(ctx, bookingID))
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrFeedbackExists
	}
	b, err := tx.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	return errs.NewInvalidState("submit feedback", b.Status().String())
}
