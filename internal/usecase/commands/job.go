package commands

import (
	"context"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/job"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingAlreadyAssigned = errs.NewConflict("booking already has a job")
	ErrTechnicianBusy         = errs.NewConflict("technician already has an open job")
	ErrJobModified            = errs.NewConflict("job was modified concurrently")
	ErrNotTechnician          = errs.NewValidation("technicianId", "user is not an active technician")
)

type AssignJobCommand struct {
	BookingID    uuid.UUID
	TechnicianID uuid.UUID
	Notes        string
}

type AssignJobResult struct {
	JobID uuid.UUID
}

type JobCommands interface {
	Assign(ctx context.Context, s *auth.Session, cmd AssignJobCommand) (*AssignJobResult, error)
	Advance(ctx context.Context, s *auth.Session, id uuid.UUID, target job.Status) error
}

type jobUseCaseImpl struct {
	uow                 shared.UnitOfWork
	clock               clock.Clock
	enforceAvailability bool
}

func NewJobUseCase(uow shared.UnitOfWork, clk clock.Clock, enforceAvailability bool) JobCommands {
	return &jobUseCaseImpl{uow: uow, clock: clk, enforceAvailability: enforceAvailability}
}

func (uc *jobUseCaseImpl) Assign(ctx context.Context, s *auth.Session, cmd AssignJobCommand) (*AssignJobResult, error) {
	if _, err := auth.Authorize(s, auth.ActionJobAssign, auth.Resource{}); err != nil {
		return nil, err
	}
	j, err := job.NewJob(cmd.BookingID, cmd.TechnicianID, cmd.Notes, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, cmd.BookingID)
		if err != nil {
			return err
		}
		if b.Status() != booking.StatusConfirmed && b.Status() != booking.StatusInProgress {
			return errs.NewInvalidState("assign job", b.Status().String())
		}

		existing, err := findOptional(tx.Jobs().FindByBookingID(ctx, b.ID()))
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrBookingAlreadyAssigned
		}

		// Row lock keeps two assigns from both seeing the technician idle.
		tech, err := tx.Jobs().LockTechnician(ctx, cmd.TechnicianID)
		if err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				return errs.NewNotFound("technician", cmd.TechnicianID.String())
			}
			return err
		}
		if tech.Role != auth.RoleTechnician || !tech.Active {
			return ErrNotTechnician
		}
		if uc.enforceAvailability {
			open, err := tx.Jobs().CountOpenByTechnician(ctx, tech.ID)
			if err != nil {
				return err
			}
			if open > 0 {
				return ErrTechnicianBusy
			}
		}

		if err := tx.Jobs().Create(ctx, j); err != nil {
			if errs.Is(err, errs.ErrConflict) {
				return ErrBookingAlreadyAssigned
			}
			return err
		}
		return tx.Outbox().Enqueue(ctx, shared.TopicJobAssigned, jobEvent{
			JobID:        j.ID(),
			BookingID:    j.BookingID(),
			TechnicianID: j.TechnicianID(),
			Status:       j.Status().String(),
			OccurredAt:   j.AssignedAt(),
		}, j.AssignedAt())
	})
	if err != nil {
		return nil, err
	}
	return &AssignJobResult{JobID: j.ID()}, nil
}

func (uc *jobUseCaseImpl) Advance(ctx context.Context, s *auth.Session, id uuid.UUID, target job.Status) error {
	if !target.IsValid() {
		return errs.NewValidation("status", "unknown job status "+target.String())
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		j, err := tx.Jobs().FindByID(ctx, id)
		if err != nil {
			return err
		}
		action := auth.ActionJobAdvance
		if target == job.StatusCancelled {
			action = auth.ActionJobCancel
		}
		if _, err := auth.Authorize(s, action, auth.Resource{AssigneeID: j.TechnicianID()}); err != nil {
			return err
		}

		from, version := j.Status(), j.Version()
		now := uc.clock.Now()
		if err := j.TransitionTo(target, now); err != nil {
			return err
		}
		ok, err := tx.Jobs().UpdateStatus(ctx, j, from, version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrJobModified
		}

		if err := uc.syncBooking(ctx, tx, j, now); err != nil {
			return err
		}
		return tx.Outbox().Enqueue(ctx, shared.TopicJobStatusChanged, jobEvent{
			JobID:        j.ID(),
			BookingID:    j.BookingID(),
			TechnicianID: j.TechnicianID(),
			Status:       target.String(),
			Previous:     from.String(),
			OccurredAt:   now,
		}, now)
	})
}

// syncBooking carries job progress onto the booking lifecycle.
func (uc *jobUseCaseImpl) syncBooking(ctx context.Context, tx shared.Tx, j *job.Job, now time.Time) error {
	var from, to booking.Status
	switch j.Status() {
	case job.StatusInProgress:
		from, to = booking.StatusConfirmed, booking.StatusInProgress
	case job.StatusDone:
		from, to = booking.StatusInProgress, booking.StatusCompleted
	default:
		return nil
	}

	b, err := tx.Bookings().FindByID(ctx, j.BookingID())
	if err != nil {
		return err
	}
	// Staff may have moved the booking ahead already.
	if b.Status() == to || b.Status() == booking.StatusCompleted {
		return nil
	}
	if b.Status() != from {
		op := "start job"
		if j.Status() == job.StatusDone {
			op = "complete job"
		}
		return errs.NewInvalidState(op, "booking "+b.Status().String())
	}

	ok, err := tx.Bookings().UpdateStatus(ctx, b.ID(), from, to, now)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookingModified
	}
	return tx.Outbox().Enqueue(ctx, shared.TopicBookingStatusChanged, bookingEvent{
		BookingID:  b.ID(),
		CustomerID: b.CustomerID(),
		Status:     to.String(),
		Previous:   from.String(),
		TotalCents: b.Quote().Total.Cents(),
		OccurredAt: now,
	}, now)
}
