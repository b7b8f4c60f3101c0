//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/job"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/shared"
	"servicebay/tests/common/authtest"
	"servicebay/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobFixture struct {
	store *memStore
	clock *clock.MockClock
	staff *auth.Session
}

func newJobFixture() *jobFixture {
	return &jobFixture{
		store: newMemStore(),
		clock: clock.NewMockClock(time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)),
		staff: authtest.Session(auth.RoleStaff),
	}
}

// confirmedBooking seeds a booking in the given status with an active technician ready to take it.
func (f *jobFixture) confirmedBooking(status booking.Status) (*builder.BookingBuilder, *builder.JobBuilder) {
	b := builder.NewBookingBuilder().WithStatus(status)
	f.store.putBooking(b.Reconstruct())
	j := builder.NewJobBuilder().WithBookingID(b.ID)
	f.store.putTechnician(j.BuildTechnicianSnapshot())
	return b, j
}

func assignCommand(j *builder.JobBuilder) commands.AssignJobCommand {
	return commands.AssignJobCommand{BookingID: j.BookingID, TechnicianID: j.TechnicianID, Notes: j.Notes}
}

func TestAssignJob(t *testing.T) {
	ctx := context.Background()

	t.Run("success: queues the job and publishes it", func(t *testing.T) {
		f := newJobFixture()
		_, j := f.confirmedBooking(booking.StatusConfirmed)
		uc := commands.NewJobUseCase(f.store, f.clock, true)

		res, err := uc.Assign(ctx, f.staff, assignCommand(j))
		require.NoError(t, err)

		stored := f.store.job(res.JobID)
		require.NotNil(t, stored)
		assert.Equal(t, job.StatusQueued, stored.Status())
		assert.Equal(t, j.TechnicianID, stored.TechnicianID())
		assert.Equal(t, f.clock.Now(), stored.AssignedAt())
		assert.Equal(t, []string{shared.TopicJobAssigned}, f.store.publishedTopics())
	})

	t.Run("success: busy technician accepted when availability is not enforced", func(t *testing.T) {
		f := newJobFixture()
		_, j := f.confirmedBooking(booking.StatusConfirmed)
		f.store.putJob(builder.NewJobBuilder().WithTechnicianID(j.TechnicianID).WithStatus(job.StatusInProgress).Reconstruct())
		uc := commands.NewJobUseCase(f.store, f.clock, false)

		_, err := uc.Assign(ctx, f.staff, assignCommand(j))
		require.NoError(t, err)
	})

	cases := []struct {
		name    string
		status  booking.Status
		prepare func(f *jobFixture, j *builder.JobBuilder)
		session func(f *jobFixture) *auth.Session
		check   func(err error) bool
	}{
		{
			name:   "booking still pending",
			status: booking.StatusPending,
			check:  func(err error) bool { return errs.Is(err, errs.ErrInvalidState) },
		},
		{
			name:   "booking already has a job",
			status: booking.StatusConfirmed,
			prepare: func(f *jobFixture, j *builder.JobBuilder) {
				f.store.putJob(builder.NewJobBuilder().WithBookingID(j.BookingID).Reconstruct())
			},
			check: func(err error) bool { return errs.Is(err, commands.ErrBookingAlreadyAssigned) },
		},
		{
			name:   "technician has an open job",
			status: booking.StatusInProgress,
			prepare: func(f *jobFixture, j *builder.JobBuilder) {
				f.store.putJob(builder.NewJobBuilder().WithTechnicianID(j.TechnicianID).WithStatus(job.StatusBlocked).Reconstruct())
			},
			check: func(err error) bool { return errs.Is(err, commands.ErrTechnicianBusy) },
		},
		{
			name:   "assignee is not a technician",
			status: booking.StatusConfirmed,
			prepare: func(f *jobFixture, j *builder.JobBuilder) {
				snap := j.BuildTechnicianSnapshot()
				snap.Role = auth.RoleStaff
				f.store.putTechnician(snap)
			},
			check: func(err error) bool { return errs.Is(err, commands.ErrNotTechnician) },
		},
		{
			name:   "technician deactivated",
			status: booking.StatusConfirmed,
			prepare: func(f *jobFixture, j *builder.JobBuilder) {
				snap := j.BuildTechnicianSnapshot()
				snap.Active = false
				f.store.putTechnician(snap)
			},
			check: func(err error) bool { return errs.Is(err, commands.ErrNotTechnician) },
		},
		{
			name:    "unknown technician",
			status:  booking.StatusConfirmed,
			prepare: func(_ *jobFixture, j *builder.JobBuilder) { j.TechnicianID = uuid.New() },
			check: func(err error) bool {
				var nf *errs.NotFoundError
				return errs.As(err, &nf) && nf.Entity == "technician"
			},
		},
		{
			name:    "customers cannot assign",
			status:  booking.StatusConfirmed,
			session: func(*jobFixture) *auth.Session { return authtest.Session(auth.RoleCustomer) },
			check:   func(err error) bool { return errs.Is(err, errs.ErrForbidden) },
		},
	}
	for _, tc := range cases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			f := newJobFixture()
			_, j := f.confirmedBooking(tc.status)
			if tc.prepare != nil {
				tc.prepare(f, j)
			}
			sess := f.staff
			if tc.session != nil {
				sess = tc.session(f)
			}
			uc := commands.NewJobUseCase(f.store, f.clock, true)

			res, err := uc.Assign(ctx, sess, assignCommand(j))
			assert.Nil(t, res)
			assert.True(t, tc.check(err), "unexpected error: %v", err)
			assert.Empty(t, f.store.publishedTopics())
		})
	}
}

func TestAdvanceJob(t *testing.T) {
	ctx := context.Background()

	t.Run("success: technician drives the booking to completion", func(t *testing.T) {
		f := newJobFixture()
		b, jb := f.confirmedBooking(booking.StatusConfirmed)
		j := jb.Reconstruct()
		f.store.putJob(j)
		uc := commands.NewJobUseCase(f.store, f.clock, true)
		tech := authtest.SessionFor(jb.TechnicianID, auth.RoleTechnician)

		require.NoError(t, uc.Advance(ctx, tech, j.ID(), job.StatusInProgress))
		assert.Equal(t, booking.StatusInProgress, f.store.booking(b.ID).Status())
		assert.Equal(t, int32(2), f.store.job(j.ID()).Version())

		f.clock.Add(time.Hour)
		require.NoError(t, uc.Advance(ctx, tech, j.ID(), job.StatusDone))
		assert.Equal(t, job.StatusDone, f.store.job(j.ID()).Status())
		assert.Equal(t, booking.StatusCompleted, f.store.booking(b.ID).Status())

		assert.Equal(t, []string{
			shared.TopicBookingStatusChanged, shared.TopicJobStatusChanged,
			shared.TopicBookingStatusChanged, shared.TopicJobStatusChanged,
		}, f.store.publishedTopics())
	})

	t.Run("success: job finishes after staff already completed the booking", func(t *testing.T) {
		f := newJobFixture()
		b, jb := f.confirmedBooking(booking.StatusCompleted)
		j := jb.WithStatus(job.StatusInProgress).Reconstruct()
		f.store.putJob(j)
		uc := commands.NewJobUseCase(f.store, f.clock, true)

		require.NoError(t, uc.Advance(ctx, f.staff, j.ID(), job.StatusDone))
		assert.Equal(t, job.StatusDone, f.store.job(j.ID()).Status())
		assert.Equal(t, booking.StatusCompleted, f.store.booking(b.ID).Status())
		assert.Equal(t, []string{shared.TopicJobStatusChanged}, f.store.publishedTopics())
	})

	t.Run("success: blocked job resumes on a booking staff already completed", func(t *testing.T) {
		f := newJobFixture()
		_, jb := f.confirmedBooking(booking.StatusCompleted)
		j := jb.WithStatus(job.StatusBlocked).Reconstruct()
		f.store.putJob(j)
		uc := commands.NewJobUseCase(f.store, f.clock, true)

		require.NoError(t, uc.Advance(ctx, f.staff, j.ID(), job.StatusInProgress))
		assert.Equal(t, job.StatusInProgress, f.store.job(j.ID()).Status())
	})

	t.Run("success: blocking leaves the booking alone", func(t *testing.T) {
		f := newJobFixture()
		b, jb := f.confirmedBooking(booking.StatusInProgress)
		j := jb.WithStatus(job.StatusInProgress).Reconstruct()
		f.store.putJob(j)
		uc := commands.NewJobUseCase(f.store, f.clock, true)

		require.NoError(t, uc.Advance(ctx, f.staff, j.ID(), job.StatusBlocked))
		assert.Equal(t, job.StatusBlocked, f.store.job(j.ID()).Status())
		assert.Equal(t, booking.StatusInProgress, f.store.booking(b.ID).Status())
		assert.Equal(t, []string{shared.TopicJobStatusChanged}, f.store.publishedTopics())
	})

	cases := []struct {
		name     string
		from     job.Status
		target   job.Status
		session  func(jb *builder.JobBuilder) *auth.Session
		sentinel error
	}{
		{name: "done is terminal", from: job.StatusDone, target: job.StatusInProgress, sentinel: errs.ErrIllegalTransition},
		{name: "queued cannot finish directly", from: job.StatusQueued, target: job.StatusDone, sentinel: errs.ErrIllegalTransition},
		{name: "unknown status", from: job.StatusQueued, target: job.Status("PAUSED"), sentinel: errs.ErrValidation},
		{
			name: "another technician", from: job.StatusQueued, target: job.StatusInProgress, sentinel: errs.ErrForbidden,
			session: func(*builder.JobBuilder) *auth.Session { return authtest.Session(auth.RoleTechnician) },
		},
		{
			name: "technicians cannot cancel", from: job.StatusQueued, target: job.StatusCancelled, sentinel: errs.ErrForbidden,
			session: func(jb *builder.JobBuilder) *auth.Session {
				return authtest.SessionFor(jb.TechnicianID, auth.RoleTechnician)
			},
		},
	}
	for _, tc := range cases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			f := newJobFixture()
			_, jb := f.confirmedBooking(booking.StatusConfirmed)
			j := jb.WithStatus(tc.from).Reconstruct()
			f.store.putJob(j)
			sess := f.staff
			if tc.session != nil {
				sess = tc.session(jb)
			}
			uc := commands.NewJobUseCase(f.store, f.clock, true)

			err := uc.Advance(ctx, sess, j.ID(), tc.target)
			assert.True(t, errs.Is(err, tc.sentinel), "unexpected error: %v", err)
			assert.Equal(t, tc.from, f.store.job(j.ID()).Status())
		})
	}

	t.Run("error: finishing a job whose booking was cancelled rolls back", func(t *testing.T) {
		f := newJobFixture()
		_, jb := f.confirmedBooking(booking.StatusCancelled)
		j := jb.WithStatus(job.StatusInProgress).Reconstruct()
		f.store.putJob(j)
		uc := commands.NewJobUseCase(f.store, f.clock, true)

		err := uc.Advance(ctx, f.staff, j.ID(), job.StatusDone)
		assert.True(t, errs.Is(err, errs.ErrInvalidState))
		assert.Equal(t, job.StatusInProgress, f.store.job(j.ID()).Status())
	})
}
