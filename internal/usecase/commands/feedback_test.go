//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/feedback"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/shared"
	"servicebay/tests/common/authtest"
	"servicebay/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC))

	setup := func(status booking.Status) (*memStore, *builder.BookingBuilder, commands.FeedbackCommands) {
		store := newMemStore()
		b := builder.NewBookingBuilder().WithStatus(status)
		store.putBooking(b.Reconstruct())
		return store, b, commands.NewFeedbackUseCase(store, clk)
	}

	t.Run("success: owner rates a completed booking", func(t *testing.T) {
		store, b, uc := setup(booking.StatusCompleted)

		res, err := uc.Submit(ctx, authtest.SessionFor(b.CustomerID, auth.RoleCustomer), commands.SubmitFeedbackCommand{
			BookingID: b.ID, Rating: 4, Comment: "  Good, a bit slow  ",
		})
		require.NoError(t, err)

		stored := store.feedbackFor(b.ID)
		require.NotNil(t, stored)
		assert.Equal(t, res.FeedbackID, stored.ID())
		assert.Equal(t, 4, stored.Rating().Value())
		assert.Equal(t, b.CustomerID, stored.CustomerID())
		assert.Equal(t, clk.Now(), stored.CreatedAt())
		assert.Equal(t, []string{shared.TopicFeedbackSubmitted}, store.publishedTopics())
	})

	t.Run("error: second submission conflicts", func(t *testing.T) {
		store, b, uc := setup(booking.StatusCompleted)
		existing, err := feedback.NewFeedback(b.ID, b.CustomerID, 5, "", clk.Now())
		require.NoError(t, err)
		_, err = memTx{store}.Feedback().InsertIfCompleted(ctx, existing)
		require.NoError(t, err)

		_, err = uc.Submit(ctx, authtest.SessionFor(b.CustomerID, auth.RoleCustomer), commands.SubmitFeedbackCommand{BookingID: b.ID, Rating: 3})
		assert.ErrorIs(t, err, commands.ErrFeedbackExists)
	})

	cases := []struct {
		name     string
		status   booking.Status
		rating   int
		session  func(b *builder.BookingBuilder) *auth.Session
		sentinel error
	}{
		{name: "booking not completed", status: booking.StatusInProgress, rating: 5, sentinel: errs.ErrInvalidState},
		{name: "booking cancelled", status: booking.StatusCancelled, rating: 5, sentinel: errs.ErrInvalidState},
		{name: "rating above five", status: booking.StatusCompleted, rating: 6, sentinel: errs.ErrValidation},
		{name: "rating zero", status: booking.StatusCompleted, rating: 0, sentinel: errs.ErrValidation},
		{
			name: "staff cannot rate", status: booking.StatusCompleted, rating: 5, sentinel: errs.ErrForbidden,
			session: func(*builder.BookingBuilder) *auth.Session { return authtest.Session(auth.RoleStaff) },
		},
		{
			name: "other customer", status: booking.StatusCompleted, rating: 5, sentinel: errs.ErrForbidden,
			session: func(*builder.BookingBuilder) *auth.Session { return authtest.Session(auth.RoleCustomer) },
		},
	}
	for _, tc := range cases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			store, b, uc := setup(tc.status)
			sess := authtest.SessionFor(b.CustomerID, auth.RoleCustomer)
			if tc.session != nil {
				sess = tc.session(b)
			}

			res, err := uc.Submit(ctx, sess, commands.SubmitFeedbackCommand{BookingID: b.ID, Rating: tc.rating})
			assert.Nil(t, res)
			assert.True(t, errs.Is(err, tc.sentinel), "unexpected error: %v", err)
			assert.Nil(t, store.feedbackFor(b.ID))
		})
	}
}
