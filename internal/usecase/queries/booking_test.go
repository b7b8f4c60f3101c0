//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/booking"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/queries"
	"servicebay/tests/common/authtest"
	"servicebay/tests/common/builder"
	queriesmock "servicebay/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingQueriesTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockCtrl *gomock.Controller
	store    *queriesmock.MockBookingReadStore
	q        queries.BookingQueries
}

func (s *BookingQueriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.store = queriesmock.NewMockBookingReadStore(s.mockCtrl)
	s.q = queries.NewBookingQueries(s.store)
}

func (s *BookingQueriesTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingQueriesSuite(t *testing.T) {
	suite.Run(t, new(BookingQueriesTestSuite))
}

func (s *BookingQueriesTestSuite) TestGetByID() {
	s.Run("success: owner and assigned technician can read", func() {
		s.SetupTest()
		b := builder.NewBookingBuilder()
		v := b.BuildViewQuery()
		tech := uuid.New()
		v.AssignedTechnicianID = &tech
		s.store.EXPECT().FindByID(gomock.Any(), b.ID).Return(v, nil).Times(2)

		got, err := s.q.GetByID(s.ctx, authtest.SessionFor(b.CustomerID, auth.RoleCustomer), b.ID)
		s.Require().NoError(err)
		s.Equal(v, got)

		_, err = s.q.GetByID(s.ctx, authtest.SessionFor(tech, auth.RoleTechnician), b.ID)
		s.NoError(err)
	})

	s.Run("error: other customer is forbidden", func() {
		s.SetupTest()
		b := builder.NewBookingBuilder()
		s.store.EXPECT().FindByID(gomock.Any(), b.ID).Return(b.BuildViewQuery(), nil)

		_, err := s.q.GetByID(s.ctx, authtest.Session(auth.RoleCustomer), b.ID)
		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("error: missing booking names the entity", func() {
		s.SetupTest()
		id := uuid.New()
		s.store.EXPECT().FindByID(gomock.Any(), id).Return(nil, errs.Mark(errs.New("no rows"), errs.ErrNotFound))

		_, err := s.q.GetByID(s.ctx, authtest.Session(auth.RoleStaff), id)
		var nf *errs.NotFoundError
		s.Require().True(errs.As(err, &nf))
		s.Equal("booking", nf.Entity)
		s.Equal(id.String(), nf.ID)
	})
}

func (s *BookingQueriesTestSuite) TestList() {
	s.Run("success: customers are scoped to their own bookings", func() {
		s.SetupTest()
		customer := uuid.New()
		other := uuid.New()
		s.store.EXPECT().
			List(gomock.Any(), gomock.Any(), gomock.Nil(), int32(21)).
			DoAndReturn(func(_ context.Context, f queries.BookingFilter, _ *queries.Keyset, _ int32) ([]*queries.BookingView, error) {
				s.Require().NotNil(f.CustomerID)
				s.Equal(customer, *f.CustomerID)
				return nil, nil
			})

		rows, next, err := s.q.List(s.ctx, authtest.SessionFor(customer, auth.RoleCustomer), queries.BookingFilter{CustomerID: &other}, nil, 0)
		s.Require().NoError(err)
		s.Empty(rows)
		s.Nil(next)
	})

	s.Run("success: technicians see only their assignments", func() {
		s.SetupTest()
		tech := uuid.New()
		s.store.EXPECT().
			List(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f queries.BookingFilter, _ *queries.Keyset, _ int32) ([]*queries.BookingView, error) {
				s.Require().NotNil(f.TechnicianID)
				s.Equal(tech, *f.TechnicianID)
				s.Nil(f.CustomerID)
				return nil, nil
			})

		_, _, err := s.q.List(s.ctx, authtest.SessionFor(tech, auth.RoleTechnician), queries.BookingFilter{}, nil, 10)
		s.NoError(err)
	})

	s.Run("success: a full page yields a cursor that resumes after the last row", func() {
		s.SetupTest()
		base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
		var rows []*queries.BookingView
		for i := range 3 {
			v := builder.NewBookingBuilder().BuildViewQuery()
			v.CreatedAt = base.Add(-time.Duration(i) * time.Minute)
			rows = append(rows, v)
		}
		status := booking.StatusPending.String()
		filter := queries.BookingFilter{Status: &status}
		s.store.EXPECT().List(gomock.Any(), filter, gomock.Nil(), int32(3)).Return(rows, nil)

		got, next, err := s.q.List(s.ctx, authtest.Session(auth.RoleStaff), filter, nil, 2)
		s.Require().NoError(err)
		s.Len(got, 2)
		s.Require().NotNil(next)

		s.store.EXPECT().
			List(gomock.Any(), filter, gomock.Any(), int32(3)).
			DoAndReturn(func(_ context.Context, _ queries.BookingFilter, after *queries.Keyset, _ int32) ([]*queries.BookingView, error) {
				s.Require().NotNil(after)
				s.True(after.At.Equal(rows[1].CreatedAt))
				s.Equal(rows[1].ID, after.ID)
				return rows[2:], nil
			})

		got, next, err = s.q.List(s.ctx, authtest.Session(auth.RoleStaff), filter, next, 2)
		s.Require().NoError(err)
		s.Len(got, 1)
		s.Nil(next)
	})

	s.Run("error: malformed cursor", func() {
		s.SetupTest()

		_, _, err := s.q.List(s.ctx, authtest.Session(auth.RoleStaff), queries.BookingFilter{}, &queries.Cursor{After: "garbage"}, 20)
		s.ErrorIs(err, queries.ErrInvalidCursor)
	})
}

func (s *BookingQueriesTestSuite) TestGetSaga() {
	s.Run("success", func() {
		s.SetupTest()
		b := builder.NewBookingBuilder()
		saga := b.BuildSagaView(booking.SagaConfirmed)
		s.store.EXPECT().FindByID(gomock.Any(), b.ID).Return(b.BuildViewQuery(), nil)
		s.store.EXPECT().FindSaga(gomock.Any(), b.ID).Return(saga, nil)

		got, err := s.q.GetSaga(s.ctx, authtest.Session(auth.RoleStaff), b.ID)
		s.Require().NoError(err)
		s.Equal(saga, got)
	})

	s.Run("error: forbidden before the saga is read", func() {
		s.SetupTest()
		b := builder.NewBookingBuilder()
		s.store.EXPECT().FindByID(gomock.Any(), b.ID).Return(b.BuildViewQuery(), nil)

		_, err := s.q.GetSaga(s.ctx, authtest.Session(auth.RoleCustomer), b.ID)
		s.True(errs.Is(err, errs.ErrForbidden))
	})
}
