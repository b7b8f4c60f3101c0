//go:build unit

package queries_test

import (
	"context"
	"testing"

	"servicebay/internal/domain/auth"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/queries"
	"servicebay/tests/common/authtest"
	"servicebay/tests/common/builder"
	queriesmock "servicebay/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestJobQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("get: assignee reads, other technicians are forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockJobReadStore(ctrl)
		q := queries.NewJobQueries(store)
		j := builder.NewJobBuilder()
		store.EXPECT().FindByID(gomock.Any(), j.ID).Return(j.BuildViewQuery(), nil).Times(2)

		v, err := q.GetByID(ctx, authtest.SessionFor(j.TechnicianID, auth.RoleTechnician), j.ID)
		require.NoError(t, err)
		assert.Equal(t, j.ID, v.ID)

		_, err = q.GetByID(ctx, authtest.Session(auth.RoleTechnician), j.ID)
		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})

	t.Run("list: technicians are pinned to their own jobs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockJobReadStore(ctrl)
		q := queries.NewJobQueries(store)
		tech := uuid.New()
		store.EXPECT().
			List(gomock.Any(), queries.JobFilter{TechnicianID: &tech}, gomock.Nil(), int32(queries.MaxListLimit+1)).
			Return(nil, nil)

		_, next, err := q.List(ctx, authtest.SessionFor(tech, auth.RoleTechnician), queries.JobFilter{}, nil, 5000)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("list: customers cannot list jobs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queries.NewJobQueries(queriesmock.NewMockJobReadStore(ctrl))

		_, _, err := q.List(ctx, authtest.Session(auth.RoleCustomer), queries.JobFilter{}, nil, 20)
		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})
}

func TestTechnicianQueries(t *testing.T) {
	ctx := context.Background()
	idle := builder.NewJobBuilder().BuildTechnicianView(0)
	busy := builder.NewJobBuilder().BuildTechnicianView(2)
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name         string
		availability *string
		wantIDs      []uuid.UUID
	}{
		{name: "no filter", wantIDs: []uuid.UUID{idle.ID, busy.ID}},
		{name: "available only", availability: ptr("AVAILABLE"), wantIDs: []uuid.UUID{idle.ID}},
		{name: "busy only", availability: ptr("BUSY"), wantIDs: []uuid.UUID{busy.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockTechnicianReadStore(ctrl)
			q := queries.NewTechnicianQueries(store)
			a, b := *idle, *busy
			a.Availability, b.Availability = "", ""
			store.EXPECT().List(gomock.Any()).Return([]*queries.TechnicianView{&a, &b}, nil)

			got, err := q.List(ctx, authtest.Session(auth.RoleStaff), tt.availability)
			require.NoError(t, err)
			var ids []uuid.UUID
			for _, v := range got {
				ids = append(ids, v.ID)
				assert.NotEmpty(t, v.Availability)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	t.Run("error: unknown availability", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queries.NewTechnicianQueries(queriesmock.NewMockTechnicianReadStore(ctrl))

		_, err := q.List(ctx, authtest.Session(auth.RoleStaff), ptr("ON_LEAVE"))
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("error: technicians cannot list the roster", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queries.NewTechnicianQueries(queriesmock.NewMockTechnicianReadStore(ctrl))

		_, err := q.List(ctx, authtest.Session(auth.RoleTechnician), nil)
		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})
}

func TestInvoiceQueries(t *testing.T) {
	ctx := context.Background()
	b := builder.NewBookingBuilder()
	view := b.Payment.BuildInvoiceView(b)

	t.Run("render: owner downloads the document", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockInvoiceReadStore(ctrl)
		renderer := queriesmock.NewMockInvoiceRenderer(ctrl)
		q := queries.NewInvoiceQueries(store, renderer)
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)
		renderer.EXPECT().Render(view).Return([]byte("%PDF-1.4"), nil)

		doc, v, err := q.RenderPDF(ctx, authtest.SessionFor(b.CustomerID, auth.RoleCustomer), view.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), doc)
		assert.Equal(t, view.Number, v.Number)
	})

	t.Run("render: nothing is rendered for another customer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockInvoiceReadStore(ctrl)
		q := queries.NewInvoiceQueries(store, queriesmock.NewMockInvoiceRenderer(ctrl))
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		_, _, err := q.RenderPDF(ctx, authtest.Session(auth.RoleCustomer), view.ID)
		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})

	t.Run("by booking: missing invoice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockInvoiceReadStore(ctrl)
		q := queries.NewInvoiceQueries(store, queriesmock.NewMockInvoiceRenderer(ctrl))
		store.EXPECT().FindByBookingID(gomock.Any(), b.ID).Return(nil, errs.NewNotFound("invoice", b.ID.String()))

		_, err := q.GetByBooking(ctx, authtest.Session(auth.RoleStaff), b.ID)
		var nf *errs.NotFoundError
		require.True(t, errs.As(err, &nf))
		assert.Equal(t, "invoice for booking", nf.Entity)
	})
}

func TestFeedbackQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("technicians may read, other customers may not", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockFeedbackReadStore(ctrl)
		bookings := queriesmock.NewMockBookingReadStore(ctrl)
		q := queries.NewFeedbackQueries(store, bookings)
		b := builder.NewBookingBuilder()
		fb := builder.NewFeedbackBuilder().WithBookingID(b.ID).WithCustomerID(b.CustomerID).BuildViewQuery()
		bookings.EXPECT().FindByID(gomock.Any(), b.ID).Return(b.BuildViewQuery(), nil).Times(2)
		store.EXPECT().FindByBookingID(gomock.Any(), b.ID).Return(fb, nil)

		got, err := q.GetByBooking(ctx, authtest.Session(auth.RoleTechnician), b.ID)
		require.NoError(t, err)
		assert.Equal(t, fb, got)

		_, err = q.GetByBooking(ctx, authtest.Session(auth.RoleCustomer), b.ID)
		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})
}
