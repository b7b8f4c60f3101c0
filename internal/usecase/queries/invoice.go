package queries

import (
	"context"

	"servicebay/internal/domain/auth"

	"github.com/google/uuid"
)

type InvoiceReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceView, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*InvoiceView, error)
}

// InvoiceRenderer produces a printable document for an invoice.
type InvoiceRenderer interface {
	Render(inv *InvoiceView) ([]byte, error)
}

type InvoiceQueries interface {
	GetByID(ctx context.Context, s *auth.Session, id uuid.UUID) (*InvoiceView, error)
	GetByBooking(ctx context.Context, s *auth.Session, bookingID uuid.UUID) (*InvoiceView, error)
	RenderPDF(ctx context.Context, s *auth.Session, id uuid.UUID) ([]byte, *InvoiceView, error)
}

type invoiceQueriesImpl struct {
	store    InvoiceReadStore
	renderer InvoiceRenderer
}

func NewInvoiceQueries(store InvoiceReadStore, renderer InvoiceRenderer) InvoiceQueries {
	return &invoiceQueriesImpl{store: store, renderer: renderer}
}

func (q *invoiceQueriesImpl) GetByID(ctx context.Context, s *auth.Session, id uuid.UUID) (*InvoiceView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "invoice", id)
	}
	return authorizeInvoice(s, v)
}

func (q *invoiceQueriesImpl) GetByBooking(ctx context.Context, s *auth.Session, bookingID uuid.UUID) (*InvoiceView, error) {
	v, err := q.store.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "invoice for booking", bookingID)
	}
	return authorizeInvoice(s, v)
}

func (q *invoiceQueriesImpl) RenderPDF(ctx context.Context, s *auth.Session, id uuid.UUID) ([]byte, *InvoiceView, error) {
	v, err := q.GetByID(ctx, s, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := q.renderer.Render(v)
	if err != nil {
		return nil, nil, err
	}
	return doc, v, nil
}

func authorizeInvoice(s *auth.Session, v *InvoiceView) (*InvoiceView, error) {
	if _, err := auth.Authorize(s, auth.ActionInvoiceRead, auth.Resource{OwnerID: v.CustomerID}); err != nil {
		return nil, err
	}
	return v, nil
}
