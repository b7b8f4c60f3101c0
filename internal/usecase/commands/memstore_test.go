//go:build unit

package commands_test

import (
	"context"
	"maps"
	"sync"
	"time"

	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/feedback"
	"servicebay/internal/domain/job"
	"servicebay/internal/domain/payment"
	"servicebay/internal/pkg/errs"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
)

// memStore is an in-memory UnitOfWork. Within runs against a snapshot that is
// restored when fn fails, so tests observe the same rollback a database gives.
type memStore struct {
	mu          sync.Mutex
	bookings    map[uuid.UUID]*booking.Booking
	sagas       map[uuid.UUID]booking.Saga
	payments    map[uuid.UUID]*payment.Payment
	invoices    map[uuid.UUID]*payment.Invoice
	jobs        map[uuid.UUID]*job.Job
	technicians map[uuid.UUID]*shared.TechnicianSnapshot
	feedback    map[uuid.UUID]*feedback.Feedback
	topics      []string
	sagaSteps   []booking.SagaStep
}

func newMemStore() *memStore {
	return &memStore{
		bookings:    map[uuid.UUID]*booking.Booking{},
		sagas:       map[uuid.UUID]booking.Saga{},
		payments:    map[uuid.UUID]*payment.Payment{},
		invoices:    map[uuid.UUID]*payment.Invoice{},
		jobs:        map[uuid.UUID]*job.Job{},
		technicians: map[uuid.UUID]*shared.TechnicianSnapshot{},
		feedback:    map[uuid.UUID]*feedback.Feedback{},
	}
}

type memSnapshot struct {
	bookings  map[uuid.UUID]*booking.Booking
	sagas     map[uuid.UUID]booking.Saga
	payments  map[uuid.UUID]*payment.Payment
	invoices  map[uuid.UUID]*payment.Invoice
	jobs      map[uuid.UUID]*job.Job
	feedback  map[uuid.UUID]*feedback.Feedback
	topics    []string
	sagaSteps []booking.SagaStep
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		bookings:  maps.Clone(m.bookings),
		sagas:     maps.Clone(m.sagas),
		payments:  maps.Clone(m.payments),
		invoices:  maps.Clone(m.invoices),
		jobs:      maps.Clone(m.jobs),
		feedback:  maps.Clone(m.feedback),
		topics:    append([]string(nil), m.topics...),
		sagaSteps: append([]booking.SagaStep(nil), m.sagaSteps...),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings, m.sagas, m.payments, m.invoices = s.bookings, s.sagas, s.payments, s.invoices
	m.jobs, m.feedback, m.topics, m.sagaSteps = s.jobs, s.feedback, s.topics, s.sagaSteps
}

func (m *memStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snap := m.snapshot()
	if err := fn(ctx, memTx{m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) CommandReads() shared.CommandReads { return memReads{m} }

// seeding and inspection

func (m *memStore) putBooking(b *booking.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID()] = cloneBooking(b, b.Status(), b.Version(), b.UpdatedAt())
}

func (m *memStore) putSaga(s booking.Saga) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sagas[s.BookingID] = s
}

func (m *memStore) putPayment(p *payment.Payment, inv *payment.Invoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID()] = p
	m.invoices[inv.PaymentID()] = inv
}

func (m *memStore) putJob(j *job.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID()] = cloneJob(j, j.Status(), j.Version())
}

func (m *memStore) putTechnician(t *shared.TechnicianSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.technicians[t.ID] = t
}

func (m *memStore) booking(id uuid.UUID) *booking.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id]
}

func (m *memStore) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

func (m *memStore) saga(id uuid.UUID) (booking.Saga, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sagas[id]
	return s, ok
}

func (m *memStore) paymentFor(bookingID uuid.UUID) *payment.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.BookingID() == bookingID {
			return p
		}
	}
	return nil
}

func (m *memStore) invoiceFor(paymentID uuid.UUID) *payment.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invoices[paymentID]
}

func (m *memStore) job(id uuid.UUID) *job.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id]
}

func (m *memStore) feedbackFor(bookingID uuid.UUID) *feedback.Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feedback[bookingID]
}

func (m *memStore) publishedTopics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.topics...)
}

func (m *memStore) sagaHistory() []booking.SagaStep {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]booking.SagaStep(nil), m.sagaSteps...)
}

func cloneBooking(b *booking.Booking, status booking.Status, version int32, updatedAt time.Time) *booking.Booking {
	return booking.ReconstructBooking(b.ID(), b.Draft(), status, b.Quote(), version, b.CreatedAt(), updatedAt)
}

func cloneJob(j *job.Job, status job.Status, version int32) *job.Job {
	return job.ReconstructJob(j.ID(), j.BookingID(), j.TechnicianID(), status, j.Notes(), version, j.AssignedAt(), j.UpdatedAt())
}

// transaction-bound repositories

type memTx struct{ m *memStore }

func (t memTx) Bookings() shared.BookingRepository { return memBookings{t.m} }
func (t memTx) Payments() shared.PaymentRepository { return memPayments{t.m} }
func (t memTx) Invoices() shared.InvoiceRepository { return memInvoices{t.m} }
func (t memTx) Sagas() shared.SagaRepository { return memSagas{t.m} }
func (t memTx) Jobs() shared.JobRepository { return memJobs{t.m} }
func (t memTx) Feedback() shared.FeedbackRepository { return memFeedback{t.m} }
func (t memTx) Outbox() shared.OutboxRepository { return memOutbox{t.m} }
func (t memTx) Reads() shared.CommandReads { return memReads{t.m} }

type memBookings struct{ m *memStore }

func (r memBookings) Create(_ context.Context, b *booking.Booking) error {
	r.m.putBooking(b)
	return nil
}

func (r memBookings) Update(_ context.Context, b *booking.Booking, expectedStatus booking.Status, expectedVersion int32) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.bookings[b.ID()]
	if !ok || cur.Status() != expectedStatus || cur.Version() != expectedVersion {
		return false, nil
	}
	r.m.bookings[b.ID()] = cloneBooking(b, b.Status(), expectedVersion+1, b.UpdatedAt())
	return true, nil
}

func (r memBookings) UpdateStatus(_ context.Context, id uuid.UUID, from, to booking.Status, now time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.bookings[id]
	if !ok || cur.Status() != from {
		return false, nil
	}
	r.m.bookings[id] = cloneBooking(cur, to, cur.Version()+1, now)
	return true, nil
}

func (r memBookings) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, errs.NewNotFound("booking", id.String())
	}
	return cloneBooking(b, b.Status(), b.Version(), b.UpdatedAt()), nil
}

func (r memBookings) ListStalePending(_ context.Context, before time.Time, steps []booking.SagaStep, limit int32) ([]uuid.UUID, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var ids []uuid.UUID
	for id, b := range r.m.bookings {
		if b.Status() != booking.StatusPending || !b.CreatedAt().Before(before) {
			continue
		}
		s, ok := r.m.sagas[id]
		if !ok {
			continue
		}
		for _, step := range steps {
			if s.Step == step {
				ids = append(ids, id)
				break
			}
		}
		if int32(len(ids)) == limit {
			break
		}
	}
	return ids, nil
}

type memPayments struct{ m *memStore }

func (r memPayments) Create(_ context.Context, p *payment.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.payments {
		if existing.Reference() == p.Reference() || existing.BookingID() == p.BookingID() {
			return errs.NewConflict("duplicate payment")
		}
	}
	r.m.payments[p.ID()] = p
	return nil
}

func (r memPayments) FindByReference(_ context.Context, reference string) (*payment.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.payments {
		if p.Reference() == reference {
			return p, nil
		}
	}
	return nil, errs.NewNotFound("payment", reference)
}

func (r memPayments) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	if p := r.m.paymentFor(bookingID); p != nil {
		return p, nil
	}
	return nil, errs.NewNotFound("payment", bookingID.String())
}

type memInvoices struct{ m *memStore }

func (r memInvoices) Create(_ context.Context, inv *payment.Invoice) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.invoices[inv.PaymentID()] = inv
	return nil
}

func (r memInvoices) FindByPaymentID(_ context.Context, paymentID uuid.UUID) (*payment.Invoice, error) {
	if inv := r.m.invoiceFor(paymentID); inv != nil {
		return inv, nil
	}
	return nil, errs.NewNotFound("invoice", paymentID.String())
}

type memSagas struct{ m *memStore }

func (r memSagas) Save(_ context.Context, s booking.Saga) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, other := range r.m.sagas {
		if s.Reference != "" && other.Reference == s.Reference && id != s.BookingID {
			return errs.NewConflict("saga reference already used")
		}
	}
	r.m.sagas[s.BookingID] = s
	r.m.sagaSteps = append(r.m.sagaSteps, s.Step)
	return nil
}

func (r memSagas) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*booking.Saga, error) {
	s, ok := r.m.saga(bookingID)
	if !ok {
		return nil, errs.NewNotFound("saga", bookingID.String())
	}
	return &s, nil
}

func (r memSagas) FindByReference(_ context.Context, reference string) (*booking.Saga, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.sagas {
		if reference != "" && s.Reference == reference {
			return &s, nil
		}
	}
	return nil, errs.NewNotFound("saga", reference)
}

type memJobs struct{ m *memStore }

func (r memJobs) Create(_ context.Context, j *job.Job) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.jobs {
		if existing.BookingID() == j.BookingID() {
			return errs.NewConflict("duplicate job")
		}
	}
	r.m.jobs[j.ID()] = cloneJob(j, j.Status(), j.Version())
	return nil
}

func (r memJobs) UpdateStatus(_ context.Context, j *job.Job, from job.Status, expectedVersion int32) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.jobs[j.ID()]
	if !ok || cur.Status() != from || cur.Version() != expectedVersion {
		return false, nil
	}
	r.m.jobs[j.ID()] = cloneJob(j, j.Status(), expectedVersion+1)
	return true, nil
}

func (r memJobs) FindByID(_ context.Context, id uuid.UUID) (*job.Job, error) {
	j := r.m.job(id)
	if j == nil {
		return nil, errs.NewNotFound("job", id.String())
	}
	return cloneJob(j, j.Status(), j.Version()), nil
}

func (r memJobs) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*job.Job, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, j := range r.m.jobs {
		if j.BookingID() == bookingID {
			return cloneJob(j, j.Status(), j.Version()), nil
		}
	}
	return nil, errs.NewNotFound("job", bookingID.String())
}

func (r memJobs) CountOpenByTechnician(_ context.Context, technicianID uuid.UUID) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, j := range r.m.jobs {
		if j.TechnicianID() == technicianID && j.Status().IsOpen() {
			n++
		}
	}
	return n, nil
}

func (r memJobs) LockTechnician(_ context.Context, technicianID uuid.UUID) (*shared.TechnicianSnapshot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.technicians[technicianID]
	if !ok {
		return nil, errs.NewNotFound("user", technicianID.String())
	}
	return t, nil
}

type memFeedback struct{ m *memStore }

func (r memFeedback) InsertIfCompleted(_ context.Context, f *feedback.Feedback) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[f.BookingID()]
	if !ok || b.Status() != booking.StatusCompleted {
		return false, nil
	}
	if _, exists := r.m.feedback[f.BookingID()]; exists {
		return false, nil
	}
	r.m.feedback[f.BookingID()] = f
	return true, nil
}

func (r memFeedback) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*feedback.Feedback, error) {
	if f := r.m.feedbackFor(bookingID); f != nil {
		return f, nil
	}
	return nil, errs.NewNotFound("feedback", bookingID.String())
}

type memOutbox struct{ m *memStore }

func (r memOutbox) Enqueue(_ context.Context, topic string, _ any, _ time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.topics = append(r.m.topics, topic)
	return nil
}

func (r memOutbox) ClaimBatch(context.Context, int32, time.Time) ([]shared.OutboxEvent, error) {
	return nil, nil
}

func (r memOutbox) MarkSent(context.Context, uuid.UUID, time.Time) error { return nil }

func (r memOutbox) MarkFailed(context.Context, uuid.UUID, string, time.Time, bool) error {
	return nil
}

// reads outside a transaction

type memReads struct{ m *memStore }

func (r memReads) BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return memBookings(r).FindByID(ctx, id)
}

func (r memReads) SagaByBookingID(ctx context.Context, bookingID uuid.UUID) (*booking.Saga, error) {
	return memSagas(r).FindByBookingID(ctx, bookingID)
}

func (r memReads) SagaByReference(ctx context.Context, reference string) (*booking.Saga, error) {
	return memSagas(r).FindByReference(ctx, reference)
}

func (r memReads) PaymentByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	return memPayments(r).FindByReference(ctx, reference)
}

func (r memReads) PaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	return memPayments(r).FindByBookingID(ctx, bookingID)
}

func (r memReads) InvoiceByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Invoice, error) {
	return memInvoices(r).FindByPaymentID(ctx, paymentID)
}

func (r memReads) JobByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return memJobs(r).FindByID(ctx, id)
}

func (r memReads) FeedbackByBookingID(ctx context.Context, bookingID uuid.UUID) (*feedback.Feedback, error) {
	return memFeedback(r).FindByBookingID(ctx, bookingID)
}
