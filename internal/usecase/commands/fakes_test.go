//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	domain "reservas-api/internal/domain/outbox"
	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/infra"
	"reservas-api/internal/pkg/errs"
	"reservas-api/internal/usecase/shared"
)

type savedReservation struct {
	id        int64
	supplier  string
	pickup    string
	dropoff   string
	pickupAt  time.Time
	dropoffAt time.Time
	amount    reservation.Money
	customer  reservation.Snapshot
	vehicle   reservation.Snapshot
	status    reservation.Status
	createdAt time.Time
	addons    []reservation.Addon
}

// storeState is the whole fake database. The fake unit of work copies it
// before running a transaction and discards the copy on failure, which makes
// rollback observable in tests.
type storeState struct {
	nextResID    int64
	nextEventID  int64
	reservations map[string]*savedReservation
	history      map[string][]reservation.StatusChange
	requests     map[string][]reservation.ProviderRequest
	events       map[int64]*domain.Event
}

func newStoreState() *storeState {
	return &storeState{
		nextResID:    1,
		nextEventID:  1,
		reservations: map[string]*savedReservation{},
		history:      map[string][]reservation.StatusChange{},
		requests:     map[string][]reservation.ProviderRequest{},
		events:       map[int64]*domain.Event{},
	}
}

func (s *storeState) clone() *storeState {
	out := newStoreState()
	out.nextResID = s.nextResID
	out.nextEventID = s.nextEventID
	for k, v := range s.reservations {
		copied := *v
		out.reservations[k] = &copied
	}
	for k, v := range s.history {
		out.history[k] = append([]reservation.StatusChange(nil), v...)
	}
	for k, v := range s.requests {
		out.requests[k] = append([]reservation.ProviderRequest(nil), v...)
	}
	for k, v := range s.events {
		copied := *v
		out.events[k] = &copied
	}
	return out
}

type fakeReservationRepo struct {
	state *storeState
}

func (r *fakeReservationRepo) Save(_ context.Context, res *reservation.Reservation) (int64, error) {
	code := res.Code().Value()
	if _, exists := r.state.reservations[code]; exists {
		return 0, infra.WrapRepoErr(infra.KindDuplicateKey, "duplicate reservation code", errs.New("unique violation"))
	}
	id := r.state.nextResID
	r.state.nextResID++
	r.state.reservations[code] = &savedReservation{
		id:        id,
		supplier:  res.SupplierCode(),
		pickup:    res.PickupOfficeCode(),
		dropoff:   res.DropoffOfficeCode(),
		pickupAt:  res.PickupAt(),
		dropoffAt: res.DropoffAt(),
		amount:    res.TotalAmount(),
		customer:  res.Customer().Copy(),
		vehicle:   res.Vehicle().Copy(),
		status:    res.Status(),
		createdAt: res.CreatedAt(),
		addons:    append([]reservation.Addon(nil), res.Addons()...),
	}
	return id, nil
}

func (r *fakeReservationRepo) FindByCode(_ context.Context, code reservation.Code) (*reservation.Reservation, error) {
	saved, ok := r.state.reservations[code.Value()]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", errs.New("no rows"))
	}
	return reservation.Reconstruct(
		saved.id, code,
		saved.supplier, saved.pickup, saved.dropoff,
		saved.pickupAt, saved.dropoffAt,
		saved.amount, saved.customer, saved.vehicle,
		saved.status, saved.createdAt,
		saved.addons,
		append([]reservation.StatusChange(nil), r.state.history[code.Value()]...),
	), nil
}

func (r *fakeReservationRepo) ExistsCode(_ context.Context, code reservation.Code) (bool, error) {
	_, ok := r.state.reservations[code.Value()]
	return ok, nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, code reservation.Code, status reservation.Status) error {
	saved, ok := r.state.reservations[code.Value()]
	if !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "reservation not found", errs.New("no rows"))
	}
	saved.status = status
	return nil
}

func (r *fakeReservationRepo) AddStatusHistory(_ context.Context, code reservation.Code, change reservation.StatusChange) error {
	r.state.history[code.Value()] = append(r.state.history[code.Value()], change)
	return nil
}

func (r *fakeReservationRepo) AddProviderRequest(_ context.Context, req reservation.ProviderRequest) error {
	key := req.ReservationCode.Value()
	r.state.requests[key] = append(r.state.requests[key], req)
	return nil
}

func (r *fakeReservationRepo) CountSuccessfulRequests(_ context.Context, code reservation.Code, requestType reservation.RequestType) (int, error) {
	count := 0
	for _, req := range r.state.requests[code.Value()] {
		if req.RequestType == requestType && req.Status == reservation.RequestStatusSuccess {
			count++
		}
	}
	return count, nil
}

type fakeOutboxRepo struct {
	state      *storeState
	failAppend bool
}

func (r *fakeOutboxRepo) Append(_ context.Context, events []domain.Event) error {
	if r.failAppend {
		return errs.New("outbox constraint violated")
	}
	for _, ev := range events {
		stored := ev
		stored.ID = r.state.nextEventID
		stored.Status = domain.StatusPending
		r.state.events[stored.ID] = &stored
		r.state.nextEventID++
	}
	return nil
}

func (r *fakeOutboxRepo) ClaimPending(_ context.Context, limit int) ([]int64, error) {
	var ids []int64
	for id := int64(1); id < r.state.nextEventID && len(ids) < limit; id++ {
		ev, ok := r.state.events[id]
		if ok && (ev.Status == domain.StatusPending || ev.Status == domain.StatusFailed) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeOutboxRepo) Load(_ context.Context, id int64) (*domain.Event, error) {
	ev, ok := r.state.events[id]
	if !ok {
		return nil, errs.New("event not found")
	}
	copied := *ev
	return &copied, nil
}

func (r *fakeOutboxRepo) MarkProcessed(_ context.Context, id int64, _ time.Time) error {
	r.state.events[id].Status = domain.StatusProcessed
	r.state.events[id].LastError = nil
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, id int64, lastError string) error {
	r.state.events[id].Status = domain.StatusFailed
	r.state.events[id].LastError = &lastError
	return nil
}

type fakeTx struct {
	reservations *fakeReservationRepo
	outbox       *fakeOutboxRepo
}

func (t *fakeTx) Reservations() shared.ReservationRepository { return t.reservations }
func (t *fakeTx) Outbox() shared.OutboxRepository            { return t.outbox }

type fakeUoW struct {
	mu             sync.Mutex
	state          *storeState
	failOutbox     bool
	committedCalls int
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{state: newStoreState()}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	working := u.state.clone()
	tx := &fakeTx{
		reservations: &fakeReservationRepo{state: working},
		outbox:       &fakeOutboxRepo{state: working, failAppend: u.failOutbox},
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	u.state = working
	u.committedCalls++
	return nil
}

type fixedCodeGenerator struct {
	code string
	err  error
}

func (g *fixedCodeGenerator) Generate(context.Context) (reservation.Code, error) {
	if g.err != nil {
		return reservation.Code{}, g.err
	}
	return reservation.NewCode(g.code)
}

type auditCall struct {
	action  string
	code    string
	actor   string
	context map[string]any
}

type fakeAuditSink struct {
	mu    sync.Mutex
	calls []auditCall
}

func (s *fakeAuditSink) ReservationCreated(code, actor string, ctx map[string]any) {
	s.record("created", code, actor, ctx)
}

func (s *fakeAuditSink) ReservationModified(code, actor string, ctx map[string]any) {
	s.record("modified", code, actor, ctx)
}

func (s *fakeAuditSink) record(action, code, actor string, ctx map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, auditCall{action: action, code: code, actor: actor, context: ctx})
}
