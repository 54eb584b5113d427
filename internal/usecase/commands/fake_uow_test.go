//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"sort"
	"time"

	"parkhub/internal/domain/payment"
	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/domain/waitlist"
	"parkhub/internal/infra"
	"parkhub/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeUoW drives the command layer against in-memory state. Rollback is not
// simulated; tests only exercise paths where the implementation either
// commits or fails before mutating anything.
type fakeUoW struct {
	store *fakeStore
}

type fakeStore struct {
	facilities   map[uuid.UUID]*shared.FacilitySnapshot
	slots        map[uuid.UUID]*slot.Slot
	reservations map[uuid.UUID]*reservation.Reservation
	payments     map[uuid.UUID]*payment.Payment
	waitlist     map[uuid.UUID]*waitlist.Entry
	outbox       []shared.NotificationJob

	// waitlistCreateErr simulates the partial unique index firing on a
	// concurrent insert.
	waitlistCreateErr error
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{store: &fakeStore{
		facilities:   make(map[uuid.UUID]*shared.FacilitySnapshot),
		slots:        make(map[uuid.UUID]*slot.Slot),
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		payments:     make(map[uuid.UUID]*payment.Payment),
		waitlist:     make(map[uuid.UUID]*waitlist.Entry),
	}}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

// Seeding helpers

func (u *fakeUoW) addFacility(adminID uuid.UUID) uuid.UUID {
	id := uuid.New()
	u.store.facilities[id] = &shared.FacilitySnapshot{ID: id, Name: "Central Garage", AdminID: adminID}
	return id
}

func (u *fakeUoW) addSlot(facilityID uuid.UUID, slotType slot.Type, rateCents int64) *slot.Slot {
	s, err := slot.NewSlot(facilityID, slotType, rateCents, "B1-001", time.Now())
	if err != nil {
		panic(err)
	}
	u.store.slots[s.ID()] = s
	return s
}

func (u *fakeUoW) addReservation(res *reservation.Reservation) {
	u.store.reservations[res.ID()] = res
}

func (u *fakeUoW) addPayment(p *payment.Payment) {
	u.store.payments[p.ID()] = p
}

func (u *fakeUoW) addEntry(e *waitlist.Entry) {
	u.store.waitlist[e.ID()] = e
}

func (u *fakeUoW) jobsOfKind(kind shared.NotificationKind) []shared.NotificationJob {
	var jobs []shared.NotificationJob
	for _, j := range u.store.outbox {
		if j.Kind == kind {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Slots() shared.SlotRepository               { return &fakeSlotRepo{store: t.store} }
func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{store: t.store} }
func (t *fakeTx) Payments() shared.PaymentRepository         { return &fakePaymentRepo{store: t.store} }
func (t *fakeTx) Waitlist() shared.WaitlistRepository        { return &fakeWaitlistRepo{store: t.store} }
func (t *fakeTx) Outbox() shared.OutboxRepository            { return &fakeOutboxRepo{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads                 { return &fakeReads{store: t.store} }

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) FacilityByID(_ context.Context, id uuid.UUID) (*shared.FacilitySnapshot, error) {
	fac, ok := r.store.facilities[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "facility not found")
	}
	return fac, nil
}

func (r *fakeReads) SlotByID(_ context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	s, ok := r.store.slots[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "slot not found")
	}
	return &shared.SlotSnapshot{
		ID:              s.ID(),
		FacilityID:      s.FacilityID(),
		SlotType:        s.Type(),
		HourlyRateCents: s.HourlyRateCents(),
		LocationTag:     s.LocationTag(),
	}, nil
}

type fakeSlotRepo struct {
	store *fakeStore
}

func (r *fakeSlotRepo) Create(_ context.Context, s *slot.Slot) error {
	r.store.slots[s.ID()] = s
	return nil
}

func (r *fakeSlotRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
	s, ok := r.store.slots[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "slot not found")
	}
	return s, nil
}

func (r *fakeSlotRepo) LockAvailable(
	_ context.Context,
	facilityID uuid.UUID,
	slotType slot.Type,
	window reservation.TimeWindow,
	limit int,
) ([]*slot.Slot, error) {
	var free []*slot.Slot
	for _, s := range r.store.slots {
		if s.FacilityID() != facilityID || s.Type() != slotType {
			continue
		}
		if r.store.hasOccupyingOverlap(s.ID(), window) {
			continue
		}
		free = append(free, s)
	}
	sort.Slice(free, func(i, j int) bool {
		a, b := free[i].ID(), free[j].ID()
		return bytes.Compare(a[:], b[:]) < 0
	})
	if len(free) > limit {
		free = free[:limit]
	}
	return free, nil
}

func (r *fakeSlotRepo) HasOverlap(_ context.Context, slotID uuid.UUID, window reservation.TimeWindow) (bool, error) {
	return r.store.hasOccupyingOverlap(slotID, window), nil
}

func (r *fakeSlotRepo) SetDisplayStatus(_ context.Context, slotID uuid.UUID, status slot.DisplayStatus) error {
	s, ok := r.store.slots[slotID]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "slot not found")
	}
	return s.SetDisplayStatus(status)
}

func (s *fakeStore) hasOccupyingOverlap(slotID uuid.UUID, window reservation.TimeWindow) bool {
	for _, res := range s.reservations {
		if res.SlotID() != slotID || !res.Status().OccupiesSlot() {
			continue
		}
		if res.Window().Overlaps(window) {
			return true
		}
	}
	return false
}

type fakeReservationRepo struct {
	store *fakeStore
}

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	r.store.reservations[res.ID()] = res
	return nil
}

func (r *fakeReservationRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return res, nil
}

func (r *fakeReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	if _, ok := r.store.reservations[res.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	r.store.reservations[res.ID()] = res
	return nil
}

type fakePaymentRepo struct {
	store *fakeStore
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	r.store.payments[p.ID()] = p
	return nil
}

func (r *fakePaymentRepo) FindByReservationForUpdate(_ context.Context, reservationID uuid.UUID) (*payment.Payment, error) {
	for _, p := range r.store.payments {
		if p.ReservationID() == reservationID {
			return p, nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "payment not found")
}

func (r *fakePaymentRepo) Update(_ context.Context, p *payment.Payment) error {
	r.store.payments[p.ID()] = p
	return nil
}

type fakeWaitlistRepo struct {
	store *fakeStore
}

func (r *fakeWaitlistRepo) Create(_ context.Context, e *waitlist.Entry) error {
	if r.store.waitlistCreateErr != nil {
		return r.store.waitlistCreateErr
	}
	r.store.waitlist[e.ID()] = e
	return nil
}

func (r *fakeWaitlistRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	e, ok := r.store.waitlist[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "waitlist entry not found")
	}
	return e, nil
}

func (r *fakeWaitlistRepo) HasActiveForUser(_ context.Context, userID, facilityID uuid.UUID) (bool, error) {
	for _, e := range r.store.waitlist {
		if e.UserID() == userID && e.FacilityID() == facilityID && e.Status() == waitlist.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWaitlistRepo) NextEligibleForUpdate(
	_ context.Context,
	facilityID uuid.UUID,
	slotType slot.Type,
) (*waitlist.Entry, error) {
	var candidates []*waitlist.Entry
	for _, e := range r.store.waitlist {
		if e.FacilityID() == facilityID && e.SlotType() == slotType && e.Status() == waitlist.StatusActive {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	// Same ordering contract as the SQL store: priority first, then the
	// arrival time stamped on the entry.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority() != candidates[j].Priority() {
			return candidates[i].Priority() > candidates[j].Priority()
		}
		return candidates[i].CreatedAt().Before(candidates[j].CreatedAt())
	})
	return candidates[0], nil
}

func (r *fakeWaitlistRepo) Update(_ context.Context, e *waitlist.Entry) error {
	if _, ok := r.store.waitlist[e.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "waitlist entry not found")
	}
	r.store.waitlist[e.ID()] = e
	return nil
}

type fakeOutboxRepo struct {
	store *fakeStore
}

func (r *fakeOutboxRepo) Enqueue(_ context.Context, job shared.NotificationJob) error {
	r.store.outbox = append(r.store.outbox, job)
	return nil
}

// fakeScheduler records freed-slot passes instead of running them.
type fakeScheduler struct {
	freed []uuid.UUID
}

func (s *fakeScheduler) ScheduleFreedSlotPass(_ context.Context, slotID uuid.UUID) {
	s.freed = append(s.freed, slotID)
}
