// Package waitlist holds the standing-demand queue entries for a facility and
// slot type. Service order is priority first, then arrival time.
package waitlist

import (
	"errors"
	"time"

	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"

	"github.com/google/uuid"
)

var (
	ErrInvalidSlotType = errors.New("invalid slot type")
	ErrNotActive       = errors.New("waitlist entry is not active")
	ErrNotNotified     = errors.New("waitlist entry has not been notified")
	ErrTerminalState   = errors.New("waitlist entry is in a terminal state")
	ErrOfferExpired    = errors.New("notification window has lapsed")
)

type Entry struct {
	id          uuid.UUID
	userID      uuid.UUID
	facilityID  uuid.UUID
	slotType    slot.Type
	window      reservation.TimeWindow
	status      Status
	priority    int
	notifiedAt  *time.Time
	expiresAt   *time.Time
	offeredSlot *uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

// NewEntry joins the queue at now. The arrival time is part of the fairness
// contract (priority first, then created_at), so it is stamped here rather
// than deferred to the store.
func NewEntry(userID, facilityID uuid.UUID, slotType slot.Type, window reservation.TimeWindow, priority int, now time.Time) (*Entry, error) {
	if !slotType.IsValid() {
		return nil, ErrInvalidSlotType
	}
	now = now.UTC()
	return &Entry{
		id:         uuid.New(),
		userID:     userID,
		facilityID: facilityID,
		slotType:   slotType,
		window:     window,
		status:     StatusActive,
		priority:   priority,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructEntry(
	id, userID, facilityID uuid.UUID,
	slotType slot.Type,
	window reservation.TimeWindow,
	status Status,
	priority int,
	notifiedAt, expiresAt *time.Time,
	offeredSlot *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Entry {
	return &Entry{
		id:          id,
		userID:      userID,
		facilityID:  facilityID,
		slotType:    slotType,
		window:      window,
		status:      status,
		priority:    priority,
		notifiedAt:  notifiedAt,
		expiresAt:   expiresAt,
		offeredSlot: offeredSlot,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Notify records a single-slot offer with a bounded acceptance window.
func (e *Entry) Notify(now time.Time, offeredSlotID uuid.UUID, offerWindow time.Duration) error {
	if e.status != StatusActive {
		return ErrNotActive
	}
	now = now.UTC()
	expires := now.Add(offerWindow)
	e.status = StatusNotified
	e.notifiedAt = &now
	e.expiresAt = &expires
	e.offeredSlot = &offeredSlotID
	e.updatedAt = now
	return nil
}

// OfferExpiredAt reports whether a pending offer has lapsed. Expiry is lazy:
// nothing flips the entry until someone looks.
func (e *Entry) OfferExpiredAt(now time.Time) bool {
	return e.status == StatusNotified && e.expiresAt != nil && now.UTC().After(*e.expiresAt)
}

// Fulfill converts an accepted offer into a served entry.
func (e *Entry) Fulfill(now time.Time) error {
	if e.status != StatusNotified {
		return ErrNotNotified
	}
	if e.OfferExpiredAt(now) {
		return ErrOfferExpired
	}
	e.status = StatusFulfilled
	e.updatedAt = now.UTC()
	return nil
}

// Expire retires an entry whose acceptance window lapsed unused.
func (e *Entry) Expire(now time.Time) error {
	if e.status != StatusNotified {
		return ErrNotNotified
	}
	e.status = StatusExpired
	e.updatedAt = now.UTC()
	return nil
}

// Cancel withdraws the entry; allowed from any non-terminal state.
func (e *Entry) Cancel(now time.Time) error {
	if e.status.IsTerminal() {
		return ErrTerminalState
	}
	e.status = StatusCancelled
	e.updatedAt = now.UTC()
	return nil
}

func (e *Entry) ID() uuid.UUID                     { return e.id }
func (e *Entry) UserID() uuid.UUID                 { return e.userID }
func (e *Entry) FacilityID() uuid.UUID             { return e.facilityID }
func (e *Entry) SlotType() slot.Type               { return e.slotType }
func (e *Entry) Window() reservation.TimeWindow    { return e.window }
func (e *Entry) Status() Status                    { return e.status }
func (e *Entry) Priority() int                     { return e.priority }
func (e *Entry) NotifiedAt() *time.Time            { return e.notifiedAt }
func (e *Entry) NotificationExpiresAt() *time.Time { return e.expiresAt }
func (e *Entry) OfferedSlotID() *uuid.UUID         { return e.offeredSlot }
func (e *Entry) CreatedAt() time.Time              { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time              { return e.updatedAt }
