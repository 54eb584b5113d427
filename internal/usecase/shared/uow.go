package shared

import (
	"context"

	"parkhub/internal/domain/payment"
	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/domain/waitlist"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Slots() SlotRepository
	Reservations() ReservationRepository
	Payments() PaymentRepository
	Waitlist() WaitlistRepository
	Outbox() OutboxRepository
	Reads() CommandReads
}

// CommandReads resolves cross-entity references by id. Facility master data
// is owned externally; only the fields the core needs are exposed.
type CommandReads interface {
	FacilityByID(ctx context.Context, id uuid.UUID) (*FacilitySnapshot, error)
	SlotByID(ctx context.Context, id uuid.UUID) (*SlotSnapshot, error)
}

type FacilitySnapshot struct {
	ID      uuid.UUID
	Name    string
	AdminID uuid.UUID
}

// SlotSnapshot is a minimal unlocked read of a slot row.
type SlotSnapshot struct {
	ID              uuid.UUID
	FacilityID      uuid.UUID
	SlotType        slot.Type
	HourlyRateCents int64
	LocationTag     string
}

type SlotRepository interface {
	Create(ctx context.Context, s *slot.Slot) error
	// FindForUpdate locks the slot row for the rest of the transaction.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	// LockAvailable locks and returns up to limit slots of the facility and
	// type with no occupying reservation overlapping window, ordered by slot
	// id ascending. The ordering is the deadlock-avoidance contract: every
	// transaction acquires slot locks in the same order.
	LockAvailable(ctx context.Context, facilityID uuid.UUID, slotType slot.Type, window reservation.TimeWindow, limit int) ([]*slot.Slot, error)
	// HasOverlap reports whether any occupying reservation on the slot
	// overlaps window. Call only with the slot row already locked.
	HasOverlap(ctx context.Context, slotID uuid.UUID, window reservation.TimeWindow) (bool, error)
	SetDisplayStatus(ctx context.Context, slotID uuid.UUID, status slot.DisplayStatus) error
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	Update(ctx context.Context, res *reservation.Reservation) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByReservationForUpdate(ctx context.Context, reservationID uuid.UUID) (*payment.Payment, error)
	Update(ctx context.Context, p *payment.Payment) error
}

type WaitlistRepository interface {
	Create(ctx context.Context, e *waitlist.Entry) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error)
	HasActiveForUser(ctx context.Context, userID, facilityID uuid.UUID) (bool, error)
	// NextEligibleForUpdate locks and returns the Active entry for the
	// facility and slot type with the highest priority, earliest created
	// first on ties. Returns (nil, nil) when the queue is empty.
	NextEligibleForUpdate(ctx context.Context, facilityID uuid.UUID, slotType slot.Type) (*waitlist.Entry, error)
	Update(ctx context.Context, e *waitlist.Entry) error
}

// OutboxRepository stages notification jobs inside the owning transaction.
// The dispatcher only ever sees committed rows, so a rolled-back operation
// can never leak a notification.
type OutboxRepository interface {
	Enqueue(ctx context.Context, job NotificationJob) error
}
