package slot

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidType        = errors.New("invalid slot type")
	ErrNegativeRate       = errors.New("hourly rate cannot be negative")
	ErrLocationTagTooLong = errors.New("location tag is too long (max 100 characters)")
)

const MaxLocationTagLength = 100

type Slot struct {
	id            uuid.UUID
	facilityID    uuid.UUID
	slotType      Type
	displayStatus DisplayStatus
	hourlyRate    int64 // cents per hour
	locationTag   string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewSlot(facilityID uuid.UUID, slotType Type, hourlyRateCents int64, locationTag string, now time.Time) (*Slot, error) {
	if !slotType.IsValid() {
		return nil, ErrInvalidType
	}
	if hourlyRateCents < 0 {
		return nil, ErrNegativeRate
	}
	locationTag = strings.TrimSpace(locationTag)
	if len(locationTag) > MaxLocationTagLength {
		return nil, ErrLocationTagTooLong
	}

	now = now.UTC()
	return &Slot{
		id:            uuid.New(),
		facilityID:    facilityID,
		slotType:      slotType,
		displayStatus: DisplayFree,
		hourlyRate:    hourlyRateCents,
		locationTag:   locationTag,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructSlot(
	id, facilityID uuid.UUID,
	slotType Type,
	displayStatus DisplayStatus,
	hourlyRateCents int64,
	locationTag string,
	createdAt, updatedAt time.Time,
) *Slot {
	return &Slot{
		id:            id,
		facilityID:    facilityID,
		slotType:      slotType,
		displayStatus: displayStatus,
		hourlyRate:    hourlyRateCents,
		locationTag:   locationTag,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// SetDisplayStatus updates the informational occupancy cue. No precondition:
// the field carries no booking authority.
func (s *Slot) SetDisplayStatus(status DisplayStatus) error {
	if !status.IsValid() {
		return errors.New("invalid display status")
	}
	s.displayStatus = status
	return nil
}

func (s *Slot) ID() uuid.UUID                { return s.id }
func (s *Slot) FacilityID() uuid.UUID        { return s.facilityID }
func (s *Slot) Type() Type                   { return s.slotType }
func (s *Slot) DisplayStatus() DisplayStatus { return s.displayStatus }
func (s *Slot) HourlyRateCents() int64       { return s.hourlyRate }
func (s *Slot) LocationTag() string          { return s.locationTag }
func (s *Slot) CreatedAt() time.Time         { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time         { return s.updatedAt }
