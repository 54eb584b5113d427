//go:build unit || e2e

package builder

import (
	"time"

	"parkhub/internal/domain/slot"
	reqdto "parkhub/internal/handler/dto/request"
	"parkhub/internal/usecase/commands"
	"parkhub/internal/usecase/queries"
	"parkhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	FacilityID      uuid.UUID
	SlotType        slot.Type
	HourlyRateCents int64
	LocationTag     string
	CreatedAt       time.Time
}

func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		FacilityID:      uuid.New(),
		SlotType:        slot.TypeStandard,
		HourlyRateCents: 1000,
		LocationTag:     "B1-042",
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func (s *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(s)
	return s
}

// Build methods
func (s *SlotBuilder) BuildDomain() (*slot.Slot, error) {
	return slot.NewSlot(s.FacilityID, s.SlotType, s.HourlyRateCents, s.LocationTag, s.CreatedAt)
}

func (s *SlotBuilder) BuildCreateRequestDTO() reqdto.CreateSlotsRequest {
	return reqdto.CreateSlotsRequest{
		Slots: []reqdto.SlotSpec{
			{
				SlotType:        s.SlotType.String(),
				HourlyRateCents: s.HourlyRateCents,
				LocationTag:     s.LocationTag,
			},
		},
	}
}

func (s *SlotBuilder) BuildCreateSpec() commands.CreateSlotSpec {
	return commands.CreateSlotSpec{
		SlotType:        s.SlotType,
		HourlyRateCents: s.HourlyRateCents,
		LocationTag:     s.LocationTag,
	}
}

func (s *SlotBuilder) BuildViewQuery() *queries.SlotView {
	return &queries.SlotView{
		ID:              uuid.New(),
		FacilityID:      s.FacilityID,
		SlotType:        s.SlotType.String(),
		DisplayStatus:   slot.DisplayFree.String(),
		HourlyRateCents: s.HourlyRateCents,
		LocationTag:     s.LocationTag,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.CreatedAt,
	}
}

func (s *SlotBuilder) BuildSnapshot() *shared.SlotSnapshot {
	return &shared.SlotSnapshot{
		ID:              uuid.New(),
		FacilityID:      s.FacilityID,
		SlotType:        s.SlotType,
		HourlyRateCents: s.HourlyRateCents,
		LocationTag:     s.LocationTag,
	}
}

// Fluent builder methods
func (s *SlotBuilder) WithFacilityID(facilityID uuid.UUID) *SlotBuilder {
	s.FacilityID = facilityID
	return s
}

func (s *SlotBuilder) WithSlotType(slotType slot.Type) *SlotBuilder {
	s.SlotType = slotType
	return s
}

func (s *SlotBuilder) WithHourlyRate(cents int64) *SlotBuilder {
	s.HourlyRateCents = cents
	return s
}

func (s *SlotBuilder) WithLocationTag(tag string) *SlotBuilder {
	s.LocationTag = tag
	return s
}
