package request

import (
	"parkhub/internal/domain/slot"
	"parkhub/internal/usecase/commands"
)

type SlotSpec struct {
	SlotType        string `json:"slot_type" binding:"required"`
	HourlyRateCents int64  `json:"hourly_rate_cents" binding:"min=0"`
	LocationTag     string `json:"location_tag" binding:"required,max=100"`
}

type CreateSlotsRequest struct {
	Slots []SlotSpec `json:"slots" binding:"required,min=1,dive"`
}

func (r CreateSlotsRequest) ToSpecs() []commands.CreateSlotSpec {
	specs := make([]commands.CreateSlotSpec, 0, len(r.Slots))
	for _, s := range r.Slots {
		specs = append(specs, commands.CreateSlotSpec{
			SlotType:        slot.Type(s.SlotType),
			HourlyRateCents: s.HourlyRateCents,
			LocationTag:     s.LocationTag,
		})
	}
	return specs
}

type UpdateDisplayStatusRequest struct {
	DisplayStatus string `json:"display_status" binding:"required"`
}
