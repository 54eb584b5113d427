package response

import (
	"time"

	"parkhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID              uuid.UUID `json:"id"`
	FacilityID      uuid.UUID `json:"facilityId"`
	SlotType        string    `json:"slotType"`
	DisplayStatus   string    `json:"displayStatus"`
	HourlyRateCents int64     `json:"hourlyRateCents"`
	LocationTag     string    `json:"locationTag"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreatedSlotsResponse struct {
	SlotIDs []uuid.UUID `json:"slotIds"`
}

type AvailabilityResponse struct {
	SlotType       string `json:"slotType"`
	TotalSlots     int    `json:"totalSlots"`
	AvailableSlots int    `json:"availableSlots"`
}

func FromSlotViews(views []*queries.SlotView) []*SlotResponse {
	out := make([]*SlotResponse, 0, len(views))
	for _, v := range views {
		out = append(out, &SlotResponse{
			ID:              v.ID,
			FacilityID:      v.FacilityID,
			SlotType:        v.SlotType,
			DisplayStatus:   v.DisplayStatus,
			HourlyRateCents: v.HourlyRateCents,
			LocationTag:     v.LocationTag,
			CreatedAt:       v.CreatedAt,
			UpdatedAt:       v.UpdatedAt,
		})
	}
	return out
}

func FromAvailabilityViews(views []*queries.AvailabilityView) []*AvailabilityResponse {
	out := make([]*AvailabilityResponse, 0, len(views))
	for _, v := range views {
		out = append(out, &AvailabilityResponse{
			SlotType:       v.SlotType,
			TotalSlots:     v.TotalSlots,
			AvailableSlots: v.AvailableSlots,
		})
	}
	return out
}
