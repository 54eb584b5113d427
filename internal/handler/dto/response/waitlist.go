package response

import (
	"time"

	"parkhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type WaitlistEntryResponse struct {
	ID             uuid.UUID  `json:"id"`
	FacilityID     uuid.UUID  `json:"facilityId"`
	SlotType       string     `json:"slotType"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        time.Time  `json:"endTime"`
	Status         string     `json:"status"`
	Priority       int        `json:"priority"`
	QueuePosition  *int       `json:"queuePosition,omitempty"`
	OfferedSlotID  *uuid.UUID `json:"offeredSlotId,omitempty"`
	OfferExpiresAt *time.Time `json:"offerExpiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type JoinedWaitlistResponse struct {
	EntryID uuid.UUID `json:"entryId"`
}

type AcceptedOfferResponse struct {
	ReservationID uuid.UUID `json:"reservationId"`
}

func FromWaitlistEntryView(rm *queries.WaitlistEntryView) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:             rm.ID,
		FacilityID:     rm.FacilityID,
		SlotType:       rm.SlotType,
		StartTime:      rm.StartTime,
		EndTime:        rm.EndTime,
		Status:         rm.Status,
		Priority:       rm.Priority,
		QueuePosition:  rm.QueuePosition,
		OfferedSlotID:  rm.OfferedSlotID,
		OfferExpiresAt: rm.OfferExpiresAt,
		CreatedAt:      rm.CreatedAt,
	}
}

func FromWaitlistEntryViews(views []*queries.WaitlistEntryView) []*WaitlistEntryResponse {
	out := make([]*WaitlistEntryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromWaitlistEntryView(v))
	}
	return out
}
