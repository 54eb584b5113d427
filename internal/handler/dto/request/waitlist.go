package request

import (
	"time"

	"parkhub/internal/domain/slot"
	"parkhub/internal/usecase/commands"

	"github.com/google/uuid"
)

type JoinWaitlistRequest struct {
	FacilityID uuid.UUID `json:"facility_id" binding:"required"`
	SlotType   string    `json:"slot_type" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Priority   int       `json:"priority" binding:"min=0"`
}

func (r JoinWaitlistRequest) ToParams() commands.JoinWaitlistParams {
	return commands.JoinWaitlistParams{
		FacilityID: r.FacilityID,
		SlotType:   slot.Type(r.SlotType),
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Priority:   r.Priority,
	}
}
