package request

import (
	"time"

	"parkhub/internal/domain/slot"
	"parkhub/internal/usecase/commands"

	"github.com/google/uuid"
)

type SlotRequest struct {
	SlotType string `json:"slot_type" binding:"required"`
	Count    int    `json:"count" binding:"required,min=1"`
}

type CreateReservationRequest struct {
	FacilityID uuid.UUID     `json:"facility_id" binding:"required"`
	StartTime  time.Time     `json:"start_time" binding:"required"`
	EndTime    time.Time     `json:"end_time" binding:"required"`
	Requests   []SlotRequest `json:"requests" binding:"required,min=1,dive"`
}

func (r CreateReservationRequest) ToParams() commands.CreateReservationsParams {
	reqs := make([]commands.SlotRequest, 0, len(r.Requests))
	for _, sr := range r.Requests {
		reqs = append(reqs, commands.SlotRequest{
			SlotType: slot.Type(sr.SlotType),
			Count:    sr.Count,
		})
	}
	return commands.CreateReservationsParams{
		FacilityID: r.FacilityID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Requests:   reqs,
	}
}

type CheckInRequest struct {
	VehicleTag string `json:"vehicle_tag" binding:"required"`
}
