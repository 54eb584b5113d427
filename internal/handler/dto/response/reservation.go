package response

import (
	"time"

	"parkhub/internal/usecase/commands"
	"parkhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID               uuid.UUID  `json:"id"`
	SlotID           uuid.UUID  `json:"slotId"`
	FacilityID       uuid.UUID  `json:"facilityId"`
	SlotType         string     `json:"slotType"`
	LocationTag      string     `json:"locationTag"`
	UserID           uuid.UUID  `json:"userId"`
	StartTime        time.Time  `json:"startTime"`
	EndTime          time.Time  `json:"endTime"`
	Status           string     `json:"status"`
	VehicleTag       *string    `json:"vehicleTag,omitempty"`
	CheckInTime      *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	TotalAmountCents int64      `json:"totalAmountCents"`
	PaymentStatus    string     `json:"paymentStatus"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type ReservationListResponse struct {
	ID               uuid.UUID `json:"id"`
	SlotID           uuid.UUID `json:"slotId"`
	LocationTag      string    `json:"locationTag"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Status           string    `json:"status"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	CreatedAt        time.Time `json:"createdAt"`
}

type CreatedReservationsResponse struct {
	ReservationIDs []uuid.UUID `json:"reservationIds"`
}

type CheckOutResponse struct {
	ReservationID    uuid.UUID `json:"reservationId"`
	Status           string    `json:"status"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	PaymentStatus    string    `json:"paymentStatus"`
}

type PagedReservationsResponse struct {
	Items      []*ReservationListResponse `json:"items"`
	NextCursor *string                    `json:"nextCursor,omitempty"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:               rm.ID,
		SlotID:           rm.SlotID,
		FacilityID:       rm.FacilityID,
		SlotType:         rm.SlotType,
		LocationTag:      rm.LocationTag,
		UserID:           rm.UserID,
		StartTime:        rm.StartTime,
		EndTime:          rm.EndTime,
		Status:           rm.Status,
		VehicleTag:       rm.VehicleTag,
		CheckInTime:      rm.CheckInTime,
		CheckOutTime:     rm.CheckOutTime,
		TotalAmountCents: rm.TotalAmountCents,
		PaymentStatus:    rm.PaymentStatus,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromReservationListItems(items []*queries.ReservationListItem, next *queries.Cursor) *PagedReservationsResponse {
	out := make([]*ReservationListResponse, 0, len(items))
	for _, item := range items {
		out = append(out, &ReservationListResponse{
			ID:               item.ID,
			SlotID:           item.SlotID,
			LocationTag:      item.LocationTag,
			StartTime:        item.StartTime,
			EndTime:          item.EndTime,
			Status:           item.Status,
			TotalAmountCents: item.TotalAmountCents,
			CreatedAt:        item.CreatedAt,
		})
	}
	resp := &PagedReservationsResponse{Items: out}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return resp
}

func FromCheckOutResult(result *commands.CheckOutResult) *CheckOutResponse {
	return &CheckOutResponse{
		ReservationID:    result.ReservationID,
		Status:           result.Status.String(),
		TotalAmountCents: result.TotalAmountCents,
		PaymentStatus:    result.PaymentStatus.String(),
	}
}
