//go:build unit || e2e

package builder

import (
	"time"

	domres "parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	reqdto "parkhub/internal/handler/dto/request"
	"parkhub/internal/usecase/commands"
	"parkhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	UserID          uuid.UUID
	SlotID          uuid.UUID
	FacilityID      uuid.UUID
	SlotType        slot.Type
	LocationTag     string
	StartTime       time.Time
	EndTime         time.Time
	HourlyRateCents int64
	VehicleTag      string
	CreatedAt       time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &ReservationBuilder{
		UserID:          uuid.New(),
		SlotID:          uuid.New(),
		FacilityID:      uuid.New(),
		SlotType:        slot.TypeStandard,
		LocationTag:     "B1-042",
		StartTime:       now.Add(time.Hour),
		EndTime:         now.Add(3 * time.Hour),
		HourlyRateCents: 1000,
		VehicleTag:      "ABC-1234",
		CreatedAt:       now,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *ReservationBuilder) BuildDomain() (*domres.Reservation, error) {
	window, err := domres.NewTimeWindow(r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}
	return domres.NewReservation(r.UserID, r.SlotID, window, r.HourlyRateCents, r.CreatedAt), nil
}

func (r *ReservationBuilder) BuildWindow() domres.TimeWindow {
	window, err := domres.NewTimeWindow(r.StartTime, r.EndTime)
	if err != nil {
		panic(err)
	}
	return window
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		FacilityID: r.FacilityID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Requests: []reqdto.SlotRequest{
			{SlotType: r.SlotType.String(), Count: 1},
		},
	}
}

func (r *ReservationBuilder) BuildCreateParams() commands.CreateReservationsParams {
	return commands.CreateReservationsParams{
		FacilityID: r.FacilityID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Requests: []commands.SlotRequest{
			{SlotType: r.SlotType, Count: 1},
		},
	}
}

func (r *ReservationBuilder) BuildViewQuery() *queries.ReservationView {
	return &queries.ReservationView{
		ID:               uuid.New(),
		SlotID:           r.SlotID,
		FacilityID:       r.FacilityID,
		SlotType:         r.SlotType.String(),
		LocationTag:      r.LocationTag,
		UserID:           r.UserID,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		Status:           domres.StatusActive.String(),
		TotalAmountCents: 2000,
		PaymentStatus:    domres.PaymentPending.String(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.CreatedAt,
	}
}

func (r *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:               uuid.New(),
		SlotID:           r.SlotID,
		LocationTag:      r.LocationTag,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		Status:           domres.StatusActive.String(),
		TotalAmountCents: 2000,
		CreatedAt:        r.CreatedAt,
	}
}

// Fluent builder methods
func (r *ReservationBuilder) WithUserID(userID uuid.UUID) *ReservationBuilder {
	r.UserID = userID
	return r
}

func (r *ReservationBuilder) WithSlotID(slotID uuid.UUID) *ReservationBuilder {
	r.SlotID = slotID
	return r
}

func (r *ReservationBuilder) WithFacilityID(facilityID uuid.UUID) *ReservationBuilder {
	r.FacilityID = facilityID
	return r
}

func (r *ReservationBuilder) WithSlotType(slotType slot.Type) *ReservationBuilder {
	r.SlotType = slotType
	return r
}

func (r *ReservationBuilder) WithWindow(start, end time.Time) *ReservationBuilder {
	r.StartTime = start
	r.EndTime = end
	return r
}

func (r *ReservationBuilder) WithHourlyRate(cents int64) *ReservationBuilder {
	r.HourlyRateCents = cents
	return r
}

func (r *ReservationBuilder) WithVehicleTag(tag string) *ReservationBuilder {
	r.VehicleTag = tag
	return r
}
