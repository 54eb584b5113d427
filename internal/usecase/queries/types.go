package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView represents read-optimized reservation data
type ReservationView struct {
	ID               uuid.UUID  `json:"id"`
	SlotID           uuid.UUID  `json:"slot_id"`
	FacilityID       uuid.UUID  `json:"facility_id"`
	SlotType         string     `json:"slot_type"`
	LocationTag      string     `json:"location_tag"`
	UserID           uuid.UUID  `json:"user_id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          time.Time  `json:"end_time"`
	Status           string     `json:"status"`
	VehicleTag       *string    `json:"vehicle_tag,omitempty"`
	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	PaymentStatus    string     `json:"payment_status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ReservationListItem struct {
	ID               uuid.UUID `json:"id"`
	SlotID           uuid.UUID `json:"slot_id"`
	LocationTag      string    `json:"location_tag"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	CreatedAt        time.Time `json:"created_at"`
}

// SlotView represents read-optimized slot data
type SlotView struct {
	ID              uuid.UUID `json:"id"`
	FacilityID      uuid.UUID `json:"facility_id"`
	SlotType        string    `json:"slot_type"`
	DisplayStatus   string    `json:"display_status"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	LocationTag     string    `json:"location_tag"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AvailabilityView summarizes free slots per type for a window
type AvailabilityView struct {
	SlotType       string `json:"slot_type"`
	TotalSlots     int    `json:"total_slots"`
	AvailableSlots int    `json:"available_slots"`
}

// WaitlistEntryView represents read-optimized waitlist data with the
// entry's position in its queue
type WaitlistEntryView struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	FacilityID     uuid.UUID  `json:"facility_id"`
	SlotType       string     `json:"slot_type"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        time.Time  `json:"end_time"`
	Status         string     `json:"status"`
	Priority       int        `json:"priority"`
	QueuePosition  *int       `json:"queue_position,omitempty"`
	OfferedSlotID  *uuid.UUID `json:"offered_slot_id,omitempty"`
	OfferExpiresAt *time.Time `json:"offer_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
