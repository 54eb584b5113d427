package reservation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotActive         = errors.New("reservation is not active")
	ErrNotCheckedIn      = errors.New("reservation is not checked in")
	ErrAlreadyEnded      = errors.New("reservation window has already ended")
	ErrEmptyVehicleTag   = errors.New("vehicle tag cannot be empty")
	ErrVehicleTagTooLong = errors.New("vehicle tag is too long (max 20 characters)")
)

const MaxVehicleTagLength = 20

type Reservation struct {
	id            uuid.UUID
	userID        uuid.UUID
	slotID        uuid.UUID
	window        TimeWindow
	status        Status
	totalAmount   Money
	paymentStatus PaymentStatus
	vehicleTag    string
	checkInTime   *time.Time
	checkOutTime  *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewReservation allocates an Active reservation billed for the full window
// at the slot's rate. Window validity against the clock is the caller's
// concern (NewFutureTimeWindow); here the window is taken as agreed.
func NewReservation(userID, slotID uuid.UUID, window TimeWindow, hourlyRateCents int64, now time.Time) *Reservation {
	now = now.UTC()
	return &Reservation{
		id:            uuid.New(),
		userID:        userID,
		slotID:        slotID,
		window:        window,
		status:        StatusActive,
		totalAmount:   BaseAmount(window, hourlyRateCents),
		paymentStatus: PaymentPending,
		createdAt:     now,
		updatedAt:     now,
	}
}

func ReconstructReservation(
	id, userID, slotID uuid.UUID,
	window TimeWindow,
	status Status,
	totalAmountCents int64,
	paymentStatus PaymentStatus,
	vehicleTag string,
	checkInTime, checkOutTime *time.Time,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:            id,
		userID:        userID,
		slotID:        slotID,
		window:        window,
		status:        status,
		totalAmount:   NewMoney(totalAmountCents),
		paymentStatus: paymentStatus,
		vehicleTag:    vehicleTag,
		checkInTime:   checkInTime,
		checkOutTime:  checkOutTime,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Cancel releases the slot. Only pre-occupancy cancellation is supported;
// anything past Active must run through check-out.
func (r *Reservation) Cancel(now time.Time) error {
	if r.status != StatusActive {
		return ErrNotActive
	}
	r.status = StatusCancelled
	r.updatedAt = now.UTC()
	return nil
}

// CheckIn records occupancy. Rejected once the reserved window has ended.
func (r *Reservation) CheckIn(now time.Time, vehicleTag string) error {
	if r.status != StatusActive {
		return ErrNotActive
	}
	now = now.UTC()
	if now.After(r.window.End()) {
		return ErrAlreadyEnded
	}
	vehicleTag = strings.TrimSpace(vehicleTag)
	if vehicleTag == "" {
		return ErrEmptyVehicleTag
	}
	if len(vehicleTag) > MaxVehicleTagLength {
		return ErrVehicleTagTooLong
	}
	r.status = StatusCheckedIn
	r.vehicleTag = vehicleTag
	r.checkInTime = &now
	r.updatedAt = now
	return nil
}

// CheckOut closes occupancy at now. Past the reserved end the stay is marked
// Overstayed and the surcharge is added to the owed amount.
func (r *Reservation) CheckOut(now time.Time, hourlyRateCents int64) error {
	if r.status != StatusCheckedIn {
		return ErrNotCheckedIn
	}
	now = now.UTC()
	r.checkOutTime = &now
	if now.After(r.window.End()) {
		r.status = StatusOverstayed
		r.totalAmount = r.totalAmount.Add(OverstayAmount(now.Sub(r.window.End()), hourlyRateCents))
	} else {
		r.status = StatusCompleted
	}
	r.updatedAt = now
	return nil
}

// Expire marks a reservation whose holder never showed up. Only Active
// reservations expire; the grace handling is the caller's policy.
func (r *Reservation) Expire(now time.Time) error {
	if r.status != StatusActive {
		return ErrNotActive
	}
	r.status = StatusExpired
	r.updatedAt = now.UTC()
	return nil
}

// SetPaymentStatus mirrors the payment outcome onto the reservation.
func (r *Reservation) SetPaymentStatus(status PaymentStatus, now time.Time) error {
	if !status.IsValid() {
		return errors.New("invalid payment status")
	}
	r.paymentStatus = status
	r.updatedAt = now.UTC()
	return nil
}

func (r *Reservation) IsOverstayedAt(now time.Time) bool {
	return r.status == StatusCheckedIn && now.UTC().After(r.window.End())
}

func (r *Reservation) ID() uuid.UUID                { return r.id }
func (r *Reservation) UserID() uuid.UUID            { return r.userID }
func (r *Reservation) SlotID() uuid.UUID            { return r.slotID }
func (r *Reservation) Window() TimeWindow           { return r.window }
func (r *Reservation) Status() Status               { return r.status }
func (r *Reservation) TotalAmount() Money           { return r.totalAmount }
func (r *Reservation) PaymentStatus() PaymentStatus { return r.paymentStatus }
func (r *Reservation) VehicleTag() string           { return r.vehicleTag }
func (r *Reservation) CheckInTime() *time.Time      { return r.checkInTime }
func (r *Reservation) CheckOutTime() *time.Time     { return r.checkOutTime }
func (r *Reservation) CreatedAt() time.Time         { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time         { return r.updatedAt }
