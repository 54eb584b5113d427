package commands

import (
	"fmt"

	"parkhub/internal/domain/slot"
	"parkhub/internal/pkg/errs"
)

// Sentinel errors for the command layer. Handlers map these onto the HTTP
// surface: validation 400, not-found 404, forbidden 403, conflict 409,
// invalid-state 422, expired 410.
var (
	ErrInvalidWindow   = errs.New("invalid time window")
	ErrWindowInPast    = errs.New("time window starts in the past")
	ErrInvalidSlotType = errs.New("invalid slot type")
	ErrInvalidRequest  = errs.New("invalid request")

	ErrFacilityNotFound      = errs.New("facility not found")
	ErrSlotNotFound          = errs.New("slot not found")
	ErrReservationNotFound   = errs.New("reservation not found")
	ErrWaitlistEntryNotFound = errs.New("waitlist entry not found")

	ErrForbidden = errs.New("requester is not allowed to act on this resource")

	ErrSlotShortage      = errs.New("not enough slots available")
	ErrSlotContested     = errs.New("offered slot was taken by another booking")
	ErrAlreadyWaitlisted = errs.New("requester already has an active waitlist entry for this facility")

	ErrInvalidState = errs.New("operation not valid for current status")
	ErrOfferExpired = errs.New("waitlist offer has expired")

	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ShortageError reports which slot type fell short during an all-or-nothing
// create. It is always marked with ErrSlotShortage.
type ShortageError struct {
	SlotType  slot.Type
	Requested int
	Available int
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("not enough %q slots available: requested %d, available %d",
		e.SlotType, e.Requested, e.Available)
}
