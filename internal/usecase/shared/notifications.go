package shared

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind names the templates the external notification service
// renders. The core only ships ids, amounts and times; no text.
type NotificationKind string

const (
	KindReservationConfirmed  NotificationKind = "reservationConfirmed"
	KindCheckInSuccess        NotificationKind = "checkInSuccess"
	KindPaymentReceipt        NotificationKind = "paymentReceipt"
	KindWaitlistSlotAvailable NotificationKind = "waitlistSlotAvailable"
	KindOverstayWarning       NotificationKind = "overstayWarning"
)

type NotificationJob struct {
	UserID  uuid.UUID
	Kind    NotificationKind
	Payload []byte
	RunAt   time.Time
}
