package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parkhub/internal/domain/payment"
	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/domain/waitlist"
	"parkhub/internal/infra"
	"parkhub/internal/pkg/clock"
	"parkhub/internal/pkg/config"
	"parkhub/internal/pkg/errs"
	"parkhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type JoinWaitlistParams struct {
	FacilityID uuid.UUID
	SlotType   slot.Type
	StartTime  time.Time
	EndTime    time.Time
	Priority   int
}

type WaitlistCommands interface {
	Join(ctx context.Context, userID uuid.UUID, params JoinWaitlistParams) (uuid.UUID, error)
	AcceptOffer(ctx context.Context, entryID, userID uuid.UUID) (uuid.UUID, error)
	Cancel(ctx context.Context, entryID, userID uuid.UUID) error
	ProcessFreedSlot(ctx context.Context, slotID uuid.UUID) error
}

type waitlistCommandsImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	cfg     config.WaitlistConfig
	slogger *slog.Logger
}

func NewWaitlistCommands(
	uow shared.UnitOfWork,
	clock clock.Clock,
	cfg config.WaitlistConfig,
	slogger *slog.Logger,
) *waitlistCommandsImpl {
	return &waitlistCommandsImpl{
		uow:     uow,
		clock:   clock,
		cfg:     cfg,
		slogger: slogger,
	}
}

var _ WaitlistCommands = (*waitlistCommandsImpl)(nil)
var _ FreedSlotScheduler = (*waitlistCommandsImpl)(nil)

func (w *waitlistCommandsImpl) Join(ctx context.Context, userID uuid.UUID, params JoinWaitlistParams) (uuid.UUID, error) {
	window, err := reservation.NewFutureTimeWindow(params.StartTime, params.EndTime, w.clock.Now())
	if err != nil {
		return uuid.Nil, markWindowError(err)
	}
	if !params.SlotType.IsValid() {
		return uuid.Nil, errs.Mark(errs.Newf("unknown slot type %q", params.SlotType), ErrInvalidSlotType)
	}

	var entryID uuid.UUID
	err = w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Resolve the facility inside the transaction so the reference is
		// consistent with the entry about to be written.
		if _, err := tx.Reads().FacilityByID(ctx, params.FacilityID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrFacilityNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		taken, err := tx.Waitlist().HasActiveForUser(ctx, userID, params.FacilityID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if taken {
			return ErrAlreadyWaitlisted
		}

		entry, err := waitlist.NewEntry(userID, params.FacilityID, params.SlotType, window, params.Priority, w.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrInvalidSlotType)
		}
		if err := tx.Waitlist().Create(ctx, entry); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrAlreadyWaitlisted
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entryID = entry.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return entryID, nil
}

// AcceptOffer turns a notified entry into a reservation on the offered slot.
// A lapsed offer is expired and the expiry is committed, so the caller sees
// ErrOfferExpired only after the entry has actually left the queue. A slot
// taken in the meantime leaves the entry untouched for the next pass.
func (w *waitlistCommandsImpl) AcceptOffer(ctx context.Context, entryID, userID uuid.UUID) (uuid.UUID, error) {
	var (
		reservationID uuid.UUID
		offerExpired  bool
	)
	err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		offerExpired = false

		entry, err := w.findEntryForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if entry.UserID() != userID {
			return ErrForbidden
		}
		if entry.Status() != waitlist.StatusNotified {
			return errs.Mark(waitlist.ErrNotNotified, ErrInvalidState)
		}

		now := w.clock.Now()
		if entry.OfferExpiredAt(now) {
			if err := entry.Expire(now); err != nil {
				return errs.Mark(err, ErrInvalidState)
			}
			if err := tx.Waitlist().Update(ctx, entry); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			offerExpired = true
			return nil
		}

		slotID := *entry.OfferedSlotID()
		s, err := tx.Slots().FindForUpdate(ctx, slotID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		overlap, err := tx.Slots().HasOverlap(ctx, slotID, entry.Window())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlap {
			return errs.Mark(errs.New("offered slot is no longer free"), ErrSlotContested)
		}

		if err := entry.Fulfill(now); err != nil {
			if errors.Is(err, waitlist.ErrOfferExpired) {
				return errs.Mark(err, ErrOfferExpired)
			}
			return errs.Mark(err, ErrInvalidState)
		}

		res := reservation.NewReservation(entry.UserID(), slotID, entry.Window(), s.HourlyRateCents(), now)
		if err := tx.Reservations().Create(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		pay, err := payment.NewPayment(res.ID(), res.TotalAmount().Cents(), now)
		if err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Slots().SetDisplayStatus(ctx, slotID, slot.DisplayReserved); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Waitlist().Update(ctx, entry); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := w.enqueueNotification(ctx, tx, entry.UserID(), shared.KindReservationConfirmed, map[string]any{
			"reservation_id": res.ID(),
			"slot_id":        slotID,
			"facility_id":    entry.FacilityID(),
			"start_time":     entry.Window().Start(),
			"end_time":       entry.Window().End(),
			"amount_cents":   res.TotalAmount().Cents(),
		}); err != nil {
			return err
		}

		reservationID = res.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if offerExpired {
		return uuid.Nil, ErrOfferExpired
	}
	return reservationID, nil
}

func (w *waitlistCommandsImpl) Cancel(ctx context.Context, entryID, userID uuid.UUID) error {
	return w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry, err := w.findEntryForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if entry.UserID() != userID {
			return ErrForbidden
		}
		if err := entry.Cancel(w.clock.Now()); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := tx.Waitlist().Update(ctx, entry); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// ProcessFreedSlot offers a freed slot to the head of the matching queue.
// Entries whose requested window no longer fits the slot are skipped in
// later passes; this pass only considers the current head.
func (w *waitlistCommandsImpl) ProcessFreedSlot(ctx context.Context, slotID uuid.UUID) error {
	snap, err := w.uow.CommandReads().SlotByID(ctx, slotID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrSlotNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry, err := tx.Waitlist().NextEligibleForUpdate(ctx, snap.FacilityID, snap.SlotType)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if entry == nil {
			return nil
		}

		overlap, err := tx.Slots().HasOverlap(ctx, slotID, entry.Window())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlap {
			return nil
		}

		if err := entry.Notify(w.clock.Now(), slotID, w.cfg.OfferWindow); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := tx.Waitlist().Update(ctx, entry); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return w.enqueueNotification(ctx, tx, entry.UserID(), shared.KindWaitlistSlotAvailable, map[string]any{
			"entry_id":   entry.ID(),
			"slot_id":    slotID,
			"expires_at": entry.NotificationExpiresAt(),
		})
	})
}

// ScheduleFreedSlotPass runs the waitlist pass after a commit freed a slot.
// Failures are logged and swallowed; the freeing operation already succeeded
// and the next freed slot or expiry sweep will pick the queue up again.
func (w *waitlistCommandsImpl) ScheduleFreedSlotPass(ctx context.Context, slotID uuid.UUID) {
	if err := w.ProcessFreedSlot(ctx, slotID); err != nil {
		w.slogger.Error("freed-slot waitlist pass failed",
			slog.String("slot_id", slotID.String()),
			slog.Any("error", err),
		)
	}
}

func (w *waitlistCommandsImpl) findEntryForUpdate(
	ctx context.Context,
	tx shared.Tx,
	entryID uuid.UUID,
) (*waitlist.Entry, error) {
	entry, err := tx.Waitlist().FindForUpdate(ctx, entryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrWaitlistEntryNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entry, nil
}

func (w *waitlistCommandsImpl) enqueueNotification(
	ctx context.Context,
	tx shared.Tx,
	userID uuid.UUID,
	kind shared.NotificationKind,
	payload map[string]any,
) error {
	return enqueueNotificationJob(ctx, tx, w.clock, userID, kind, payload)
}
