package commands

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"parkhub/internal/domain/payment"
	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/infra"
	"parkhub/internal/pkg/clock"
	"parkhub/internal/pkg/errs"
	"parkhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type SlotRequest struct {
	SlotType slot.Type
	Count    int
}

type CreateReservationsParams struct {
	FacilityID uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	Requests   []SlotRequest
}

type CheckOutResult struct {
	ReservationID    uuid.UUID
	Status           reservation.Status
	TotalAmountCents int64
	PaymentStatus    reservation.PaymentStatus
}

// FreedSlotScheduler runs the waitlist pass for a slot freed by a committed
// cancel or check-out. Implementations run after commit and never fail the
// operation that freed the slot.
type FreedSlotScheduler interface {
	ScheduleFreedSlotPass(ctx context.Context, slotID uuid.UUID)
}

type ReservationCommands interface {
	Create(ctx context.Context, userID uuid.UUID, params CreateReservationsParams) ([]uuid.UUID, error)
	Cancel(ctx context.Context, reservationID, userID uuid.UUID) error
	CheckIn(ctx context.Context, reservationID, adminID uuid.UUID, vehicleTag string) error
	CheckOut(ctx context.Context, reservationID, adminID uuid.UUID) (*CheckOutResult, error)
}

type reservationCommandsImpl struct {
	uow        shared.UnitOfWork
	clock      clock.Clock
	processor  payment.Processor
	freedSlots FreedSlotScheduler
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	clock clock.Clock,
	processor payment.Processor,
	freedSlots FreedSlotScheduler,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:        uow,
		clock:      clock,
		processor:  processor,
		freedSlots: freedSlots,
	}
}

// Create allocates every requested slot or nothing. Slot rows are locked in
// ascending id order per type, and types are processed in sorted order, so
// concurrent creates against the same facility acquire locks identically.
func (r *reservationCommandsImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	params CreateReservationsParams,
) ([]uuid.UUID, error) {
	window, err := reservation.NewFutureTimeWindow(params.StartTime, params.EndTime, r.clock.Now())
	if err != nil {
		return nil, markWindowError(err)
	}

	if len(params.Requests) == 0 {
		return nil, errs.Mark(errs.New("at least one slot request is required"), ErrInvalidRequest)
	}
	requests := make([]SlotRequest, len(params.Requests))
	copy(requests, params.Requests)
	sort.Slice(requests, func(i, j int) bool { return requests[i].SlotType < requests[j].SlotType })
	for _, req := range requests {
		if !req.SlotType.IsValid() {
			return nil, errs.Mark(errs.Newf("unknown slot type %q", req.SlotType), ErrInvalidSlotType)
		}
		if req.Count < 1 {
			return nil, errs.Mark(errs.New("slot count must be at least 1"), ErrInvalidRequest)
		}
	}

	var created []uuid.UUID
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = created[:0]
		// Resolve the facility inside the transaction so the reference is
		// consistent with the rows about to be written.
		if _, err := tx.Reads().FacilityByID(ctx, params.FacilityID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrFacilityNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, req := range requests {
			slots, err := tx.Slots().LockAvailable(ctx, params.FacilityID, req.SlotType, window, req.Count)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if len(slots) < req.Count {
				return errs.Mark(&ShortageError{
					SlotType:  req.SlotType,
					Requested: req.Count,
					Available: len(slots),
				}, ErrSlotShortage)
			}

			for _, s := range slots {
				res := reservation.NewReservation(userID, s.ID(), window, s.HourlyRateCents(), r.clock.Now())
				if err := tx.Reservations().Create(ctx, res); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}

				pay, err := payment.NewPayment(res.ID(), res.TotalAmount().Cents(), r.clock.Now())
				if err != nil {
					return err
				}
				if err := tx.Payments().Create(ctx, pay); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}

				if err := tx.Slots().SetDisplayStatus(ctx, s.ID(), slot.DisplayReserved); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}

				if err := r.enqueueNotification(ctx, tx, userID, shared.KindReservationConfirmed, map[string]any{
					"reservation_id": res.ID(),
					"slot_id":        s.ID(),
					"facility_id":    params.FacilityID,
					"start_time":     window.Start(),
					"end_time":       window.End(),
					"amount_cents":   res.TotalAmount().Cents(),
				}); err != nil {
					return err
				}

				created = append(created, res.ID())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, reservationID, userID uuid.UUID) error {
	var freedSlotID uuid.UUID
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := r.findReservationForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if res.UserID() != userID {
			return ErrForbidden
		}

		if err := res.Cancel(r.clock.Now()); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Lock the slot row before touching its display cue.
		if _, err := tx.Slots().FindForUpdate(ctx, res.SlotID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Slots().SetDisplayStatus(ctx, res.SlotID(), slot.DisplayFree); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		freedSlotID = res.SlotID()
		return nil
	})
	if err != nil {
		return err
	}

	r.freedSlots.ScheduleFreedSlotPass(ctx, freedSlotID)
	return nil
}

func (r *reservationCommandsImpl) CheckIn(ctx context.Context, reservationID, adminID uuid.UUID, vehicleTag string) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := r.findReservationForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		s, err := tx.Slots().FindForUpdate(ctx, res.SlotID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := r.requireFacilityAdmin(ctx, tx, s.FacilityID(), adminID); err != nil {
			return err
		}

		if err := res.CheckIn(r.clock.Now(), vehicleTag); err != nil {
			return markCheckInError(err)
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Slots().SetDisplayStatus(ctx, s.ID(), slot.DisplayOccupied); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return r.enqueueNotification(ctx, tx, res.UserID(), shared.KindCheckInSuccess, map[string]any{
			"reservation_id": res.ID(),
			"slot_id":        s.ID(),
			"location_tag":   s.LocationTag(),
			"vehicle_tag":    res.VehicleTag(),
		})
	})
}

func (r *reservationCommandsImpl) CheckOut(ctx context.Context, reservationID, adminID uuid.UUID) (*CheckOutResult, error) {
	var (
		result      CheckOutResult
		freedSlotID uuid.UUID
	)
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := r.findReservationForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		s, err := tx.Slots().FindForUpdate(ctx, res.SlotID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := r.requireFacilityAdmin(ctx, tx, s.FacilityID(), adminID); err != nil {
			return err
		}

		if err := res.CheckOut(r.clock.Now(), s.HourlyRateCents()); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}

		pay, err := tx.Payments().FindByReservationForUpdate(ctx, res.ID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// The processor is a local simulation; nothing leaves the process
		// while row locks are held.
		chargeResult, err := r.processor.Charge(ctx, res.ID().String(), res.TotalAmount().Cents())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := pay.Finalize(res.TotalAmount().Cents(), chargeResult, r.clock.Now()); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		if err := tx.Payments().Update(ctx, pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		paymentStatus := reservation.PaymentPaid
		if !chargeResult.Succeeded {
			paymentStatus = reservation.PaymentFailed
		}
		if err := res.SetPaymentStatus(paymentStatus, r.clock.Now()); err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Slots().SetDisplayStatus(ctx, s.ID(), slot.DisplayFree); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := r.enqueueNotification(ctx, tx, res.UserID(), shared.KindPaymentReceipt, map[string]any{
			"reservation_id": res.ID(),
			"payment_id":     pay.ID(),
			"amount_cents":   pay.AmountCents(),
			"vehicle_tag":    res.VehicleTag(),
		}); err != nil {
			return err
		}
		if res.Status() == reservation.StatusOverstayed {
			if err := r.enqueueNotification(ctx, tx, res.UserID(), shared.KindOverstayWarning, map[string]any{
				"reservation_id": res.ID(),
				"end_time":       res.Window().End(),
				"amount_cents":   res.TotalAmount().Cents(),
			}); err != nil {
				return err
			}
		}

		result = CheckOutResult{
			ReservationID:    res.ID(),
			Status:           res.Status(),
			TotalAmountCents: res.TotalAmount().Cents(),
			PaymentStatus:    res.PaymentStatus(),
		}
		freedSlotID = res.SlotID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.freedSlots.ScheduleFreedSlotPass(ctx, freedSlotID)
	return &result, nil
}

func (r *reservationCommandsImpl) findReservationForUpdate(
	ctx context.Context,
	tx shared.Tx,
	reservationID uuid.UUID,
) (*reservation.Reservation, error) {
	res, err := tx.Reservations().FindForUpdate(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return res, nil
}

func (r *reservationCommandsImpl) requireFacilityAdmin(
	ctx context.Context,
	tx shared.Tx,
	facilityID, adminID uuid.UUID,
) error {
	fac, err := tx.Reads().FacilityByID(ctx, facilityID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrFacilityNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if fac.AdminID != adminID {
		return ErrForbidden
	}
	return nil
}

func (r *reservationCommandsImpl) enqueueNotification(
	ctx context.Context,
	tx shared.Tx,
	userID uuid.UUID,
	kind shared.NotificationKind,
	payload map[string]any,
) error {
	return enqueueNotificationJob(ctx, tx, r.clock, userID, kind, payload)
}

func enqueueNotificationJob(
	ctx context.Context,
	tx shared.Tx,
	clk clock.Clock,
	userID uuid.UUID,
	kind shared.NotificationKind,
	payload map[string]any,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := tx.Outbox().Enqueue(ctx, shared.NotificationJob{
		UserID:  userID,
		Kind:    kind,
		Payload: body,
		RunAt:   clk.Now(),
	}); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func markWindowError(err error) error {
	switch {
	case errors.Is(err, reservation.ErrWindowInPast):
		return errs.Mark(err, ErrWindowInPast)
	default:
		return errs.Mark(err, ErrInvalidWindow)
	}
}

func markCheckInError(err error) error {
	switch {
	case errors.Is(err, reservation.ErrEmptyVehicleTag), errors.Is(err, reservation.ErrVehicleTagTooLong):
		return errs.Mark(err, ErrInvalidRequest)
	default:
		return errs.Mark(err, ErrInvalidState)
	}
}
