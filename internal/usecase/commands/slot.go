package commands

import (
	"context"
	"errors"

	"parkhub/internal/domain/slot"
	"parkhub/internal/infra"
	"parkhub/internal/pkg/clock"
	"parkhub/internal/pkg/errs"
	"parkhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateSlotSpec struct {
	SlotType        slot.Type
	HourlyRateCents int64
	LocationTag     string
}

type SlotCommands interface {
	CreateSlots(ctx context.Context, facilityID, adminID uuid.UUID, specs []CreateSlotSpec) ([]uuid.UUID, error)
	UpdateDisplayStatus(ctx context.Context, slotID, adminID uuid.UUID, status slot.DisplayStatus) error
}

type slotCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSlotCommands(uow shared.UnitOfWork, clock clock.Clock) SlotCommands {
	return &slotCommandsImpl{uow: uow, clock: clock}
}

func (s *slotCommandsImpl) CreateSlots(
	ctx context.Context,
	facilityID, adminID uuid.UUID,
	specs []CreateSlotSpec,
) ([]uuid.UUID, error) {
	if len(specs) == 0 {
		return nil, errs.Mark(errs.New("at least one slot is required"), ErrInvalidRequest)
	}

	var created []uuid.UUID
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = created[:0]
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
		for _, spec := range specs {
			sl, err := slot.NewSlot(facilityID, spec.SlotType, spec.HourlyRateCents, spec.LocationTag, s.clock.Now())
			if err != nil {
				return markSlotError(err)
			}
			if err := tx.Slots().Create(ctx, sl); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			created = append(created, sl.ID())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateDisplayStatus lets a facility admin override the display cue, for
// example after a manual inspection. It never touches reservations.
func (s *slotCommandsImpl) UpdateDisplayStatus(
	ctx context.Context,
	slotID, adminID uuid.UUID,
	status slot.DisplayStatus,
) error {
	if !status.IsValid() {
		return errs.Mark(errs.Newf("unknown display status %q", status), ErrInvalidRequest)
	}

	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sl, err := tx.Slots().FindForUpdate(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		fac, err := tx.Reads().FacilityByID(ctx, sl.FacilityID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrFacilityNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if fac.AdminID != adminID {
			return ErrForbidden
		}

		if err := tx.Slots().SetDisplayStatus(ctx, slotID, status); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func markSlotError(err error) error {
	switch {
	case errors.Is(err, slot.ErrInvalidType):
		return errs.Mark(err, ErrInvalidSlotType)
	default:
		return errs.Mark(err, ErrInvalidRequest)
	}
}
