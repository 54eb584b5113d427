package queries

import (
	"context"
	"time"

	"parkhub/internal/domain/reservation"
	"parkhub/internal/pkg/errs"

	"github.com/google/uuid"
)

type AvailabilityParams struct {
	FacilityID uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	SlotType   *string
}

type SlotQueries interface {
	ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]*SlotView, error)
	// FindAvailability is an unlocked snapshot; only a write transaction's
	// row locks decide whether a create actually succeeds.
	FindAvailability(ctx context.Context, params AvailabilityParams) ([]*AvailabilityView, error)
}

type SlotViewRepo interface {
	FindByFacilityID(ctx context.Context, facilityID uuid.UUID) ([]*SlotView, error)
	CountAvailability(ctx context.Context, facilityID uuid.UUID, window reservation.TimeWindow, slotType *string) ([]*AvailabilityView, error)
}

type slotQueriesImpl struct {
	repo SlotViewRepo
}

func NewSlotQueries(repo SlotViewRepo) SlotQueries {
	return &slotQueriesImpl{repo: repo}
}

func (q *slotQueriesImpl) ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]*SlotView, error) {
	views, err := q.repo.FindByFacilityID(ctx, facilityID)
	if err != nil {
		return nil, markRepoErr(err)
	}
	return views, nil
}

func (q *slotQueriesImpl) FindAvailability(ctx context.Context, params AvailabilityParams) ([]*AvailabilityView, error) {
	window, err := reservation.NewTimeWindow(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidWindow)
	}
	views, err := q.repo.CountAvailability(ctx, params.FacilityID, window, params.SlotType)
	if err != nil {
		return nil, markRepoErr(err)
	}
	return views, nil
}
