package queries

import (
	"context"
	"time"

	"parkhub/internal/pkg/auth"

	"github.com/google/uuid"
)

type ReservationQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
	ListByFacility(ctx context.Context, actorID uuid.UUID, facilityID uuid.UUID, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*ReservationListItem, error)
	FindByFacilityID(ctx context.Context, facilityID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*ReservationListItem, error)
}

// FacilityAdminReader resolves which user administers a facility.
type FacilityAdminReader interface {
	FacilityAdminID(ctx context.Context, facilityID uuid.UUID) (uuid.UUID, error)
}

type reservationQueriesImpl struct {
	repo       ReservationViewRepo
	facilities FacilityAdminReader
}

func NewReservationQueries(repo ReservationViewRepo, facilities FacilityAdminReader) ReservationQueries {
	return &reservationQueriesImpl{repo: repo, facilities: facilities}
}

// GetByID is visible to the reservation's owner and to the admin of the
// facility it belongs to.
func (q *reservationQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, id uuid.UUID) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, markRepoErr(err)
	}
	if view.UserID == actorID {
		return view, nil
	}
	if actorRole == auth.RoleFacilityAdmin {
		adminID, err := q.facilities.FacilityAdminID(ctx, view.FacilityID)
		if err != nil {
			return nil, markRepoErr(err)
		}
		if adminID == actorID {
			return view, nil
		}
	}
	return nil, ErrForbidden
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	limit = clampLimit(limit)
	afterCreatedAt, afterID, err := decodeOptionalCursor(after)
	if err != nil {
		return nil, nil, err
	}

	rows, err := q.repo.FindByUserID(ctx, userID, afterCreatedAt, afterID, int32(limit))
	if err != nil {
		return nil, nil, markRepoErr(err)
	}
	return rows, nextReservationCursor(rows, limit), nil
}

func (q *reservationQueriesImpl) ListByFacility(ctx context.Context, actorID uuid.UUID, facilityID uuid.UUID, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	adminID, err := q.facilities.FacilityAdminID(ctx, facilityID)
	if err != nil {
		return nil, nil, markRepoErr(err)
	}
	if adminID != actorID {
		return nil, nil, ErrForbidden
	}

	limit = clampLimit(limit)
	afterCreatedAt, afterID, err := decodeOptionalCursor(after)
	if err != nil {
		return nil, nil, err
	}

	rows, err := q.repo.FindByFacilityID(ctx, facilityID, afterCreatedAt, afterID, int32(limit))
	if err != nil {
		return nil, nil, markRepoErr(err)
	}
	return rows, nextReservationCursor(rows, limit), nil
}

func decodeOptionalCursor(after *Cursor) (*time.Time, *uuid.UUID, error) {
	if after == nil || after.After == "" {
		return nil, nil, nil
	}
	t, id, err := DecodeAfterCursor(after.After)
	if err != nil {
		return nil, nil, ErrInvalidCursor
	}
	return &t, &id, nil
}

func nextReservationCursor(rows []*ReservationListItem, limit int) *Cursor {
	if len(rows) < limit {
		return nil
	}
	last := rows[len(rows)-1]
	return &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
}
