//go:build unit

package queries

import (
	"context"
	"testing"
	"time"

	"parkhub/internal/infra"
	"parkhub/internal/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReservationViewRepo struct {
	view      *ReservationView
	rows      []*ReservationListItem
	lastLimit int32
}

func (s *stubReservationViewRepo) FindByID(_ context.Context, id uuid.UUID) (*ReservationView, error) {
	if s.view == nil || s.view.ID != id {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return s.view, nil
}

func (s *stubReservationViewRepo) FindByUserID(_ context.Context, _ uuid.UUID, _ *time.Time, _ *uuid.UUID, limit int32) ([]*ReservationListItem, error) {
	s.lastLimit = limit
	return s.rows, nil
}

func (s *stubReservationViewRepo) FindByFacilityID(_ context.Context, _ uuid.UUID, _ *time.Time, _ *uuid.UUID, limit int32) ([]*ReservationListItem, error) {
	s.lastLimit = limit
	return s.rows, nil
}

type stubFacilityAdminReader struct {
	adminID uuid.UUID
}

func (s *stubFacilityAdminReader) FacilityAdminID(_ context.Context, _ uuid.UUID) (uuid.UUID, error) {
	if s.adminID == uuid.Nil {
		return uuid.Nil, infra.NewRepoErr(infra.KindNotFound, "facility not found")
	}
	return s.adminID, nil
}

func TestReservationQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	adminID := uuid.New()
	view := &ReservationView{
		ID:         uuid.New(),
		UserID:     ownerID,
		FacilityID: uuid.New(),
		Status:     "Active",
	}

	newQueries := func() ReservationQueries {
		return NewReservationQueries(
			&stubReservationViewRepo{view: view},
			&stubFacilityAdminReader{adminID: adminID},
		)
	}

	t.Run("owner reads own reservation", func(t *testing.T) {
		got, err := newQueries().GetByID(ctx, ownerID, auth.RoleCustomer, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("facility admin reads any reservation in the facility", func(t *testing.T) {
		got, err := newQueries().GetByID(ctx, adminID, auth.RoleFacilityAdmin, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("other customer is rejected", func(t *testing.T) {
		_, err := newQueries().GetByID(ctx, uuid.New(), auth.RoleCustomer, view.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin of another facility is rejected", func(t *testing.T) {
		q := NewReservationQueries(
			&stubReservationViewRepo{view: view},
			&stubFacilityAdminReader{adminID: uuid.New()},
		)
		_, err := q.GetByID(ctx, adminID, auth.RoleFacilityAdmin, view.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing reservation", func(t *testing.T) {
		_, err := newQueries().GetByID(ctx, ownerID, auth.RoleCustomer, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReservationQueries_ListByUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	makeRows := func(n int) []*ReservationListItem {
		rows := make([]*ReservationListItem, n)
		base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		for i := range rows {
			rows[i] = &ReservationListItem{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		}
		return rows
	}

	t.Run("full page yields a next cursor", func(t *testing.T) {
		repo := &stubReservationViewRepo{rows: makeRows(3)}
		q := NewReservationQueries(repo, &stubFacilityAdminReader{adminID: uuid.New()})

		rows, next, err := q.ListByUser(ctx, userID, nil, 3)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
		require.NotNil(t, next)

		gotTime, gotID, err := DecodeAfterCursor(next.After)
		require.NoError(t, err)
		assert.Equal(t, rows[2].ID, gotID)
		assert.Equal(t, rows[2].CreatedAt, gotTime)
	})

	t.Run("short page ends pagination", func(t *testing.T) {
		repo := &stubReservationViewRepo{rows: makeRows(2)}
		q := NewReservationQueries(repo, &stubFacilityAdminReader{adminID: uuid.New()})

		_, next, err := q.ListByUser(ctx, userID, nil, 3)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		repo := &stubReservationViewRepo{}
		q := NewReservationQueries(repo, &stubFacilityAdminReader{adminID: uuid.New()})

		_, _, err := q.ListByUser(ctx, userID, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(DefaultListLimit), repo.lastLimit)
	})

	t.Run("garbage cursor is rejected", func(t *testing.T) {
		q := NewReservationQueries(&stubReservationViewRepo{}, &stubFacilityAdminReader{adminID: uuid.New()})

		_, _, err := q.ListByUser(ctx, userID, &Cursor{After: "garbage"}, 10)
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}

func TestReservationQueries_ListByFacility(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	facilityID := uuid.New()

	t.Run("facility admin lists reservations", func(t *testing.T) {
		repo := &stubReservationViewRepo{rows: []*ReservationListItem{{ID: uuid.New()}}}
		q := NewReservationQueries(repo, &stubFacilityAdminReader{adminID: adminID})

		rows, _, err := q.ListByFacility(ctx, adminID, facilityID, nil, 10)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		q := NewReservationQueries(&stubReservationViewRepo{}, &stubFacilityAdminReader{adminID: adminID})

		_, _, err := q.ListByFacility(ctx, uuid.New(), facilityID, nil, 10)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown facility", func(t *testing.T) {
		q := NewReservationQueries(&stubReservationViewRepo{}, &stubFacilityAdminReader{})

		_, _, err := q.ListByFacility(ctx, adminID, facilityID, nil, 10)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
