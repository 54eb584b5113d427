package readstore

import (
	"context"

	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/infra"
	"parkhub/internal/infra/db"
	"parkhub/internal/usecase/queries"
	"parkhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	const query = `
		SELECT id, facility_id, slot_type, hourly_rate_cents, location_tag
		FROM slots
		WHERE id = $1`
	var (
		snap     shared.SlotSnapshot
		slotType string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.FacilityID, &slotType, &snap.HourlyRateCents, &snap.LocationTag,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}
	snap.SlotType = slot.Type(slotType)
	return &snap, nil
}

func (r *SlotReadStore) FindByFacilityID(ctx context.Context, facilityID uuid.UUID) ([]*queries.SlotView, error) {
	const query = `
		SELECT id, facility_id, slot_type, display_status, hourly_rate_cents, location_tag, created_at, updated_at
		FROM slots
		WHERE facility_id = $1
		ORDER BY location_tag, id`

	rows, err := r.db.Query(ctx, query, facilityID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}
	defer rows.Close()

	var views []*queries.SlotView
	for rows.Next() {
		var v queries.SlotView
		if err := rows.Scan(
			&v.ID, &v.FacilityID, &v.SlotType, &v.DisplayStatus,
			&v.HourlyRateCents, &v.LocationTag, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot view", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read slot views", err)
	}
	return views, nil
}

// CountAvailability is an unlocked aggregate over the occupying-status
// overlap predicate; the write path re-checks under row locks.
func (r *SlotReadStore) CountAvailability(
	ctx context.Context,
	facilityID uuid.UUID,
	window reservation.TimeWindow,
	slotType *string,
) ([]*queries.AvailabilityView, error) {
	const query = `
		SELECT s.slot_type,
		       COUNT(*) AS total_slots,
		       COUNT(*) FILTER (WHERE NOT EXISTS (
		           SELECT 1 FROM reservations r
		           WHERE r.slot_id = s.id
		             AND r.status IN ('Active', 'CheckedIn', 'Overstayed')
		             AND r.start_time < $3
		             AND r.end_time > $2
		       )) AS available_slots
		FROM slots s
		WHERE s.facility_id = $1
		  AND ($4::text IS NULL OR s.slot_type = $4)
		GROUP BY s.slot_type
		ORDER BY s.slot_type`

	rows, err := r.db.Query(ctx, query, facilityID, window.Start(), window.End(), slotType)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count availability", err)
	}
	defer rows.Close()

	var views []*queries.AvailabilityView
	for rows.Next() {
		var v queries.AvailabilityView
		if err := rows.Scan(&v.SlotType, &v.TotalSlots, &v.AvailableSlots); err != nil {
			return nil, infra.WrapRepoErr("failed to scan availability view", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read availability views", err)
	}
	return views, nil
}
