package readstore

import (
	"context"
	"time"

	"parkhub/internal/infra"
	"parkhub/internal/infra/db"
	"parkhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.slot_id, s.facility_id, s.slot_type, s.location_tag,
		       r.user_id, r.start_time, r.end_time, r.status,
		       NULLIF(r.vehicle_tag, ''), r.check_in_time, r.check_out_time,
		       r.total_amount_cents, r.payment_status, r.created_at, r.updated_at
		FROM reservations r
		JOIN slots s ON s.id = r.slot_id
		WHERE r.id = $1`

	var v queries.ReservationView
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.SlotID, &v.FacilityID, &v.SlotType, &v.LocationTag,
		&v.UserID, &v.StartTime, &v.EndTime, &v.Status,
		&v.VehicleTag, &v.CheckInTime, &v.CheckOutTime,
		&v.TotalAmountCents, &v.PaymentStatus, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return &v, nil
}

func (r *ReservationReadStore) FindByUserID(
	ctx context.Context,
	userID uuid.UUID,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int32,
) ([]*queries.ReservationListItem, error) {
	const query = `
		SELECT r.id, r.slot_id, s.location_tag, r.start_time, r.end_time,
		       r.status, r.total_amount_cents, r.created_at
		FROM reservations r
		JOIN slots s ON s.id = r.slot_id
		WHERE r.user_id = $1
		  AND ($2::timestamptz IS NULL OR (r.created_at, r.id) < ($2, $3))
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $4`

	return r.list(ctx, query, userID, afterCreatedAt, afterID, limit)
}

func (r *ReservationReadStore) FindByFacilityID(
	ctx context.Context,
	facilityID uuid.UUID,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int32,
) ([]*queries.ReservationListItem, error) {
	const query = `
		SELECT r.id, r.slot_id, s.location_tag, r.start_time, r.end_time,
		       r.status, r.total_amount_cents, r.created_at
		FROM reservations r
		JOIN slots s ON s.id = r.slot_id
		WHERE s.facility_id = $1
		  AND ($2::timestamptz IS NULL OR (r.created_at, r.id) < ($2, $3))
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $4`

	return r.list(ctx, query, facilityID, afterCreatedAt, afterID, limit)
}

func (r *ReservationReadStore) list(
	ctx context.Context,
	query string,
	scopeID uuid.UUID,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int32,
) ([]*queries.ReservationListItem, error) {
	rows, err := r.db.Query(ctx, query, scopeID, afterCreatedAt, afterID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var items []*queries.ReservationListItem
	for rows.Next() {
		var item queries.ReservationListItem
		if err := rows.Scan(
			&item.ID, &item.SlotID, &item.LocationTag, &item.StartTime, &item.EndTime,
			&item.Status, &item.TotalAmountCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation list", err)
	}
	return items, nil
}
