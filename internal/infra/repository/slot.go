package repository

import (
	"context"
	"strings"
	"time"

	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/infra"
	"parkhub/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// occupyingStatuses is the status set that blocks other bookings. It must
// stay in sync with reservation.Status.OccupiesSlot.
const occupyingStatuses = `('Active', 'CheckedIn', 'Overstayed')`

const slotColumns = `id, facility_id, slot_type, display_status, hourly_rate_cents, location_tag, created_at, updated_at`

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(dbtx db.DBTX) *SlotRepository {
	return &SlotRepository{db: dbtx}
}

func (r *SlotRepository) Create(ctx context.Context, s *slot.Slot) error {
	const query = `
		INSERT INTO slots (id, facility_id, slot_type, display_status, hourly_rate_cents, location_tag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		s.ID(), s.FacilityID(), s.Type().String(), s.DisplayStatus().String(),
		s.HourlyRateCents(), s.LocationTag(), s.CreatedAt(), s.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create slot", err)
	}
	return nil
}

func (r *SlotRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1 FOR UPDATE`
	s, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock slot", err)
	}
	return s, nil
}

// LockAvailable claims up to limit free slots of the given type. Locking and
// the availability check are separate statements on purpose: under READ
// COMMITTED a statement that blocked on a row lock rechecks its predicate
// against its original snapshot, so a combined lock-and-filter query can miss
// a reservation committed while this transaction waited. Locking the slot
// rows first and filtering in a fresh statement sees that reservation.
func (r *SlotRepository) LockAvailable(
	ctx context.Context,
	facilityID uuid.UUID,
	slotType slot.Type,
	window reservation.TimeWindow,
	limit int,
) ([]*slot.Slot, error) {
	// Locks are taken in ascending id order so concurrent creates against
	// the same facility acquire them identically.
	const lockQuery = `
		SELECT id FROM slots
		WHERE facility_id = $1 AND slot_type = $2
		ORDER BY id
		FOR UPDATE`

	lockRows, err := r.db.Query(ctx, lockQuery, facilityID, slotType.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock slots", err)
	}
	ids, err := scanUUIDs(lockRows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read locked slots", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + prefixColumns("s", slotColumns) + `
		FROM slots s
		WHERE s.id = ANY($1)
		  AND NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.slot_id = s.id
			  AND r.status IN ` + occupyingStatuses + `
			  AND r.start_time < $3
			  AND r.end_time > $2
		  )
		ORDER BY s.id
		LIMIT $4`

	rows, err := r.db.Query(ctx, query, ids, window.Start(), window.End(), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select available slots", err)
	}
	defer rows.Close()

	var slots []*slot.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read available slots", err)
	}
	return slots, nil
}

func (r *SlotRepository) HasOverlap(ctx context.Context, slotID uuid.UUID, window reservation.TimeWindow) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE slot_id = $1
			  AND status IN ` + occupyingStatuses + `
			  AND start_time < $3
			  AND end_time > $2
		)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, slotID, window.Start(), window.End()).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check slot overlap", err)
	}
	return exists, nil
}

func (r *SlotRepository) SetDisplayStatus(ctx context.Context, slotID uuid.UUID, status slot.DisplayStatus) error {
	const query = `UPDATE slots SET display_status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, slotID, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update slot display status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "slot not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUUIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanSlot(row rowScanner) (*slot.Slot, error) {
	var (
		id, facilityID       uuid.UUID
		slotType, display    string
		hourlyRateCents      int64
		locationTag          string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &facilityID, &slotType, &display, &hourlyRateCents, &locationTag, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return slot.ReconstructSlot(
		id, facilityID,
		slot.Type(slotType), slot.DisplayStatus(display),
		hourlyRateCents, locationTag,
		createdAt, updatedAt,
	), nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
