package repository

import (
	"context"
	"errors"
	"time"

	"parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/domain/waitlist"
	"parkhub/internal/infra"
	"parkhub/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const waitlistColumns = `id, user_id, facility_id, slot_type, start_time, end_time, status, priority, notified_at, offer_expires_at, offered_slot_id, created_at, updated_at`

type WaitlistRepository struct {
	db db.DBTX
}

func NewWaitlistRepository(dbtx db.DBTX) *WaitlistRepository {
	return &WaitlistRepository{db: dbtx}
}

func (r *WaitlistRepository) Create(ctx context.Context, e *waitlist.Entry) error {
	const query = `
		INSERT INTO waitlist_entries (id, user_id, facility_id, slot_type, start_time, end_time, status, priority, notified_at, offer_expires_at, offered_slot_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		e.ID(), e.UserID(), e.FacilityID(), e.SlotType().String(),
		e.Window().Start(), e.Window().End(), e.Status().String(), e.Priority(),
		e.NotifiedAt(), e.NotificationExpiresAt(), e.OfferedSlotID(),
		e.CreatedAt(), e.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create waitlist entry", err)
	}
	return nil
}

func (r *WaitlistRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE id = $1 FOR UPDATE`
	e, err := scanWaitlistEntry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock waitlist entry", err)
	}
	return e, nil
}

func (r *WaitlistRepository) HasActiveForUser(ctx context.Context, userID, facilityID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM waitlist_entries
			WHERE user_id = $1 AND facility_id = $2 AND status = 'Active'
		)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, facilityID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check active waitlist entry", err)
	}
	return exists, nil
}

// NextEligibleForUpdate picks the queue head: highest priority first, oldest
// first on ties. SKIP LOCKED keeps concurrent freed-slot passes from
// serializing on the same head row.
func (r *WaitlistRepository) NextEligibleForUpdate(ctx context.Context, facilityID uuid.UUID, slotType slot.Type) (*waitlist.Entry, error) {
	query := `
		SELECT ` + waitlistColumns + `
		FROM waitlist_entries
		WHERE facility_id = $1 AND slot_type = $2 AND status = 'Active'
		ORDER BY priority DESC, created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	e, err := scanWaitlistEntry(r.db.QueryRow(ctx, query, facilityID, slotType.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to lock next waitlist entry", err)
	}
	return e, nil
}

func (r *WaitlistRepository) Update(ctx context.Context, e *waitlist.Entry) error {
	const query = `
		UPDATE waitlist_entries
		SET status = $2, notified_at = $3, offer_expires_at = $4, offered_slot_id = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		e.ID(), e.Status().String(), e.NotifiedAt(), e.NotificationExpiresAt(), e.OfferedSlotID(), e.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update waitlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "waitlist entry not found")
	}
	return nil
}

func scanWaitlistEntry(row rowScanner) (*waitlist.Entry, error) {
	var (
		id, userID, facilityID uuid.UUID
		slotType               string
		startTime, endTime     time.Time
		status                 string
		priority               int
		notifiedAt, expiresAt  *time.Time
		offeredSlotID          *uuid.UUID
		createdAt, updatedAt   time.Time
	)
	if err := row.Scan(
		&id, &userID, &facilityID, &slotType, &startTime, &endTime,
		&status, &priority, &notifiedAt, &expiresAt, &offeredSlotID,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	window, err := reservation.NewTimeWindow(startTime, endTime)
	if err != nil {
		return nil, err
	}
	return waitlist.ReconstructEntry(
		id, userID, facilityID,
		slot.Type(slotType), window, waitlist.Status(status), priority,
		notifiedAt, expiresAt, offeredSlotID,
		createdAt, updatedAt,
	), nil
}
