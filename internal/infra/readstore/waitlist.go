package readstore

import (
	"context"

	"parkhub/internal/infra"
	"parkhub/internal/infra/db"
	"parkhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type WaitlistReadStore struct {
	db db.DBTX
}

func NewWaitlistReadStore(dbtx db.DBTX) *WaitlistReadStore {
	return &WaitlistReadStore{db: dbtx}
}

const waitlistViewColumns = `id, user_id, facility_id, slot_type, start_time, end_time, status, priority, offered_slot_id, offer_expires_at, created_at`

func (r *WaitlistReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.WaitlistEntryView, error) {
	query := `SELECT ` + waitlistViewColumns + ` FROM waitlist_entries WHERE id = $1`
	v, err := scanWaitlistView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find waitlist entry by ID", err)
	}
	return v, nil
}

func (r *WaitlistReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.WaitlistEntryView, error) {
	query := `
		SELECT ` + waitlistViewColumns + `
		FROM waitlist_entries
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list waitlist entries", err)
	}
	defer rows.Close()

	var views []*queries.WaitlistEntryView
	for rows.Next() {
		v, err := scanWaitlistView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan waitlist entry view", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read waitlist entries", err)
	}
	return views, nil
}

// QueuePosition ranks the entry among Active entries of the same facility
// and slot type, 1-based. Higher priority ranks first, earlier created
// breaks ties.
func (r *WaitlistReadStore) QueuePosition(ctx context.Context, id uuid.UUID) (int, error) {
	const query = `
		SELECT 1 + COUNT(*)
		FROM waitlist_entries e
		JOIN waitlist_entries target ON target.id = $1
		WHERE e.facility_id = target.facility_id
		  AND e.slot_type = target.slot_type
		  AND e.status = 'Active'
		  AND e.id <> target.id
		  AND (e.priority > target.priority
		       OR (e.priority = target.priority AND e.created_at < target.created_at))`

	var pos int
	if err := r.db.QueryRow(ctx, query, id).Scan(&pos); err != nil {
		return 0, infra.WrapRepoErr("failed to compute queue position", err)
	}
	return pos, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWaitlistView(row rowScanner) (*queries.WaitlistEntryView, error) {
	var v queries.WaitlistEntryView
	if err := row.Scan(
		&v.ID, &v.UserID, &v.FacilityID, &v.SlotType, &v.StartTime, &v.EndTime,
		&v.Status, &v.Priority, &v.OfferedSlotID, &v.OfferExpiresAt, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
