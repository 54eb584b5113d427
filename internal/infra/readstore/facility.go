package readstore

import (
	"context"

	"parkhub/internal/infra"
	"parkhub/internal/infra/db"

	"github.com/google/uuid"
)

type FacilityView struct {
	ID      uuid.UUID
	Name    string
	AdminID uuid.UUID
}

type FacilityReadStore struct {
	db db.DBTX
}

func NewFacilityReadStore(dbtx db.DBTX) *FacilityReadStore {
	return &FacilityReadStore{db: dbtx}
}

func (r *FacilityReadStore) FindByID(ctx context.Context, id uuid.UUID) (*FacilityView, error) {
	const query = `SELECT id, name, admin_id FROM facilities WHERE id = $1`
	var v FacilityView
	if err := r.db.QueryRow(ctx, query, id).Scan(&v.ID, &v.Name, &v.AdminID); err != nil {
		return nil, infra.WrapRepoErr("failed to find facility by ID", err)
	}
	return &v, nil
}

func (r *FacilityReadStore) FacilityAdminID(ctx context.Context, facilityID uuid.UUID) (uuid.UUID, error) {
	const query = `SELECT admin_id FROM facilities WHERE id = $1`
	var adminID uuid.UUID
	if err := r.db.QueryRow(ctx, query, facilityID).Scan(&adminID); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to find facility admin", err)
	}
	return adminID, nil
}
