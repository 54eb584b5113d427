package repository

import (
	"context"
	"time"

	"parkhub/internal/domain/reservation"
	"parkhub/internal/infra"
	"parkhub/internal/infra/db"

	"github.com/google/uuid"
)

const reservationColumns = `id, user_id, slot_id, start_time, end_time, status, total_amount_cents, payment_status, vehicle_tag, check_in_time, check_out_time, created_at, updated_at`

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	const query = `
		INSERT INTO reservations (id, user_id, slot_id, start_time, end_time, status, total_amount_cents, payment_status, vehicle_tag, check_in_time, check_out_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		res.ID(), res.UserID(), res.SlotID(),
		res.Window().Start(), res.Window().End(),
		res.Status().String(), res.TotalAmount().Cents(), res.PaymentStatus().String(),
		res.VehicleTag(), res.CheckInTime(), res.CheckOutTime(),
		res.CreatedAt(), res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	const query = `
		UPDATE reservations
		SET status = $2, total_amount_cents = $3, payment_status = $4, vehicle_tag = $5,
		    check_in_time = $6, check_out_time = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		res.ID(), res.Status().String(), res.TotalAmount().Cents(), res.PaymentStatus().String(),
		res.VehicleTag(), res.CheckInTime(), res.CheckOutTime(), res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return nil
}

func scanReservation(row rowScanner) (*reservation.Reservation, error) {
	var (
		id, userID, slotID        uuid.UUID
		startTime, endTime        time.Time
		status                    string
		totalAmountCents          int64
		paymentStatus, vehicleTag string
		checkInTime, checkOutTime *time.Time
		createdAt, updatedAt      time.Time
	)
	if err := row.Scan(
		&id, &userID, &slotID, &startTime, &endTime, &status,
		&totalAmountCents, &paymentStatus, &vehicleTag,
		&checkInTime, &checkOutTime, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	window, err := reservation.NewTimeWindow(startTime, endTime)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		id, userID, slotID, window,
		reservation.Status(status), totalAmountCents, reservation.PaymentStatus(paymentStatus),
		vehicleTag, checkInTime, checkOutTime,
		createdAt, updatedAt,
	), nil
}
