package repository

import (
	"context"
	"time"

	"parkhub/internal/domain/payment"
	"parkhub/internal/infra"
	"parkhub/internal/infra/db"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	const query = `
		INSERT INTO payments (id, reservation_id, amount_cents, status, transaction_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		p.ID(), p.ReservationID(), p.AmountCents(), p.Status().String(),
		p.TransactionRef(), p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindByReservationForUpdate(ctx context.Context, reservationID uuid.UUID) (*payment.Payment, error) {
	const query = `
		SELECT id, reservation_id, amount_cents, status, transaction_ref, created_at, updated_at
		FROM payments
		WHERE reservation_id = $1
		FOR UPDATE`

	var (
		id, resID            uuid.UUID
		amountCents          int64
		status, ref          string
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, reservationID).Scan(
		&id, &resID, &amountCents, &status, &ref, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock payment", err)
	}
	return payment.ReconstructPayment(id, resID, amountCents, payment.Status(status), ref, createdAt, updatedAt), nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	const query = `
		UPDATE payments
		SET amount_cents = $2, status = $3, transaction_ref = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		p.ID(), p.AmountCents(), p.Status().String(), p.TransactionRef(), p.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "payment not found")
	}
	return nil
}
