package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyProcessed = errors.New("payment has already been processed")
	ErrNegativeAmount   = errors.New("payment amount cannot be negative")
)

type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
	StatusFailed  Status = "Failed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed:
		return true
	default:
		return false
	}
}

// Payment is the single pending record opened alongside each reservation and
// finalized at check-out. Amounts are cents.
type Payment struct {
	id             uuid.UUID
	reservationID  uuid.UUID
	amountCents    int64
	status         Status
	transactionRef string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewPayment(reservationID uuid.UUID, amountCents int64, now time.Time) (*Payment, error) {
	if amountCents < 0 {
		return nil, ErrNegativeAmount
	}
	now = now.UTC()
	return &Payment{
		id:            uuid.New(),
		reservationID: reservationID,
		amountCents:   amountCents,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructPayment(
	id, reservationID uuid.UUID,
	amountCents int64,
	status Status,
	transactionRef string,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:             id,
		reservationID:  reservationID,
		amountCents:    amountCents,
		status:         status,
		transactionRef: transactionRef,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Finalize settles the pending record with the final amount (possibly revised
// upward for overstay) and the gateway outcome.
func (p *Payment) Finalize(finalAmountCents int64, result Result, now time.Time) error {
	if p.status != StatusPending {
		return ErrAlreadyProcessed
	}
	if finalAmountCents < 0 {
		return ErrNegativeAmount
	}
	p.amountCents = finalAmountCents
	p.transactionRef = result.TransactionRef
	if result.Succeeded {
		p.status = StatusPaid
	} else {
		p.status = StatusFailed
	}
	p.updatedAt = now.UTC()
	return nil
}

func (p *Payment) ID() uuid.UUID            { return p.id }
func (p *Payment) ReservationID() uuid.UUID { return p.reservationID }
func (p *Payment) AmountCents() int64       { return p.amountCents }
func (p *Payment) Status() Status           { return p.status }
func (p *Payment) TransactionRef() string   { return p.transactionRef }
func (p *Payment) CreatedAt() time.Time     { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time     { return p.updatedAt }
