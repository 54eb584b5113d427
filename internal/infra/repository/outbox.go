package repository

import (
	"context"
	"time"

	"parkhub/internal/infra"
	"parkhub/internal/infra/db"
	"parkhub/internal/usecase/shared"

	"github.com/google/uuid"
)

// OutboxRepository stages notification jobs in the same transaction as the
// state change that triggers them.
type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, job shared.NotificationJob) error {
	const query = `
		INSERT INTO notification_jobs (id, user_id, kind, payload, run_at, attempts, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 'pending', now(), now())`
	_, err := r.db.Exec(ctx, query, uuid.New(), job.UserID, string(job.Kind), job.Payload, job.RunAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}

// PendingJob is a claimed outbox row ready for dispatch.
type PendingJob struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Kind       string
	Payload    []byte
	EnqueuedAt time.Time
	Attempts   int32
}

// ClaimPending leases up to limit due jobs for this dispatcher by pushing
// their run_at to leaseUntil in a single statement. The row locks are gone
// as soon as the statement commits, so delivery happens without holding any
// lock; a dispatcher that dies mid-batch loses its claims once the lease
// lapses. SKIP LOCKED keeps concurrent dispatchers out of each other's way.
func (r *OutboxRepository) ClaimPending(ctx context.Context, now, leaseUntil time.Time, limit int) ([]PendingJob, error) {
	const query = `
		UPDATE notification_jobs
		SET run_at = $2, updated_at = now()
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE status = 'pending' AND run_at <= $1
			ORDER BY run_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, user_id, kind, payload, created_at, attempts`

	rows, err := r.db.Query(ctx, query, now, leaseUntil, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []PendingJob
	for rows.Next() {
		var j PendingJob
		if err := rows.Scan(&j.ID, &j.UserID, &j.Kind, &j.Payload, &j.EnqueuedAt, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}
	return jobs, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE notification_jobs SET status = 'sent', updated_at = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time, maxAttempts int32) error {
	const query = `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
		    last_error = $2,
		    run_at = $3,
		    status = CASE WHEN attempts + 1 >= $4 THEN 'dead' ELSE 'pending' END,
		    updated_at = now()
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, lastError, retryAt, maxAttempts); err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
