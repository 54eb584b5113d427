package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"parkhub/internal/infra/repository"
	"parkhub/internal/pkg/clock"
	"parkhub/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxDeliveryAttempts = 5
	retryDelay          = 30 * time.Second
	claimLease          = time.Minute
)

// Envelope is the wire format consumed by the notification service.
type Envelope struct {
	JobID      uuid.UUID       `json:"job_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Dispatcher drains committed outbox rows to the broker on an interval.
// Claiming is a single leasing statement, so no row lock is held while a
// batch is published; concurrent dispatchers never double-send a job
// within the lease window.
type Dispatcher struct {
	pool      *pgxpool.Pool
	publisher *Publisher
	clock     clock.Clock
	cfg       config.AMQPConfig
	slogger   *slog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewDispatcher(
	pool *pgxpool.Pool,
	publisher *Publisher,
	clk clock.Clock,
	cfg config.AMQPConfig,
	slogger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		pool:      pool,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
		slogger:   slogger,
		stop:      make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

func (d *Dispatcher) Stop() {
	close(d.stop)
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.cfg.DrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DrainInterval)
			if err := d.DrainOnce(ctx); err != nil {
				d.slogger.Error("outbox drain failed", slog.Any("error", err))
			}
			cancel()
		}
	}
}

// DrainOnce leases one batch of due jobs, publishes them lock-free, then
// settles each row in a follow-up statement. Jobs whose publish fails are
// rescheduled with a delay and eventually parked as dead.
func (d *Dispatcher) DrainOnce(ctx context.Context) error {
	outbox := repository.NewOutboxRepository(d.pool)
	now := d.clock.Now()

	jobs, err := outbox.ClaimPending(ctx, now, now.Add(claimLease), d.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		body, err := json.Marshal(Envelope{
			JobID:      job.ID,
			UserID:     job.UserID,
			Kind:       job.Kind,
			Payload:    job.Payload,
			EnqueuedAt: job.EnqueuedAt,
		})
		if err != nil {
			d.slogger.Error("notification job not serializable",
				slog.String("job_id", job.ID.String()),
				slog.Any("error", err))
			if err := outbox.MarkFailed(ctx, job.ID, err.Error(), now.Add(retryDelay), maxDeliveryAttempts); err != nil {
				return err
			}
			continue
		}

		if err := d.publisher.Publish(ctx, body); err != nil {
			d.slogger.Warn("notification publish failed",
				slog.String("job_id", job.ID.String()),
				slog.Int("attempts", int(job.Attempts)+1),
				slog.Any("error", err))
			if err := outbox.MarkFailed(ctx, job.ID, err.Error(), now.Add(retryDelay), maxDeliveryAttempts); err != nil {
				return err
			}
			continue
		}

		if err := outbox.MarkSent(ctx, job.ID); err != nil {
			return err
		}
	}

	return nil
}
