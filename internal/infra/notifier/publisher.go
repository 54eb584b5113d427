package notifier

import (
	"context"
	"sync"
	"time"

	"parkhub/internal/pkg/config"
	"parkhub/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher ships notification envelopes to the external notification
// service over a durable RabbitMQ queue. Messages are persistent so they
// survive a broker restart.
type Publisher struct {
	cfg config.AMQPConfig

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(cfg config.AMQPConfig) (*Publisher, func(), error) {
	p := &Publisher{cfg: cfg}
	if err := p.connect(); err != nil {
		return nil, nil, err
	}
	cleanup := func() { p.Close() }
	return p, cleanup, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return errs.Wrap(err, "failed to dial broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errs.Wrap(err, "failed to open channel")
	}
	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errs.Wrap(err, "failed to declare queue")
	}

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
		// Drop the broken channel so the next publish redials.
		p.teardownLocked()
		return errs.Wrap(err, "failed to publish notification")
	}
	return nil
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownLocked()
}

func (p *Publisher) teardownLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
