package bootstrap

import (
	"context"
	"log/slog"

	"parkhub/internal/infra/notifier"
	"parkhub/internal/pkg/clock"
	"parkhub/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var AMQPModule = fx.Module("amqp",
	fx.Provide(
		NewPublisher,
		NewDispatcher,
	),
	fx.Invoke(runDispatcher),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config) (*notifier.Publisher, error) {
	publisher, cleanup, err := notifier.NewPublisher(cfg.AMQP)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return publisher, nil
}

func NewDispatcher(pool *pgxpool.Pool, publisher *notifier.Publisher, clk clock.Clock, cfg config.Config, logger *slog.Logger) *notifier.Dispatcher {
	return notifier.NewDispatcher(pool, publisher, clk, cfg.AMQP, logger)
}

func runDispatcher(lc fx.Lifecycle, dispatcher *notifier.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			dispatcher.Stop()
			return nil
		},
	})
}
