package components

import (
	"parkhub/internal/domain/payment"
	"parkhub/internal/pkg/clock"
	"parkhub/internal/pkg/config"
	"parkhub/internal/usecase/commands"
	"parkhub/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		payment.NewSimulatedProcessor,
		fx.As(new(payment.Processor)),
	),
	func(cfg config.Config) config.WaitlistConfig {
		return cfg.Waitlist
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		// Waitlist commands double as the scheduler that runs a waitlist
		// pass whenever a reservation frees a slot.
		fx.Annotate(
			commands.NewWaitlistCommands,
			fx.As(new(commands.WaitlistCommands)),
			fx.As(new(commands.FreedSlotScheduler)),
		),
		commands.NewReservationCommands,
		commands.NewSlotCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewWaitlistQueries,
		queries.NewSlotQueries,
	),
)
