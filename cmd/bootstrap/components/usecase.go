package components

import (
	"crypto/rand"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/pkg/clock"
	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/usecase/commands"
	"hotel-reservation/internal/usecase/queries"
	"hotel-reservation/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) *reservation.CodeGenerator {
		return reservation.NewCodeGenerator(rand.Reader, cfg.Reservation.CodeLength)
	},
	func(cfg config.Config) *commands.AvailabilityValidator {
		return commands.NewAvailabilityValidator(cfg.Reservation.BufferDays)
	},
	func(cfg config.Config) commands.ReservationSettings {
		return commands.ReservationSettings{
			IdempotencyTTL: cfg.Reservation.IdempotencyTTL,
			SweepBatchSize: cfg.Scheduler.CompletionBatchSize,
			MaxNights:      cfg.Reservation.MaxNights,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationUseCase,
		func(uow shared.UnitOfWork, notifier shared.Notifier, clk clock.Clock, cfg config.Config) commands.MaintenanceCommands {
			return commands.NewMaintenanceUseCase(uow, notifier, clk, cfg.Scheduler.OutboxBatchSize)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		func(
			rooms queries.RoomViewRepo,
			stays queries.StayViewRepo,
			cache shared.CalendarCache,
			clk clock.Clock,
			cfg config.Config,
		) queries.AvailabilityQueries {
			return queries.NewAvailabilityQueries(rooms, stays, cache, clk, queries.AvailabilityPolicy{
				BufferDays: cfg.Reservation.BufferDays,
				MaxNights:  cfg.Reservation.MaxNights,
			})
		},
	),
)
