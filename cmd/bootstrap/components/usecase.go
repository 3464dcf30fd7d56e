package components

import (
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/config"
	"room-booking/internal/usecase"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"
	"room-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPolicy,
	availability.NewEngine,
	// Read-side views of the persistence ports
	func(s shared.BookingStore) availability.ReservationReader { return s },
	func(s shared.BookingStore) queries.ReservationReader { return s },
	func(s shared.RoomStore) queries.RoomReader { return s },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewRoomCommands,
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRoomQueries,
		queries.NewReservationQueries,
		queries.NewCalendarQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewPolicy(cfg config.Config) commands.Policy {
	return commands.Policy{
		AllowAdminBackfill: cfg.Booking.AllowAdminBackfill,
		IdempotencyTTL:     cfg.Booking.IdempotencyTTL,
	}
}
