package components

import (
	"room-booking/internal/infra/memstore"
	"room-booking/internal/infra/repository"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/infra/uow"
	"room-booking/internal/pkg/config"
	"room-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	fx.Annotate(
		NewUnitOfWork,
		fx.As(new(repository.TxRunner)),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// Room
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.RoomQueries)),
		),
		fx.Annotate(
			repository.NewRoomRepository,
			fx.As(new(shared.RoomStore)),
		),
		// Reservation
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.ReservationQueries)),
		),
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(shared.BookingStore)),
		),
		// Idempotency
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.IdempotencyQueries)),
		),
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(shared.IdempotencyStore)),
		),
	),
)

// MemoryPersistenceModule backs every port with one in-process store.
var MemoryPersistenceModule = fx.Module("persistence/memory",
	fx.Provide(
		memstore.NewStore,
		func(s *memstore.Store) shared.RoomStore { return s.Rooms() },
		func(s *memstore.Store) shared.BookingStore { return s.Bookings() },
		func(s *memstore.Store) shared.IdempotencyStore { return s.Idempotency() },
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewUnitOfWork(pool *pgxpool.Pool, cfg config.Config) *uow.PostgresUoW {
	return uow.NewPostgresUoW(pool, cfg.Booking)
}
