package components

import (
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/infra/readstore"
	"hotel-reservation/internal/infra/uow"
	"hotel-reservation/internal/usecase/queries"
	"hotel-reservation/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// PersistenceModule: read stores query the pool directly, writes go through the unit of work.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			query.New,
			fx.As(fx.Self()),
			fx.As(new(readstore.RoomViewQueries)),
			fx.As(new(readstore.ReservationViewQueries)),
		),
		func(pool *pgxpool.Pool) query.DBTX { return pool },
	),
	fx.Module("persistence/readstore",
		fx.Provide(
			fx.Annotate(readstore.NewRoomReadStore, fx.As(new(queries.RoomViewRepo))),
			fx.Annotate(readstore.NewReservationReadStore,
				fx.As(new(queries.ReservationViewRepo)),
				fx.As(new(queries.StayViewRepo)),
			),
		),
	),
	fx.Module("persistence/uow",
		fx.Provide(
			fx.Annotate(uow.NewPostgresUoW, fx.As(new(shared.UnitOfWork))),
		),
	),
)
