package components

import (
	"room-booking/internal/handler"
	"room-booking/internal/handler/api"
	"room-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRoomHandler,
		api.NewReservationHandler,
		api.NewCalendarHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(room *api.RoomHandler, reservation *api.ReservationHandler, calendar *api.CalendarHandler) handler.Handlers {
	return handler.Handlers{
		Room:        room,
		Reservation: reservation,
		Calendar:    calendar,
	}
}
