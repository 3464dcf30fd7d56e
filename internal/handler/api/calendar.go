package api

import (
	"net/http"

	"room-booking/internal/domain/reservation"
	reqdto "room-booking/internal/handler/dto/request"
	resdto "room-booking/internal/handler/dto/response"
	"room-booking/internal/handler/httperr"
	"room-booking/internal/handler/middleware"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CalendarHandler struct {
	q queries.CalendarQueries
}

func NewCalendarHandler(q queries.CalendarQueries) *CalendarHandler {
	return &CalendarHandler{q: q}
}

// @Summary Calendar events
// @Description Reservations overlapping the range as calendar events, ordered by start
// @Tags calendar
// @Produce json
// @Param room_id query string false "Limit to one room"
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Param include_cancelled query bool false "Include cancelled reservations (admin only)"
// @Success 200 {array} resdto.EventResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /calendar/events [get]
func (h *CalendarHandler) Events(c *gin.Context) {
	var q reqdto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	window, err := reservation.NewQueryWindow(q.Start, q.End)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid range", nil)
		return
	}

	filter := queries.EventsFilter{Window: window}
	if q.RoomID != "" {
		roomID, parseErr := uuid.Parse(q.RoomID)
		if parseErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, parseErr, "Invalid room ID format", nil)
			return
		}
		filter.RoomID = &roomID
	}
	if q.IncludeCancelled {
		if a, ok := middleware.GetActor(c); !ok || !a.IsAdmin() {
			abortWithUsecaseError(c, errs.Mark(errs.New("include_cancelled requires an administrator"), errs.ErrForbidden))
			return
		}
		filter.IncludeCancelled = true
	}

	events, err := h.q.EventsFor(c.Request.Context(), filter)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEventViews(events))
}
