package api

import (
	"net/http"

	"room-booking/internal/domain/actor"
	"room-booking/internal/domain/reservation"
	reqdto "room-booking/internal/handler/dto/request"
	resdto "room-booking/internal/handler/dto/response"
	"room-booking/internal/handler/httperr"
	"room-booking/internal/handler/middleware"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Book a room for a half-open window aligned to whole minutes
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID; a retry with the same key returns the first result"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	by, ok := requireActor(c)
	if !ok {
		return
	}
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	input := req.ToInput()
	if raw := c.GetHeader(idempotencyKeyHeader); raw != "" {
		key, err := uuid.Parse(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid Idempotency-Key header", nil)
			return
		}
		input.IdempotencyKey = &key
	}

	created, err := h.cmds.Create(c.Request.Context(), input, by)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Header("Location", "/api/reservations/"+created.ID().String())
	c.JSON(http.StatusCreated, resdto.FromReservation(created))
}

// @Summary Get reservation
// @Description Visible to its requester and to administrators
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	by, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id, by)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List my reservations
// @Description Reservations of the caller overlapping the range, any status
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations/mine [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	by, ok := requireActor(c)
	if !ok {
		return
	}
	var q reqdto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	window, err := reservation.NewQueryWindow(q.Start, q.End)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid range", nil)
		return
	}
	views, err := h.q.ListMine(c.Request.Context(), by, window)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Cancel reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	by, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}
	cancelled, err := h.cmds.Cancel(c.Request.Context(), id, by)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(cancelled))
}

// @Summary Reschedule reservation
// @Description Move a confirmed reservation to a new window in the same room
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.RescheduleReservationRequest true "New window"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/window [put]
func (h *ReservationHandler) Reschedule(c *gin.Context) {
	by, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}
	var req reqdto.RescheduleReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	moved, err := h.cmds.Reschedule(c.Request.Context(), id, req.ToInput(), by)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(moved))
}

func requireActor(c *gin.Context) (actor.Actor, bool) {
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("no actor in context"), "Unauthorized", nil)
		return actor.Actor{}, false
	}
	return a, true
}

func reservationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
