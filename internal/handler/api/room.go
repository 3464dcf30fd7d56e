package api

import (
	"net/http"
	"time"

	"room-booking/internal/domain/reservation"
	reqdto "room-booking/internal/handler/dto/request"
	resdto "room-booking/internal/handler/dto/response"
	"room-booking/internal/handler/httperr"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const timeLayout = time.RFC3339

type RoomHandler struct {
	cmds         commands.RoomCommands
	q            queries.RoomQueries
	availability queries.AvailabilityQueries
}

func NewRoomHandler(cmds commands.RoomCommands, q queries.RoomQueries, availability queries.AvailabilityQueries) *RoomHandler {
	return &RoomHandler{cmds: cmds, q: q, availability: availability}
}

// @Summary List rooms
// @Description List bookable rooms, optionally filtered by feature and minimum capacity
// @Tags rooms
// @Produce json
// @Param feature query string false "Required feature"
// @Param min_capacity query int false "Minimum capacity"
// @Success 200 {array} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	var q reqdto.ListRoomsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	views, err := h.q.List(c.Request.Context(), queries.RoomFilter{
		Feature:     q.Feature,
		MinCapacity: q.MinCapacity,
	})
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRoomViews(views))
}

// @Summary Get room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room ID format", nil)
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRoomView(view))
}

// @Summary Check room availability
// @Description Whether the room is free for the whole range, plus the free gaps inside it
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Param exclude query string false "Reservation ID to ignore"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /rooms/{id}/availability [get]
func (h *RoomHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room ID format", nil)
		return
	}
	var q reqdto.AvailabilityQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query", nil)
		return
	}
	window, err := reservation.NewQueryWindow(q.Start, q.End)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid range", nil)
		return
	}
	var exclude *uuid.UUID
	if q.Exclude != "" {
		excludeID, parseErr := uuid.Parse(q.Exclude)
		if parseErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, parseErr, "Invalid exclude ID format", nil)
			return
		}
		exclude = &excludeID
	}

	view, err := h.availability.Check(c.Request.Context(), id, window, exclude)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Create room
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRoomRequest true "Room"
// @Success 201 {object} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req reqdto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	created, err := h.cmds.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromRoom(created))
}

// @Summary Delete room
// @Description Fails with 409 while the room has upcoming confirmed reservations
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room ID format", nil)
		return
	}
	if err := h.cmds.Delete(c.Request.Context(), id); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
