package room

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/handler"
	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/service/availability"
	"github.com/clinicdesk/scheduling-api/internal/service/room"
)

type Handler struct {
	rooms        *room.Service
	availability *availability.Service
}

func NewHandler(rooms *room.Service, availabilitySvc *availability.Service) *Handler {
	return &Handler{rooms: rooms, availability: availabilitySvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.POST("", h.CreateRoom)
		rooms.GET("/:id", h.GetRoom)
		rooms.PATCH("/:id", h.UpdateRoom)
	}
}

// ListRooms lists the clinic's rooms. With start and duration query
// parameters it instead returns only the rooms free for that window.
func (h *Handler) ListRooms(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	if raw := c.Query("start"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start, expected RFC 3339"))
			return
		}

		minutes, err := strconv.Atoi(c.DefaultQuery("duration", "0"))
		if err != nil || minutes <= 0 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or missing duration"))
			return
		}

		available, err := h.availability.AvailableRooms(c.Request.Context(), identity.ClinicID, start, time.Duration(minutes)*time.Minute)
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, handler.NewSuccessResponse(available))
		return
	}

	rooms, err := h.rooms.List(c.Request.Context(), identity.ClinicID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rooms))
}

func (h *Handler) CreateRoom(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	var req model.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(handler.BindingErrorMessage(err)))
		return
	}

	created, err := h.rooms.Create(c.Request.Context(), identity.ClinicID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetRoom(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid room ID"))
		return
	}

	found, err := h.rooms.Get(c.Request.Context(), identity.ClinicID, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid room ID"))
		return
	}

	var req model.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(handler.BindingErrorMessage(err)))
		return
	}

	updated, err := h.rooms.Update(c.Request.Context(), identity.ClinicID, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}
