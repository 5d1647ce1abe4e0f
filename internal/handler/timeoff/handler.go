package timeoff

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/handler"
	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/service/timeoff"
)

type Handler struct {
	service *timeoff.Service
}

func NewHandler(service *timeoff.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/specialists/:id/timeoff", h.ListTimeOff)
	r.POST("/specialists/:id/timeoff", h.CreateTimeOff)
	r.DELETE("/timeoff/:id", h.DeleteTimeOff)
}

func (h *Handler) ListTimeOff(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	specialistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid specialist ID"))
		return
	}

	intervals, err := h.service.List(c.Request.Context(), identity.ClinicID, specialistID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(intervals))
}

func (h *Handler) CreateTimeOff(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	specialistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid specialist ID"))
		return
	}

	var req model.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(handler.BindingErrorMessage(err)))
		return
	}

	interval, err := h.service.Create(c.Request.Context(), identity.ClinicID, specialistID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(interval))
}

func (h *Handler) DeleteTimeOff(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid time-off ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity.ClinicID, id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
