package schedule

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/scheduling-api/internal/handler"
	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/service/schedule"
)

type Handler struct {
	resolver *schedule.Resolver
}

func NewHandler(resolver *schedule.Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/schedule", h.GetWorkSchedule)
	r.PUT("/schedule", h.UpdateWorkSchedule)
}

func (h *Handler) GetWorkSchedule(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	ws, err := h.resolver.WorkSchedule(c.Request.Context(), identity.ClinicID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(ws))
}

func (h *Handler) UpdateWorkSchedule(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	var req model.UpdateWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(handler.BindingErrorMessage(err)))
		return
	}

	if err := h.resolver.Update(c.Request.Context(), identity.ClinicID, req.Schedule); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(req.Schedule))
}
