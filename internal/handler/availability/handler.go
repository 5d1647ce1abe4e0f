package availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/handler"
	"github.com/clinicdesk/scheduling-api/internal/service/availability"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/specialists/:id/availability", h.GetSpecialistAvailability)
}

// GetSpecialistAvailability returns the slot grid for one specialist on one date.
func (h *Handler) GetSpecialistAvailability(c *gin.Context) {
	identity := handler.CallerIdentity(c)

	specialistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid specialist ID"))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or missing date, expected YYYY-MM-DD"))
		return
	}

	duration := 0
	if raw := c.Query("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid duration"))
			return
		}
	}

	slots, err := h.service.SlotStatus(c.Request.Context(), identity.ClinicID, specialistID, date, time.Duration(duration)*time.Minute)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}
