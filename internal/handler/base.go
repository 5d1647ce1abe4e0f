package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/scheduling-api/internal/model"
	apperrors "github.com/clinicdesk/scheduling-api/pkg/errors"
)

// ContextIdentity is the context key under which the auth middleware stores
// the caller identity.
const ContextIdentity = "identity"

// Pinger reports backend reachability for readiness checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// CallerIdentity returns the authenticated caller, or nil when the request
// did not pass through the auth middleware.
func CallerIdentity(c *gin.Context) *model.Identity {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil
	}
	identity, ok := v.(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}

// RespondError writes the error envelope, using the application error's HTTP
// status where it carries one. Booking failures stay specific so clients can
// prompt for a different slot or room.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
		message = appErr.Message
	}

	c.Error(err)
	c.JSON(status, NewErrorResponse(message))
}
