package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	r := newRequestIDRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	rid := w.Header().Get(HeaderXRequestID)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
}

func TestRequestIDKeepsWellFormedInboundID(t *testing.T) {
	r := newRequestIDRouter()
	inbound := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, inbound)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, inbound, w.Header().Get(HeaderXRequestID))
}

func TestRequestIDReplacesMalformedInboundID(t *testing.T) {
	r := newRequestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "evil\nvalue{injected}")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	rid := w.Header().Get(HeaderXRequestID)
	require.NotEqual(t, "evil\nvalue{injected}", rid)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
}
