package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"parking-service/internal/service"
	"parking-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler() *Handler {
	return &Handler{logger: util.GetLogger()}
}

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	newTestHandler().respondError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondErrorValidation(t *testing.T) {
	w, body := respond(t, &service.ValidationError{Field: "licenseplate", Reason: "required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "licenseplate", body["field"])
}

func TestRespondErrorHashMismatch(t *testing.T) {
	w, body := respond(t, service.ErrValidationMismatch)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, "Security hash mismatch", body["info"])
}

func TestRespondErrorAuthorization(t *testing.T) {
	w, body := respond(t, &service.AuthorizationError{Reason: "admin role required"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", body["error"])
}

func TestRespondErrorNotFound(t *testing.T) {
	w, body := respond(t, &service.NotFoundError{Resource: "parking lot"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "parking lot not found", body["error"])
}

func TestRespondErrorConflict(t *testing.T) {
	w, _ := respond(t, &service.ConflictError{Reason: "active session already exists for this vehicle at this lot"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRespondErrorWrappedConflict(t *testing.T) {
	wrapped := fmt.Errorf("starting session: %w", &service.ConflictError{Reason: "already active"})
	w, _ := respond(t, wrapped)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRespondErrorUnknownIsInternal(t *testing.T) {
	w, body := respond(t, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, body, "details")
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	router := gin.New()
	router.GET("/protected", newTestHandler().authRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing Authorization header")
}

func TestHealthCheck(t *testing.T) {
	router := gin.New()
	router.GET("/health", newTestHandler().healthCheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestParseIDRejectsGarbage(t *testing.T) {
	router := gin.New()
	router.GET("/parking-lots/:lid", func(c *gin.Context) {
		if _, ok := parseID(c, "lid"); !ok {
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parking-lots/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
