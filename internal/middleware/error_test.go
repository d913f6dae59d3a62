package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/carebridge-api/internal/handler"
	apperrors "github.com/carebridge/carebridge-api/pkg/errors"
)

func performWithError(t *testing.T, err error) (*httptest.ResponseRecorder, handler.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		c.Error(err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)

	var body handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorHandlerHidesWrappedCause(t *testing.T) {
	cause := fmt.Errorf(`pq: password authentication failed for user "carebridge"`)
	w, body := performWithError(t, apperrors.NewNotFound("appointment", cause))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "appointment not found", body.Message)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestErrorHandlerHidesDependencyCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp 10.0.0.5:5432: connect: connection refused")
	w, body := performWithError(t, apperrors.NewDependency("appointment approved but doctor-patient assignment failed", cause))

	assert.Equal(t, http.StatusFailedDependency, w.Code)
	assert.Equal(t, "appointment approved but doctor-patient assignment failed", body.Message)
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestErrorHandlerGenericForUnknownErrors(t *testing.T) {
	w, body := performWithError(t, fmt.Errorf("sqlx: scan error on column doctor_notes"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, w.Body.String(), "sqlx")
}

func TestErrorHandlerKeepsValidationMessage(t *testing.T) {
	w, body := performWithError(t, apperrors.NewValidation("appointment time is in the past"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "appointment time is in the past", body.Message)
}
