package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/carebridge/carebridge-api/internal/model"
)

func actorRouter() (*gin.Engine, *model.Actor) {
	gin.SetMode(gin.TestMode)
	var seen model.Actor
	r := gin.New()
	r.Use(Actor())
	r.GET("/ping", func(c *gin.Context) {
		seen = ActorFrom(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestActorRejectsMissingHeaders(t *testing.T) {
	r, _ := actorRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActorRejectsUnknownRole(t *testing.T) {
	r, _ := actorRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderActorID, uuid.New().String())
	req.Header.Set(HeaderActorRole, "admin")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActorResolvesCaller(t *testing.T) {
	r, seen := actorRouter()
	id := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderActorID, id.String())
	req.Header.Set(HeaderActorRole, "doctor")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, seen.UserID)
	assert.Equal(t, model.RoleDoctor, seen.Role)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Actor())
	r.POST("/doctor-only", RequireRole(model.RoleDoctor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/doctor-only", nil)
	req.Header.Set(HeaderActorID, uuid.New().String())
	req.Header.Set(HeaderActorRole, "patient")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
