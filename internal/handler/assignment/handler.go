package assignment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/handler"
	"github.com/carebridge/carebridge-api/internal/middleware"
	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/service/booking"
	"github.com/carebridge/carebridge-api/pkg/errors"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	filters := &model.AssignmentFilters{}
	if actor.Role == model.RoleDoctor {
		filters.DoctorID = actor.UserID
	} else {
		filters.PatientID = actor.UserID
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AssignmentStatus(status)
	}

	assignments, err := h.service.ListAssignments(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(assignments))
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid assignment ID"))
		return
	}

	if err := h.service.DeactivateAssignment(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	assignments := r.Group("/assignments")
	{
		assignments.GET("", h.List)
		assignments.POST("/:id/deactivate", middleware.RequireRole(model.RoleDoctor), h.Deactivate)
	}
}
