package emergency

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

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateEmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation(err.Error()))
		return
	}

	b, err := h.service.RequestEmergencyBooking(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid emergency booking ID"))
		return
	}

	b, err := h.service.GetEmergencyBooking(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	filters := &model.EmergencyFilters{OrderDesc: true}
	if actor.Role == model.RoleDoctor {
		filters.DoctorID = actor.UserID
	} else {
		filters.PatientID = actor.UserID
	}
	if status := c.Query("status"); status != "" {
		filters.Statuses = []model.EmergencyStatus{model.EmergencyStatus(status)}
	}

	bookings, err := h.service.ListEmergencyBookings(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

func (h *Handler) Respond(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid emergency booking ID"))
		return
	}

	var req model.RespondEmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation(err.Error()))
		return
	}

	b, err := h.service.RespondToEmergencyBooking(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	emergencies := r.Group("/emergencies")
	{
		emergencies.POST("", h.Create)
		emergencies.GET("", h.List)
		emergencies.GET("/:id", h.Get)
		emergencies.POST("/:id/respond", middleware.RequireRole(model.RoleDoctor), h.Respond)
	}
}
