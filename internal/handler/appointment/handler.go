package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/clock"
	"github.com/carebridge/carebridge-api/internal/handler"
	"github.com/carebridge/carebridge-api/internal/middleware"
	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/service/booking"
	"github.com/carebridge/carebridge-api/pkg/errors"
)

type Handler struct {
	service *booking.Service
	clock   clock.Clock
}

func NewHandler(service *booking.Service, clk clock.Clock) *Handler {
	return &Handler{service: service, clock: clk}
}

// view decorates an appointment with the eligibility flags clients render
// buttons from, so the gating rules stay server-side.
type view struct {
	*model.Appointment
	CanCancel          bool `json:"can_cancel"`
	CanProvideFeedback bool `json:"can_provide_feedback"`
}

func (h *Handler) toView(a *model.Appointment) view {
	return view{
		Appointment:        a,
		CanCancel:          booking.CanCancel(h.clock, a),
		CanProvideFeedback: booking.CanProvideFeedback(h.clock, a),
	}
}

func (h *Handler) toViews(appointments []*model.Appointment) []view {
	views := make([]view, 0, len(appointments))
	for _, a := range appointments {
		views = append(views, h.toView(a))
	}
	return views
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation(err.Error()))
		return
	}

	apt, err := h.service.RequestAppointment(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(h.toView(apt)))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid appointment ID"))
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.toView(apt)))
}

func (h *Handler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	filters := &model.AppointmentFilters{}
	if actor.Role == model.RoleDoctor {
		filters.DoctorID = actor.UserID
	} else {
		filters.PatientID = actor.UserID
	}
	if status := c.Query("status"); status != "" {
		filters.Statuses = []model.AppointmentStatus{model.AppointmentStatus(status)}
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), model.ListScope(c.Query("scope")), filters)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.toViews(appointments)))
}

func (h *Handler) Respond(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid appointment ID"))
		return
	}

	var req model.RespondAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation(err.Error()))
		return
	}

	apt, err := h.service.RespondToAppointment(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.toView(apt)))
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid appointment ID"))
		return
	}

	apt, err := h.service.CancelAppointment(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.toView(apt)))
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid appointment ID"))
		return
	}

	apt, err := h.service.MarkCompleted(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.toView(apt)))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Create)
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.POST("/:id/respond", middleware.RequireRole(model.RoleDoctor), h.Respond)
		appointments.POST("/:id/cancel", h.Cancel)
		appointments.POST("/:id/complete", middleware.RequireRole(model.RoleDoctor), h.Complete)
	}
}
