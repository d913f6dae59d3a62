package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/handler"
	"github.com/carebridge/carebridge-api/internal/middleware"
	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/service/prescription"
	"github.com/carebridge/carebridge-api/pkg/errors"
)

type Handler struct {
	service prescription.Service
}

func NewHandler(service prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Issue(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation(err.Error()))
		return
	}

	p, err := h.service.Issue(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid prescription ID"))
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var (
		prescriptions []*model.Prescription
		err           error
	)
	if actor.Role == model.RoleDoctor {
		prescriptions, err = h.service.ListForDoctor(c.Request.Context(), actor.UserID)
	} else {
		prescriptions, err = h.service.ListForPatient(c.Request.Context(), actor.UserID)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(prescriptions))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", middleware.RequireRole(model.RoleDoctor), h.Issue)
		prescriptions.GET("", h.List)
		prescriptions.GET("/:id", h.Get)
	}
}
