package medication

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/handler"
	"github.com/carebridge/carebridge-api/internal/middleware"
	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/service/medication"
	"github.com/carebridge/carebridge-api/pkg/errors"
)

type Handler struct {
	service medication.Service
}

func NewHandler(service medication.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Add(c *gin.Context) {
	var req model.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation(err.Error()))
		return
	}

	med, err := h.service.Add(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(med))
}

func (h *Handler) Discontinue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid medication ID"))
		return
	}

	med, err := h.service.Discontinue(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(med))
}

func (h *Handler) List(c *gin.Context) {
	meds, err := h.service.ListForPatient(c.Request.Context(),
		middleware.ActorFrom(c).UserID, c.Query("active") == "true")
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(meds))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	medications := r.Group("/medications")
	{
		medications.POST("", h.Add)
		medications.GET("", h.List)
		medications.POST("/:id/discontinue", h.Discontinue)
	}
}
