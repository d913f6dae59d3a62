package record

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/handler"
	"github.com/carebridge/carebridge-api/internal/middleware"
	"github.com/carebridge/carebridge-api/internal/model"
	"github.com/carebridge/carebridge-api/internal/service/record"
	"github.com/carebridge/carebridge-api/pkg/errors"
)

type Handler struct {
	service record.Service
}

func NewHandler(service record.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation(err.Error()))
		return
	}

	rec, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rec))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid record ID"))
		return
	}

	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

// List returns the caller's chart, or a named patient's when a doctor asks.
func (h *Handler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	patientID := actor.UserID
	if actor.Role == model.RoleDoctor {
		id, err := uuid.Parse(c.Query("patient_id"))
		if err != nil {
			c.Error(errors.NewValidation("patient_id is required"))
			return
		}
		patientID = id
	}

	records, err := h.service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/records")
	{
		records.POST("", middleware.RequireRole(model.RoleDoctor), h.Create)
		records.GET("", h.List)
		records.GET("/:id", h.Get)
	}
}
