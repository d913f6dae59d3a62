package notification

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/handler"
	"github.com/carebridge/carebridge-api/internal/middleware"
	"github.com/carebridge/carebridge-api/internal/service/notification"
	"github.com/carebridge/carebridge-api/pkg/errors"
	"github.com/carebridge/carebridge-api/pkg/realtime"
	"github.com/carebridge/carebridge-api/pkg/worker"
)

type Handler struct {
	service    notification.Service
	subscriber *realtime.Subscriber
}

func NewHandler(service notification.Service, subscriber *realtime.Subscriber) *Handler {
	return &Handler{service: service, subscriber: subscriber}
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c).UserID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notifications))
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid notification ID"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// Stream pushes the caller's notifications as server-sent events until the
// client disconnects.
func (h *Handler) Stream(c *gin.Context) {
	if h.subscriber == nil {
		c.Error(errors.NewInternal(nil))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	events := h.subscriber.Stream(c.Request.Context(), middleware.ActorFrom(c).UserID, worker.NotificationsChannel)

	c.Stream(func(w io.Writer) bool {
		n, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent("notification", n)
		return true
	})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/stream", h.Stream)
		notifications.POST("/:id/read", h.MarkRead)
	}
}
