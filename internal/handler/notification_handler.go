package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/events"
)

// DeliveryRequest is the body a task queue posts back at fire time.
type DeliveryRequest struct {
	TaskID  string                     `json:"task_id"`
	Title   string                     `json:"title"`
	Body    string                     `json:"body"`
	Payload domain.NotificationPayload `json:"payload" binding:"required"`
}

type TapRequest struct {
	Handle  domain.NotificationHandle  `json:"handle,omitempty"`
	Payload domain.NotificationPayload `json:"payload" binding:"required"`
}

type NotificationHandler struct {
	bus *events.Bus
	now func() time.Time
}

func NewNotificationHandler(bus *events.Bus) *NotificationHandler {
	return &NotificationHandler{
		bus: bus,
		now: time.Now,
	}
}

// HandleDeliver receives a fired reminder from the task queue.
func (h *NotificationHandler) HandleDeliver(c *gin.Context) {
	ctx := c.Request.Context()

	var req DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if !validPayload(req.Payload) {
		respondError(c, http.StatusBadRequest, "validation_error", "payload requires plantId and a known type")
		return
	}

	slog.InfoContext(ctx, "reminder delivered",
		slog.String("task_id", req.TaskID),
		slog.String("plant_id", req.Payload.PlantID),
		slog.String("reminder_type", req.Payload.Type.String()),
	)

	h.bus.PublishNotification(domain.NotificationEvent{
		Kind:       domain.NotificationReceived,
		Handle:     domain.NotificationHandle(req.TaskID),
		Payload:    req.Payload,
		OccurredAt: h.now(),
	})

	respondSuccess(c, http.StatusOK, "delivered")
}

// HandleTap forwards a notification tap from the host UI.
func (h *NotificationHandler) HandleTap(c *gin.Context) {
	ctx := c.Request.Context()

	var req TapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if !validPayload(req.Payload) {
		respondError(c, http.StatusBadRequest, "validation_error", "payload requires plantId and a known type")
		return
	}

	slog.InfoContext(ctx, "notification tapped",
		slog.String("plant_id", req.Payload.PlantID),
		slog.String("reminder_type", req.Payload.Type.String()),
	)

	h.bus.PublishNotification(domain.NotificationEvent{
		Kind:       domain.NotificationTapped,
		Handle:     req.Handle,
		Payload:    req.Payload,
		OccurredAt: h.now(),
	})

	respondSuccess(c, http.StatusAccepted, "tap recorded")
}

// HandleEvents streams notification events as server-sent events until the
// client disconnects.
func (h *NotificationHandler) HandleEvents(c *gin.Context) {
	ch, unsubscribe := h.bus.Subscribe(32)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), event)
			return true
		}
	})
}

func validPayload(p domain.NotificationPayload) bool {
	return p.PlantID != "" && p.Type.IsValid()
}
