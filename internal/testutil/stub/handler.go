package stub

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

type Handler struct {
	storage *Storage
	token   string
}

func NewHandler(storage *Storage, token string) *Handler {
	return &Handler{storage: storage, token: token}
}

// Router serves the backend endpoints under /pollination and the stub
// controls under /stub.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()

	ctl := r.Group("/stub")
	{
		ctl.POST("/reset", h.HandleReset)
		ctl.POST("/seed", h.HandleSeed)
		ctl.POST("/failures", h.HandleFailures)
	}

	api := r.Group("/pollination", h.failureInjection, h.auth)
	{
		api.GET("/notifications/pending", h.HandleGetPending)
		api.POST("/:id/notification-sent", h.HandleNotificationSent)
		api.POST("/:id/flowering", h.HandleFlowering)
		api.POST("/:id/pollinate", h.HandlePollinate)
		api.POST("/:id/status", h.HandleStatus)
	}

	return r
}

func (h *Handler) failureInjection(c *gin.Context) {
	if code, ok := h.storage.nextFailure(); ok {
		c.AbortWithStatusJSON(code, gin.H{"success": false, "message": "injected failure"})
		return
	}
	c.Next()
}

func (h *Handler) auth(c *gin.Context) {
	if h.token == "" {
		c.Next()
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+h.token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized"})
		return
	}
	c.Next()
}

func (h *Handler) HandleReset(c *gin.Context) {
	h.storage.Reset()

	slog.Info("reset data")

	c.JSON(http.StatusOK, gin.H{"status": "reset complete"})
}

func (h *Handler) HandleSeed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total := 0
	for _, b := range req.Batches {
		start, err := time.Parse(time.RFC3339, b.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time: " + b.StartTime})
			return
		}
		total += h.storage.AddBatch(b, start)
	}

	slog.Info("seeded data",
		slog.Int("batch_count", len(req.Batches)),
		slog.Int("total_reminder_count", total),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":      "seeded",
		"batch_count": len(req.Batches),
		"total_count": total,
	})
}

func (h *Handler) HandleFailures(c *gin.Context) {
	var req FailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.storage.InjectFailures(req.StatusCode, req.Count)
	c.Status(http.StatusNoContent)
}

// GET /pollination/notifications/pending
func (h *Handler) HandleGetPending(c *gin.Context) {
	pending := h.storage.Pending()

	slog.Debug("get pending", slog.Int("count", len(pending)))

	c.JSON(http.StatusOK, PendingResponse{Success: true, Data: pending})
}

// POST /pollination/:id/notification-sent
func (h *Handler) HandleNotificationSent(c *gin.Context) {
	var req NotificationSentRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.NotificationType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification type"})
		return
	}

	key := domain.ReminderKey{PlantID: c.Param("id"), Type: req.NotificationType}
	if !h.storage.MarkSent(key) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Pollination record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as sent: " + string(req.NotificationType)})
}

// POST /pollination/:id/flowering
func (h *Handler) HandleFlowering(c *gin.Context) {
	var req FloweringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if g, ok := domain.ParseGender(req.Gender); !ok || !g.IsDetermined() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Valid gender (male/female) is required"})
		return
	}

	h.storage.SetStatus(c.Param("id"), domain.StatusFlowering)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": strings.ToUpper(req.Gender[:1]) + req.Gender[1:] + " flowering marked successfully"})
}

// POST /pollination/:id/pollinate
func (h *Handler) HandlePollinate(c *gin.Context) {
	var req PollinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	h.storage.SetStatus(c.Param("id"), domain.StatusPollinated)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Pollination marked successfully"})
}

// POST /pollination/:id/status
func (h *Handler) HandleStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	st, ok := domain.ParseLifecycleStatus(req.NewStatus)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
		return
	}

	h.storage.SetStatus(c.Param("id"), st)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated to " + req.NewStatus})
}
