package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/reconcile"
)

type ReconcileHandler struct {
	scheduler *reconcile.Scheduler
}

func NewReconcileHandler(scheduler *reconcile.Scheduler) *ReconcileHandler {
	return &ReconcileHandler{
		scheduler: scheduler,
	}
}

// HandleReconcile runs one pass. The optional "now" query (RFC3339) replaces
// the wall clock, which load tests use to replay a day.
func (h *ReconcileHandler) HandleReconcile(c *gin.Context) {
	ctx := c.Request.Context()

	now := time.Now()
	if nowStr := c.Query("now"); nowStr != "" {
		parsed, err := time.Parse(time.RFC3339, nowStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid now format, expected RFC3339")
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using virtual time",
			slog.Time("virtual_now", now),
		)
	}

	result, err := h.scheduler.Reconcile(ctx, now)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, result)
		case errors.Is(err, domain.ErrAuth):
			respondError(c, http.StatusUnauthorized, "auth_error", err.Error())
		case errors.Is(err, domain.ErrReconciliationHalted):
			respondError(c, http.StatusConflict, "halted", err.Error())
		default:
			slog.ErrorContext(ctx, "reconcile request failed",
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusBadGateway, "reconcile_error", err.Error())
		}
		return
	}

	status := http.StatusOK
	if result.Busy {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}

func (h *ReconcileHandler) HandleResume(c *gin.Context) {
	h.scheduler.Resume()
	respondSuccess(c, http.StatusOK, "reconciliation resumed")
}

func (h *ReconcileHandler) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status(c.Request.Context()))
}

// HandleCancelAll cancels every reminder, e.g. when the user logs out.
func (h *ReconcileHandler) HandleCancelAll(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.scheduler.CancelAll(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to cancel reminders",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to cancel reminders")
		return
	}

	respondSuccess(c, http.StatusOK, "reminders cancelled")
}

func (h *ReconcileHandler) HandleCancelPlant(c *gin.Context) {
	ctx := c.Request.Context()
	plantID := c.Param("plantId")

	if err := h.scheduler.CancelPlant(ctx, plantID); err != nil {
		slog.ErrorContext(ctx, "failed to cancel plant reminders",
			slog.String("plant_id", plantID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to cancel plant reminders")
		return
	}

	respondSuccess(c, http.StatusOK, "plant reminders cancelled")
}

func (h *ReconcileHandler) HandleCancelReminder(c *gin.Context) {
	ctx := c.Request.Context()

	reminderType := domain.ReminderType(c.Param("type"))
	if !reminderType.IsValid() {
		respondError(c, http.StatusBadRequest, "validation_error", "unknown reminder type")
		return
	}
	key := domain.ReminderKey{PlantID: c.Param("plantId"), Type: reminderType}

	if err := h.scheduler.CancelReminder(ctx, key); err != nil {
		slog.ErrorContext(ctx, "failed to cancel reminder",
			slog.String("key", key.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to cancel reminder")
		return
	}

	respondSuccess(c, http.StatusOK, "reminder cancelled")
}
