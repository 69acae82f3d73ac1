package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/lifecycle"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/window"
)

type EstimateRequest struct {
	Plant domain.Plant `json:"plant" binding:"required"`
	// Now overrides the wall clock for status classification.
	Now *time.Time `json:"now,omitempty"`
}

type EstimateResponse struct {
	Window          domain.PollinationWindow `json:"window"`
	DisplayName     string                   `json:"display_name"`
	Timing          *window.Timing           `json:"timing,omitempty"`
	GenderDetection *window.Detection        `json:"gender_detection,omitempty"`
}

type TransitionRequest struct {
	Plant  domain.Plant `json:"plant" binding:"required"`
	Event  string       `json:"event" binding:"required,oneof=markFlowering markPollinated advanceStatus"`
	Gender string       `json:"gender,omitempty"`
	Date   *time.Time   `json:"date,omitempty"`
	To     string       `json:"to,omitempty"`
}

type TransitionResponse struct {
	Plant         domain.Plant             `json:"plant"`
	Window        domain.PollinationWindow `json:"window"`
	OutsideWindow bool                     `json:"outside_window"`
	Synced        bool                     `json:"synced"`
}

type PlantHandler struct {
	estimator *window.Estimator
	lifecycle *lifecycle.Service
}

func NewPlantHandler(estimator *window.Estimator, lifecycleService *lifecycle.Service) *PlantHandler {
	return &PlantHandler{
		estimator: estimator,
		lifecycle: lifecycleService,
	}
}

func (h *PlantHandler) HandleEstimate(c *gin.Context) {
	ctx := c.Request.Context()

	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if err := validatePlant(req.Plant); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}

	resp := EstimateResponse{
		Window:      h.estimator.Estimate(req.Plant, now),
		DisplayName: h.estimator.DisplayName(req.Plant.Species),
	}
	if timing, err := h.estimator.Timing(req.Plant.Species, now); err == nil {
		resp.Timing = &timing
	}
	if detection, ok := h.estimator.GenderDetection(req.Plant, now); ok {
		resp.GenderDetection = &detection
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PlantHandler) HandleTransition(c *gin.Context) {
	ctx := c.Request.Context()

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if err := validatePlant(req.Plant); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	event, err := req.toEvent()
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.lifecycle.Apply(ctx, req.Plant, event)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			respondError(c, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
		case errors.Is(err, domain.ErrAuth):
			respondError(c, http.StatusUnauthorized, "auth_error", err.Error())
		case errors.Is(err, lifecycle.ErrRemoteRejected):
			respondError(c, http.StatusBadGateway, "remote_rejected", err.Error())
		default:
			slog.ErrorContext(ctx, "failed to apply transition",
				slog.String("plant_id", req.Plant.ID),
				slog.String("event", req.Event),
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusInternalServerError, "processing_error", "failed to apply transition")
		}
		return
	}

	slog.InfoContext(ctx, "transition applied",
		slog.String("plant_id", result.Plant.ID),
		slog.String("event", req.Event),
		slog.String("status", result.Plant.Status.String()),
		slog.Bool("synced", result.Synced),
	)

	c.JSON(http.StatusOK, TransitionResponse{
		Plant:         result.Plant,
		Window:        result.Window,
		OutsideWindow: result.OutsideWindow,
		Synced:        result.Synced,
	})
}

var (
	errMissingPlantID = errors.New("plant id is required")
	errMissingSpecies = errors.New("plant species is required")
	errInvalidGender  = errors.New("invalid gender")
	errInvalidStatus  = errors.New("invalid status")
)

func validatePlant(p domain.Plant) error {
	if p.ID == "" {
		return errMissingPlantID
	}
	if p.Species == "" {
		return errMissingSpecies
	}
	return nil
}

func (r TransitionRequest) toEvent() (lifecycle.Event, error) {
	var date time.Time
	if r.Date != nil {
		date = *r.Date
	}

	switch r.Event {
	case "markFlowering":
		gender, ok := domain.ParseGender(r.Gender)
		if !ok {
			return nil, errInvalidGender
		}
		return lifecycle.MarkFlowering{Gender: gender, Date: date}, nil
	case "markPollinated":
		return lifecycle.MarkPollinated{Date: date}, nil
	default:
		to, ok := domain.ParseLifecycleStatus(r.To)
		if !ok {
			return nil, errInvalidStatus
		}
		return lifecycle.AdvanceStatus{To: to}, nil
	}
}
