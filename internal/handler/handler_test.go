package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-pollination-agent/internal/config"
	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/backend"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/outbox"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/events"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/lifecycle"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/reconcile"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/registry"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/window"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newEstimator(t *testing.T) *window.Estimator {
	t.Helper()
	table, err := config.NewSpeciesTable(config.DefaultSpecies())
	require.NoError(t, err)
	return window.NewEstimator(table, time.UTC, 3)
}

func TestReconcileHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := backend.NewMockReconciliationClient(ctrl)
	notifier := domain.NewMockNotifier(ctrl)
	reg := registry.New(notifier)
	sched := reconcile.NewScheduler(client, notifier, reg, outbox.NewMemoryOutbox(), nil, nil, reconcile.Config{MaxAttempts: 1})

	h := NewReconcileHandler(sched)
	r := gin.New()
	r.POST("/api/v1/reconcile", h.HandleReconcile)
	r.GET("/api/v1/reconcile/status", h.HandleStatus)
	r.DELETE("/api/v1/plants/:plantId/reminders", h.HandleCancelPlant)

	now := time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC)
	notifier.EXPECT().RequestPermission(gomock.Any()).Return(true, nil)
	client.EXPECT().FetchPending(gomock.Any()).Return([]domain.ReminderRecord{{
		PlantID:       "p1",
		PlantName:     "Ampalaya",
		Type:          domain.ReminderOneHourBefore,
		ScheduledTime: now.Add(time.Hour),
	}}, nil)
	notifier.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return(domain.NotificationHandle("h-1"), nil)
	client.EXPECT().AckSent(gomock.Any(), "p1", domain.ReminderOneHourBefore).Return(nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reconcile?now="+now.Format(time.RFC3339), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result reconcile.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Scheduled)

	w = doJSON(t, r, http.MethodGet, "/api/v1/reconcile/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status reconcile.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Len(t, status.Scheduled, 1)
	assert.Equal(t, "p1", status.Scheduled[0].Key.PlantID)

	notifier.EXPECT().Cancel(gomock.Any(), domain.NotificationHandle("h-1")).Return(nil)
	w = doJSON(t, r, http.MethodDelete, "/api/v1/plants/p1/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, reg.Len())
}

func TestReconcileHandlerRejectsBadTime(t *testing.T) {
	h := NewReconcileHandler(nil)
	r := gin.New()
	r.POST("/api/v1/reconcile", h.HandleReconcile)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reconcile?now=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReconcileHandlerPermissionDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := domain.NewMockNotifier(ctrl)
	sched := reconcile.NewScheduler(backend.NewMockReconciliationClient(ctrl), notifier, registry.New(notifier), outbox.NewMemoryOutbox(), nil, nil, reconcile.Config{})

	h := NewReconcileHandler(sched)
	r := gin.New()
	r.POST("/api/v1/reconcile", h.HandleReconcile)

	notifier.EXPECT().RequestPermission(gomock.Any()).Return(false, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/reconcile", nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/reconcile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result reconcile.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Disabled)
}

func TestPlantHandlerEstimate(t *testing.T) {
	h := NewPlantHandler(newEstimator(t), nil)
	r := gin.New()
	r.POST("/api/v1/plants/estimate", h.HandleEstimate)

	planted := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2025, 2, 15, 3, 0, 0, 0, time.UTC)

	w := doJSON(t, r, http.MethodPost, "/api/v1/plants/estimate", EstimateRequest{
		Plant: domain.NewPlant("p1", "ampalaya", planted),
		Now:   &at,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Window.HasBounds())
	assert.Equal(t, domain.WindowSourcePlanted, resp.Window.Source)
	assert.True(t, resp.Window.Earliest.Equal(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Bitter Gourd", resp.DisplayName)
	require.NotNil(t, resp.Timing)
	assert.Equal(t, 5, resp.Timing.OneHourBefore.Hour())

	require.NotNil(t, resp.GenderDetection)
	assert.Equal(t, 45, resp.GenderDetection.AgeDays)
	assert.True(t, resp.GenderDetection.CanDetectMale)
	assert.True(t, resp.GenderDetection.CanDetectFemale)
	assert.Equal(t, "Jan 31 - Feb 5", resp.GenderDetection.MaleLabel)
	assert.Equal(t, "Feb 8-15", resp.GenderDetection.FemaleLabel)
}

func TestPlantHandlerEstimateValidation(t *testing.T) {
	h := NewPlantHandler(newEstimator(t), nil)
	r := gin.New()
	r.POST("/api/v1/plants/estimate", h.HandleEstimate)

	w := doJSON(t, r, http.MethodPost, "/api/v1/plants/estimate", EstimateRequest{
		Plant: domain.Plant{ID: "p1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlantHandlerTransition(t *testing.T) {
	planted := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	flowered := time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		req        TransitionRequest
		setup      func(m *lifecycle.MockMirror)
		wantStatus int
		wantStage  domain.LifecycleStatus
	}{
		{
			name: "mark flowering",
			req: TransitionRequest{
				Plant:  domain.NewPlant("p1", "ampalaya", planted),
				Event:  "markFlowering",
				Gender: "female",
				Date:   &flowered,
			},
			setup: func(m *lifecycle.MockMirror) {
				m.EXPECT().MarkFlowering(gomock.Any(), "p1", domain.GenderFemale, gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantStage:  domain.StatusFlowering,
		},
		{
			name: "pollinate before flowering",
			req: TransitionRequest{
				Plant: domain.NewPlant("p1", "ampalaya", planted),
				Event: "markPollinated",
				Date:  &flowered,
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown event",
			req: TransitionRequest{
				Plant: domain.NewPlant("p1", "ampalaya", planted),
				Event: "uproot",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid gender",
			req: TransitionRequest{
				Plant:  domain.NewPlant("p1", "ampalaya", planted),
				Event:  "markFlowering",
				Gender: "both",
				Date:   &flowered,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "backend rejects",
			req: TransitionRequest{
				Plant:  domain.NewPlant("p1", "ampalaya", planted),
				Event:  "markFlowering",
				Gender: "male",
				Date:   &flowered,
			},
			setup: func(m *lifecycle.MockMirror) {
				m.EXPECT().MarkFlowering(gomock.Any(), "p1", domain.GenderMale, gomock.Any()).
					Return(&domain.AuthError{Op: "MarkFlowering", StatusCode: 401})
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mirror := lifecycle.NewMockMirror(ctrl)
			if tt.setup != nil {
				tt.setup(mirror)
			}

			est := newEstimator(t)
			svc := lifecycle.NewService(lifecycle.NewMachine(est, 2), mirror)
			h := NewPlantHandler(est, svc)
			r := gin.New()
			r.POST("/api/v1/plants/transitions", h.HandleTransition)

			w := doJSON(t, r, http.MethodPost, "/api/v1/plants/transitions", tt.req)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusOK {
				var resp TransitionResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantStage, resp.Plant.Status)
				assert.True(t, resp.Synced)
			}
		})
	}
}

func TestNotificationHandlerPublishes(t *testing.T) {
	bus := events.NewBus()
	ch, unsubscribe := bus.Subscribe(4)
	defer unsubscribe()

	h := NewNotificationHandler(bus)
	r := gin.New()
	r.POST("/api/v1/notifications/deliver", h.HandleDeliver)
	r.POST("/api/v1/notifications/tap", h.HandleTap)

	payload := domain.NotificationPayload{PlantID: "p1", Type: domain.ReminderThirtyMinsBefore}

	w := doJSON(t, r, http.MethodPost, "/api/v1/notifications/deliver", DeliveryRequest{TaskID: "t1", Payload: payload})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/v1/notifications/tap", TapRequest{Payload: payload})
	require.Equal(t, http.StatusAccepted, w.Code)

	delivered, tapped := <-ch, <-ch
	assert.Equal(t, domain.NotificationReceived, delivered.Kind)
	assert.Equal(t, domain.NotificationHandle("t1"), delivered.Handle)
	assert.Equal(t, payload, delivered.Payload)
	assert.Equal(t, domain.NotificationTapped, tapped.Kind)
}

func TestNotificationHandlerRejectsUnknownType(t *testing.T) {
	h := NewNotificationHandler(events.NewBus())
	r := gin.New()
	r.POST("/api/v1/notifications/tap", h.HandleTap)

	w := doJSON(t, r, http.MethodPost, "/api/v1/notifications/tap", TapRequest{
		Payload: domain.NotificationPayload{PlantID: "p1", Type: "tomorrow"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationHandlerStreamsEvents(t *testing.T) {
	bus := events.NewBus()
	h := NewNotificationHandler(bus)
	r := gin.New()
	r.GET("/api/v1/events", h.HandleEvents)

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// the subscription only exists once the request is being served
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				bus.PublishNotification(domain.NotificationEvent{
					Kind:    domain.NotificationTapped,
					Payload: domain.NotificationPayload{PlantID: "p1", Type: domain.ReminderOneHourBefore},
				})
			}
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	assert.True(t, strings.HasPrefix(contentType, "text/event-stream"), "Content-Type = %q", contentType)

	scanner := bufio.NewScanner(resp.Body)
	require.True(t, scanner.Scan())
	assert.Equal(t, "event:notification.tapped", scanner.Text())
	require.True(t, scanner.Scan())
	assert.Contains(t, scanner.Text(), `"plantId":"p1"`)
}
