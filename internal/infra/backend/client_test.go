package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-pollination-agent/internal/config"
	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/testutil/stub"
)

const testToken = "secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newStubBackend(t *testing.T) (*Client, *stub.Storage) {
	t.Helper()

	storage := stub.NewStorage()
	srv := httptest.NewServer(stub.NewHandler(storage, testToken).Router())
	t.Cleanup(srv.Close)

	client := NewClient(&config.BackendConfig{
		URL:     srv.URL,
		Token:   testToken,
		Timeout: 5 * time.Second,
	})
	return client, storage
}

func TestFetchPending(t *testing.T) {
	client, storage := newStubBackend(t)

	fire := time.Date(2025, time.March, 1, 5, 0, 0, 0, time.UTC)
	storage.AddReminder(domain.ReminderRecord{
		PlantID:           "p1",
		PlantName:         "Ampalaya",
		Type:              domain.ReminderOneHourBefore,
		ScheduledTime:     fire,
		Message:           "flowers open in 1 hour",
		PollinationWindow: "6:00 - 9:00",
	})

	records, err := client.FetchPending(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p1", records[0].PlantID)
	assert.Equal(t, domain.ReminderOneHourBefore, records[0].Type)
	assert.True(t, records[0].ScheduledTime.Equal(fire))
	assert.Equal(t, "6:00 - 9:00", records[0].PollinationWindow)
}

func TestAckSentRemovesFromPending(t *testing.T) {
	client, storage := newStubBackend(t)
	storage.AddBatch(stub.SeedBatch{Count: 1}, time.Now().Add(time.Hour))

	ctx := context.Background()
	records, err := client.FetchPending(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NoError(t, client.AckSent(ctx, records[0].PlantID, records[0].Type))
	// repeated acks are idempotent on the backend
	require.NoError(t, client.AckSent(ctx, records[0].PlantID, records[0].Type))
	assert.Equal(t, 2, storage.SentCount(records[0].Key()))

	records, err = client.FetchPending(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantNetwork bool
		wantAuth    bool
	}{
		{name: "server error", status: http.StatusInternalServerError, wantNetwork: true},
		{name: "bad gateway", status: http.StatusBadGateway, wantNetwork: true},
		{name: "request timeout", status: http.StatusRequestTimeout, wantNetwork: true},
		{name: "rate limited", status: http.StatusTooManyRequests, wantNetwork: true},
		{name: "unauthorized", status: http.StatusUnauthorized, wantAuth: true},
		{name: "forbidden", status: http.StatusForbidden, wantAuth: true},
		{name: "bad request", status: http.StatusBadRequest},
		{name: "conflict", status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, storage := newStubBackend(t)
			storage.InjectFailures(tt.status, 1)

			_, err := client.FetchPending(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantNetwork, errors.Is(err, domain.ErrNetwork), "network classification")
			assert.Equal(t, tt.wantAuth, errors.Is(err, domain.ErrAuth), "auth classification")
			assert.Equal(t, tt.wantNetwork, domain.IsRetryable(err))

			if tt.wantNetwork {
				var ne *domain.NetworkError
				require.True(t, errors.As(err, &ne))
				assert.Equal(t, tt.status, ne.StatusCode)
			}
		})
	}
}

func TestNoInternalRetry(t *testing.T) {
	client, storage := newStubBackend(t)
	storage.InjectFailures(http.StatusServiceUnavailable, 1)

	_, err := client.FetchPending(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, storage.Requests())
}

func TestTransportErrorIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(&config.BackendConfig{URL: url, Timeout: time.Second})

	err := client.AckSent(context.Background(), "p1", domain.ReminderOneHourBefore)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestMissingTokenIsAuthError(t *testing.T) {
	storage := stub.NewStorage()
	srv := httptest.NewServer(stub.NewHandler(storage, testToken).Router())
	t.Cleanup(srv.Close)

	client := NewClient(&config.BackendConfig{URL: srv.URL, Timeout: time.Second})

	_, err := client.FetchPending(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
}

func TestLifecycleMirror(t *testing.T) {
	client, storage := newStubBackend(t)
	ctx := context.Background()
	date := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, client.MarkFlowering(ctx, "p1", domain.GenderFemale, date))
	st, ok := storage.Status("p1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusFlowering, st)

	require.NoError(t, client.MarkPollinated(ctx, "p1", date.AddDate(0, 0, 1)))
	st, _ = storage.Status("p1")
	assert.Equal(t, domain.StatusPollinated, st)

	require.NoError(t, client.AdvanceStatus(ctx, "p1", domain.StatusFruiting))
	st, _ = storage.Status("p1")
	assert.Equal(t, domain.StatusFruiting, st)

	err := client.MarkFlowering(ctx, "p1", domain.GenderUndetermined, date)
	require.Error(t, err)
	assert.False(t, domain.IsRetryable(err))
}

func TestUnknownAckIsPlainError(t *testing.T) {
	client, _ := newStubBackend(t)

	err := client.AckSent(context.Background(), "missing", domain.ReminderOneHourBefore)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNetwork))
	assert.False(t, errors.Is(err, domain.ErrAuth))
}

func TestPlantIDIsOneSegment(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(&config.BackendConfig{URL: srv.URL, Timeout: 5 * time.Second})

	require.NoError(t, client.AckSent(context.Background(), "a/b", domain.ReminderOneHourBefore))
	assert.Equal(t, "/pollination/a%2Fb/notification-sent", gotPath)

	for _, id := range []string{"", ".", ".."} {
		gotPath = ""
		err := client.MarkPollinated(context.Background(), id, time.Now())
		require.ErrorIs(t, err, ErrInvalidPlantID, "id %q", id)
		assert.Empty(t, gotPath)
	}
}
