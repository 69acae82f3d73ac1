package trigger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewRejectsInvalidSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := New(NewMockReconciler(ctrl), "not a schedule", time.UTC, 0)
	require.Error(t, err)
}

func TestNewAcceptsSchedules(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{name: "descriptor", spec: "@every 15m"},
		{name: "five fields", spec: "*/15 5-20 * * *"},
		{name: "six fields", spec: "0 */15 5-20 * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			tr, err := New(NewMockReconciler(ctrl), tt.spec, time.UTC, 0)
			require.NoError(t, err)
			assert.Len(t, tr.c.Entries(), 1)
		})
	}
}

func TestFireRunsReconcile(t *testing.T) {
	fixed := time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		result reconcile.Result
		err    error
	}{
		{name: "success", result: reconcile.Result{Scheduled: 2}},
		{name: "busy", result: reconcile.Result{Busy: true}},
		{name: "halted", err: domain.ErrReconciliationHalted},
		{name: "error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			rec := NewMockReconciler(ctrl)

			tr, err := New(rec, "@every 15m", time.UTC, time.Minute)
			require.NoError(t, err)
			tr.now = func() time.Time { return fixed }

			rec.EXPECT().Reconcile(gomock.Any(), fixed).
				DoAndReturn(func(ctx context.Context, _ time.Time) (reconcile.Result, error) {
					_, ok := ctx.Deadline()
					assert.True(t, ok)
					return tt.result, tt.err
				})

			tr.fire()
		})
	}
}

func TestRunOnceRecoversPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := NewMockReconciler(ctrl)

	tr, err := New(rec, "@every 15m", time.UTC, 0)
	require.NoError(t, err)

	rec.EXPECT().Reconcile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) (reconcile.Result, error) {
			panic("unexpected")
		})

	assert.NotPanics(t, func() { tr.RunOnce(context.Background()) })
}

func TestStartStop(t *testing.T) {
	ctrl := gomock.NewController(t)

	tr, err := New(NewMockReconciler(ctrl), "@every 1h", time.UTC, 0)
	require.NoError(t, err)

	tr.Start(context.Background())
	assert.False(t, tr.Next().IsZero())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, tr.Stop(ctx))
}
