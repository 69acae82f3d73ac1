package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func key(plant string, typ domain.ReminderType) domain.ReminderKey {
	return domain.ReminderKey{PlantID: plant, Type: typ}
}

func TestTryReserveIsIdempotent(t *testing.T) {
	r := New(nil)
	k := key("p1", domain.ReminderOneHourBefore)

	require.True(t, r.TryReserve(k))
	require.False(t, r.TryReserve(k))
	require.NoError(t, r.Put(k, "h1"))
	require.False(t, r.TryReserve(k))
	assert.Equal(t, 1, r.Len())

	other := key("p1", domain.ReminderThirtyMinsBefore)
	assert.True(t, r.TryReserve(other))
	assert.Equal(t, 2, r.Len())
}

func TestTryReserveConcurrent(t *testing.T) {
	r := New(nil)
	k := key("p1", domain.ReminderOneHourBefore)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryReserve(k) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestPutRequiresReservation(t *testing.T) {
	r := New(nil)
	k := key("p1", domain.ReminderOneHourBefore)

	err := r.Put(k, "h1")
	require.ErrorIs(t, err, domain.ErrKeyNotReserved)

	require.True(t, r.TryReserve(k))
	require.NoError(t, r.Put(k, "h1"))
	require.ErrorIs(t, r.Put(k, "h2"), domain.ErrKeyAlreadyScheduled)

	handle, ok := r.Get(k)
	require.True(t, ok)
	assert.Equal(t, domain.NotificationHandle("h1"), handle)
}

func TestReleaseOnlyDropsReservations(t *testing.T) {
	r := New(nil)
	reserved := key("p1", domain.ReminderOneHourBefore)
	scheduled := key("p2", domain.ReminderOneHourBefore)

	require.True(t, r.TryReserve(reserved))
	require.True(t, r.TryReserve(scheduled))
	require.NoError(t, r.Put(scheduled, "h2"))

	_, ok := r.Get(reserved)
	assert.False(t, ok, "reserved key has no handle yet")

	r.Release(reserved)
	r.Release(scheduled)

	assert.True(t, r.TryReserve(reserved))
	_, ok = r.Get(scheduled)
	assert.True(t, ok)
}

func TestRemoveAndCancel(t *testing.T) {
	tests := []struct {
		name      string
		cancelErr error
		wantErr   bool
	}{
		{name: "cancelled", cancelErr: nil},
		{name: "handle already consumed", cancelErr: domain.ErrHandleNotFound},
		{name: "notifier failure", cancelErr: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			notifier := domain.NewMockNotifier(ctrl)
			notifier.EXPECT().Cancel(gomock.Any(), domain.NotificationHandle("h1")).Return(tt.cancelErr)

			r := New(notifier)
			k := key("p1", domain.ReminderOneHourBefore)
			require.True(t, r.TryReserve(k))
			require.NoError(t, r.Put(k, "h1"))

			err := r.RemoveAndCancel(context.Background(), k)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestRemoveAndCancelUnknownKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := domain.NewMockNotifier(ctrl)

	r := New(notifier)
	require.NoError(t, r.RemoveAndCancel(context.Background(), key("missing", domain.ReminderOneHourBefore)))
}

func TestRemovePlant(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := domain.NewMockNotifier(ctrl)
	notifier.EXPECT().Cancel(gomock.Any(), domain.NotificationHandle("h1")).Return(nil)
	notifier.EXPECT().Cancel(gomock.Any(), domain.NotificationHandle("h2")).Return(domain.ErrHandleNotFound)

	r := New(notifier)
	for k, h := range map[domain.ReminderKey]domain.NotificationHandle{
		key("p1", domain.ReminderOneHourBefore):    "h1",
		key("p1", domain.ReminderThirtyMinsBefore): "h2",
		key("p2", domain.ReminderOneHourBefore):    "h3",
	} {
		require.True(t, r.TryReserve(k))
		require.NoError(t, r.Put(k, h))
	}

	require.NoError(t, r.RemovePlant(context.Background(), "p1"))

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "p2", snap[0].Key.PlantID)
}

func TestResetCancelsScheduledOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := domain.NewMockNotifier(ctrl)
	notifier.EXPECT().Cancel(gomock.Any(), domain.NotificationHandle("h1")).Return(nil)

	r := New(notifier)
	scheduled := key("p1", domain.ReminderOneHourBefore)
	require.True(t, r.TryReserve(scheduled))
	require.NoError(t, r.Put(scheduled, "h1"))
	require.True(t, r.TryReserve(key("p2", domain.ReminderOneHourBefore)))

	require.NoError(t, r.Reset(context.Background()))
	assert.Equal(t, 0, r.Len())
	assert.True(t, r.TryReserve(scheduled))
}

func TestRemoveHandle(t *testing.T) {
	r := New(nil)
	k := key("p1", domain.ReminderOneHourBefore)
	require.True(t, r.TryReserve(k))
	require.NoError(t, r.Put(k, "h1"))

	got, ok := r.RemoveHandle("h1")
	require.True(t, ok)
	assert.Equal(t, k, got)

	_, ok = r.RemoveHandle("h1")
	assert.False(t, ok)
	assert.True(t, r.TryReserve(k))
}

func TestRemoveScheduledSkipsReservations(t *testing.T) {
	r := New(nil)
	reserved := key("p1", domain.ReminderOneHourBefore)
	scheduled := key("p1", domain.ReminderThirtyMinsBefore)
	require.True(t, r.TryReserve(reserved))
	require.True(t, r.TryReserve(scheduled))
	require.NoError(t, r.Put(scheduled, "h1"))

	_, ok := r.RemoveScheduled(reserved)
	assert.False(t, ok)
	assert.False(t, r.TryReserve(reserved), "reservation must survive")

	handle, ok := r.RemoveScheduled(scheduled)
	require.True(t, ok)
	assert.Equal(t, domain.NotificationHandle("h1"), handle)
	_, ok = r.RemoveHandle("h1")
	assert.False(t, ok)

	_, ok = r.RemoveScheduled(key("p2", domain.ReminderOneHourBefore))
	assert.False(t, ok)
}

func TestSnapshotOrdered(t *testing.T) {
	r := New(nil)
	require.True(t, r.TryReserve(key("b", domain.ReminderOneHourBefore)))
	require.True(t, r.TryReserve(key("a", domain.ReminderThirtyMinsBefore)))
	require.True(t, r.TryReserve(key("a", domain.ReminderOneHourBefore)))

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "a:oneHourBefore", snap[0].Key.String())
	assert.Equal(t, "a:thirtyMinsBefore", snap[1].Key.String())
	assert.Equal(t, "b:oneHourBefore", snap[2].Key.String())
	assert.True(t, snap[0].Reserved())
}
