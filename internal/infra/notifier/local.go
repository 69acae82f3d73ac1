package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

type timer interface {
	Stop() bool
}

// Local fires notifications from in-process timers. Pending notifications
// do not survive a restart; the next reconciliation pass reschedules them.
type Local struct {
	mu               sync.Mutex
	pending          map[domain.NotificationHandle]timer
	sink             domain.NotificationEventSink
	permissionDenied bool

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) timer
}

var _ domain.Notifier = (*Local)(nil)

func NewLocal(sink domain.NotificationEventSink, permissionDenied bool) *Local {
	return &Local{
		pending:          make(map[domain.NotificationHandle]timer),
		sink:             sink,
		permissionDenied: permissionDenied,
		now:              time.Now,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

func (l *Local) RequestPermission(_ context.Context) (bool, error) {
	return !l.permissionDenied, nil
}

func (l *Local) Schedule(ctx context.Context, req domain.NotificationRequest) (domain.NotificationHandle, error) {
	handle := domain.NotificationHandle(uuid.NewString())
	delay := req.FireAt.Sub(l.now())

	l.mu.Lock()
	l.pending[handle] = l.afterFunc(delay, func() {
		l.fire(handle, req)
	})
	l.mu.Unlock()

	slog.DebugContext(ctx, "local notification scheduled",
		slog.String("handle", string(handle)),
		slog.String("plant_id", req.Payload.PlantID),
		slog.String("reminder_type", req.Payload.Type.String()),
		slog.Time("fire_at", req.FireAt),
	)

	return handle, nil
}

func (l *Local) Cancel(_ context.Context, handle domain.NotificationHandle) error {
	l.mu.Lock()
	t, ok := l.pending[handle]
	delete(l.pending, handle)
	l.mu.Unlock()

	if !ok {
		return domain.ErrHandleNotFound
	}
	t.Stop()
	return nil
}

// Pending returns how many notifications have not fired yet.
func (l *Local) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Close stops every pending timer.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for h, t := range l.pending {
		t.Stop()
		delete(l.pending, h)
	}
	return nil
}

func (l *Local) fire(handle domain.NotificationHandle, req domain.NotificationRequest) {
	l.mu.Lock()
	_, ok := l.pending[handle]
	delete(l.pending, handle)
	l.mu.Unlock()

	if !ok {
		return
	}

	slog.Info("notification delivered",
		slog.String("handle", string(handle)),
		slog.String("plant_id", req.Payload.PlantID),
		slog.String("reminder_type", req.Payload.Type.String()),
		slog.String("title", req.Title),
	)

	if l.sink != nil {
		l.sink.PublishNotification(domain.NotificationEvent{
			Kind:       domain.NotificationReceived,
			Handle:     handle,
			Payload:    req.Payload,
			OccurredAt: l.now(),
		})
	}
}
