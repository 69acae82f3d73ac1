package trigger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/reconcile"
)

//go:generate mockgen -source=trigger.go -destination=trigger_mock.go -package=trigger

type Reconciler interface {
	Reconcile(ctx context.Context, now time.Time) (reconcile.Result, error)
}

// Trigger runs reconciliation on a cron schedule. It stands in for the app
// foreground/login events that drive passes on a device.
type Trigger struct {
	c          *cron.Cron
	reconciler Reconciler
	spec       string
	timeout    time.Duration
	now        func() time.Time

	baseCtx context.Context
}

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func New(reconciler Reconciler, spec string, loc *time.Location, timeout time.Duration) (*Trigger, error) {
	if loc == nil {
		loc = time.Local
	}

	t := &Trigger{
		c:          cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		reconciler: reconciler,
		spec:       spec,
		timeout:    timeout,
		now:        time.Now,
		baseCtx:    context.Background(),
	}

	if _, err := t.c.AddFunc(spec, t.fire); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}

	return t, nil
}

// Start begins firing. Passes inherit values from ctx but not its cancellation,
// so Stop can let an in-flight pass finish.
func (t *Trigger) Start(ctx context.Context) {
	t.baseCtx = context.WithoutCancel(ctx)
	t.c.Start()
	slog.InfoContext(ctx, "reconcile trigger started", slog.String("schedule", t.spec))
}

// Stop halts the schedule and waits for a running pass until ctx is done.
func (t *Trigger) Stop(ctx context.Context) error {
	done := t.c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next scheduled fire time.
func (t *Trigger) Next() time.Time {
	entries := t.c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (t *Trigger) fire() {
	ctx := t.baseCtx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	t.RunOnce(ctx)
}

// RunOnce runs a single pass and logs its outcome.
func (t *Trigger) RunOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic in reconcile trigger",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	result, err := t.reconciler.Reconcile(ctx, t.now())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrReconciliationHalted):
		slog.WarnContext(ctx, "reconcile skipped, waiting for re-authentication")
		return
	default:
		slog.ErrorContext(ctx, "triggered reconcile failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if result.Busy {
		slog.DebugContext(ctx, "reconcile trigger skipped, pass in flight")
	}
}
