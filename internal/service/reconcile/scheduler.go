package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/backend"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/metrics"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/tracing"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/registry"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

type permissionState int32

const (
	permissionUnknown permissionState = iota
	permissionGranted
	permissionDenied
)

// Scheduler turns the backend's pending reminder queue into scheduled
// notifications, at most one per plant and reminder type.
type Scheduler struct {
	client           backend.ReconciliationClient
	notifier         domain.Notifier
	registry         *registry.Registry
	outbox           domain.AckOutbox
	recorder         domain.ReconcileResultRecorder
	reconcileMetrics *metrics.ReconcileMetrics
	cfg              Config

	running        atomic.Bool
	halted         atomic.Bool
	permission     atomic.Int32
	deniedReported atomic.Bool

	mu        sync.Mutex
	lastRun   *Result
	lastRunAt time.Time

	wait func(ctx context.Context, d time.Duration) error
}

func NewScheduler(
	client backend.ReconciliationClient,
	notifier domain.Notifier,
	reg *registry.Registry,
	outbox domain.AckOutbox,
	recorder domain.ReconcileResultRecorder,
	reconcileMetrics *metrics.ReconcileMetrics,
	cfg Config,
) *Scheduler {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay < 0 {
		cfg.BaseDelay = defaultBaseDelay
	}

	return &Scheduler{
		client:           client,
		notifier:         notifier,
		registry:         reg,
		outbox:           outbox,
		recorder:         recorder,
		reconcileMetrics: reconcileMetrics,
		cfg:              cfg,
		wait:             sleepContext,
	}
}

// Reconcile runs one pass. A pass already in flight makes this call return
// Result{Busy: true} immediately.
func (s *Scheduler) Reconcile(ctx context.Context, now time.Time) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		slog.DebugContext(ctx, "reconciliation already running")
		s.recordMetrics(ctx, outcomeBusy, 0)
		return Result{Busy: true}, nil
	}
	defer s.running.Store(false)

	if s.halted.Load() {
		s.recordMetrics(ctx, outcomeHalted, 0)
		return Result{}, domain.ErrReconciliationHalted
	}

	if disabled, err := s.checkPermission(ctx); disabled || err != nil {
		s.recordMetrics(ctx, outcomeDisabled, 0)
		return Result{Disabled: disabled}, err
	}

	start := time.Now()
	runID := uuid.NewString()
	ctx, span := tracing.StartReconcileSpan(ctx, runID, now)
	defer span.End()

	result, err := s.run(ctx, runID, now)
	result.RunID = runID

	tracing.RecordReconcileResult(span, result.Scheduled, result.Skipped, result.Stale, result.Failed, result.AcksPending, err)

	outcome := outcomeSuccess
	switch {
	case errors.Is(err, errFetchExhausted):
		outcome = outcomeExhausted
		err = nil
	case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrReconciliationHalted):
		outcome = outcomeHalted
	case err != nil:
		outcome = outcomeError
	}

	duration := time.Since(start)
	s.recordMetrics(ctx, outcome, duration)
	s.recordPass(ctx, result, start, duration, outcome)
	s.remember(result)

	slog.InfoContext(ctx, "reconciliation pass finished",
		slog.String("run_id", runID),
		slog.String("outcome", outcome),
		slog.Int("fetched", result.Fetched),
		slog.Int("scheduled", result.Scheduled),
		slog.Int("skipped", result.Skipped),
		slog.Int("stale", result.Stale),
		slog.Int("failed", result.Failed),
		slog.Int("acks_pending", result.AcksPending),
		slog.Int("acks_retried", result.AcksRetried),
		slog.Duration("duration", duration),
	)

	return result, err
}

func (s *Scheduler) run(ctx context.Context, runID string, now time.Time) (Result, error) {
	var result Result

	result.AcksRetried = s.flushOutbox(ctx)
	if s.halted.Load() {
		result.AcksPending = s.pendingAcks(ctx)
		return result, domain.ErrReconciliationHalted
	}

	records, err := s.fetch(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			s.halt(ctx, err)
		}
		result.AcksPending = s.pendingAcks(ctx)
		return result, err
	}
	result.Fetched = len(records)

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			result.AcksPending = s.pendingAcks(ctx)
			return result, err
		}
		if s.halted.Load() {
			result.AcksPending = s.pendingAcks(ctx)
			return result, domain.ErrReconciliationHalted
		}
		s.process(ctx, record, now, &result)
	}

	result.AcksPending = s.pendingAcks(ctx)
	if s.halted.Load() {
		return result, domain.ErrReconciliationHalted
	}
	return result, nil
}

func (s *Scheduler) process(ctx context.Context, record domain.ReminderRecord, now time.Time, result *Result) {
	key := record.Key()

	if record.IsStale(now) {
		slog.WarnContext(ctx, "reminder missed, fire time already passed",
			slog.String("plant_id", record.PlantID),
			slog.String("reminder_type", record.Type.String()),
			slog.Time("scheduled_time", record.ScheduledTime),
		)
		result.Stale++
		s.recordReminder(ctx, record.Type, reminderStale)
		return
	}

	if !s.registry.TryReserve(key) {
		slog.DebugContext(ctx, "reminder already scheduled",
			slog.String("key", key.String()),
		)
		result.Skipped++
		s.recordReminder(ctx, record.Type, reminderSkipped)
		return
	}

	scheduleStart := time.Now()
	ctx, span := tracing.StartScheduleSpan(ctx, record.PlantID, record.Type.String(), record.ScheduledTime)
	handle, err := s.notifier.Schedule(ctx, notificationRequest(record))
	if err == nil {
		err = s.registry.Put(key, handle)
		if err != nil {
			// the slot was reserved above, so this is a bookkeeping bug
			_ = s.notifier.Cancel(ctx, handle)
		}
	}
	tracing.EndWithError(span, err)

	if s.reconcileMetrics != nil {
		s.reconcileMetrics.RecordScheduleDuration(ctx, record.Type.String(), time.Since(scheduleStart))
	}

	if err != nil {
		s.registry.Release(key)
		slog.ErrorContext(ctx, "failed to schedule notification",
			slog.String("key", key.String()),
			slog.String("error", err.Error()),
		)
		result.Failed++
		s.recordReminder(ctx, record.Type, reminderFailed)
		return
	}

	result.Scheduled++
	s.recordReminder(ctx, record.Type, reminderScheduled)

	slog.DebugContext(ctx, "notification scheduled",
		slog.String("key", key.String()),
		slog.String("handle", string(handle)),
		slog.Time("fire_at", record.ScheduledTime),
	)

	s.ack(ctx, key)
}

func notificationRequest(record domain.ReminderRecord) domain.NotificationRequest {
	title := "Pollination Reminder"
	if record.PlantName != "" {
		title = fmt.Sprintf("%s Pollination", record.PlantName)
	}

	body := record.Message
	if body == "" && record.PollinationWindow != "" {
		body = fmt.Sprintf("Flowers open %s", record.PollinationWindow)
	}

	return domain.NotificationRequest{
		FireAt: record.ScheduledTime,
		Title:  title,
		Body:   body,
		Payload: domain.NotificationPayload{
			PlantID:           record.PlantID,
			PlantName:         record.PlantName,
			Type:              record.Type,
			PollinationWindow: record.PollinationWindow,
		},
	}
}

// checkPermission asks the notifier once per process. A denial disables the
// scheduler for good and is reported as an error only the first time.
func (s *Scheduler) checkPermission(ctx context.Context) (bool, error) {
	switch permissionState(s.permission.Load()) {
	case permissionGranted:
		return false, nil
	case permissionDenied:
		return true, nil
	}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to request notification permission: %w", err)
	}
	if granted {
		s.permission.Store(int32(permissionGranted))
		return false, nil
	}

	s.permission.Store(int32(permissionDenied))
	if s.deniedReported.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "notification permission denied, reminders disabled")
		return true, domain.ErrPermissionDenied
	}
	return true, nil
}

func (s *Scheduler) halt(ctx context.Context, err error) {
	if s.halted.CompareAndSwap(false, true) {
		slog.ErrorContext(ctx, "backend rejected credentials, reconciliation halted",
			slog.String("error", err.Error()),
		)
	}
}

// Resume clears an authentication halt after the session is refreshed.
func (s *Scheduler) Resume() {
	if s.halted.CompareAndSwap(true, false) {
		slog.Info("reconciliation resumed")
	}
}

// CancelAll cancels every scheduled reminder, e.g. on logout.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	n := s.registry.Len()
	if err := s.registry.Reset(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "cancelled all reminders", slog.Int("count", n))
	return nil
}

// CancelPlant cancels the reminders of a deleted plant.
func (s *Scheduler) CancelPlant(ctx context.Context, plantID string) error {
	if err := s.registry.RemovePlant(ctx, plantID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "cancelled plant reminders", slog.String("plant_id", plantID))
	return nil
}

// CancelReminder cancels one reminder.
func (s *Scheduler) CancelReminder(ctx context.Context, key domain.ReminderKey) error {
	return s.registry.RemoveAndCancel(ctx, key)
}

func (s *Scheduler) Status(ctx context.Context) Status {
	s.mu.Lock()
	st := Status{
		Running:   s.running.Load(),
		Halted:    s.halted.Load(),
		Disabled:  permissionState(s.permission.Load()) == permissionDenied,
		Scheduled: s.registry.Snapshot(),
	}
	if s.lastRun != nil {
		last := *s.lastRun
		at := s.lastRunAt
		st.LastRun = &last
		st.LastRunAt = &at
	}
	s.mu.Unlock()
	return st
}

func (s *Scheduler) remember(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = &result
	s.lastRunAt = time.Now()
}

func (s *Scheduler) recordMetrics(ctx context.Context, outcome string, d time.Duration) {
	if s.reconcileMetrics != nil {
		s.reconcileMetrics.RecordPass(ctx, outcome, d)
	}
}

func (s *Scheduler) recordReminder(ctx context.Context, t domain.ReminderType, outcome string) {
	if s.reconcileMetrics != nil {
		s.reconcileMetrics.RecordReminder(ctx, t.String(), outcome)
	}
}

func (s *Scheduler) recordPass(ctx context.Context, r Result, start time.Time, d time.Duration, outcome string) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.RecordPass(ctx, domain.ReconcilePassRecord{
		RunID:       r.RunID,
		StartedAt:   start,
		Duration:    d,
		Outcome:     outcome,
		Fetched:     r.Fetched,
		Scheduled:   r.Scheduled,
		Skipped:     r.Skipped,
		Stale:       r.Stale,
		Failed:      r.Failed,
		AcksFailed:  r.AcksPending,
		AcksRetried: r.AcksRetried,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record reconciliation pass",
			slog.String("run_id", r.RunID),
			slog.String("error", err.Error()),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Halted reports whether an authentication failure stopped reconciliation.
func (s *Scheduler) Halted() bool {
	return s.halted.Load()
}
