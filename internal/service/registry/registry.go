package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// Entry is one registry slot. A reserved slot has no handle yet.
type Entry struct {
	Key    domain.ReminderKey        `json:"key"`
	Handle domain.NotificationHandle `json:"handle,omitempty"`
}

func (e Entry) Reserved() bool {
	return e.Handle == ""
}

// Registry tracks what is currently scheduled with the notifier. It is the
// single source of truth for duplicate suppression.
type Registry struct {
	mu       sync.Mutex
	entries  map[domain.ReminderKey]domain.NotificationHandle
	byHandle map[domain.NotificationHandle]domain.ReminderKey
	notifier domain.Notifier
}

func New(notifier domain.Notifier) *Registry {
	return &Registry{
		entries:  make(map[domain.ReminderKey]domain.NotificationHandle),
		byHandle: make(map[domain.NotificationHandle]domain.ReminderKey),
		notifier: notifier,
	}
}

// TryReserve claims key. It returns false when the key is already reserved
// or scheduled.
func (r *Registry) TryReserve(key domain.ReminderKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; ok {
		return false
	}
	r.entries[key] = ""
	return true
}

// Put binds handle to a reserved key.
func (r *Registry) Put(key domain.ReminderKey, handle domain.NotificationHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.entries[key]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrKeyNotReserved, key)
	}
	if current != "" {
		return fmt.Errorf("%w: %s", domain.ErrKeyAlreadyScheduled, key)
	}
	r.entries[key] = handle
	r.byHandle[handle] = key
	return nil
}

// Release rolls back a reservation. Scheduled keys are left untouched.
func (r *Registry) Release(key domain.ReminderKey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handle, ok := r.entries[key]; ok && handle == "" {
		delete(r.entries, key)
	}
}

func (r *Registry) Get(key domain.ReminderKey) (domain.NotificationHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.entries[key]
	if !ok || handle == "" {
		return "", false
	}
	return handle, true
}

// Remove forgets key without cancelling anything.
func (r *Registry) Remove(key domain.ReminderKey) (domain.NotificationHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(key)
}

// RemoveScheduled forgets key only when it is bound to a handle. A pending
// reservation is left alone.
func (r *Registry) RemoveScheduled(key domain.ReminderKey) (domain.NotificationHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handle, ok := r.entries[key]; !ok || handle == "" {
		return "", false
	}
	return r.removeLocked(key)
}

// RemoveHandle forgets the entry that owns handle. Used when a notification
// fires and the handle is consumed.
func (r *Registry) RemoveHandle(handle domain.NotificationHandle) (domain.ReminderKey, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.byHandle[handle]
	if !ok {
		return domain.ReminderKey{}, false
	}
	r.removeLocked(key)
	return key, true
}

// RemoveAndCancel forgets key and cancels its notification. A handle the
// notifier no longer knows counts as cancelled.
func (r *Registry) RemoveAndCancel(ctx context.Context, key domain.ReminderKey) error {
	handle, ok := r.Remove(key)
	if !ok || handle == "" {
		return nil
	}
	return r.cancel(ctx, key, handle)
}

// RemovePlant cancels every reminder belonging to plantID.
func (r *Registry) RemovePlant(ctx context.Context, plantID string) error {
	r.mu.Lock()
	var removed []Entry
	for key := range r.entries {
		if key.PlantID != plantID {
			continue
		}
		handle, _ := r.removeLocked(key)
		removed = append(removed, Entry{Key: key, Handle: handle})
	}
	r.mu.Unlock()

	return r.cancelAll(ctx, removed)
}

// Reset cancels and forgets everything.
func (r *Registry) Reset(ctx context.Context) error {
	r.mu.Lock()
	removed := make([]Entry, 0, len(r.entries))
	for key, handle := range r.entries {
		removed = append(removed, Entry{Key: key, Handle: handle})
	}
	r.entries = make(map[domain.ReminderKey]domain.NotificationHandle)
	r.byHandle = make(map[domain.NotificationHandle]domain.ReminderKey)
	r.mu.Unlock()

	return r.cancelAll(ctx, removed)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Snapshot returns the current entries ordered by key.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	out := make([]Entry, 0, len(r.entries))
	for key, handle := range r.entries {
		out = append(out, Entry{Key: key, Handle: handle})
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

func (r *Registry) removeLocked(key domain.ReminderKey) (domain.NotificationHandle, bool) {
	handle, ok := r.entries[key]
	if !ok {
		return "", false
	}
	delete(r.entries, key)
	if handle != "" {
		delete(r.byHandle, handle)
	}
	return handle, true
}

func (r *Registry) cancelAll(ctx context.Context, entries []Entry) error {
	var errs []error
	for _, e := range entries {
		if e.Reserved() {
			continue
		}
		if err := r.cancel(ctx, e.Key, e.Handle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) cancel(ctx context.Context, key domain.ReminderKey, handle domain.NotificationHandle) error {
	if r.notifier == nil {
		return nil
	}
	err := r.notifier.Cancel(ctx, handle)
	if err == nil || errors.Is(err, domain.ErrHandleNotFound) {
		return nil
	}

	slog.WarnContext(ctx, "failed to cancel notification",
		slog.String("key", key.String()),
		slog.String("handle", string(handle)),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("cancel %s: %w", key, err)
}
