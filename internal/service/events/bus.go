package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// Bus fans notification events out to in-process subscribers.
//
// Publish never blocks. Subscribers get buffered channels and a slow
// subscriber drops events instead of stalling the notifier.
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]chan domain.NotificationEvent
	seq     atomic.Uint64
	dropped atomic.Uint64
}

var _ domain.NotificationEventSink = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{subs: map[uint64]chan domain.NotificationEvent{}}
}

func (b *Bus) PublishNotification(e domain.NotificationEvent) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	// sends are non-blocking, so holding the read lock keeps unsubscribe from
	// closing a channel mid-send
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe returns a channel of events and a function that closes it.
func (b *Bus) Subscribe(buffer int) (<-chan domain.NotificationEvent, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan domain.NotificationEvent, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, unsub
}

// Dropped counts deliveries skipped because a subscriber was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
