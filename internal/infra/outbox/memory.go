package outbox

import (
	"context"
	"sort"
	"sync"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// memoryOutbox keeps pending acks for the life of the process.
type memoryOutbox struct {
	mu      sync.Mutex
	pending map[domain.ReminderKey]domain.PendingAck
}

func NewMemoryOutbox() domain.AckOutbox {
	return &memoryOutbox{
		pending: make(map[domain.ReminderKey]domain.PendingAck),
	}
}

func (o *memoryOutbox) Enqueue(_ context.Context, ack domain.PendingAck) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending[ack.Key()] = merge(o.pending[ack.Key()], ack)
	return nil
}

func (o *memoryOutbox) List(_ context.Context) ([]domain.PendingAck, error) {
	o.mu.Lock()
	out := make([]domain.PendingAck, 0, len(o.pending))
	for _, ack := range o.pending {
		out = append(out, ack)
	}
	o.mu.Unlock()

	sortByQueuedAt(out)
	return out, nil
}

func (o *memoryOutbox) Remove(_ context.Context, key domain.ReminderKey) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.pending, key)
	return nil
}

// merge folds a re-enqueued ack into the existing entry, keeping the first
// queue time and counting attempts.
func merge(existing, incoming domain.PendingAck) domain.PendingAck {
	if existing.PlantID == "" {
		if incoming.Attempts == 0 {
			incoming.Attempts = 1
		}
		return incoming
	}
	existing.Attempts++
	return existing
}

func sortByQueuedAt(acks []domain.PendingAck) {
	sort.Slice(acks, func(i, j int) bool {
		if acks[i].QueuedAt.Equal(acks[j].QueuedAt) {
			return acks[i].Key().String() < acks[j].Key().String()
		}
		return acks[i].QueuedAt.Before(acks[j].QueuedAt)
	})
}
