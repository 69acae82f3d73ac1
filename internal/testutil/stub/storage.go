package stub

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// Storage is the in-memory state of the stub backend.
type Storage struct {
	mu          sync.RWMutex
	reminders   map[domain.ReminderKey]domain.ReminderRecord
	sent        map[domain.ReminderKey]int
	statuses    map[string]domain.LifecycleStatus
	failures    []int
	requestSeen int
}

func NewStorage() *Storage {
	return &Storage{
		reminders: make(map[domain.ReminderKey]domain.ReminderRecord),
		sent:      make(map[domain.ReminderKey]int),
		statuses:  make(map[string]domain.LifecycleStatus),
	}
}

func (s *Storage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = make(map[domain.ReminderKey]domain.ReminderRecord)
	s.sent = make(map[domain.ReminderKey]int)
	s.statuses = make(map[string]domain.LifecycleStatus)
	s.failures = nil
	s.requestSeen = 0
}

func (s *Storage) AddReminder(r domain.ReminderRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[r.Key()] = r
}

// AddBatch generates reminders for b and returns how many were added.
func (s *Storage) AddBatch(b SeedBatch, start time.Time) int {
	species := b.Species
	if species == "" {
		species = "ampalaya"
	}
	spacing := time.Duration(b.SpacingSeconds) * time.Second
	if spacing <= 0 {
		spacing = time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for i := 0; i < b.Count; i++ {
		id := generatePlantID(start, species, i)
		first := start.Add(time.Duration(i) * spacing)
		name := strings.ToUpper(species[:1]) + species[1:]

		for _, r := range []domain.ReminderRecord{
			{
				PlantID:           id,
				PlantName:         name,
				Type:              domain.ReminderThirtyMinsBefore,
				ScheduledTime:     first,
				Message:           fmt.Sprintf("%s flowers open in 90 minutes", name),
				PollinationWindow: "6:00 - 9:00",
			},
			{
				PlantID:           id,
				PlantName:         name,
				Type:              domain.ReminderOneHourBefore,
				ScheduledTime:     first.Add(30 * time.Minute),
				Message:           fmt.Sprintf("%s flowers open in 1 hour", name),
				PollinationWindow: "6:00 - 9:00",
			},
		} {
			s.reminders[r.Key()] = r
			added++
		}
	}
	return added
}

// Pending returns every reminder not yet acked, ordered by fire time.
func (s *Storage) Pending() []domain.ReminderRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ReminderRecord, 0, len(s.reminders))
	for key, r := range s.reminders {
		if s.sent[key] > 0 {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledTime.Equal(out[j].ScheduledTime) {
			return out[i].Key().String() < out[j].Key().String()
		}
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out
}

// MarkSent records an ack. Repeated acks are accepted.
func (s *Storage) MarkSent(key domain.ReminderKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[key]; !ok {
		return false
	}
	s.sent[key]++
	return true
}

func (s *Storage) SentCount(key domain.ReminderKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sent[key]
}

func (s *Storage) SetStatus(plantID string, status domain.LifecycleStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[plantID] = status
}

func (s *Storage) Status(plantID string) (domain.LifecycleStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statuses[plantID]
	return st, ok
}

// InjectFailures queues status codes returned by the next requests.
func (s *Storage) InjectFailures(status, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < count; i++ {
		s.failures = append(s.failures, status)
	}
}

// nextFailure pops the next injected status code, if any, and counts the
// request.
func (s *Storage) nextFailure() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestSeen++
	if len(s.failures) == 0 {
		return 0, false
	}
	code := s.failures[0]
	s.failures = s.failures[1:]
	return code, true
}

func (s *Storage) Requests() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requestSeen
}

func generatePlantID(start time.Time, species string, index int) string {
	input := fmt.Sprintf("%s-%s-%d", species, start.Format("20060102150405"), index)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%s-%s", species, hex.EncodeToString(hash[:8]))
}
