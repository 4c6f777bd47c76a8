package observability

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType categorizes timeline events for filtering and display.
type EventType string

const (
	EventTypeRunStart     EventType = "run.start"
	EventTypeRunEnd       EventType = "run.end"
	EventTypeChaosDelay   EventType = "chaos.delay"
	EventTypeChaosOverlay EventType = "chaos.overlay"
	EventTypeChaosNetwork EventType = "chaos.network"
	EventTypeChaosRestore EventType = "chaos.restore"
	EventTypeChaosError   EventType = "chaos.error"
)

// Event is a single entry in the chaos timeline: either a run boundary or one
// experiment activation with its drawn magnitudes.
type Event struct {
	ID         string                 `json:"id"`
	Type       EventType              `json:"type"`
	Timestamp  time.Time              `json:"timestamp"`
	RunID      string                 `json:"run_id,omitempty"`
	Experiment string                 `json:"experiment,omitempty"`
	Action     string                 `json:"action,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Timeline records and retrieves chaos events for debugging and reporting.
type Timeline interface {
	// Record stores an event, assigning ID and timestamp when missing.
	Record(event *Event) error

	// ByRun returns all events for a run in recording order.
	ByRun(runID string) []*Event

	// CountByRun returns the number of events recorded for a run.
	CountByRun(runID string) int

	// All returns every recorded event in recording order.
	All() []*Event
}

// MemoryTimeline is an in-memory Timeline. It holds events for the current
// invocation only; nothing is persisted.
type MemoryTimeline struct {
	mu      sync.RWMutex
	events  []*Event
	byRun   map[string][]*Event
	maxSize int
}

// NewMemoryTimeline creates an in-memory timeline. maxSize bounds the number
// of retained events; once reached, the oldest events are dropped.
func NewMemoryTimeline(maxSize int) *MemoryTimeline {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &MemoryTimeline{
		byRun:   make(map[string][]*Event),
		maxSize: maxSize,
	}
}

func (t *MemoryTimeline) Record(event *Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.events) >= t.maxSize {
		t.evictOldest()
	}

	t.events = append(t.events, event)
	if event.RunID != "" {
		t.byRun[event.RunID] = append(t.byRun[event.RunID], event)
	}
	return nil
}

func (t *MemoryTimeline) ByRun(runID string) []*Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	events := t.byRun[runID]
	out := make([]*Event, len(events))
	copy(out, events)
	return out
}

func (t *MemoryTimeline) CountByRun(runID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byRun[runID])
}

func (t *MemoryTimeline) All() []*Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Event, len(t.events))
	copy(out, t.events)
	return out
}

// evictOldest drops the oldest event. Caller must hold the write lock.
func (t *MemoryTimeline) evictOldest() {
	if len(t.events) == 0 {
		return
	}
	oldest := t.events[0]
	t.events = t.events[1:]

	if oldest.RunID != "" {
		runEvents := t.byRun[oldest.RunID]
		for i, e := range runEvents {
			if e.ID == oldest.ID {
				t.byRun[oldest.RunID] = append(runEvents[:i], runEvents[i+1:]...)
				break
			}
		}
		if len(t.byRun[oldest.RunID]) == 0 {
			delete(t.byRun, oldest.RunID)
		}
	}
}
