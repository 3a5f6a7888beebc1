package orchestrator

import (
	"sync"
	"time"
)

// EventType enumerates the progress notifications a run emits.
type EventType string

const (
	EventRunStarted    EventType = "run_started"
	EventUnitStarted   EventType = "unit_started"
	EventUnitSucceeded EventType = "unit_succeeded"
	EventUnitFailed    EventType = "unit_failed"
	EventWriteFailed   EventType = "write_failed"
	EventRunStopped    EventType = "run_stopped"
)

// Event is one progress notification. Every failure path in the loop
// produces exactly one event.
type Event struct {
	Type                EventType  `json:"type"`
	Time                time.Time  `json:"time"`
	Attempt             int        `json:"attempt,omitempty"`
	RecordID            string     `json:"record_id,omitempty"`
	Path                string     `json:"path,omitempty"`
	Stage               string     `json:"stage,omitempty"`
	Kind                string     `json:"kind,omitempty"`
	Diagnostic          string     `json:"diagnostic,omitempty"`
	RecordsWritten      int        `json:"records_written"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	Reason              StopReason `json:"reason,omitempty"`
}

// broadcaster fans events out to subscribers. Slow subscribers drop events
// rather than stalling the generation loop.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan Event]struct{})}
}

// subscribe registers a listener and returns the channel plus a cancel func.
func (b *broadcaster) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
