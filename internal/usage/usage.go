package usage

import (
	"sync"
	"time"

	"newslens/internal/analysis"
)

// Purpose tags why an LLM call happened. Only initial calls should be
// debited against a requester's quota; retry and critique calls are tagged
// so the caller does not double-charge them.
type Purpose string

const (
	PurposeInitial  Purpose = "initial"
	PurposeRetry    Purpose = "retry"
	PurposeCritique Purpose = "critique"
)

// Billable reports whether the caller should count this call against quota.
func (p Purpose) Billable() bool { return p == PurposeInitial }

// Event describes one completed LLM call.
type Event struct {
	Kind    analysis.Kind
	Model   string
	Tokens  analysis.TokenUsage
	Purpose Purpose
	At      time.Time
}

// Recorder receives one event per completed LLM call. Implementations must
// be safe for concurrent use; agents call Record from parallel goroutines.
type Recorder interface {
	Record(Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Record(Event) {}

// Memory accumulates events for inspection; the demo commands and tests use
// it in place of a real quota-tracking backend.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Record(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
}

// Events returns a snapshot copy.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Billable counts events the caller would debit.
func (m *Memory) Billable() int {
	n := 0
	for _, ev := range m.Events() {
		if ev.Purpose.Billable() {
			n++
		}
	}
	return n
}
