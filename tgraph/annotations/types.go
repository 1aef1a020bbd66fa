// Package annotations provides a low-overhead event system for tracing
// graph mutations, ingestion, replay and view queries.
package annotations

import (
	"slices"
	"sync"
	"time"
)

// Event names are "subsystem/what".
const (
	// Mutations
	MutationApplied = "mutation/applied"
	MutationFailed  = "mutation/failed"

	// Bulk operations
	IngestBegin    = "ingest/begin"
	IngestComplete = "ingest/completed"
	ReplayComplete = "replay/completed"

	// Views
	ViewMaterialized = "view/materialized"
	ViewSummarized   = "view/summarized"

	// Generators
	GenerateComplete = "generate/completed"

	// Errors
	ErrorJournal = "error/journal"
)

// Event is a single annotation.
type Event struct {
	Name    string
	Start   time.Time
	End     time.Time
	Latency time.Duration          // End - Start; zero for point events
	Data    map[string]interface{} // keyed by the emitter, e.g. "op", "layer"
}

// Handler processes annotation events as they occur.
type Handler func(event Event)

// Collector accumulates events.
type Collector struct {
	enabled bool
	handler Handler
	events  []Event
	limit   int
	mu      sync.Mutex
}

// DefaultLimit bounds the events a Collector retains. Handlers still see
// every event.
const DefaultLimit = 4096

// NewCollector creates a collector. A nil handler disables collection.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		enabled: handler != nil,
		handler: handler,
		events:  make([]Event, 0, 128),
		limit:   DefaultLimit,
	}
}

// Enabled reports whether events are collected. Callers use it to skip
// building event data.
func (c *Collector) Enabled() bool {
	return c != nil && c.enabled
}

// Handler returns the underlying event handler.
func (c *Collector) Handler() Handler {
	return c.handler
}

// Add retains event, up to the collector's limit, and passes it to the
// handler. Safe for concurrent use.
func (c *Collector) Add(event Event) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	if len(c.events) < c.limit {
		c.events = append(c.events, event)
	}
	c.mu.Unlock()

	c.handler(event)
}

// AddTiming records an event that started at start and ends now.
func (c *Collector) AddTiming(name string, start time.Time, data map[string]interface{}) {
	if !c.Enabled() {
		return
	}

	end := time.Now()
	c.Add(Event{
		Name:    name,
		Start:   start,
		End:     end,
		Latency: end.Sub(start),
		Data:    data,
	})
}

// Events returns a copy of the retained events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

// Reset clears the retained events.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}
