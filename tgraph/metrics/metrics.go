// Package metrics collects operational metrics for graph mutations,
// ingestion and replay.
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector receives operational metrics. Implement it to integrate with a
// monitoring system.
type Collector interface {
	// RecordMutation is called after each mutation. op is the mutation
	// name; err is nil on success.
	RecordMutation(op string, duration time.Duration, err error)

	// RecordIngest is called after a bulk ingestion of count events.
	RecordIngest(count, failed int, duration time.Duration)

	// RecordReplay is called after a journal replay.
	RecordReplay(records int, duration time.Duration, err error)

	// SetGraphSize reports the current number of vertices and edges.
	SetGraphSize(vertices, edges int)
}

// Noop discards all metrics.
type Noop struct{}

func (Noop) RecordMutation(string, time.Duration, error) {}
func (Noop) RecordIngest(int, int, time.Duration)        {}
func (Noop) RecordReplay(int, time.Duration, error)      {}
func (Noop) SetGraphSize(int, int)                       {}

// Basic keeps simple in-memory counters.
type Basic struct {
	Mutations      atomic.Int64
	MutationErrors atomic.Int64
	MutationNanos  atomic.Int64
	IngestEvents   atomic.Int64
	IngestFailed   atomic.Int64
	Replayed       atomic.Int64
	Vertices       atomic.Int64
	Edges          atomic.Int64
}

// RecordMutation counts one mutation and its latency.
func (b *Basic) RecordMutation(_ string, duration time.Duration, err error) {
	b.Mutations.Add(1)
	b.MutationNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MutationErrors.Add(1)
	}
}

// RecordIngest adds to the ingested and failed event counts.
func (b *Basic) RecordIngest(count, failed int, _ time.Duration) {
	b.IngestEvents.Add(int64(count))
	b.IngestFailed.Add(int64(failed))
}

// RecordReplay adds the replayed record count.
func (b *Basic) RecordReplay(records int, _ time.Duration, _ error) {
	b.Replayed.Add(int64(records))
}

// SetGraphSize stores the latest vertex and edge counts.
func (b *Basic) SetGraphSize(vertices, edges int) {
	b.Vertices.Store(int64(vertices))
	b.Edges.Store(int64(edges))
}
