// Package db is the concrete temporal graph: it owns a store, applies
// validated mutations to it, journals them, and serves queries through
// the view package.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/metrics"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
	"github.com/wbrown/janus-tgraph/tgraph/view"
)

// MetaGraphID is the journal metadata key holding the graph id.
const MetaGraphID = "graph_id"

// Graph is a temporal multigraph. Its embedded View is the unrestricted
// event view; Window, Layers and Subgraph derive restricted views from it.
// All methods are safe for concurrent use.
type Graph struct {
	view.View

	store   *storage.TemporalGraph
	events  *view.EventGraph
	id      uuid.UUID
	logger  *Logger
	metrics metrics.Collector
	notes   *annotations.Collector
	journal storage.Journal

	// commitMu keeps journal order equal to apply order.
	commitMu sync.Mutex
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	return newGraph(storage.NewTemporalGraph(), uuid.New(), applyOptions(opts))
}

func newGraph(store *storage.TemporalGraph, id uuid.UUID, o options) *Graph {
	events := view.NewEventGraph(store)
	return &Graph{
		View:    view.New(events),
		store:   store,
		events:  events,
		id:      id,
		logger:  o.logger.WithGraph(id),
		metrics: o.metrics,
		notes:   annotations.NewCollector(o.handler),
		journal: o.journal,
	}
}

// Open rebuilds a graph from j and keeps appending to it. An empty
// journal starts a new graph whose id is recorded in the journal.
func Open(ctx context.Context, j storage.Journal, opts ...Option) (*Graph, error) {
	g, err := Replay(ctx, j, opts...)
	if err != nil {
		return nil, err
	}
	if _, ok, err := j.Meta(MetaGraphID); err != nil {
		return nil, err
	} else if !ok {
		if err := j.SetMeta(MetaGraphID, g.id.String()); err != nil {
			return nil, err
		}
	}
	g.journal = j
	return g, nil
}

// Replay rebuilds a graph from the records of j without attaching it.
func Replay(ctx context.Context, j storage.Journal, opts ...Option) (*Graph, error) {
	o := applyOptions(opts)
	o.journal = nil

	id := uuid.New()
	stored, ok, err := j.Meta(MetaGraphID)
	if err != nil {
		return nil, err
	}
	if ok {
		if id, err = uuid.Parse(stored); err != nil {
			return nil, fmt.Errorf("journal %s: %w", MetaGraphID, err)
		}
	}
	g := newGraph(storage.NewTemporalGraph(), id, o)

	start := time.Now()
	records := 0
	err = j.Replay(func(rec storage.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.validate(rec); err != nil {
			return fmt.Errorf("record %d (%s): %w", records, rec.Op, err)
		}
		g.apply(rec)
		records++
		return nil
	})
	g.metrics.RecordReplay(records, time.Since(start), err)
	g.logger.LogReplay(ctx, records, err)
	if g.notes.Enabled() {
		g.notes.AddTiming(annotations.ReplayComplete, start, map[string]interface{}{
			"records":     records,
			"journal_len": j.Len(),
		})
	}
	if err != nil {
		return nil, err
	}
	g.metrics.SetGraphSize(g.store.NumVertices(), g.store.NumEdges())
	return g, nil
}

// ID identifies the graph; it survives journal replay.
func (g *Graph) ID() uuid.UUID { return g.id }

// Store returns the underlying store.
func (g *Graph) Store() *storage.TemporalGraph { return g.store }

// Persistent views the graph with deletion-aware semantics: edges stay
// alive between an addition and the next deletion.
func (g *Graph) Persistent() view.View {
	return view.New(view.NewGraphWithDeletions(g.events))
}

// Annotate records a timed event for the graph's annotation handler, if
// one is configured.
func (g *Graph) Annotate(name string, start time.Time, data map[string]interface{}) {
	g.notes.AddTiming(name, start, data)
}

// Close closes the attached journal, if any.
func (g *Graph) Close() error {
	if g.journal == nil {
		return nil
	}
	return g.journal.Close()
}

// Materialize copies what is visible in v into a new graph. Options apply
// to the new graph; an attached journal only records later mutations.
func Materialize(v view.View, opts ...Option) *Graph {
	start := time.Now()
	g := newGraph(view.Materialize(v), uuid.New(), applyOptions(opts))
	if g.notes.Enabled() {
		g.notes.AddTiming(annotations.ViewMaterialized, start, map[string]interface{}{
			"window":   v.Internal().ViewWindow().String(),
			"layers":   v.LayerNames(),
			"vertices": g.NumVertices(),
			"edges":    g.NumEdges(),
		})
	}
	return g
}
