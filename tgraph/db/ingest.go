package db

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
)

// Event is one mutation in a bulk load. Which fields are read depends on
// Op: vertex ops use Src, edge ops use Src, Dst and Layer, graph ops use
// neither. Static ops ignore Time. A non-empty Format parses Time, which
// must then be a string, with that layout.
type Event struct {
	Op     storage.Op
	Time   any
	Format string
	Src    any
	Dst    any
	Layer  string
	Props  tgraph.Props
}

// Apply applies a single event.
func (g *Graph) Apply(ev Event) error {
	switch ev.Op {
	case storage.OpAddVertex, storage.OpAddVertexProperties:
		return g.vertexOp(ev.Op, ev.Time, ev.Format, ev.Src, ev.Props)
	case storage.OpAddVertexStaticProperties:
		return g.vertexOp(ev.Op, int64(0), "", ev.Src, ev.Props)
	case storage.OpAddEdge, storage.OpDeleteEdge, storage.OpAddEdgeProperties:
		return g.edgeOp(ev.Op, ev.Time, ev.Format, ev.Src, ev.Dst, ev.Props, ev.Layer)
	case storage.OpAddEdgeStaticProperties:
		return g.edgeOp(ev.Op, int64(0), "", ev.Src, ev.Dst, ev.Props, ev.Layer)
	case storage.OpAddProperties:
		return g.graphOp(ev.Op, ev.Time, ev.Format, ev.Props)
	case storage.OpAddStaticProperties:
		return g.graphOp(ev.Op, int64(0), "", ev.Props)
	}
	return fmt.Errorf("unknown mutation %s", ev.Op)
}

// Ingest applies events using up to workers goroutines (GOMAXPROCS when
// workers < 1). The resulting graph is the same as applying the events one
// by one, in any order. Events that fail do not stop the others; their
// errors are joined into the returned error. Cancelling ctx stops
// ingestion between events.
//
// Property events that depend on an edge or vertex created in the same
// batch may race with it; ingest those in a later batch.
func (g *Graph) Ingest(ctx context.Context, events []Event, workers int) error {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()

	var (
		mu     sync.Mutex
		errs   []error
		failed int
	)
	if g.notes.Enabled() {
		g.notes.Add(annotations.Event{
			Name:  annotations.IngestBegin,
			Start: start,
			Data:  map[string]interface{}{"events": len(events), "workers": workers},
		})
	}
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, ev := range events {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := g.Apply(ev); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("event %d: %w", i, err))
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		errs = append(errs, err)
	} else if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	err := errors.Join(errs...)

	g.metrics.RecordIngest(len(events), failed, time.Since(start))
	g.logger.LogIngest(ctx, len(events), failed, err)
	if g.notes.Enabled() {
		g.notes.AddTiming(annotations.IngestComplete, start, map[string]interface{}{
			"events": len(events),
			"failed": failed,
		})
	}
	return err
}
