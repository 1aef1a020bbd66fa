package view

import (
	"iter"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

// EventGraph is the concrete, unrestricted view of a store: an edge exists
// at the instants it was added. Vertices are layer agnostic.
type EventGraph struct {
	TimeDefaults
	store *storage.TemporalGraph
}

// NewEventGraph views store with event semantics.
func NewEventGraph(store *storage.TemporalGraph) *EventGraph {
	g := &EventGraph{store: store}
	g.TimeDefaults = NewTimeDefaults(g)
	return g
}

// Core returns the viewed store.
func (g *EventGraph) Core() *storage.TemporalGraph { return g.store }

// VertexAdditions read-locks the vertex index, which holds the vertex's own
// additions and every incident edge event.
func (g *EventGraph) VertexAdditions(v tgraph.VID) *timeindex.LockedView {
	return g.store.Vertex(v).Additions().Locked()
}

// EdgeDeletions merges the deletion indices of the selected layers.
func (g *EventGraph) EdgeDeletions(e tgraph.EdgeRef, layers tgraph.LayerIds) timeindex.Snapshot {
	return g.store.Edge(e.EID).Deletions(e.Layers(layers))
}

// LayerIDs selects every layer.
func (g *EventGraph) LayerIDs() tgraph.LayerIds { return tgraph.LayerAll() }

// EdgeFilter is nil: every edge is visible.
func (g *EventGraph) EdgeFilter() EdgeFilter { return nil }

// VertexRefs yields every vertex in VID order.
func (g *EventGraph) VertexRefs(tgraph.LayerIds, EdgeFilter) iter.Seq[tgraph.VID] {
	return func(yield func(tgraph.VID) bool) {
		n := g.store.NumVertices()
		for v := 0; v < n; v++ {
			if !yield(tgraph.VID(v)) {
				return
			}
		}
	}
}

// EdgeRefs yields the edges accepted by filter in EID order.
func (g *EventGraph) EdgeRefs(layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.EdgeRef] {
	return func(yield func(tgraph.EdgeRef) bool) {
		for _, e := range g.store.EdgeStores() {
			if filter.accepts(e, layers) && !yield(e.Ref()) {
				return
			}
		}
	}
}

// VertexEdgeRefs yields out-edges then in-edges; for Both a self-loop is
// yielded once.
func (g *EventGraph) VertexEdgeRefs(v tgraph.VID, dir tgraph.Direction, layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.EdgeRef] {
	return func(yield func(tgraph.EdgeRef) bool) {
		for _, a := range g.store.Vertex(v).Adjacency(dir) {
			if dir == tgraph.Both && a.Dir == tgraph.In && a.Nbr == v {
				continue
			}
			e := g.store.Edge(a.EID)
			if filter.accepts(e, layers) && !yield(e.Ref()) {
				return
			}
		}
	}
}

// FindEdgeRef looks up the edge src->dst.
func (g *EventGraph) FindEdgeRef(src, dst tgraph.VID, layers tgraph.LayerIds, filter EdgeFilter) (tgraph.EdgeRef, bool) {
	eid, ok := g.store.FindEdge(src, dst)
	if !ok {
		return tgraph.EdgeRef{}, false
	}
	e := g.store.Edge(eid)
	if !filter.accepts(e, layers) {
		return tgraph.EdgeRef{}, false
	}
	return e.Ref(), true
}

// HasVertexRef reports whether v is a vertex of the store.
func (g *EventGraph) HasVertexRef(v tgraph.VID, _ tgraph.LayerIds, _ EdgeFilter) bool {
	return int(v) < g.store.NumVertices()
}

// VertexDegree counts distinct neighbours over visible edges.
func (g *EventGraph) VertexDegree(v tgraph.VID, dir tgraph.Direction, layers tgraph.LayerIds, filter EdgeFilter) int {
	seen := make(map[tgraph.VID]struct{})
	for e := range g.VertexEdgeRefs(v, dir, layers, filter) {
		nbr := e.Dst
		if nbr == v {
			nbr = e.Src
		}
		seen[nbr] = struct{}{}
	}
	return len(seen)
}

// VerticesLen counts every vertex.
func (g *EventGraph) VerticesLen(tgraph.LayerIds, EdgeFilter) int {
	return g.store.NumVertices()
}

// EdgesLen counts the edges accepted by filter.
func (g *EventGraph) EdgesLen(layers tgraph.LayerIds, filter EdgeFilter) int {
	n := 0
	for range g.EdgeRefs(layers, filter) {
		n++
	}
	return n
}

// EarliestTimeGlobal is the first event in the store.
func (g *EventGraph) EarliestTimeGlobal() (int64, bool) { return g.store.EarliestTime() }

// LatestTimeGlobal is the last event in the store.
func (g *EventGraph) LatestTimeGlobal() (int64, bool) { return g.store.LatestTime() }

// EarliestTimeWindow scans every vertex; vertex indices hold all edge
// events, so no edge needs visiting.
func (g *EventGraph) EarliestTimeWindow(w tgraph.Window) (int64, bool) {
	best, found := int64(0), false
	for v := range g.VertexRefs(tgraph.LayerAll(), nil) {
		if t, ok := g.VertexEarliestTimeWindow(v, w); ok && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}

// LatestTimeWindow is the mirror of EarliestTimeWindow.
func (g *EventGraph) LatestTimeWindow(w tgraph.Window) (int64, bool) {
	best, found := int64(0), false
	for v := range g.VertexRefs(tgraph.LayerAll(), nil) {
		if t, ok := g.VertexLatestTimeWindow(v, w); ok && (!found || t > best) {
			best, found = t, true
		}
	}
	return best, found
}

// IncludeVertexWindow keeps vertices with any event in w.
func (g *EventGraph) IncludeVertexWindow(v tgraph.VID, w tgraph.Window, _ tgraph.LayerIds, _ EdgeFilter) bool {
	return g.store.Vertex(v).Additions().Active(w.Start, w.End)
}

// IncludeEdgeWindow keeps edges with an addition in w in one of layers.
func (g *EventGraph) IncludeEdgeWindow(e *storage.EdgeStore, w tgraph.Window, layers tgraph.LayerIds) bool {
	return e.ActiveAdditions(layers, w.Start, w.End)
}
