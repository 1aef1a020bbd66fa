// Package storage is the in-memory core graph store: vertex and edge
// records, their time indices and property tables, plus the mutation
// journal used to persist and replay a graph.
package storage

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

type edgeKey struct {
	src, dst tgraph.VID
}

// TemporalGraph owns every vertex, edge, layer and property of a graph.
// Structural growth (new records) is serialized by one lock; per-entity
// histories carry their own locks, so writers to different entities do not
// block each other.
type TemporalGraph struct {
	mu       sync.RWMutex
	vertices []*VertexStore
	logical  map[uint64]tgraph.VID
	edges    []*EdgeStore
	edgeIdx  map[edgeKey]tgraph.EID

	layers     *tgraph.DictMapper
	vertexMeta *tgraph.DictMapper
	edgeMeta   *tgraph.DictMapper
	graphMeta  *tgraph.DictMapper
	graphProps *PropTable

	seq      atomic.Uint64
	earliest atomic.Int64
	latest   atomic.Int64
	events   atomic.Bool
}

// NewTemporalGraph creates an empty store with only the default layer.
func NewTemporalGraph() *TemporalGraph {
	g := &TemporalGraph{
		logical:    make(map[uint64]tgraph.VID),
		edgeIdx:    make(map[edgeKey]tgraph.EID),
		layers:     tgraph.NewDictMapper(tgraph.DefaultLayer),
		vertexMeta: tgraph.NewDictMapper(),
		edgeMeta:   tgraph.NewDictMapper(),
		graphMeta:  tgraph.NewDictMapper(),
		graphProps: newPropTable(),
	}
	g.earliest.Store(math.MaxInt64)
	g.latest.Store(math.MinInt64)
	return g
}

// NextEntry stamps t with the next append sequence number.
func (g *TemporalGraph) NextEntry(t int64) timeindex.Entry {
	return timeindex.Entry{T: t, Seq: g.seq.Add(1)}
}

func (g *TemporalGraph) observe(t int64) {
	for {
		cur := g.earliest.Load()
		if t >= cur || g.earliest.CompareAndSwap(cur, t) {
			break
		}
	}
	for {
		cur := g.latest.Load()
		if t <= cur || g.latest.CompareAndSwap(cur, t) {
			break
		}
	}
	g.events.Store(true)
}

// EarliestTime returns the smallest timestamp of any event.
func (g *TemporalGraph) EarliestTime() (int64, bool) {
	if !g.events.Load() {
		return 0, false
	}
	return g.earliest.Load(), true
}

// LatestTime returns the largest timestamp of any event.
func (g *TemporalGraph) LatestTime() (int64, bool) {
	if !g.events.Load() {
		return 0, false
	}
	return g.latest.Load(), true
}

// Accessors for the interning dictionaries and graph-level properties.
func (g *TemporalGraph) Layers() *tgraph.DictMapper     { return g.layers }
func (g *TemporalGraph) VertexMeta() *tgraph.DictMapper { return g.vertexMeta }
func (g *TemporalGraph) EdgeMeta() *tgraph.DictMapper   { return g.edgeMeta }
func (g *TemporalGraph) GraphMeta() *tgraph.DictMapper  { return g.graphMeta }
func (g *TemporalGraph) GraphProps() *PropTable         { return g.graphProps }

// ResolveLayer interns a layer name; the empty name is the default layer.
func (g *TemporalGraph) ResolveLayer(name string) int {
	if name == "" {
		return tgraph.DefaultLayerID
	}
	return g.layers.GetOrCreate(name)
}

// FindLayer looks up an existing layer; the empty name is the default layer.
func (g *TemporalGraph) FindLayer(name string) (int, bool) {
	if name == "" {
		return tgraph.DefaultLayerID, true
	}
	return g.layers.Get(name)
}

// NumLayers returns the number of layers ever created.
func (g *TemporalGraph) NumLayers() int {
	return g.layers.Len()
}

// NumVertices returns the number of vertex records.
func (g *TemporalGraph) NumVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// NumEdges returns the number of edge records (ordered vertex pairs).
func (g *TemporalGraph) NumEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Vertex returns the record for v. v must come from this store.
func (g *TemporalGraph) Vertex(v tgraph.VID) *VertexStore {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertices[v]
}

// Edge returns the record for e. e must come from this store.
func (g *TemporalGraph) Edge(e tgraph.EID) *EdgeStore {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[e]
}

// FindVertex maps a logical id to its VID.
func (g *TemporalGraph) FindVertex(id uint64) (tgraph.VID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.logical[id]
	return v, ok
}

// FindEdge returns the edge from src to dst.
func (g *TemporalGraph) FindEdge(src, dst tgraph.VID) (tgraph.EID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edgeIdx[edgeKey{src, dst}]
	return e, ok
}

// ResolveVertex returns the VID for key, creating the record on first use.
// Concurrent callers with the same key get the same VID.
func (g *TemporalGraph) ResolveVertex(key tgraph.VertexKey) (tgraph.VID, bool) {
	if v, ok := g.FindVertex(key.ID); ok {
		return v, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.logical[key.ID]; ok {
		return v, false
	}
	v := tgraph.VID(len(g.vertices))
	g.vertices = append(g.vertices, newVertexStore(v, key))
	g.logical[key.ID] = v
	return v, true
}

// ResolveEdge returns the edge from src to dst, creating it on first use.
func (g *TemporalGraph) ResolveEdge(src, dst tgraph.VID) (*EdgeStore, bool) {
	if e, ok := g.FindEdge(src, dst); ok {
		return g.Edge(e), false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.edgeIdx[edgeKey{src, dst}]; ok {
		return g.edges[e], false
	}
	eid := tgraph.EID(len(g.edges))
	es := newEdgeStore(eid, src, dst)
	g.edges = append(g.edges, es)
	g.edgeIdx[edgeKey{src, dst}] = eid
	g.vertices[src].addEdge(dst, eid, tgraph.Out)
	g.vertices[dst].addEdge(src, eid, tgraph.In)
	return es, true
}

// EdgeStores returns every edge record in EID order.
func (g *TemporalGraph) EdgeStores() []*EdgeStore {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*EdgeStore, len(g.edges))
	copy(out, g.edges)
	return out
}

// AddVertex records an addition of key at t and appends props to its
// temporal properties. Property ids must already be interned in VertexMeta.
func (g *TemporalGraph) AddVertex(t int64, key tgraph.VertexKey, props map[int]tgraph.Prop) tgraph.VID {
	v, _ := g.ResolveVertex(key)
	vs := g.Vertex(v)
	entry := g.NextEntry(t)
	vs.additions.Insert(entry)
	for id, value := range props {
		vs.props.AddTemporal(id, entry, value)
	}
	g.observe(t)
	return v
}

// AddEdge records an addition of the edge src->dst in layer at t, creating
// both endpoints and the edge as needed.
func (g *TemporalGraph) AddEdge(t int64, src, dst tgraph.VertexKey, props map[int]tgraph.Prop, layer int) *EdgeStore {
	es, entry := g.touchEdge(t, src, dst)
	l := es.LayerOrCreate(layer)
	l.additions.Insert(entry)
	for id, value := range props {
		l.props.AddTemporal(id, entry, value)
	}
	return es
}

// DeleteEdge records a deletion of the edge src->dst in layer at t. The edge
// and its endpoints are created if they did not exist.
func (g *TemporalGraph) DeleteEdge(t int64, src, dst tgraph.VertexKey, layer int) *EdgeStore {
	es, entry := g.touchEdge(t, src, dst)
	es.LayerOrCreate(layer).deletions.Insert(entry)
	return es
}

func (g *TemporalGraph) touchEdge(t int64, src, dst tgraph.VertexKey) (*EdgeStore, timeindex.Entry) {
	sv, _ := g.ResolveVertex(src)
	dv, _ := g.ResolveVertex(dst)
	entry := g.NextEntry(t)
	g.Vertex(sv).additions.Insert(entry)
	g.Vertex(dv).additions.Insert(entry)
	es, _ := g.ResolveEdge(sv, dv)
	g.observe(t)
	return es, entry
}

// AddVertexProperties appends temporal properties to an existing vertex.
func (g *TemporalGraph) AddVertexProperties(t int64, v tgraph.VID, props map[int]tgraph.Prop) {
	entry := g.NextEntry(t)
	vs := g.Vertex(v)
	for id, value := range props {
		vs.props.AddTemporal(id, entry, value)
	}
}

// AddEdgeProperties appends temporal properties to an existing edge layer.
func (g *TemporalGraph) AddEdgeProperties(t int64, l *EdgeLayer, props map[int]tgraph.Prop) {
	entry := g.NextEntry(t)
	for id, value := range props {
		l.props.AddTemporal(id, entry, value)
	}
}

// AddGraphProperties appends temporal properties to the graph itself.
func (g *TemporalGraph) AddGraphProperties(t int64, props map[int]tgraph.Prop) {
	entry := g.NextEntry(t)
	for id, value := range props {
		g.graphProps.AddTemporal(id, entry, value)
	}
}
