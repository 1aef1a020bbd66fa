package view

import (
	"iter"
	"math"
	"slices"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

// TimeDefaults derives the temporal queries of a concrete graph from its
// Primitives. Embed it and override what differs.
type TimeDefaults struct {
	p Primitives
}

// NewTimeDefaults binds the default semantics to p.
func NewTimeDefaults(p Primitives) TimeDefaults {
	return TimeDefaults{p: p}
}

// ViewStart is the earliest event of the graph.
func (d TimeDefaults) ViewStart() (int64, bool) {
	return d.p.EarliestTimeGlobal()
}

// ViewEnd is one past the latest event, saturating at math.MaxInt64.
func (d TimeDefaults) ViewEnd() (int64, bool) {
	t, ok := d.p.LatestTimeGlobal()
	if !ok {
		return 0, false
	}
	if t == math.MaxInt64 {
		return t, true
	}
	return t + 1, true
}

// ViewWindow is unrestricted.
func (d TimeDefaults) ViewWindow() tgraph.Window {
	return tgraph.All
}

// VertexEarliestTime is the first entry of the vertex index.
func (d TimeDefaults) VertexEarliestTime(v tgraph.VID) (int64, bool) {
	additions := d.p.VertexAdditions(v)
	defer additions.Release()
	return additions.FirstT()
}

// VertexLatestTime is the last entry of the vertex index.
func (d TimeDefaults) VertexLatestTime(v tgraph.VID) (int64, bool) {
	additions := d.p.VertexAdditions(v)
	defer additions.Release()
	return additions.LastT()
}

// VertexEarliestTimeWindow is the first entry of the vertex index in w.
func (d TimeDefaults) VertexEarliestTimeWindow(v tgraph.VID, w tgraph.Window) (int64, bool) {
	additions := d.p.VertexAdditions(v)
	defer additions.Release()
	return additions.Range(w.Start, w.End).FirstT()
}

// VertexLatestTimeWindow is the last entry of the vertex index in w.
func (d TimeDefaults) VertexLatestTimeWindow(v tgraph.VID, w tgraph.Window) (int64, bool) {
	additions := d.p.VertexAdditions(v)
	defer additions.Release()
	return additions.Range(w.Start, w.End).LastT()
}

// VertexHistory lists every timestamp of the vertex index.
func (d TimeDefaults) VertexHistory(v tgraph.VID) []int64 {
	additions := d.p.VertexAdditions(v)
	defer additions.Release()
	return timeindex.Times(additions)
}

// VertexHistoryWindow lists the timestamps of the vertex index in w.
func (d TimeDefaults) VertexHistoryWindow(v tgraph.VID, w tgraph.Window) []int64 {
	additions := d.p.VertexAdditions(v)
	defer additions.Release()
	return timeindex.Times(additions.Range(w.Start, w.End))
}

// occurrence is one (time, layer) addition of an edge.
type occurrence struct {
	entry timeindex.Entry
	layer int
}

func sortOccurrences(occ []occurrence) {
	slices.SortFunc(occ, func(a, b occurrence) int {
		switch {
		case a.entry.Less(b.entry):
			return -1
		case b.entry.Less(a.entry):
			return 1
		}
		return a.layer - b.layer
	})
}

func yieldOccurrences(e tgraph.EdgeRef, occ []occurrence) iter.Seq[tgraph.EdgeRef] {
	return func(yield func(tgraph.EdgeRef) bool) {
		for _, o := range occ {
			if !yield(e.AtTime(o.entry).AtLayer(o.layer)) {
				return
			}
		}
	}
}

func (d TimeDefaults) edgeStore(e tgraph.EdgeRef) *storage.EdgeStore {
	return d.p.Core().Edge(e.EID)
}

// windowOccurrences collects the additions of e in w, one per layer entry.
func (d TimeDefaults) windowOccurrences(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) []occurrence {
	var occ []occurrence
	for id, l := range d.edgeStore(e).Layers(e.Layers(layers)) {
		l.Additions().View(func(v *timeindex.LockedView) {
			for entry := range v.Range(w.Start, w.End).All() {
				occ = append(occ, occurrence{entry: entry, layer: id})
			}
		})
	}
	sortOccurrences(occ)
	return occ
}

// EdgeExploded yields one reference per (time, layer) addition.
func (d TimeDefaults) EdgeExploded(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return d.EdgeWindowExploded(e, tgraph.All, layers)
}

// EdgeWindowExploded yields one reference per (time, layer) addition in w,
// ordered by time then layer.
func (d TimeDefaults) EdgeWindowExploded(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return func(yield func(tgraph.EdgeRef) bool) {
		if t, ok := e.Time(); ok {
			if w.Contains(t) && d.edgeStore(e).HasLayer(e.Layers(layers)) {
				yield(e)
			}
			return
		}
		for ref := range yieldOccurrences(e, d.windowOccurrences(e, w, layers)) {
			if !yield(ref) {
				return
			}
		}
	}
}

// EdgeLayers yields one reference per selected layer the edge exists in.
func (d TimeDefaults) EdgeLayers(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return func(yield func(tgraph.EdgeRef) bool) {
		for id := range d.edgeStore(e).Layers(e.Layers(layers)) {
			if !yield(e.AtLayer(id)) {
				return
			}
		}
	}
}

// EdgeWindowLayers yields the selected layers with an addition in w.
func (d TimeDefaults) EdgeWindowLayers(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return func(yield func(tgraph.EdgeRef) bool) {
		t, timed := e.Time()
		for id, l := range d.edgeStore(e).Layers(e.Layers(layers)) {
			active := l.Additions().Active(w.Start, w.End)
			if timed {
				active = w.Contains(t)
			}
			if active && !yield(e.AtLayer(id)) {
				return
			}
		}
	}
}

// EdgeEarliestTime is the first addition in any selected layer.
func (d TimeDefaults) EdgeEarliestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool) {
	return d.EdgeEarliestTimeWindow(e, tgraph.All, layers)
}

// EdgeEarliestTimeWindow is the first addition in w in any selected layer.
func (d TimeDefaults) EdgeEarliestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool) {
	if t, ok := e.Time(); ok {
		return t, w.Contains(t)
	}
	return d.edgeStore(e).Additions(e.Layers(layers)).Window(w.Start, w.End).FirstT()
}

// EdgeLatestTime is the last addition in any selected layer.
func (d TimeDefaults) EdgeLatestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool) {
	return d.EdgeLatestTimeWindow(e, tgraph.All, layers)
}

// EdgeLatestTimeWindow is the last addition in w in any selected layer.
func (d TimeDefaults) EdgeLatestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool) {
	if t, ok := e.Time(); ok {
		return t, w.Contains(t)
	}
	return d.edgeStore(e).Additions(e.Layers(layers)).Window(w.Start, w.End).LastT()
}

// EdgeDeletionHistory lists every deletion in the selected layers, one
// entry per layer deletion.
func (d TimeDefaults) EdgeDeletionHistory(e tgraph.EdgeRef, layers tgraph.LayerIds) []int64 {
	return timeindex.Times(d.p.EdgeDeletions(e, layers))
}

// EdgeDeletionHistoryWindow lists the deletions in w.
func (d TimeDefaults) EdgeDeletionHistoryWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) []int64 {
	return timeindex.Times(d.p.EdgeDeletions(e, layers).Window(w.Start, w.End))
}

// TemporalPropVec is the full history of a graph property.
func (d TimeDefaults) TemporalPropVec(name string) []tgraph.TimedProp {
	return d.TemporalPropVecWindow(name, tgraph.All)
}

// TemporalPropVecWindow is the history of a graph property in w.
func (d TimeDefaults) TemporalPropVecWindow(name string, w tgraph.Window) []tgraph.TimedProp {
	core := d.p.Core()
	id, ok := core.GraphMeta().Get(name)
	if !ok {
		return nil
	}
	return propWindow(core.GraphProps(), id, w)
}

// TemporalVertexPropVec is the full history of a vertex property.
func (d TimeDefaults) TemporalVertexPropVec(v tgraph.VID, name string) []tgraph.TimedProp {
	return d.TemporalVertexPropVecWindow(v, name, tgraph.All)
}

// TemporalVertexPropVecWindow is the history of a vertex property in w.
func (d TimeDefaults) TemporalVertexPropVecWindow(v tgraph.VID, name string, w tgraph.Window) []tgraph.TimedProp {
	core := d.p.Core()
	id, ok := core.VertexMeta().Get(name)
	if !ok {
		return nil
	}
	return propWindow(core.Vertex(v).Props(), id, w)
}

// TemporalEdgePropVec is TemporalEdgePropVecWindow over all time.
func (d TimeDefaults) TemporalEdgePropVec(e tgraph.EdgeRef, name string, layers tgraph.LayerIds) []tgraph.TimedProp {
	return d.TemporalEdgePropVecWindow(e, name, tgraph.All, layers)
}

// TemporalEdgePropVecWindow merges the property history of every selected
// layer in append order. A time-exploded reference only sees values set at
// its own time.
func (d TimeDefaults) TemporalEdgePropVecWindow(e tgraph.EdgeRef, name string, w tgraph.Window, layers tgraph.LayerIds) []tgraph.TimedProp {
	core := d.p.Core()
	id, ok := core.EdgeMeta().Get(name)
	if !ok {
		return nil
	}
	lo, hi := timeindex.Start(w.Start), timeindex.End(math.MaxInt64)
	if t, ok := e.Time(); ok {
		if !w.IsAll() && !w.Contains(t) {
			return nil
		}
		lo, hi = timeindex.Start(t), timeindex.End(t)
	} else if !w.IsAll() {
		if w.Empty() {
			return nil
		}
		hi = timeindex.End(w.End - 1)
	}

	type layerProp struct {
		entry timeindex.Entry
		layer int
		value tgraph.Prop
	}
	var merged []layerProp
	for layer, l := range core.Edge(e.EID).Layers(e.Layers(layers)) {
		p, ok := l.Props().Temporal(id)
		if !ok {
			continue
		}
		p.Scan(lo, hi, func(entry timeindex.Entry, value tgraph.Prop) bool {
			merged = append(merged, layerProp{entry: entry, layer: layer, value: value})
			return true
		})
	}
	slices.SortFunc(merged, func(a, b layerProp) int {
		switch {
		case a.entry.Less(b.entry):
			return -1
		case b.entry.Less(a.entry):
			return 1
		}
		return a.layer - b.layer
	})
	if len(merged) == 0 {
		return nil
	}
	out := make([]tgraph.TimedProp, len(merged))
	for i, m := range merged {
		out[i] = tgraph.TimedProp{T: m.entry.T, Value: m.value}
	}
	return out
}

func propWindow(table *storage.PropTable, id int, w tgraph.Window) []tgraph.TimedProp {
	p, ok := table.Temporal(id)
	if !ok {
		return nil
	}
	if w.IsAll() {
		return p.History()
	}
	return p.Window(w.Start, w.End)
}
