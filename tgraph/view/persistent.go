package view

import (
	"iter"
	"math"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

// GraphWithDeletions gives its base persistent semantics: an edge stays
// alive from each addition until the next deletion in the same layer.
//
// Rules:
//   - at equal timestamps a deletion applies after an addition, so an edge
//     added and deleted at t is dead from t;
//   - an edge whose first event is a deletion was alive since the start of
//     time;
//   - an edge is alive at the start of a window when it is alive after
//     every event at or before the start.
type GraphWithDeletions struct {
	Delegate
}

// NewGraphWithDeletions wraps base, which should be unwindowed.
func NewGraphWithDeletions(base Internal) *GraphWithDeletions {
	return &GraphWithDeletions{Delegate: NewDelegate(base)}
}

// aliveAt reports whether the edge layer is alive once every event at or
// before t has applied.
func aliveAt(l *storage.EdgeLayer, t int64) bool {
	if t == math.MaxInt64 {
		return aliveAtEnd(l)
	}
	return aliveBefore(l, t+1)
}

// aliveBefore reports whether the edge layer is alive just before t.
func aliveBefore(l *storage.EdgeLayer, t int64) bool {
	adds := l.Additions().Locked()
	defer adds.Release()
	dels := l.Deletions().Locked()
	defer dels.Release()

	lastAdd, addOK := adds.Range(math.MinInt64, t).LastT()
	lastDel, delOK := dels.Range(math.MinInt64, t).LastT()
	switch {
	case addOK && delOK:
		return lastAdd > lastDel
	case addOK:
		return true
	case delOK:
		return false
	}

	firstAdd, addOK := adds.FirstT()
	firstDel, delOK := dels.FirstT()
	return delOK && (!addOK || firstDel < firstAdd)
}

// aliveAtEnd reports whether the layer is alive after every event.
func aliveAtEnd(l *storage.EdgeLayer) bool {
	lastAdd, addOK := l.Additions().LastT()
	lastDel, delOK := l.Deletions().LastT()
	switch {
	case addOK && delOK:
		return lastAdd > lastDel
	case delOK:
		return false
	}
	return addOK
}

func (g *GraphWithDeletions) edgeStore(e tgraph.EdgeRef) *storage.EdgeStore {
	return g.Core().Edge(e.EID)
}

func includeLayer(l *storage.EdgeLayer, w tgraph.Window) bool {
	if w.Empty() {
		return false
	}
	return l.Additions().Active(w.Start, w.End) || aliveAt(l, w.Start)
}

// IncludeEdgeWindow keeps edges alive at some point of w in a selected layer.
func (g *GraphWithDeletions) IncludeEdgeWindow(e *storage.EdgeStore, w tgraph.Window, layers tgraph.LayerIds) bool {
	for _, l := range e.Layers(layers) {
		if includeLayer(l, w) {
			return true
		}
	}
	return false
}

// IncludeVertexWindow also keeps vertices whose incident edge is alive at
// the window start.
func (g *GraphWithDeletions) IncludeVertexWindow(v tgraph.VID, w tgraph.Window, layers tgraph.LayerIds, filter EdgeFilter) bool {
	if g.base.IncludeVertexWindow(v, w, layers, filter) {
		return true
	}
	if w.Empty() {
		return false
	}
	core := g.Core()
	for ref := range g.base.VertexEdgeRefs(v, tgraph.Both, layers, filter) {
		for _, l := range core.Edge(ref.EID).Layers(layers) {
			if aliveAt(l, w.Start) {
				return true
			}
		}
	}
	return false
}

// EdgeExploded is EdgeWindowExploded over all time, so an edge whose first
// event is a deletion yields an occurrence at math.MinInt64.
func (g *GraphWithDeletions) EdgeExploded(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return g.EdgeWindowExploded(e, tgraph.All, layers)
}

// EdgeLayers yields every layer the edge is alive in at some point.
func (g *GraphWithDeletions) EdgeLayers(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return g.EdgeWindowLayers(e, tgraph.All, layers)
}

// EdgeWindowExploded yields an occurrence at w.Start for every layer alive
// at the start, then every addition in the window.
func (g *GraphWithDeletions) EdgeWindowExploded(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return func(yield func(tgraph.EdgeRef) bool) {
		if t, ok := e.Time(); ok {
			if w.Contains(t) && g.edgeStore(e).HasLayer(e.Layers(layers)) {
				yield(e)
			}
			return
		}
		if w.Empty() {
			return
		}
		var occ []occurrence
		for id, l := range g.edgeStore(e).Layers(e.Layers(layers)) {
			adds := l.Additions().Snapshot().Window(w.Start, w.End)
			startsWithAddition := len(adds) > 0 && adds[0].T == w.Start
			if !startsWithAddition && aliveAt(l, w.Start) {
				occ = append(occ, occurrence{entry: timeindex.Start(w.Start), layer: id})
			}
			for _, entry := range adds {
				occ = append(occ, occurrence{entry: entry, layer: id})
			}
		}
		sortOccurrences(occ)
		for ref := range yieldOccurrences(e, occ) {
			if !yield(ref) {
				return
			}
		}
	}
}

// EdgeWindowLayers yields the selected layers alive at some point of w.
func (g *GraphWithDeletions) EdgeWindowLayers(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return func(yield func(tgraph.EdgeRef) bool) {
		t, timed := e.Time()
		for id, l := range g.edgeStore(e).Layers(e.Layers(layers)) {
			include := includeLayer(l, w)
			if timed {
				include = w.Contains(t)
			}
			if include && !yield(e.AtLayer(id)) {
				return
			}
		}
	}
}

// EdgeEarliestTimeWindow is w.Start while the edge is alive at the start,
// otherwise its first addition in w.
func (g *GraphWithDeletions) EdgeEarliestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool) {
	if t, ok := e.Time(); ok {
		return t, w.Contains(t)
	}
	if w.Empty() {
		return 0, false
	}
	best, found := int64(math.MaxInt64), false
	for _, l := range g.edgeStore(e).Layers(e.Layers(layers)) {
		t, ok := w.Start, true
		if !aliveAt(l, w.Start) {
			t, ok = l.Additions().Snapshot().Window(w.Start, w.End).FirstT()
		}
		if ok && t <= best {
			best, found = t, true
		}
	}
	return best, found
}

// EdgeLatestTimeWindow is w.End-1 while the edge is still alive at the end
// of the window, otherwise its last addition or deletion in the window.
func (g *GraphWithDeletions) EdgeLatestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool) {
	if t, ok := e.Time(); ok {
		return t, w.Contains(t)
	}
	if w.Empty() {
		return 0, false
	}
	best, found := int64(math.MinInt64), false
	for _, l := range g.edgeStore(e).Layers(e.Layers(layers)) {
		t, ok := w.End-1, true
		if w.End == math.MaxInt64 || !aliveBefore(l, w.End) {
			events := timeindex.Merge(l.Additions().Snapshot(), l.Deletions().Snapshot())
			t, ok = events.Window(w.Start, w.End).LastT()
		}
		if ok && t >= best {
			best, found = t, true
		}
	}
	return best, found
}

// EdgeEarliestTime is the first event of any kind, deletions included.
func (g *GraphWithDeletions) EdgeEarliestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool) {
	if t, ok := e.Time(); ok {
		return t, true
	}
	best, found := int64(math.MaxInt64), false
	for _, l := range g.edgeStore(e).Layers(e.Layers(layers)) {
		for _, idx := range []*timeindex.TimeIndex{l.Additions(), l.Deletions()} {
			if t, ok := idx.FirstT(); ok && t <= best {
				best, found = t, true
			}
		}
	}
	return best, found
}

// EdgeLatestTime is the last event of any kind.
func (g *GraphWithDeletions) EdgeLatestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool) {
	if t, ok := e.Time(); ok {
		return t, true
	}
	best, found := int64(math.MinInt64), false
	for _, l := range g.edgeStore(e).Layers(e.Layers(layers)) {
		for _, idx := range []*timeindex.TimeIndex{l.Additions(), l.Deletions()} {
			if t, ok := idx.LastT(); ok && t >= best {
				best, found = t, true
			}
		}
	}
	return best, found
}
