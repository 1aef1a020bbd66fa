package view

import (
	"iter"
	"slices"

	"github.com/wbrown/janus-tgraph/tgraph"
)

// EdgeView is an edge seen through a view. It may be pinned to one layer
// or one occurrence by Explode and ExplodeLayers.
type EdgeView struct {
	g   Internal
	ref tgraph.EdgeRef
}

// Ref is the underlying reference, possibly exploded.
func (e EdgeView) Ref() tgraph.EdgeRef { return e.ref }

// EID is the internal handle of the edge.
func (e EdgeView) EID() tgraph.EID { return e.ref.EID }

// Src is the source vertex, seen through the same view.
func (e EdgeView) Src() VertexView { return VertexView{g: e.g, vid: e.ref.Src} }

// Dst is the destination vertex, seen through the same view.
func (e EdgeView) Dst() VertexView { return VertexView{g: e.g, vid: e.ref.Dst} }

func (e EdgeView) String() string {
	return e.Src().Name() + "->" + e.Dst().Name()
}

// Time is the occurrence time of an exploded edge.
func (e EdgeView) Time() (int64, bool) { return e.ref.Time() }

// Layer is the layer name of a layer-pinned edge.
func (e EdgeView) Layer() (string, bool) {
	id, ok := e.ref.Layer()
	if !ok {
		return "", false
	}
	return e.g.Core().Layers().Name(id)
}

func (e EdgeView) layers() tgraph.LayerIds { return e.g.LayerIDs() }

// Window restricts the edge to [start, end).
func (e EdgeView) Window(start, end int64) EdgeView {
	return EdgeView{g: NewWindowedGraph(e.g, tgraph.NewWindow(start, end)), ref: e.ref}
}

func (e EdgeView) wrap(seq iter.Seq[tgraph.EdgeRef]) iter.Seq[EdgeView] {
	return func(yield func(EdgeView) bool) {
		for ref := range seq {
			if !yield(EdgeView{g: e.g, ref: ref}) {
				return
			}
		}
	}
}

// Explode yields one edge per occurrence in time order.
func (e EdgeView) Explode() iter.Seq[EdgeView] {
	return e.wrap(e.g.EdgeExploded(e.ref, e.layers()))
}

// ExplodeLayers yields one edge per visible layer.
func (e EdgeView) ExplodeLayers() iter.Seq[EdgeView] {
	return e.wrap(e.g.EdgeLayers(e.ref, e.layers()))
}

// LayerNames lists the visible layers of the edge.
func (e EdgeView) LayerNames() []string {
	var names []string
	for x := range e.ExplodeLayers() {
		if name, ok := x.Layer(); ok {
			names = append(names, name)
		}
	}
	return names
}

// EarliestTime is the first visible event of the edge.
func (e EdgeView) EarliestTime() (int64, bool) { return e.g.EdgeEarliestTime(e.ref, e.layers()) }

// LatestTime is the last visible event of the edge.
func (e EdgeView) LatestTime() (int64, bool) { return e.g.EdgeLatestTime(e.ref, e.layers()) }

// IsActive reports whether the edge has any occurrence in the view.
func (e EdgeView) IsActive() bool {
	for range e.Explode() {
		return true
	}
	return false
}

// History lists the distinct occurrence times of the edge.
func (e EdgeView) History() []int64 {
	var out []int64
	for x := range e.Explode() {
		t, _ := x.Time()
		out = append(out, t)
	}
	return slices.Compact(out)
}

// DeletionHistory lists the deletions in the visible layers, one entry per
// layer deletion.
func (e EdgeView) DeletionHistory() []int64 {
	return e.g.EdgeDeletionHistory(e.ref, e.layers())
}

// TemporalProperty merges the visible history of an edge property across
// layers.
func (e EdgeView) TemporalProperty(name string) []tgraph.TimedProp {
	return e.g.TemporalEdgePropVec(e.ref, name, e.layers())
}

// StaticProperty returns the value from the lowest visible layer that has
// one.
func (e EdgeView) StaticProperty(name string) (tgraph.Prop, bool) {
	core := e.g.Core()
	id, ok := core.EdgeMeta().Get(name)
	if !ok {
		return nil, false
	}
	for _, l := range core.Edge(e.ref.EID).Layers(e.ref.Layers(e.layers())) {
		if value, ok := l.Props().Static(id); ok {
			return value, true
		}
	}
	return nil, false
}

// Property returns the latest visible temporal value, falling back to the
// static value.
func (e EdgeView) Property(name string) (tgraph.Prop, bool) {
	if history := e.TemporalProperty(name); len(history) > 0 {
		return history[len(history)-1].Value, true
	}
	return e.StaticProperty(name)
}

// PropertyNames lists the property names set in any visible layer, sorted.
func (e EdgeView) PropertyNames() []string {
	core := e.g.Core()
	seen := make(map[string]struct{})
	for _, l := range core.Edge(e.ref.EID).Layers(e.ref.Layers(e.layers())) {
		for _, name := range propertyNames(core.EdgeMeta(), l.Props(), func(name string) bool {
			return len(e.TemporalProperty(name)) > 0
		}) {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
