package view

import (
	"fmt"
	"iter"
	"sort"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
)

// View is the query surface over any stack of view wrappers. Restricting
// methods return a new View and never modify the receiver.
type View struct {
	g Internal
}

// New exposes g as a View.
func New(g Internal) View {
	return View{g: g}
}

// Internal returns the outermost graph of the view stack.
func (v View) Internal() Internal { return v.g }

// Window restricts the view to [start, end).
func (v View) Window(start, end int64) View {
	return View{g: NewWindowedGraph(v.g, tgraph.NewWindow(start, end))}
}

// At is the view of everything up to and including t.
func (v View) At(t int64) View {
	end := t
	if end < tgraph.All.End {
		end++
	}
	return v.Window(tgraph.All.Start, end)
}

// Layers restricts the view to the named layers. The empty name is the
// default layer.
func (v View) Layers(names ...string) (View, error) {
	core := v.g.Core()
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, ok := core.FindLayer(name)
		if !ok {
			return View{}, fmt.Errorf("%w: %q", tgraph.ErrInvalidLayer, name)
		}
		ids = append(ids, id)
	}
	layers := tgraph.LayerSet(ids...)
	if layers.Equal(v.g.LayerIDs()) {
		return v, nil
	}
	return View{g: NewLayeredGraph(v.g, layers)}, nil
}

// Layer restricts the view to one layer.
func (v View) Layer(name string) (View, error) {
	return v.Layers(name)
}

// Subgraph restricts the view to the given vertices. Ids that do not
// resolve to a vertex of the graph are ignored.
func (v View) Subgraph(ids ...any) (View, error) {
	core := v.g.Core()
	vids := make([]tgraph.VID, 0, len(ids))
	for _, id := range ids {
		key, err := tgraph.ResolveVertex(id)
		if err != nil {
			return View{}, err
		}
		if vid, ok := core.FindVertex(key.ID); ok {
			vids = append(vids, vid)
		}
	}
	return View{g: NewVertexSubgraph(v.g, vids)}, nil
}

func (v View) layers() tgraph.LayerIds { return v.g.LayerIDs() }
func (v View) filter() EdgeFilter      { return v.g.EdgeFilter() }

// LayerNames lists the layers visible in the view.
func (v View) LayerNames() []string {
	core := v.g.Core()
	var names []string
	for id := range v.layers().Iter(core.NumLayers()) {
		if name, ok := core.Layers().Name(id); ok {
			names = append(names, name)
		}
	}
	return names
}

// Vertices yields the visible vertices in VID order.
func (v View) Vertices() iter.Seq[VertexView] {
	return func(yield func(VertexView) bool) {
		for vid := range v.g.VertexRefs(v.layers(), v.filter()) {
			if !yield(VertexView{g: v.g, vid: vid}) {
				return
			}
		}
	}
}

// Edges yields the visible edges in EID order.
func (v View) Edges() iter.Seq[EdgeView] {
	return func(yield func(EdgeView) bool) {
		for ref := range v.g.EdgeRefs(v.layers(), v.filter()) {
			if !yield(EdgeView{g: v.g, ref: ref}) {
				return
			}
		}
	}
}

// ExplodedEdges yields one EdgeView per edge occurrence in the view.
func (v View) ExplodedEdges() iter.Seq[EdgeView] {
	return func(yield func(EdgeView) bool) {
		for e := range v.Edges() {
			for x := range e.Explode() {
				if !yield(x) {
					return
				}
			}
		}
	}
}

func (v View) resolve(id any) (tgraph.VID, bool) {
	key, err := tgraph.ResolveVertex(id)
	if err != nil {
		return 0, false
	}
	return v.g.Core().FindVertex(key.ID)
}

// Vertex looks up a vertex by logical id.
func (v View) Vertex(id any) (VertexView, bool) {
	vid, ok := v.resolve(id)
	if !ok || !v.g.HasVertexRef(vid, v.layers(), v.filter()) {
		return VertexView{}, false
	}
	return VertexView{g: v.g, vid: vid}, true
}

// Edge looks up the edge from src to dst.
func (v View) Edge(src, dst any) (EdgeView, bool) {
	s, ok := v.resolve(src)
	if !ok {
		return EdgeView{}, false
	}
	d, ok := v.resolve(dst)
	if !ok {
		return EdgeView{}, false
	}
	ref, ok := v.g.FindEdgeRef(s, d, v.layers(), v.filter())
	if !ok {
		return EdgeView{}, false
	}
	return EdgeView{g: v.g, ref: ref}, true
}

// HasVertex reports whether the vertex with logical id is visible.
func (v View) HasVertex(id any) bool {
	_, ok := v.Vertex(id)
	return ok
}

// HasEdge reports whether the edge src->dst is visible.
func (v View) HasEdge(src, dst any) bool {
	_, ok := v.Edge(src, dst)
	return ok
}

// NumVertices counts the visible vertices.
func (v View) NumVertices() int { return v.g.VerticesLen(v.layers(), v.filter()) }

// NumEdges counts the visible edges.
func (v View) NumEdges() int { return v.g.EdgesLen(v.layers(), v.filter()) }

// EarliestTime is the time of the first event visible in the view.
func (v View) EarliestTime() (int64, bool) { return v.g.EarliestTimeGlobal() }

// LatestTime is the time of the last event visible in the view.
func (v View) LatestTime() (int64, bool) { return v.g.LatestTimeGlobal() }

// Start is the inclusive lower bound of the view.
func (v View) Start() (int64, bool) { return v.g.ViewStart() }

// End is the exclusive upper bound of the view.
func (v View) End() (int64, bool) { return v.g.ViewEnd() }

// TemporalProperty returns the visible history of a graph property.
func (v View) TemporalProperty(name string) []tgraph.TimedProp {
	return v.g.TemporalPropVec(name)
}

// StaticProperty returns a static graph property.
func (v View) StaticProperty(name string) (tgraph.Prop, bool) {
	core := v.g.Core()
	id, ok := core.GraphMeta().Get(name)
	if !ok {
		return nil, false
	}
	return core.GraphProps().Static(id)
}

// Property returns the latest visible temporal value of name, falling back
// to the static value.
func (v View) Property(name string) (tgraph.Prop, bool) {
	if history := v.TemporalProperty(name); len(history) > 0 {
		return history[len(history)-1].Value, true
	}
	return v.StaticProperty(name)
}

// PropertyNames lists the graph property names with a static value or a
// visible history.
func (v View) PropertyNames() []string {
	core := v.g.Core()
	return propertyNames(core.GraphMeta(), core.GraphProps(), func(name string) bool {
		return len(v.TemporalProperty(name)) > 0
	})
}

func propertyNames(meta *tgraph.DictMapper, table *storage.PropTable, visible func(string) bool) []string {
	seen := make(map[string]struct{})
	for _, id := range table.StaticIDs() {
		if name, ok := meta.Name(id); ok {
			seen[name] = struct{}{}
		}
	}
	for _, id := range table.TemporalIDs() {
		if name, ok := meta.Name(id); ok && visible(name) {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
