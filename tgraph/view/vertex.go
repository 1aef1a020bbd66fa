package view

import (
	"iter"

	"github.com/wbrown/janus-tgraph/tgraph"
)

// VertexView is a vertex seen through a view. Every query is answered with
// the restrictions of the view it was obtained from.
type VertexView struct {
	g   Internal
	vid tgraph.VID
}

// VID is the internal handle of the vertex.
func (v VertexView) VID() tgraph.VID { return v.vid }

// ID is the logical id the vertex was added with.
func (v VertexView) ID() uint64 { return v.g.Core().Vertex(v.vid).ID() }

// Name is the vertex name, or its decimal id for integer ids.
func (v VertexView) Name() string { return v.g.Core().Vertex(v.vid).Name() }

func (v VertexView) String() string { return v.Name() }

// Graph returns the view the vertex belongs to.
func (v VertexView) Graph() View { return View{g: v.g} }

// Window restricts the vertex to [start, end). The result may have no
// history at all.
func (v VertexView) Window(start, end int64) VertexView {
	return VertexView{g: NewWindowedGraph(v.g, tgraph.NewWindow(start, end)), vid: v.vid}
}

// EarliestTime is the first visible event of the vertex.
func (v VertexView) EarliestTime() (int64, bool) { return v.g.VertexEarliestTime(v.vid) }

// LatestTime is the last visible event of the vertex.
func (v VertexView) LatestTime() (int64, bool) { return v.g.VertexLatestTime(v.vid) }

// History lists the distinct times the vertex was touched.
func (v VertexView) History() []int64 { return v.g.VertexHistory(v.vid) }

func (v VertexView) degree(dir tgraph.Direction) int {
	return v.g.VertexDegree(v.vid, dir, v.g.LayerIDs(), v.g.EdgeFilter())
}

// Degree counts distinct neighbours in either direction.
func (v VertexView) Degree() int { return v.degree(tgraph.Both) }

// InDegree counts distinct visible in-neighbours.
func (v VertexView) InDegree() int { return v.degree(tgraph.In) }

// OutDegree counts distinct visible out-neighbours.
func (v VertexView) OutDegree() int { return v.degree(tgraph.Out) }

func (v VertexView) edges(dir tgraph.Direction) iter.Seq[EdgeView] {
	return func(yield func(EdgeView) bool) {
		for ref := range v.g.VertexEdgeRefs(v.vid, dir, v.g.LayerIDs(), v.g.EdgeFilter()) {
			if !yield(EdgeView{g: v.g, ref: ref}) {
				return
			}
		}
	}
}

// Edges yields the visible incident edges, out-edges first.
func (v VertexView) Edges() iter.Seq[EdgeView] { return v.edges(tgraph.Both) }

// InEdges yields the visible edges ending at the vertex.
func (v VertexView) InEdges() iter.Seq[EdgeView] { return v.edges(tgraph.In) }

// OutEdges yields the visible edges starting at the vertex.
func (v VertexView) OutEdges() iter.Seq[EdgeView] { return v.edges(tgraph.Out) }

// neighbours yields each visible neighbour once.
func (v VertexView) neighbours(dir tgraph.Direction) iter.Seq[VertexView] {
	return func(yield func(VertexView) bool) {
		seen := make(map[tgraph.VID]struct{})
		for e := range v.edges(dir) {
			nbr := e.ref.Dst
			if nbr == v.vid {
				nbr = e.ref.Src
			}
			if _, ok := seen[nbr]; ok {
				continue
			}
			seen[nbr] = struct{}{}
			if !yield(VertexView{g: v.g, vid: nbr}) {
				return
			}
		}
	}
}

// Neighbours yields each visible neighbour once.
func (v VertexView) Neighbours() iter.Seq[VertexView] { return v.neighbours(tgraph.Both) }

// InNeighbours yields the sources of visible in-edges.
func (v VertexView) InNeighbours() iter.Seq[VertexView] { return v.neighbours(tgraph.In) }

// OutNeighbours yields the destinations of visible out-edges.
func (v VertexView) OutNeighbours() iter.Seq[VertexView] { return v.neighbours(tgraph.Out) }

// TemporalProperty is the visible history of a vertex property.
func (v VertexView) TemporalProperty(name string) []tgraph.TimedProp {
	return v.g.TemporalVertexPropVec(v.vid, name)
}

// StaticProperty returns a static vertex property.
func (v VertexView) StaticProperty(name string) (tgraph.Prop, bool) {
	core := v.g.Core()
	id, ok := core.VertexMeta().Get(name)
	if !ok {
		return nil, false
	}
	return core.Vertex(v.vid).Props().Static(id)
}

// Property returns the latest visible temporal value, falling back to the
// static value.
func (v VertexView) Property(name string) (tgraph.Prop, bool) {
	if history := v.TemporalProperty(name); len(history) > 0 {
		return history[len(history)-1].Value, true
	}
	return v.StaticProperty(name)
}

// PropertyNames lists the static properties and the temporal properties
// with visible history, sorted.
func (v VertexView) PropertyNames() []string {
	core := v.g.Core()
	return propertyNames(core.VertexMeta(), core.Vertex(v.vid).Props(), func(name string) bool {
		return len(v.TemporalProperty(name)) > 0
	})
}
