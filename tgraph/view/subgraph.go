package view

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
)

// VertexSubgraph restricts its base to a vertex set. Edges are visible only
// when both endpoints are members.
type VertexSubgraph struct {
	Delegate
	members *roaring64.Bitmap // read-only after construction
}

// NewVertexSubgraph restricts base to vertices.
func NewVertexSubgraph(base Internal, vertices []tgraph.VID) *VertexSubgraph {
	members := roaring64.New()
	for _, v := range vertices {
		members.Add(uint64(v))
	}
	members.RunOptimize()
	return &VertexSubgraph{Delegate: NewDelegate(base), members: members}
}

func (g *VertexSubgraph) contains(v tgraph.VID) bool {
	return g.members.Contains(uint64(v))
}

// EdgeFilter hides edges with an endpoint outside the subgraph.
func (g *VertexSubgraph) EdgeFilter() EdgeFilter {
	return g.base.EdgeFilter().And(func(e *storage.EdgeStore, _ tgraph.LayerIds) bool {
		return g.contains(e.Src()) && g.contains(e.Dst())
	})
}

// VertexRefs yields the members visible in the base.
func (g *VertexSubgraph) VertexRefs(layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.VID] {
	return func(yield func(tgraph.VID) bool) {
		it := g.members.Iterator()
		for it.HasNext() {
			v := tgraph.VID(it.Next())
			if g.base.HasVertexRef(v, layers, filter) && !yield(v) {
				return
			}
		}
	}
}

// HasVertexRef reports whether v is a member visible in the base.
func (g *VertexSubgraph) HasVertexRef(v tgraph.VID, layers tgraph.LayerIds, filter EdgeFilter) bool {
	return g.contains(v) && g.base.HasVertexRef(v, layers, filter)
}

// VerticesLen counts VertexRefs.
func (g *VertexSubgraph) VerticesLen(layers tgraph.LayerIds, filter EdgeFilter) int {
	n := 0
	for range g.VertexRefs(layers, filter) {
		n++
	}
	return n
}
