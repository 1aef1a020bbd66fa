package view

import "github.com/wbrown/janus-tgraph/tgraph"

// LayeredGraph restricts its base to a layer selection. It changes only
// layer resolution; every other operation is inherited.
type LayeredGraph struct {
	Delegate
	layers tgraph.LayerIds
}

// NewLayeredGraph restricts base to layers.
func NewLayeredGraph(base Internal, layers tgraph.LayerIds) *LayeredGraph {
	return &LayeredGraph{Delegate: NewDelegate(base), layers: layers}
}

// LayerIDs intersects the selected layers with those of the base.
func (g *LayeredGraph) LayerIDs() tgraph.LayerIds {
	return g.base.LayerIDs().Constrain(g.layers)
}
