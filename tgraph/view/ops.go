// Package view implements composable, zero-copy graph views. Every view
// implements Internal; wrappers embed Delegate to forward to the graph they
// wrap and override only the operations whose meaning they change.
package view

import (
	"iter"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

// EdgeFilter decides whether an edge record is visible for a layer
// selection. A nil EdgeFilter accepts every edge.
type EdgeFilter func(e *storage.EdgeStore, layers tgraph.LayerIds) bool

// And combines two filters; either may be nil.
func (f EdgeFilter) And(other EdgeFilter) EdgeFilter {
	switch {
	case f == nil:
		return other
	case other == nil:
		return f
	}
	return func(e *storage.EdgeStore, layers tgraph.LayerIds) bool {
		return f(e, layers) && other(e, layers)
	}
}

func (f EdgeFilter) accepts(e *storage.EdgeStore, layers tgraph.LayerIds) bool {
	return e.HasLayer(layers) && (f == nil || f(e, layers))
}

// CoreGraphOps gives raw access to the store a view ultimately reads.
type CoreGraphOps interface {
	Core() *storage.TemporalGraph
	// VertexAdditions returns a read-locked view of a vertex's time index.
	// The caller must Release it.
	VertexAdditions(v tgraph.VID) *timeindex.LockedView
}

// GraphOps answers structural questions. Layers and filter always come from
// the outermost view so that stacked restrictions compose.
type GraphOps interface {
	LayerIDs() tgraph.LayerIds
	EdgeFilter() EdgeFilter

	VertexRefs(layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.VID]
	EdgeRefs(layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.EdgeRef]
	VertexEdgeRefs(v tgraph.VID, dir tgraph.Direction, layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.EdgeRef]
	FindEdgeRef(src, dst tgraph.VID, layers tgraph.LayerIds, filter EdgeFilter) (tgraph.EdgeRef, bool)
	HasVertexRef(v tgraph.VID, layers tgraph.LayerIds, filter EdgeFilter) bool
	VertexDegree(v tgraph.VID, dir tgraph.Direction, layers tgraph.LayerIds, filter EdgeFilter) int
	VerticesLen(layers tgraph.LayerIds, filter EdgeFilter) int
	EdgesLen(layers tgraph.LayerIds, filter EdgeFilter) int
}

// CoreDeletionOps exposes raw deletion history. It is never window
// restricted: deletion semantics need history outside the visible range.
type CoreDeletionOps interface {
	EdgeDeletions(e tgraph.EdgeRef, layers tgraph.LayerIds) timeindex.Snapshot
}

// TimeSemantics answers temporal questions about a view. Window parameters
// are half-open.
type TimeSemantics interface {
	ViewStart() (int64, bool)
	ViewEnd() (int64, bool)
	ViewWindow() tgraph.Window

	EarliestTimeGlobal() (int64, bool)
	LatestTimeGlobal() (int64, bool)
	EarliestTimeWindow(w tgraph.Window) (int64, bool)
	LatestTimeWindow(w tgraph.Window) (int64, bool)

	VertexEarliestTime(v tgraph.VID) (int64, bool)
	VertexLatestTime(v tgraph.VID) (int64, bool)
	VertexEarliestTimeWindow(v tgraph.VID, w tgraph.Window) (int64, bool)
	VertexLatestTimeWindow(v tgraph.VID, w tgraph.Window) (int64, bool)
	IncludeVertexWindow(v tgraph.VID, w tgraph.Window, layers tgraph.LayerIds, filter EdgeFilter) bool
	IncludeEdgeWindow(e *storage.EdgeStore, w tgraph.Window, layers tgraph.LayerIds) bool
	VertexHistory(v tgraph.VID) []int64
	VertexHistoryWindow(v tgraph.VID, w tgraph.Window) []int64

	EdgeExploded(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef]
	EdgeLayers(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef]
	EdgeWindowExploded(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef]
	EdgeWindowLayers(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef]
	EdgeEarliestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool)
	EdgeEarliestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool)
	EdgeLatestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool)
	EdgeLatestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool)
	EdgeDeletionHistory(e tgraph.EdgeRef, layers tgraph.LayerIds) []int64
	EdgeDeletionHistoryWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) []int64

	TemporalPropVec(name string) []tgraph.TimedProp
	TemporalPropVecWindow(name string, w tgraph.Window) []tgraph.TimedProp
	TemporalVertexPropVec(v tgraph.VID, name string) []tgraph.TimedProp
	TemporalVertexPropVecWindow(v tgraph.VID, name string, w tgraph.Window) []tgraph.TimedProp
	TemporalEdgePropVec(e tgraph.EdgeRef, name string, layers tgraph.LayerIds) []tgraph.TimedProp
	TemporalEdgePropVecWindow(e tgraph.EdgeRef, name string, w tgraph.Window, layers tgraph.LayerIds) []tgraph.TimedProp
}

// Internal is everything a view must provide.
type Internal interface {
	CoreGraphOps
	GraphOps
	CoreDeletionOps
	TimeSemantics
}

// Primitives is the minimum a concrete graph supplies for TimeDefaults to
// derive the rest of TimeSemantics.
type Primitives interface {
	CoreGraphOps
	CoreDeletionOps
	EarliestTimeGlobal() (int64, bool)
	LatestTimeGlobal() (int64, bool)
}
