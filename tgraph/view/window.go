package view

import (
	"iter"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
)

// WindowedGraph restricts its base to the half-open window w. Every
// temporal query is answered by the base's windowed variant over w
// intersected with the caller's window.
type WindowedGraph struct {
	Delegate
	w tgraph.Window
}

// NewWindowedGraph restricts base to w, intersected with any window base
// already has.
func NewWindowedGraph(base Internal, w tgraph.Window) *WindowedGraph {
	return &WindowedGraph{Delegate: NewDelegate(base), w: w.Intersect(base.ViewWindow())}
}

func (g *WindowedGraph) window(w tgraph.Window) tgraph.Window {
	return g.w.Intersect(w)
}

// ViewStart is the window start.
func (g *WindowedGraph) ViewStart() (int64, bool) { return g.w.Start, true }

// ViewEnd is the window end.
func (g *WindowedGraph) ViewEnd() (int64, bool) { return g.w.End, true }

// ViewWindow is the window.
func (g *WindowedGraph) ViewWindow() tgraph.Window { return g.w }

// EdgeFilter adds window inclusion to the base filter.
func (g *WindowedGraph) EdgeFilter() EdgeFilter {
	base := g.base
	w := g.w
	return g.base.EdgeFilter().And(func(e *storage.EdgeStore, layers tgraph.LayerIds) bool {
		return base.IncludeEdgeWindow(e, w, layers)
	})
}

// VertexRefs keeps the base vertices included in the window.
func (g *WindowedGraph) VertexRefs(layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.VID] {
	return func(yield func(tgraph.VID) bool) {
		for v := range g.base.VertexRefs(layers, filter) {
			if g.base.IncludeVertexWindow(v, g.w, layers, filter) && !yield(v) {
				return
			}
		}
	}
}

// HasVertexRef reports whether v is in the base and included in the window.
func (g *WindowedGraph) HasVertexRef(v tgraph.VID, layers tgraph.LayerIds, filter EdgeFilter) bool {
	return g.base.HasVertexRef(v, layers, filter) && g.base.IncludeVertexWindow(v, g.w, layers, filter)
}

// VerticesLen counts VertexRefs.
func (g *WindowedGraph) VerticesLen(layers tgraph.LayerIds, filter EdgeFilter) int {
	n := 0
	for range g.VertexRefs(layers, filter) {
		n++
	}
	return n
}

// EarliestTimeGlobal is the earliest event in the window.
func (g *WindowedGraph) EarliestTimeGlobal() (int64, bool) {
	return g.base.EarliestTimeWindow(g.w)
}

// LatestTimeGlobal is the latest event in the window.
func (g *WindowedGraph) LatestTimeGlobal() (int64, bool) {
	return g.base.LatestTimeWindow(g.w)
}

// EarliestTimeWindow intersects w with the view window.
func (g *WindowedGraph) EarliestTimeWindow(w tgraph.Window) (int64, bool) {
	return g.base.EarliestTimeWindow(g.window(w))
}

// LatestTimeWindow intersects w with the view window.
func (g *WindowedGraph) LatestTimeWindow(w tgraph.Window) (int64, bool) {
	return g.base.LatestTimeWindow(g.window(w))
}

// VertexEarliestTime answers the windowed query of the base over the view window.
func (g *WindowedGraph) VertexEarliestTime(v tgraph.VID) (int64, bool) {
	return g.base.VertexEarliestTimeWindow(v, g.w)
}

// VertexLatestTime answers the windowed query of the base over the view window.
func (g *WindowedGraph) VertexLatestTime(v tgraph.VID) (int64, bool) {
	return g.base.VertexLatestTimeWindow(v, g.w)
}

// VertexEarliestTimeWindow intersects w with the view window.
func (g *WindowedGraph) VertexEarliestTimeWindow(v tgraph.VID, w tgraph.Window) (int64, bool) {
	return g.base.VertexEarliestTimeWindow(v, g.window(w))
}

// VertexLatestTimeWindow intersects w with the view window.
func (g *WindowedGraph) VertexLatestTimeWindow(v tgraph.VID, w tgraph.Window) (int64, bool) {
	return g.base.VertexLatestTimeWindow(v, g.window(w))
}

// IncludeVertexWindow intersects w with the view window.
func (g *WindowedGraph) IncludeVertexWindow(v tgraph.VID, w tgraph.Window, layers tgraph.LayerIds, filter EdgeFilter) bool {
	return g.base.IncludeVertexWindow(v, g.window(w), layers, filter)
}

// IncludeEdgeWindow intersects w with the view window.
func (g *WindowedGraph) IncludeEdgeWindow(e *storage.EdgeStore, w tgraph.Window, layers tgraph.LayerIds) bool {
	return g.base.IncludeEdgeWindow(e, g.window(w), layers)
}

// VertexHistory answers the windowed query of the base over the view window.
func (g *WindowedGraph) VertexHistory(v tgraph.VID) []int64 {
	return g.base.VertexHistoryWindow(v, g.w)
}

// VertexHistoryWindow intersects w with the view window.
func (g *WindowedGraph) VertexHistoryWindow(v tgraph.VID, w tgraph.Window) []int64 {
	return g.base.VertexHistoryWindow(v, g.window(w))
}

// EdgeExploded answers the windowed query of the base over the view window.
func (g *WindowedGraph) EdgeExploded(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return g.base.EdgeWindowExploded(e, g.w, layers)
}

// EdgeLayers answers the windowed query of the base over the view window.
func (g *WindowedGraph) EdgeLayers(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return g.base.EdgeWindowLayers(e, g.w, layers)
}

// EdgeWindowExploded answers the windowed query of the base over the view window.
func (g *WindowedGraph) EdgeWindowExploded(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return g.base.EdgeWindowExploded(e, g.window(w), layers)
}

// EdgeWindowLayers answers the windowed query of the base over the view window.
func (g *WindowedGraph) EdgeWindowLayers(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return g.base.EdgeWindowLayers(e, g.window(w), layers)
}

// EdgeEarliestTime answers the windowed query of the base over the view window.
func (g *WindowedGraph) EdgeEarliestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool) {
	return g.base.EdgeEarliestTimeWindow(e, g.w, layers)
}

// EdgeEarliestTimeWindow intersects w with the view window.
func (g *WindowedGraph) EdgeEarliestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool) {
	return g.base.EdgeEarliestTimeWindow(e, g.window(w), layers)
}

// EdgeLatestTime answers the windowed query of the base over the view window.
func (g *WindowedGraph) EdgeLatestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool) {
	return g.base.EdgeLatestTimeWindow(e, g.w, layers)
}

// EdgeLatestTimeWindow intersects w with the view window.
func (g *WindowedGraph) EdgeLatestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool) {
	return g.base.EdgeLatestTimeWindow(e, g.window(w), layers)
}

// EdgeDeletionHistory keeps only the deletions in the window.
func (g *WindowedGraph) EdgeDeletionHistory(e tgraph.EdgeRef, layers tgraph.LayerIds) []int64 {
	return g.base.EdgeDeletionHistoryWindow(e, g.w, layers)
}

// EdgeDeletionHistoryWindow intersects w with the view window.
func (g *WindowedGraph) EdgeDeletionHistoryWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) []int64 {
	return g.base.EdgeDeletionHistoryWindow(e, g.window(w), layers)
}

// TemporalPropVec answers the windowed query of the base over the view window.
func (g *WindowedGraph) TemporalPropVec(name string) []tgraph.TimedProp {
	return g.base.TemporalPropVecWindow(name, g.w)
}

// TemporalPropVecWindow intersects w with the view window.
func (g *WindowedGraph) TemporalPropVecWindow(name string, w tgraph.Window) []tgraph.TimedProp {
	return g.base.TemporalPropVecWindow(name, g.window(w))
}

// TemporalVertexPropVec answers the windowed query of the base over the view window.
func (g *WindowedGraph) TemporalVertexPropVec(v tgraph.VID, name string) []tgraph.TimedProp {
	return g.base.TemporalVertexPropVecWindow(v, name, g.w)
}

// TemporalVertexPropVecWindow intersects w with the view window.
func (g *WindowedGraph) TemporalVertexPropVecWindow(v tgraph.VID, name string, w tgraph.Window) []tgraph.TimedProp {
	return g.base.TemporalVertexPropVecWindow(v, name, g.window(w))
}

// TemporalEdgePropVec answers the windowed query of the base over the view window.
func (g *WindowedGraph) TemporalEdgePropVec(e tgraph.EdgeRef, name string, layers tgraph.LayerIds) []tgraph.TimedProp {
	return g.base.TemporalEdgePropVecWindow(e, name, g.w, layers)
}

// TemporalEdgePropVecWindow intersects w with the view window.
func (g *WindowedGraph) TemporalEdgePropVecWindow(e tgraph.EdgeRef, name string, w tgraph.Window, layers tgraph.LayerIds) []tgraph.TimedProp {
	return g.base.TemporalEdgePropVecWindow(e, name, g.window(w), layers)
}
