package view

import (
	"iter"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

// Delegate forwards every Internal operation to the graph it wraps. A
// wrapper view embeds Delegate and defines only the methods it changes;
// Go's method promotion picks the wrapper's own definitions first.
type Delegate struct {
	base Internal
}

// NewDelegate wraps base.
func NewDelegate(base Internal) Delegate {
	return Delegate{base: base}
}

// Base returns the wrapped graph.
func (d Delegate) Base() Internal { return d.base }

// CoreGraphOps

// Core returns the store at the bottom of the stack.
func (d Delegate) Core() *storage.TemporalGraph { return d.base.Core() }

// VertexAdditions forwards to the wrapped graph.
func (d Delegate) VertexAdditions(v tgraph.VID) *timeindex.LockedView {
	return d.base.VertexAdditions(v)
}

// GraphOps

// LayerIDs forwards to the wrapped graph.
func (d Delegate) LayerIDs() tgraph.LayerIds { return d.base.LayerIDs() }

// EdgeFilter forwards to the wrapped graph.
func (d Delegate) EdgeFilter() EdgeFilter { return d.base.EdgeFilter() }

// VertexRefs forwards to the wrapped graph.
func (d Delegate) VertexRefs(layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.VID] {
	return d.base.VertexRefs(layers, filter)
}

// EdgeRefs forwards to the wrapped graph.
func (d Delegate) EdgeRefs(layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.EdgeRef] {
	return d.base.EdgeRefs(layers, filter)
}

// VertexEdgeRefs forwards to the wrapped graph.
func (d Delegate) VertexEdgeRefs(v tgraph.VID, dir tgraph.Direction, layers tgraph.LayerIds, filter EdgeFilter) iter.Seq[tgraph.EdgeRef] {
	return d.base.VertexEdgeRefs(v, dir, layers, filter)
}

// FindEdgeRef forwards to the wrapped graph.
func (d Delegate) FindEdgeRef(src, dst tgraph.VID, layers tgraph.LayerIds, filter EdgeFilter) (tgraph.EdgeRef, bool) {
	return d.base.FindEdgeRef(src, dst, layers, filter)
}

// HasVertexRef forwards to the wrapped graph.
func (d Delegate) HasVertexRef(v tgraph.VID, layers tgraph.LayerIds, filter EdgeFilter) bool {
	return d.base.HasVertexRef(v, layers, filter)
}

// VertexDegree forwards to the wrapped graph.
func (d Delegate) VertexDegree(v tgraph.VID, dir tgraph.Direction, layers tgraph.LayerIds, filter EdgeFilter) int {
	return d.base.VertexDegree(v, dir, layers, filter)
}

// VerticesLen forwards to the wrapped graph.
func (d Delegate) VerticesLen(layers tgraph.LayerIds, filter EdgeFilter) int {
	return d.base.VerticesLen(layers, filter)
}

// EdgesLen forwards to the wrapped graph.
func (d Delegate) EdgesLen(layers tgraph.LayerIds, filter EdgeFilter) int {
	return d.base.EdgesLen(layers, filter)
}

// CoreDeletionOps

// EdgeDeletions forwards to the wrapped graph.
func (d Delegate) EdgeDeletions(e tgraph.EdgeRef, layers tgraph.LayerIds) timeindex.Snapshot {
	return d.base.EdgeDeletions(e, layers)
}

// TimeSemantics

// ViewStart forwards to the wrapped graph.
func (d Delegate) ViewStart() (int64, bool) { return d.base.ViewStart() }

// ViewEnd forwards to the wrapped graph.
func (d Delegate) ViewEnd() (int64, bool) { return d.base.ViewEnd() }

// ViewWindow forwards to the wrapped graph.
func (d Delegate) ViewWindow() tgraph.Window { return d.base.ViewWindow() }

// EarliestTimeGlobal forwards to the wrapped graph.
func (d Delegate) EarliestTimeGlobal() (int64, bool) { return d.base.EarliestTimeGlobal() }

// LatestTimeGlobal forwards to the wrapped graph.
func (d Delegate) LatestTimeGlobal() (int64, bool) { return d.base.LatestTimeGlobal() }

// EarliestTimeWindow forwards to the wrapped graph.
func (d Delegate) EarliestTimeWindow(w tgraph.Window) (int64, bool) {
	return d.base.EarliestTimeWindow(w)
}

// LatestTimeWindow forwards to the wrapped graph.
func (d Delegate) LatestTimeWindow(w tgraph.Window) (int64, bool) {
	return d.base.LatestTimeWindow(w)
}

// VertexEarliestTime forwards to the wrapped graph.
func (d Delegate) VertexEarliestTime(v tgraph.VID) (int64, bool) {
	return d.base.VertexEarliestTime(v)
}

// VertexLatestTime forwards to the wrapped graph.
func (d Delegate) VertexLatestTime(v tgraph.VID) (int64, bool) {
	return d.base.VertexLatestTime(v)
}

// VertexEarliestTimeWindow forwards to the wrapped graph.
func (d Delegate) VertexEarliestTimeWindow(v tgraph.VID, w tgraph.Window) (int64, bool) {
	return d.base.VertexEarliestTimeWindow(v, w)
}

// VertexLatestTimeWindow forwards to the wrapped graph.
func (d Delegate) VertexLatestTimeWindow(v tgraph.VID, w tgraph.Window) (int64, bool) {
	return d.base.VertexLatestTimeWindow(v, w)
}

// IncludeVertexWindow forwards to the wrapped graph.
func (d Delegate) IncludeVertexWindow(v tgraph.VID, w tgraph.Window, layers tgraph.LayerIds, filter EdgeFilter) bool {
	return d.base.IncludeVertexWindow(v, w, layers, filter)
}

// IncludeEdgeWindow forwards to the wrapped graph.
func (d Delegate) IncludeEdgeWindow(e *storage.EdgeStore, w tgraph.Window, layers tgraph.LayerIds) bool {
	return d.base.IncludeEdgeWindow(e, w, layers)
}

// VertexHistory forwards to the wrapped graph.
func (d Delegate) VertexHistory(v tgraph.VID) []int64 {
	return d.base.VertexHistory(v)
}

// VertexHistoryWindow forwards to the wrapped graph.
func (d Delegate) VertexHistoryWindow(v tgraph.VID, w tgraph.Window) []int64 {
	return d.base.VertexHistoryWindow(v, w)
}

// EdgeExploded forwards to the wrapped graph.
func (d Delegate) EdgeExploded(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return d.base.EdgeExploded(e, layers)
}

// EdgeLayers forwards to the wrapped graph.
func (d Delegate) EdgeLayers(e tgraph.EdgeRef, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return d.base.EdgeLayers(e, layers)
}

// EdgeWindowExploded forwards to the wrapped graph.
func (d Delegate) EdgeWindowExploded(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return d.base.EdgeWindowExploded(e, w, layers)
}

// EdgeWindowLayers forwards to the wrapped graph.
func (d Delegate) EdgeWindowLayers(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) iter.Seq[tgraph.EdgeRef] {
	return d.base.EdgeWindowLayers(e, w, layers)
}

// EdgeEarliestTime forwards to the wrapped graph.
func (d Delegate) EdgeEarliestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool) {
	return d.base.EdgeEarliestTime(e, layers)
}

// EdgeEarliestTimeWindow forwards to the wrapped graph.
func (d Delegate) EdgeEarliestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool) {
	return d.base.EdgeEarliestTimeWindow(e, w, layers)
}

// EdgeLatestTime forwards to the wrapped graph.
func (d Delegate) EdgeLatestTime(e tgraph.EdgeRef, layers tgraph.LayerIds) (int64, bool) {
	return d.base.EdgeLatestTime(e, layers)
}

// EdgeLatestTimeWindow forwards to the wrapped graph.
func (d Delegate) EdgeLatestTimeWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) (int64, bool) {
	return d.base.EdgeLatestTimeWindow(e, w, layers)
}

// EdgeDeletionHistory forwards to the wrapped graph.
func (d Delegate) EdgeDeletionHistory(e tgraph.EdgeRef, layers tgraph.LayerIds) []int64 {
	return d.base.EdgeDeletionHistory(e, layers)
}

// EdgeDeletionHistoryWindow forwards to the wrapped graph.
func (d Delegate) EdgeDeletionHistoryWindow(e tgraph.EdgeRef, w tgraph.Window, layers tgraph.LayerIds) []int64 {
	return d.base.EdgeDeletionHistoryWindow(e, w, layers)
}

// TemporalPropVec forwards to the wrapped graph.
func (d Delegate) TemporalPropVec(name string) []tgraph.TimedProp {
	return d.base.TemporalPropVec(name)
}

// TemporalPropVecWindow forwards to the wrapped graph.
func (d Delegate) TemporalPropVecWindow(name string, w tgraph.Window) []tgraph.TimedProp {
	return d.base.TemporalPropVecWindow(name, w)
}

// TemporalVertexPropVec forwards to the wrapped graph.
func (d Delegate) TemporalVertexPropVec(v tgraph.VID, name string) []tgraph.TimedProp {
	return d.base.TemporalVertexPropVec(v, name)
}

// TemporalVertexPropVecWindow forwards to the wrapped graph.
func (d Delegate) TemporalVertexPropVecWindow(v tgraph.VID, name string, w tgraph.Window) []tgraph.TimedProp {
	return d.base.TemporalVertexPropVecWindow(v, name, w)
}

// TemporalEdgePropVec forwards to the wrapped graph.
func (d Delegate) TemporalEdgePropVec(e tgraph.EdgeRef, name string, layers tgraph.LayerIds) []tgraph.TimedProp {
	return d.base.TemporalEdgePropVec(e, name, layers)
}

// TemporalEdgePropVecWindow forwards to the wrapped graph.
func (d Delegate) TemporalEdgePropVecWindow(e tgraph.EdgeRef, name string, w tgraph.Window, layers tgraph.LayerIds) []tgraph.TimedProp {
	return d.base.TemporalEdgePropVecWindow(e, name, w, layers)
}
