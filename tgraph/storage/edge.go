package storage

import (
	"iter"
	"sync"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

// EdgeLayer is the history of one edge in one layer.
type EdgeLayer struct {
	additions *timeindex.TimeIndex
	deletions *timeindex.TimeIndex
	props     *PropTable
}

func newEdgeLayer() *EdgeLayer {
	return &EdgeLayer{
		additions: timeindex.New(),
		deletions: timeindex.New(),
		props:     newPropTable(),
	}
}

// Accessors for the layer indexes and property table.
func (l *EdgeLayer) Additions() *timeindex.TimeIndex { return l.additions }
func (l *EdgeLayer) Deletions() *timeindex.TimeIndex { return l.deletions }
func (l *EdgeLayer) Props() *PropTable               { return l.props }

// EdgeStore is the record of every edge between one ordered vertex pair.
// Layers are indexed by layer id and created on first use.
type EdgeStore struct {
	eid tgraph.EID
	src tgraph.VID
	dst tgraph.VID

	mu     sync.RWMutex
	layers []*EdgeLayer
}

func newEdgeStore(eid tgraph.EID, src, dst tgraph.VID) *EdgeStore {
	return &EdgeStore{eid: eid, src: src, dst: dst}
}

// Accessors for the immutable identity of the edge.
func (e *EdgeStore) EID() tgraph.EID { return e.eid }
func (e *EdgeStore) Src() tgraph.VID { return e.src }
func (e *EdgeStore) Dst() tgraph.VID { return e.dst }

// Ref returns a plain reference to the edge.
func (e *EdgeStore) Ref() tgraph.EdgeRef {
	return tgraph.NewEdgeRef(e.eid, e.src, e.dst)
}

// Layer returns the history of the edge in layer id.
func (e *EdgeStore) Layer(id int) (*EdgeLayer, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if id < 0 || id >= len(e.layers) || e.layers[id] == nil {
		return nil, false
	}
	return e.layers[id], true
}

// LayerOrCreate returns the history in layer id, creating it if absent.
func (e *EdgeStore) LayerOrCreate(id int) *EdgeLayer {
	if l, ok := e.Layer(id); ok {
		return l
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.layers) <= id {
		e.layers = append(e.layers, nil)
	}
	if e.layers[id] == nil {
		e.layers[id] = newEdgeLayer()
	}
	return e.layers[id]
}

// HasLayer reports whether the edge exists in any of layers.
func (e *EdgeStore) HasLayer(layers tgraph.LayerIds) bool {
	if layers.IsNone() {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	for id, l := range e.layers {
		if l != nil && layers.Contains(id) {
			return true
		}
	}
	return false
}

// Layers iterates the edge's layers selected by layers, in id order.
func (e *EdgeStore) Layers(layers tgraph.LayerIds) iter.Seq2[int, *EdgeLayer] {
	return func(yield func(int, *EdgeLayer) bool) {
		if layers.IsNone() {
			return
		}
		e.mu.RLock()
		selected := make([]int, 0, len(e.layers))
		for id, l := range e.layers {
			if l != nil && layers.Contains(id) {
				selected = append(selected, id)
			}
		}
		snapshot := e.layers
		e.mu.RUnlock()

		for _, id := range selected {
			if !yield(id, snapshot[id]) {
				return
			}
		}
	}
}

// Additions merges the addition indices of the selected layers.
func (e *EdgeStore) Additions(layers tgraph.LayerIds) timeindex.Snapshot {
	var snaps []timeindex.Snapshot
	for _, l := range e.Layers(layers) {
		snaps = append(snaps, l.additions.Snapshot())
	}
	return timeindex.Merge(snaps...)
}

// Deletions merges the deletion indices of the selected layers.
func (e *EdgeStore) Deletions(layers tgraph.LayerIds) timeindex.Snapshot {
	var snaps []timeindex.Snapshot
	for _, l := range e.Layers(layers) {
		snaps = append(snaps, l.deletions.Snapshot())
	}
	return timeindex.Merge(snaps...)
}

// ActiveAdditions reports whether any selected layer has an addition in
// [start, end).
func (e *EdgeStore) ActiveAdditions(layers tgraph.LayerIds, start, end int64) bool {
	for _, l := range e.Layers(layers) {
		if l.additions.Active(start, end) {
			return true
		}
	}
	return false
}
