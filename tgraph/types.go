package tgraph

import (
	"fmt"

	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

// VID is the dense internal handle of a vertex. It is stable for the
// lifetime of the graph and unrelated to the user-facing vertex id.
type VID uint64

// EID is the dense internal handle of an edge record (one per ordered
// src/dst pair).
type EID uint64

// Direction selects incident edges of a vertex.
type Direction uint8

const (
	Out Direction = iota
	In
	Both
)

func (d Direction) String() string {
	switch d {
	case Out:
		return "out"
	case In:
		return "in"
	default:
		return "both"
	}
}

// DefaultLayer is the name of the layer used when a mutation names none.
const DefaultLayer = "_default"

// DefaultLayerID is the id of DefaultLayer in every graph.
const DefaultLayerID = 0

// EdgeRef identifies a directed edge. The exploded forms additionally pin
// the reference to one addition time and/or one layer.
type EdgeRef struct {
	EID EID
	Src VID
	Dst VID

	time    timeindex.Entry
	timed   bool
	layer   int
	layered bool
}

// NewEdgeRef creates a plain (non-exploded) reference.
func NewEdgeRef(eid EID, src, dst VID) EdgeRef {
	return EdgeRef{EID: eid, Src: src, Dst: dst}
}

// AtTime returns a copy exploded at the given time entry.
func (e EdgeRef) AtTime(t timeindex.Entry) EdgeRef {
	e.time = t
	e.timed = true
	return e
}

// AtLayer returns a copy exploded on the given layer.
func (e EdgeRef) AtLayer(layer int) EdgeRef {
	e.layer = layer
	e.layered = true
	return e
}

// Time returns the timestamp of an exploded reference.
func (e EdgeRef) Time() (int64, bool) {
	return e.time.T, e.timed
}

// Layer returns the layer of a layer-exploded reference.
func (e EdgeRef) Layer() (int, bool) {
	return e.layer, e.layered
}

// Layers returns the layer set this reference is restricted to: its own
// layer when exploded by layer, otherwise layers unchanged.
func (e EdgeRef) Layers(layers LayerIds) LayerIds {
	if !e.layered {
		return layers
	}
	if !layers.Contains(e.layer) {
		return LayerNone()
	}
	return LayerOne(e.layer)
}

func (e EdgeRef) String() string {
	s := fmt.Sprintf("e%d(%d->%d)", e.EID, e.Src, e.Dst)
	if e.layered {
		s += fmt.Sprintf("@L%d", e.layer)
	}
	if e.timed {
		s += fmt.Sprintf("@t%d", e.time.T)
	}
	return s
}
