package tgraph

import (
	"fmt"
	"iter"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

type layerKind uint8

const (
	layersNone layerKind = iota
	layersAll
	layersOne
	layersMultiple
)

// LayerIds selects the layers a query sees: none, all, exactly one, or an
// explicit set. The zero value selects no layers.
type LayerIds struct {
	kind  layerKind
	one   int
	multi *roaring.Bitmap // read-only once built
}

// LayerAll selects every layer.
func LayerAll() LayerIds { return LayerIds{kind: layersAll} }

// LayerNone selects no layer.
func LayerNone() LayerIds { return LayerIds{kind: layersNone} }

// LayerOne selects a single layer.
func LayerOne(id int) LayerIds { return LayerIds{kind: layersOne, one: id} }

// LayerSet selects the given layers, collapsing to None or One where it can.
func LayerSet(ids ...int) LayerIds {
	bm := roaring.New()
	for _, id := range ids {
		if id >= 0 {
			bm.Add(uint32(id))
		}
	}
	return fromBitmap(bm)
}

func fromBitmap(bm *roaring.Bitmap) LayerIds {
	switch bm.GetCardinality() {
	case 0:
		return LayerNone()
	case 1:
		return LayerOne(int(bm.Minimum()))
	}
	return LayerIds{kind: layersMultiple, multi: bm}
}

// IsAll reports whether every layer is selected.
func (l LayerIds) IsAll() bool { return l.kind == layersAll }

// IsNone reports whether no layer is selected.
func (l LayerIds) IsNone() bool { return l.kind == layersNone }

// Contains reports whether layer id is selected.
func (l LayerIds) Contains(id int) bool {
	switch l.kind {
	case layersAll:
		return true
	case layersOne:
		return l.one == id
	case layersMultiple:
		return id >= 0 && l.multi.Contains(uint32(id))
	}
	return false
}

// Constrain intersects two selections.
func (l LayerIds) Constrain(other LayerIds) LayerIds {
	switch {
	case l.kind == layersNone || other.kind == layersNone:
		return LayerNone()
	case l.kind == layersAll:
		return other
	case other.kind == layersAll:
		return l
	case l.kind == layersOne:
		if other.Contains(l.one) {
			return l
		}
		return LayerNone()
	case other.kind == layersOne:
		if l.Contains(other.one) {
			return other
		}
		return LayerNone()
	}
	return fromBitmap(roaring.And(l.multi, other.multi))
}

// Iter yields the selected ids among the first n layers in ascending order.
func (l LayerIds) Iter(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		switch l.kind {
		case layersAll:
			for id := 0; id < n; id++ {
				if !yield(id) {
					return
				}
			}
		case layersOne:
			if l.one < n {
				yield(l.one)
			}
		case layersMultiple:
			it := l.multi.Iterator()
			for it.HasNext() {
				id := int(it.Next())
				if id >= n || !yield(id) {
					return
				}
			}
		}
	}
}

func (l LayerIds) String() string {
	switch l.kind {
	case layersAll:
		return "All"
	case layersOne:
		return fmt.Sprintf("One(%d)", l.one)
	case layersMultiple:
		parts := make([]string, 0, l.multi.GetCardinality())
		for _, id := range l.multi.ToArray() {
			parts = append(parts, fmt.Sprintf("%d", id))
		}
		return "Multiple(" + strings.Join(parts, ",") + ")"
	}
	return "None"
}

// Equal reports whether two selections pick the same layers.
func (l LayerIds) Equal(other LayerIds) bool {
	if l.kind != other.kind {
		return false
	}
	switch l.kind {
	case layersOne:
		return l.one == other.one
	case layersMultiple:
		return l.multi.Equals(other.multi)
	}
	return true
}
