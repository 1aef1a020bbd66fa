package storage

import (
	"math"
	"sort"
	"sync"

	"github.com/tidwall/btree"
	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

type tpropItem struct {
	entry timeindex.Entry
	value tgraph.Prop
}

func tpropLess(a, b tpropItem) bool {
	return a.entry.Less(b.entry)
}

// TProp is the history of one temporal property, ordered by time then by
// append sequence. Re-adding an equal value at the same timestamp is a no-op.
type TProp struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[tpropItem]
}

func newTProp() *TProp {
	return &TProp{tree: btree.NewBTreeGOptions(tpropLess, btree.Options{NoLocks: true})}
}

// Add appends value at entry. It reports whether the history changed.
func (p *TProp) Add(entry timeindex.Entry, value tgraph.Prop) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	dup := false
	p.tree.Ascend(tpropItem{entry: timeindex.Start(entry.T)}, func(item tpropItem) bool {
		if item.entry.T != entry.T {
			return false
		}
		if tgraph.PropsEqual(item.value, value) {
			dup = true
			return false
		}
		return true
	})
	if dup {
		return false
	}
	p.tree.Set(tpropItem{entry: entry, value: value})
	return true
}

// Len returns the number of history entries.
func (p *TProp) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tree.Len()
}

// Scan calls fn for each entry from lo to hi inclusive, in order, until fn
// returns false.
func (p *TProp) Scan(lo, hi timeindex.Entry, fn func(timeindex.Entry, tgraph.Prop) bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.tree.Ascend(tpropItem{entry: lo}, func(item tpropItem) bool {
		if hi.Less(item.entry) {
			return false
		}
		return fn(item.entry, item.value)
	})
}

// Window collects the entries with start <= t < end.
func (p *TProp) Window(start, end int64) []tgraph.TimedProp {
	var out []tgraph.TimedProp
	if end <= start {
		return out
	}
	p.Scan(timeindex.Start(start), timeindex.End(end-1), func(e timeindex.Entry, v tgraph.Prop) bool {
		out = append(out, tgraph.TimedProp{T: e.T, Value: v})
		return true
	})
	return out
}

// History collects every entry.
func (p *TProp) History() []tgraph.TimedProp {
	out := make([]tgraph.TimedProp, 0, p.Len())
	p.Scan(timeindex.Start(math.MinInt64), timeindex.End(math.MaxInt64), func(e timeindex.Entry, v tgraph.Prop) bool {
		out = append(out, tgraph.TimedProp{T: e.T, Value: v})
		return true
	})
	return out
}

// PropTable holds the static and temporal properties of one entity, keyed
// by interned property id.
type PropTable struct {
	mu       sync.RWMutex
	static   map[int]tgraph.Prop
	temporal map[int]*TProp
}

func newPropTable() *PropTable {
	return &PropTable{}
}

// SetStatic overwrites a static property.
func (t *PropTable) SetStatic(id int, value tgraph.Prop) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.static == nil {
		t.static = make(map[int]tgraph.Prop)
	}
	t.static[id] = value
}

// Static returns a static property.
func (t *PropTable) Static(id int) (tgraph.Prop, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.static[id]
	return v, ok
}

// AddTemporal appends to the history of a temporal property, creating it on
// first use.
func (t *PropTable) AddTemporal(id int, entry timeindex.Entry, value tgraph.Prop) bool {
	return t.temporalFor(id).Add(entry, value)
}

func (t *PropTable) temporalFor(id int) *TProp {
	t.mu.RLock()
	p, ok := t.temporal[id]
	t.mu.RUnlock()
	if ok {
		return p
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.temporal[id]; ok {
		return p
	}
	if t.temporal == nil {
		t.temporal = make(map[int]*TProp)
	}
	p = newTProp()
	t.temporal[id] = p
	return p
}

// Temporal returns the history of a temporal property.
func (t *PropTable) Temporal(id int) (*TProp, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.temporal[id]
	return p, ok
}

// StaticIDs returns the ids of the static properties, ascending.
func (t *PropTable) StaticIDs() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedIDs(t.static)
}

// TemporalIDs returns the ids of the temporal properties, ascending.
func (t *PropTable) TemporalIDs() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedIDs(t.temporal)
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
