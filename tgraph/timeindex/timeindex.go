// Package timeindex provides the ordered, deduplicated per-entity index of
// event timestamps that every temporal query in the graph is built on.
package timeindex

import (
	"fmt"
	"iter"
	"math"
	"sync"

	"github.com/tidwall/btree"
)

// Entry is one event in a time index: a timestamp plus the secondary order
// key assigned when the event was appended. Entries order by (T, Seq).
type Entry struct {
	T   int64
	Seq uint64
}

// Start returns the smallest entry with timestamp t.
func Start(t int64) Entry {
	return Entry{T: t}
}

// End returns the largest entry with timestamp t.
func End(t int64) Entry {
	return Entry{T: t, Seq: math.MaxUint64}
}

// Less orders entries by timestamp, then by sequence.
func (e Entry) Less(other Entry) bool {
	if e.T != other.T {
		return e.T < other.T
	}
	return e.Seq < other.Seq
}

func (e Entry) String() string {
	return fmt.Sprintf("%d#%d", e.T, e.Seq)
}

func less(a, b Entry) bool {
	return a.Less(b)
}

// Ops is the read contract shared by locked views, range views and
// snapshots. Ranges are half-open: start <= t < end.
type Ops interface {
	First() (Entry, bool)
	Last() (Entry, bool)
	FirstT() (int64, bool)
	LastT() (int64, bool)
	Range(start, end int64) Ops
	Active(start, end int64) bool
	Len() int
	All() iter.Seq[Entry]
}

// Times collects the timestamps of o in ascending order.
func Times(o Ops) []int64 {
	out := make([]int64, 0, o.Len())
	for e := range o.All() {
		out = append(out, e.T)
	}
	return out
}

// TimeIndex is an ordered set of entries, unique by timestamp. Any number of
// readers may hold a LockedView concurrently; Insert waits for them.
type TimeIndex struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[Entry]
}

// New creates an empty time index.
func New() *TimeIndex {
	return &TimeIndex{
		tree: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true}),
	}
}

// Insert records e. It returns false, leaving the index unchanged, when an
// entry with the same timestamp already exists.
func (ti *TimeIndex) Insert(e Entry) bool {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	if hasTimestamp(ti.tree, e.T) {
		return false
	}
	ti.tree.Set(e)
	return true
}

func hasTimestamp(tree *btree.BTreeG[Entry], t int64) bool {
	found := false
	tree.Ascend(Start(t), func(item Entry) bool {
		found = item.T == t
		return false
	})
	return found
}

// Locked acquires a read lock and returns a view over the whole index.
// The caller must Release it, normally with defer.
func (ti *TimeIndex) Locked() *LockedView {
	ti.mu.RLock()
	return &LockedView{
		RangeView: RangeView{tree: ti.tree, start: math.MinInt64, unbounded: true},
		ti:        ti,
	}
}

// View runs fn with a locked view that is released when fn returns, even
// if fn panics.
func (ti *TimeIndex) View(fn func(v *LockedView)) {
	v := ti.Locked()
	defer v.Release()
	fn(v)
}

// Snapshot copies the index into an immutable sorted slice.
func (ti *TimeIndex) Snapshot() Snapshot {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	out := make(Snapshot, 0, ti.tree.Len())
	ti.tree.Scan(func(item Entry) bool {
		out = append(out, item)
		return true
	})
	return out
}

// Len returns the number of entries.
func (ti *TimeIndex) Len() int {
	ti.mu.RLock()
	defer ti.mu.RUnlock()
	return ti.tree.Len()
}

// FirstT returns the smallest timestamp.
func (ti *TimeIndex) FirstT() (int64, bool) {
	v := ti.Locked()
	defer v.Release()
	return v.FirstT()
}

// LastT returns the largest timestamp.
func (ti *TimeIndex) LastT() (int64, bool) {
	v := ti.Locked()
	defer v.Release()
	return v.LastT()
}

// Active reports whether any entry falls in [start, end).
func (ti *TimeIndex) Active(start, end int64) bool {
	v := ti.Locked()
	defer v.Release()
	return v.Active(start, end)
}

// LockedView is a read-locked handle over a TimeIndex. Range views derived
// from it are valid until Release.
type LockedView struct {
	RangeView
	ti   *TimeIndex
	once sync.Once
}

// Release drops the read lock. Calling it more than once is a no-op.
func (v *LockedView) Release() {
	v.once.Do(func() {
		v.tree = nil
		v.ti.mu.RUnlock()
	})
}

// RangeView is the projection of an index onto [start, end).
type RangeView struct {
	tree      *btree.BTreeG[Entry]
	start     int64
	end       int64
	unbounded bool // no upper bound
}

func (r RangeView) contains(t int64) bool {
	return t >= r.start && (r.unbounded || t < r.end)
}

func (r RangeView) empty() bool {
	return r.tree == nil || (!r.unbounded && r.end <= r.start)
}

// First returns the smallest entry in range.
func (r RangeView) First() (Entry, bool) {
	var out Entry
	found := false
	if r.empty() {
		return out, false
	}
	r.tree.Ascend(Start(r.start), func(item Entry) bool {
		out, found = item, r.contains(item.T)
		return false
	})
	return out, found
}

// Last returns the largest entry in range.
func (r RangeView) Last() (Entry, bool) {
	var out Entry
	found := false
	if r.empty() {
		return out, false
	}
	visit := func(item Entry) bool {
		out, found = item, r.contains(item.T)
		return false
	}
	if r.unbounded {
		out, found = r.tree.Max()
		found = found && r.contains(out.T)
		return out, found
	}
	r.tree.Descend(End(r.end-1), visit)
	return out, found
}

// FirstT returns the smallest timestamp in range.
func (r RangeView) FirstT() (int64, bool) {
	e, ok := r.First()
	return e.T, ok
}

// LastT returns the largest timestamp in range.
func (r RangeView) LastT() (int64, bool) {
	e, ok := r.Last()
	return e.T, ok
}

// Range narrows the view to the intersection with [start, end).
func (r RangeView) Range(start, end int64) Ops {
	out := r
	if start > out.start {
		out.start = start
	}
	if out.unbounded || end < out.end {
		out.end = end
		out.unbounded = false
	}
	return out
}

// Active reports whether any entry falls in [start, end).
func (r RangeView) Active(start, end int64) bool {
	_, ok := r.Range(start, end).First()
	return ok
}

// Len counts the entries in range.
func (r RangeView) Len() int {
	if r.empty() {
		return 0
	}
	if r.unbounded && r.start == math.MinInt64 {
		return r.tree.Len()
	}
	n := 0
	for range r.All() {
		n++
	}
	return n
}

// All iterates the entries in range in ascending order.
func (r RangeView) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if r.empty() {
			return
		}
		r.tree.Ascend(Start(r.start), func(item Entry) bool {
			if !r.contains(item.T) {
				return false
			}
			return yield(item)
		})
	}
}
