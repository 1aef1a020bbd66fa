package timeindex

import (
	"iter"
	"slices"
	"sort"
)

// Snapshot is an immutable, sorted copy of time index entries. It needs no
// locking and stays valid after the source index grows.
type Snapshot []Entry

// Merge combines sorted snapshots into one sorted snapshot. Every entry is
// kept, so equal timestamps from different sources all survive.
func Merge(snaps ...Snapshot) Snapshot {
	switch len(snaps) {
	case 0:
		return nil
	case 1:
		return snaps[0]
	}
	n := 0
	for _, s := range snaps {
		n += len(s)
	}
	out := make(Snapshot, 0, n)
	heads := make([]int, len(snaps))
	for len(out) < n {
		best := -1
		for i, s := range snaps {
			if heads[i] == len(s) {
				continue
			}
			if best < 0 || s[heads[i]].Less(snaps[best][heads[best]]) {
				best = i
			}
		}
		out = append(out, snaps[best][heads[best]])
		heads[best]++
	}
	return out
}

// First returns the earliest entry.
func (s Snapshot) First() (Entry, bool) {
	if len(s) == 0 {
		return Entry{}, false
	}
	return s[0], true
}

// Last returns the latest entry.
func (s Snapshot) Last() (Entry, bool) {
	if len(s) == 0 {
		return Entry{}, false
	}
	return s[len(s)-1], true
}

// FirstT returns the earliest timestamp.
func (s Snapshot) FirstT() (int64, bool) {
	e, ok := s.First()
	return e.T, ok
}

// LastT returns the latest timestamp.
func (s Snapshot) LastT() (int64, bool) {
	e, ok := s.Last()
	return e.T, ok
}

// Window returns the sub-slice with start <= t < end.
func (s Snapshot) Window(start, end int64) Snapshot {
	if end <= start {
		return nil
	}
	lo := sort.Search(len(s), func(i int) bool { return s[i].T >= start })
	hi := sort.Search(len(s), func(i int) bool { return s[i].T >= end })
	return s[lo:hi]
}

// Range is Window as Ops.
func (s Snapshot) Range(start, end int64) Ops {
	return s.Window(start, end)
}

// Active reports whether any entry has start <= t < end.
func (s Snapshot) Active(start, end int64) bool {
	return len(s.Window(start, end)) > 0
}

// Len returns the number of entries.
func (s Snapshot) Len() int {
	return len(s)
}

// All yields the entries in order. Each call starts from the beginning.
func (s Snapshot) All() iter.Seq[Entry] {
	return slices.Values(s)
}
