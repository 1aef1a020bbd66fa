package tgraph

import (
	"fmt"
	"math"
)

// Window is a half-open time range: Start <= t < End.
type Window struct {
	Start int64 // Inclusive start
	End   int64 // Exclusive end
}

// All is the unrestricted window.
var All = Window{Start: math.MinInt64, End: math.MaxInt64}

// NewWindow creates the window [start, end).
func NewWindow(start, end int64) Window {
	return Window{Start: start, End: end}
}

// Contains reports whether t falls in the window.
func (w Window) Contains(t int64) bool {
	return t >= w.Start && t < w.End
}

// Empty reports whether no timestamp can fall in the window.
func (w Window) Empty() bool {
	return w.End <= w.Start
}

// Intersect narrows w to the overlap with other.
func (w Window) Intersect(other Window) Window {
	return Window{Start: max(w.Start, other.Start), End: min(w.End, other.End)}
}

// IsAll reports whether the window is unrestricted.
func (w Window) IsAll() bool {
	return w == All
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", boundString(w.Start), boundString(w.End))
}

func boundString(t int64) string {
	switch t {
	case math.MinInt64:
		return "-inf"
	case math.MaxInt64:
		return "+inf"
	}
	return fmt.Sprintf("%d", t)
}
