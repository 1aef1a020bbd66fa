// Package filter selects vertices and edges of a view by name, layer and
// property predicates. Unset predicates accept everything and every set
// predicate must pass.
package filter

import (
	"fmt"
	"iter"
	"slices"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/view"
)

// StringOp is a comparison against a single string.
type StringOp string

const (
	OpEqual    StringOp = "eq"
	OpNotEqual StringOp = "ne"
)

// StringFilter compares a name against Value.
type StringFilter struct {
	Op    StringOp
	Value string
}

// Equal matches exactly s.
func Equal(s string) *StringFilter { return &StringFilter{Op: OpEqual, Value: s} }

// NotEqual matches anything but s.
func NotEqual(s string) *StringFilter { return &StringFilter{Op: OpNotEqual, Value: s} }

// Matches reports whether s passes the filter. A nil filter matches.
func (f *StringFilter) Matches(s string) bool {
	if f == nil {
		return true
	}
	switch f.Op {
	case OpEqual:
		return s == f.Value
	case OpNotEqual:
		return s != f.Value
	}
	return false
}

func (f *StringFilter) String() string {
	return fmt.Sprintf("%s %q", f.Op, f.Value)
}

// VecOp is a membership test against a set of strings.
type VecOp string

const (
	OpContains    VecOp = "in"
	OpNotContains VecOp = "not_in"
)

// StringVecFilter tests membership of a name in Values.
type StringVecFilter struct {
	Op     VecOp
	Values []string
}

// Contains matches any of values.
func Contains(values ...string) *StringVecFilter {
	return &StringVecFilter{Op: OpContains, Values: values}
}

// NotContains matches none of values.
func NotContains(values ...string) *StringVecFilter {
	return &StringVecFilter{Op: OpNotContains, Values: values}
}

// Matches reports whether s passes the filter. A nil filter matches.
func (f *StringVecFilter) Matches(s string) bool {
	if f == nil {
		return true
	}
	switch f.Op {
	case OpContains:
		return slices.Contains(f.Values, s)
	case OpNotContains:
		return !slices.Contains(f.Values, s)
	}
	return false
}

// PropertyHasFilter requires property Key to be present. When Value is set
// the property must equal it; when Type is set it must have that type.
type PropertyHasFilter struct {
	Key   string
	Value tgraph.Prop
	Type  *tgraph.PropType
}

// HasKey matches entities with a value for key.
func HasKey(key string) *PropertyHasFilter {
	return &PropertyHasFilter{Key: key}
}

// HasValue matches entities whose property key equals value. Narrow numeric
// values are widened as they are for stored props.
func HasValue(key string, value tgraph.Prop) *PropertyHasFilter {
	if v, err := tgraph.NormalizeProp(value); err == nil {
		value = v
	}
	return &PropertyHasFilter{Key: key, Value: value}
}

// HasType matches entities whose property key is of type t.
func HasType(key string, t tgraph.PropType) *PropertyHasFilter {
	return &PropertyHasFilter{Key: key, Type: &t}
}

// Validate checks Key and normalizes Value, for filters built as literals.
func (f *PropertyHasFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Key == "" {
		return fmt.Errorf("%w: empty property name", tgraph.ErrUnsupportedProp)
	}
	if f.Value == nil {
		return nil
	}
	v, err := tgraph.NormalizeProp(f.Value)
	if err != nil {
		return fmt.Errorf("property %q: %w", f.Key, err)
	}
	f.Value = v
	return nil
}

// Matches tests a property lookup result. A nil filter matches.
func (f *PropertyHasFilter) Matches(lookup func(name string) (tgraph.Prop, bool)) bool {
	if f == nil {
		return true
	}
	value, ok := lookup(f.Key)
	if !ok {
		return false
	}
	if f.Value != nil && !tgraph.PropsEqual(value, f.Value) {
		return false
	}
	if f.Type != nil && tgraph.TypeOf(value) != *f.Type {
		return false
	}
	return true
}

// VertexFilter selects vertices.
type VertexFilter struct {
	Names       *StringVecFilter
	PropertyHas *PropertyHasFilter
}

// Matches applies the name and property filters to v.
func (f VertexFilter) Matches(v view.VertexView) bool {
	return f.Names.Matches(v.Name()) && f.PropertyHas.Matches(v.Property)
}

// EdgeFilter selects edges. NodeNames must accept both endpoints; LayerNames
// must accept at least one of the edge's visible layers.
type EdgeFilter struct {
	NodeNames   *StringVecFilter
	Src         *StringFilter
	Dst         *StringFilter
	PropertyHas *PropertyHasFilter
	LayerNames  *StringVecFilter
}

// Matches applies the endpoint, layer and property filters to e.
func (f EdgeFilter) Matches(e view.EdgeView) bool {
	src, dst := e.Src().Name(), e.Dst().Name()
	if !f.NodeNames.Matches(src) || !f.NodeNames.Matches(dst) {
		return false
	}
	if !f.Src.Matches(src) || !f.Dst.Matches(dst) {
		return false
	}
	if f.LayerNames != nil && !slices.ContainsFunc(e.LayerNames(), f.LayerNames.Matches) {
		return false
	}
	return f.PropertyHas.Matches(e.Property)
}

// Vertices yields the vertices of v accepted by f.
func Vertices(v view.View, f VertexFilter) iter.Seq[view.VertexView] {
	return func(yield func(view.VertexView) bool) {
		for vv := range v.Vertices() {
			if f.Matches(vv) && !yield(vv) {
				return
			}
		}
	}
}

// Edges yields the edges of v accepted by f.
func Edges(v view.View, f EdgeFilter) iter.Seq[view.EdgeView] {
	return func(yield func(view.EdgeView) bool) {
		for e := range v.Edges() {
			if f.Matches(e) && !yield(e) {
				return
			}
		}
	}
}
