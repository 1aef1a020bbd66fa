package tgraph

import (
	"fmt"
	"sort"
	"time"
)

// Prop represents any value that can be stored as a vertex, edge or graph property.
// Props are plain Go values behind an interface.
type Prop interface{}

// Valid prop types:
// - string
// - int64
// - uint64
// - float64
// - bool
// - time.Time
// - []Prop (list)
// - map[string]Prop (map)

// Props is a set of named property values supplied to a mutation.
type Props map[string]Prop

// NoProps is the empty property set.
var NoProps Props

// TimedProp is one entry of a temporal property history.
type TimedProp struct {
	T     int64
	Value Prop
}

func (tp TimedProp) String() string {
	return fmt.Sprintf("(%d, %v)", tp.T, tp.Value)
}

// Helper functions for creating typed props
func Str(s string) Prop                { return s }
func I64(i int64) Prop                 { return i }
func U64(u uint64) Prop                { return u }
func F64(f float64) Prop               { return f }
func Bool(b bool) Prop                 { return b }
func DTime(t time.Time) Prop           { return t }
func List(items ...Prop) Prop          { return items }
func Map(entries map[string]Prop) Prop { return entries }

// NormalizeProp converts a user supplied value into one of the valid prop
// types. Narrower numeric types are widened; anything else is rejected with
// ErrUnsupportedProp.
func NormalizeProp(v interface{}) (Prop, error) {
	switch val := v.(type) {
	case string, int64, uint64, float64, bool:
		return val, nil
	case time.Time:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case uint:
		return uint64(val), nil
	case uint32:
		return uint64(val), nil
	case uint16:
		return uint64(val), nil
	case uint8:
		return uint64(val), nil
	case float32:
		return float64(val), nil
	case []Prop:
		out := make([]Prop, len(val))
		for i, item := range val {
			p, err := NormalizeProp(item)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	case []interface{}:
		return NormalizeProp(toPropSlice(val))
	case map[string]Prop:
		out := make(map[string]Prop, len(val))
		for k, item := range val {
			p, err := NormalizeProp(item)
			if err != nil {
				return nil, err
			}
			out[k] = p
		}
		return out, nil
	case Props:
		return NormalizeProp(map[string]Prop(val))
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedProp)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedProp, v)
	}
}

func toPropSlice(items []interface{}) []Prop {
	out := make([]Prop, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// NormalizeProps validates every value of props. The returned set is a copy,
// so callers may keep mutating their input.
func NormalizeProps(props Props) (Props, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make(Props, len(props))
	for name, v := range props {
		if name == "" {
			return nil, fmt.Errorf("%w: empty property name", ErrUnsupportedProp)
		}
		p, err := NormalizeProp(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

// Names returns the property names in sorted order.
func (p Props) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
