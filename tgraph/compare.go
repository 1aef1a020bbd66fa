package tgraph

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// CompareProps compares two props and returns:
//
//	-1 if left < right
//	 0 if left == right
//	 1 if left > right
//
// Numeric types compare across int64, uint64 and float64. Lists compare
// element-wise, maps by sorted key then value. Nil is less than any non-nil
// value and mismatched types order by their type tag.
func CompareProps(left, right Prop) int {
	if left == nil && right == nil {
		return 0
	}
	if left == nil {
		return -1
	}
	if right == nil {
		return 1
	}

	if lf, lok := numericOf(left); lok {
		if rf, rok := numericOf(right); rok {
			return compareNumeric(left, right, lf, rf)
		}
	}

	switch l := left.(type) {
	case string:
		if r, ok := right.(string); ok {
			return strings.Compare(l, r)
		}
	case bool:
		if r, ok := right.(bool); ok {
			if !l && r {
				return -1
			} else if l && !r {
				return 1
			}
			return 0
		}
	case time.Time:
		if r, ok := right.(time.Time); ok {
			if l.Before(r) {
				return -1
			} else if l.After(r) {
				return 1
			}
			return 0
		}
	case []Prop:
		if r, ok := right.([]Prop); ok {
			return compareLists(l, r)
		}
	case map[string]Prop:
		if r, ok := right.(map[string]Prop); ok {
			return compareMaps(l, r)
		}
	}

	lt, lok := propTypeOf(left)
	rt, rok := propTypeOf(right)
	if lok && rok && lt != rt {
		return compareInt64s(int64(lt), int64(rt))
	}

	// Fall back to string comparison for unknown types
	return strings.Compare(fmt.Sprintf("%v", left), fmt.Sprintf("%v", right))
}

// numericOf returns a float64 view of numeric props.
func numericOf(v Prop) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareNumeric compares two numeric props. Integer pairs of the same
// signedness are compared exactly, anything else through float64.
func compareNumeric(left, right Prop, lf, rf float64) int {
	switch l := left.(type) {
	case int64:
		if r, ok := right.(int64); ok {
			return compareInt64s(l, r)
		}
	case uint64:
		if r, ok := right.(uint64); ok {
			return compareUint64s(l, r)
		}
	}
	return compareFloats(lf, rf)
}

func compareLists(a, b []Prop) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := CompareProps(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInt64s(int64(len(a)), int64(len(b)))
}

func compareMaps(a, b map[string]Prop) int {
	ak := sortedKeys(a)
	bk := sortedKeys(b)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		if c := CompareProps(a[ak[i]], b[bk[i]]); c != 0 {
			return c
		}
	}
	return compareInt64s(int64(len(ak)), int64(len(bk)))
}

func sortedKeys(m map[string]Prop) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compareInt64s compares two int64 values
func compareInt64s(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareUint64s(a, b uint64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// compareFloats compares two float64 values
func compareFloats(a, b float64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// PropsEqual checks if two props are equal.
// Unlike CompareProps it never treats values of different types as equal,
// so int64(1) and float64(1) are distinct history entries.
func PropsEqual(a, b Prop) bool {
	at, aok := propTypeOf(a)
	bt, bok := propTypeOf(b)
	if !aok || !bok {
		return a == nil && b == nil
	}
	if at != bt {
		return false
	}
	return CompareProps(a, b) == 0
}
