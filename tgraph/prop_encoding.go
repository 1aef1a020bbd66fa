package tgraph

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// PropType represents the type of a prop
type PropType byte

const (
	PropTypeString PropType = iota
	PropTypeI64
	PropTypeU64
	PropTypeFloat
	PropTypeBool
	PropTypeTime
	PropTypeList
	PropTypeMap
)

var propTypeNames = [...]string{
	PropTypeString: "str",
	PropTypeI64:    "i64",
	PropTypeU64:    "u64",
	PropTypeFloat:  "f64",
	PropTypeBool:   "bool",
	PropTypeTime:   "datetime",
	PropTypeList:   "list",
	PropTypeMap:    "map",
}

func (t PropType) String() string {
	if int(t) < len(propTypeNames) {
		return propTypeNames[t]
	}
	return fmt.Sprintf("proptype(%d)", byte(t))
}

// TypeOf returns the type of a prop. It panics on values that did not pass
// NormalizeProp.
func TypeOf(v Prop) PropType {
	t, ok := propTypeOf(v)
	if !ok {
		panic(fmt.Sprintf("unknown prop type: %T", v))
	}
	return t
}

func propTypeOf(v Prop) (PropType, bool) {
	switch v.(type) {
	case string:
		return PropTypeString, true
	case int64:
		return PropTypeI64, true
	case uint64:
		return PropTypeU64, true
	case float64:
		return PropTypeFloat, true
	case bool:
		return PropTypeBool, true
	case time.Time:
		return PropTypeTime, true
	case []Prop:
		return PropTypeList, true
	case map[string]Prop:
		return PropTypeMap, true
	}
	return 0, false
}

// AppendProp serializes a prop as type(1) + payload and appends it to buf.
// Lists and maps carry a uint32 element count followed by their encoded
// elements; strings and times carry a uint32 length. Times use
// time.Time.MarshalBinary, which keeps the full range and the zone offset.
func AppendProp(buf []byte, v Prop) []byte {
	t := TypeOf(v)
	buf = append(buf, byte(t))
	switch val := v.(type) {
	case string:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(val)))
		buf = append(buf, val...)
	case int64:
		buf = binary.BigEndian.AppendUint64(buf, uint64(val))
	case uint64:
		buf = binary.BigEndian.AppendUint64(buf, val)
	case float64:
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(val))
	case bool:
		if val {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case time.Time:
		b, err := val.MarshalBinary()
		if err != nil {
			// Offsets beyond ±32767 minutes do not marshal.
			b, _ = val.UTC().MarshalBinary()
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(b)))
		buf = append(buf, b...)
	case []Prop:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(val)))
		for _, item := range val {
			buf = AppendProp(buf, item)
		}
	case map[string]Prop:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(val)))
		for _, k := range sortedKeys(val) {
			buf = binary.BigEndian.AppendUint32(buf, uint32(len(k)))
			buf = append(buf, k...)
			buf = AppendProp(buf, val[k])
		}
	}
	return buf
}

// ReadProp decodes one prop from the front of data and returns the rest.
func ReadProp(data []byte) (Prop, []byte, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("prop data too short")
	}
	t := PropType(data[0])
	data = data[1:]
	switch t {
	case PropTypeString:
		s, rest, err := readString(data)
		return s, rest, err
	case PropTypeTime:
		b, rest, err := readBytes(data)
		if err != nil {
			return nil, nil, err
		}
		var tm time.Time
		if err := tm.UnmarshalBinary(b); err != nil {
			return nil, nil, fmt.Errorf("datetime value: %w", err)
		}
		return tm, rest, nil
	case PropTypeI64, PropTypeU64, PropTypeFloat:
		if len(data) < 8 {
			return nil, nil, fmt.Errorf("%s value must be 8 bytes, got %d", t, len(data))
		}
		bits := binary.BigEndian.Uint64(data[:8])
		rest := data[8:]
		switch t {
		case PropTypeI64:
			return int64(bits), rest, nil
		case PropTypeU64:
			return bits, rest, nil
		default:
			return math.Float64frombits(bits), rest, nil
		}
	case PropTypeBool:
		if len(data) < 1 {
			return nil, nil, fmt.Errorf("bool value must be 1 byte, got %d", len(data))
		}
		return data[0] != 0, data[1:], nil
	case PropTypeList:
		n, rest, err := readUint32(data)
		if err != nil {
			return nil, nil, err
		}
		// Every item takes at least its type byte.
		if uint64(n) > uint64(len(rest)) {
			return nil, nil, fmt.Errorf("list of %d items exceeds %d remaining bytes", n, len(rest))
		}
		items := make([]Prop, 0, n)
		for i := uint32(0); i < n; i++ {
			var item Prop
			item, rest, err = ReadProp(rest)
			if err != nil {
				return nil, nil, fmt.Errorf("list item %d: %w", i, err)
			}
			items = append(items, item)
		}
		return items, rest, nil
	case PropTypeMap:
		n, rest, err := readUint32(data)
		if err != nil {
			return nil, nil, err
		}
		// Every entry takes at least a key length and a type byte.
		if uint64(n)*5 > uint64(len(rest)) {
			return nil, nil, fmt.Errorf("map of %d entries exceeds %d remaining bytes", n, len(rest))
		}
		entries := make(map[string]Prop, n)
		for i := uint32(0); i < n; i++ {
			var key string
			key, rest, err = readString(rest)
			if err != nil {
				return nil, nil, err
			}
			var item Prop
			item, rest, err = ReadProp(rest)
			if err != nil {
				return nil, nil, fmt.Errorf("map entry %q: %w", key, err)
			}
			entries[key] = item
		}
		return entries, rest, nil
	default:
		return nil, nil, fmt.Errorf("unknown prop type: %v", t)
	}
}

func readUint32(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, fmt.Errorf("length prefix must be 4 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint32(data[:4]), data[4:], nil
}

func readBytes(data []byte) ([]byte, []byte, error) {
	n, rest, err := readUint32(data)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(rest)) < uint64(n) {
		return nil, nil, fmt.Errorf("value truncated: expected %d bytes, got %d", n, len(rest))
	}
	return rest[:n], rest[n:], nil
}

func readString(data []byte) (string, []byte, error) {
	b, rest, err := readBytes(data)
	if err != nil {
		return "", nil, err
	}
	return string(b), rest, nil
}

// AppendString appends a length-prefixed string.
func AppendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// ReadString decodes a string written by AppendString.
func ReadString(data []byte) (string, []byte, error) {
	return readString(data)
}
