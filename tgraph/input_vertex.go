package tgraph

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// InputVertex is implemented by caller types that carry their own logical
// vertex id.
type InputVertex interface {
	VertexID() uint64
	VertexName() string
}

// VertexKey is a resolved logical vertex identifier.
type VertexKey struct {
	ID   uint64
	Name string
}

// ResolveVertex converts a caller-supplied vertex identifier to its logical
// key. Unsigned and non-negative signed integers are used as-is and named by
// their decimal form; strings hash to an id and keep the string as name.
func ResolveVertex(v any) (VertexKey, error) {
	switch x := v.(type) {
	case VertexKey:
		return x, nil
	case InputVertex:
		return VertexKey{ID: x.VertexID(), Name: x.VertexName()}, nil
	case string:
		return VertexKey{ID: HashName(x), Name: x}, nil
	case uint64:
		return intKey(x), nil
	case uint:
		return intKey(uint64(x)), nil
	case uint32:
		return intKey(uint64(x)), nil
	case uint16:
		return intKey(uint64(x)), nil
	case uint8:
		return intKey(uint64(x)), nil
	case int:
		return signedKey(int64(x))
	case int64:
		return signedKey(x)
	case int32:
		return signedKey(int64(x))
	case int16:
		return signedKey(int64(x))
	case int8:
		return signedKey(int64(x))
	case nil:
		return VertexKey{}, fmt.Errorf("%w: nil", ErrUnsupportedVertexID)
	}
	return VertexKey{}, fmt.Errorf("%w: %T", ErrUnsupportedVertexID, v)
}

// HashName maps a vertex name to its logical id.
func HashName(name string) uint64 {
	return xxhash.Sum64String(name)
}

func intKey(id uint64) VertexKey {
	return VertexKey{ID: id, Name: strconv.FormatUint(id, 10)}
}

func signedKey(id int64) (VertexKey, error) {
	if id < 0 {
		return VertexKey{}, fmt.Errorf("%w: negative id %d", ErrUnsupportedVertexID, id)
	}
	return intKey(uint64(id)), nil
}
