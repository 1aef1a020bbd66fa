package tgraph

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProp(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  Prop
	}{
		{"int widens", 5, int64(5)},
		{"int32 widens", int32(5), int64(5)},
		{"uint8 widens", uint8(5), uint64(5)},
		{"float32 widens", float32(1.5), float64(1.5)},
		{"string", "x", "x"},
		{"list", []interface{}{1, "a"}, []Prop{int64(1), "a"}},
		{"map", map[string]Prop{"k": 1}, map[string]Prop{"k": int64(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeProp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalizeProp(struct{}{})
	assert.True(t, errors.Is(err, ErrUnsupportedProp))
	_, err = NormalizeProp(nil)
	assert.True(t, errors.Is(err, ErrUnsupportedProp))

	_, err = NormalizeProps(Props{"": 1})
	assert.Error(t, err)
}

func TestCompareProps(t *testing.T) {
	assert.Equal(t, 0, CompareProps(int64(3), float64(3)))
	assert.Equal(t, -1, CompareProps(int64(2), uint64(3)))
	assert.Equal(t, 1, CompareProps("b", "a"))
	assert.Equal(t, -1, CompareProps(false, true))
	assert.Equal(t, -1, CompareProps([]Prop{int64(1)}, []Prop{int64(1), int64(2)}))

	assert.True(t, PropsEqual(int64(3), int64(3)))
	assert.False(t, PropsEqual(int64(3), float64(3)), "different types are never equal")
	assert.True(t, PropsEqual(
		map[string]Prop{"a": []Prop{"x"}},
		map[string]Prop{"a": []Prop{"x"}},
	))
}

func decodeProp(t *testing.T, data []byte) Prop {
	t.Helper()
	v, rest, err := ReadProp(data)
	require.NoError(t, err)
	require.Empty(t, rest)
	return v
}

func TestPropEncoding(t *testing.T) {
	values := []Prop{
		"hello",
		int64(-42),
		uint64(42),
		3.25,
		true,
		time.Date(2020, 1, 2, 3, 4, 5, 6, time.UTC),
		[]Prop{int64(1), "two", []Prop{false}},
		map[string]Prop{"b": int64(2), "a": "x"},
	}
	for _, v := range values {
		t.Run(TypeOf(v).String(), func(t *testing.T) {
			got := decodeProp(t, AppendProp(nil, v))
			assert.True(t, PropsEqual(v, got), "%v != %v", v, got)
		})
	}

	_, rest, err := ReadProp(append(AppendProp(nil, int64(1)), 7))
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, rest)
	_, _, err = ReadProp([]byte{byte(PropTypeString), 0, 0})
	assert.Error(t, err, "truncated")
}

func TestTimePropKeepsRangeAndOffset(t *testing.T) {
	zone := time.FixedZone("", 5*3600+30*60)
	for _, tm := range []time.Time{
		time.Date(1000, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(3000, 12, 31, 23, 59, 59, 999, time.UTC),
		time.Date(2024, 6, 1, 12, 0, 0, 0, zone),
	} {
		got, ok := decodeProp(t, AppendProp(nil, tm)).(time.Time)
		require.True(t, ok)
		assert.True(t, tm.Equal(got), "%v != %v", tm, got)
		_, wantOffset := tm.Zone()
		_, gotOffset := got.Zone()
		assert.Equal(t, wantOffset, gotOffset)
	}
}

func TestReadPropRejectsOversizedCounts(t *testing.T) {
	list := []byte{byte(PropTypeList), 0xff, 0xff, 0xff, 0xff, byte(PropTypeBool), 1}
	_, _, err := ReadProp(list)
	assert.Error(t, err)

	m := []byte{byte(PropTypeMap), 0, 0, 0, 2, 0, 0, 0, 0, byte(PropTypeBool), 1}
	_, _, err = ReadProp(m)
	assert.Error(t, err)
}

func TestDictMapper(t *testing.T) {
	m := NewDictMapper(DefaultLayer)
	assert.Equal(t, 0, m.GetOrCreate(DefaultLayer))
	assert.Equal(t, 1, m.GetOrCreate("follows"))
	assert.Equal(t, 1, m.GetOrCreate("follows"))

	id, ok := m.Get("follows")
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	_, ok = m.Get("missing")
	assert.False(t, ok)

	name, ok := m.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "follows", name)
	assert.Equal(t, []string{DefaultLayer, "follows"}, m.Names())
}
