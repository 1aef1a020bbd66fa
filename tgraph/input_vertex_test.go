package tgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customVertex struct{ id uint64 }

func (c customVertex) VertexID() uint64   { return c.id }
func (c customVertex) VertexName() string { return "custom" }

func TestResolveVertex(t *testing.T) {
	k, err := ResolveVertex(uint64(7))
	require.NoError(t, err)
	assert.Equal(t, VertexKey{ID: 7, Name: "7"}, k)

	k, err = ResolveVertex(12)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), k.ID)

	k, err = ResolveVertex("alice")
	require.NoError(t, err)
	assert.Equal(t, HashName("alice"), k.ID)
	assert.Equal(t, "alice", k.Name)

	k2, err := ResolveVertex("alice")
	require.NoError(t, err)
	assert.Equal(t, k, k2)

	k, err = ResolveVertex(customVertex{id: 99})
	require.NoError(t, err)
	assert.Equal(t, VertexKey{ID: 99, Name: "custom"}, k)
}

func TestResolveVertexErrors(t *testing.T) {
	for _, v := range []any{-1, int64(-5), 1.5, nil, []byte("x")} {
		_, err := ResolveVertex(v)
		assert.True(t, errors.Is(err, ErrUnsupportedVertexID), "%v", v)
	}
}
