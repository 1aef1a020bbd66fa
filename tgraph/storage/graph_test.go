package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

func key(id uint64) tgraph.VertexKey {
	return tgraph.VertexKey{ID: id, Name: fmt.Sprint(id)}
}

func TestAddEdgeCreatesEndpoints(t *testing.T) {
	g := NewTemporalGraph()
	es := g.AddEdge(3, key(1), key(2), nil, tgraph.DefaultLayerID)

	require.Equal(t, 2, g.NumVertices())
	require.Equal(t, 1, g.NumEdges())

	for _, id := range []uint64{1, 2} {
		v, ok := g.FindVertex(id)
		require.True(t, ok)
		assert.Equal(t, []int64{3}, timeindex.Times(g.Vertex(v).Additions().Snapshot()))
	}

	src, _ := g.FindVertex(1)
	dst, _ := g.FindVertex(2)
	eid, ok := g.FindEdge(src, dst)
	require.True(t, ok)
	assert.Equal(t, es.EID(), eid)
	assert.Equal(t, []Adjacent{{Nbr: src, EID: eid, Dir: tgraph.In}}, g.Vertex(dst).Adjacency(tgraph.Both))
	_, ok = g.FindEdge(dst, src)
	assert.False(t, ok)

	earliest, ok := g.EarliestTime()
	require.True(t, ok)
	assert.Equal(t, int64(3), earliest)
}

func TestEmptyGraphHasNoTimes(t *testing.T) {
	g := NewTemporalGraph()
	_, ok := g.EarliestTime()
	assert.False(t, ok)
	_, ok = g.LatestTime()
	assert.False(t, ok)
}

func TestAddEdgePerLayer(t *testing.T) {
	g := NewTemporalGraph()
	follows := g.ResolveLayer("follows")
	g.AddEdge(1, key(1), key(2), nil, tgraph.DefaultLayerID)
	g.AddEdge(5, key(1), key(2), nil, follows)
	es := g.DeleteEdge(7, key(1), key(2), follows)

	assert.Equal(t, 1, g.NumEdges())
	var ids []int
	for id := range es.Layers(tgraph.LayerAll()) {
		ids = append(ids, id)
	}
	assert.Equal(t, []int{0, follows}, ids)
	assert.Equal(t, []int64{1, 5}, timeindex.Times(es.Additions(tgraph.LayerAll())))
	assert.Equal(t, []int64{5}, timeindex.Times(es.Additions(tgraph.LayerOne(follows))))
	assert.Equal(t, []int64{7}, timeindex.Times(es.Deletions(tgraph.LayerAll())))
	assert.Empty(t, es.Deletions(tgraph.LayerOne(0)))
	assert.True(t, es.ActiveAdditions(tgraph.LayerOne(follows), 5, 6))
	assert.False(t, es.ActiveAdditions(tgraph.LayerOne(0), 2, 10))
	assert.False(t, es.HasLayer(tgraph.LayerOne(follows+1)))
}

func TestSameTimeInDifferentLayersIsKept(t *testing.T) {
	g := NewTemporalGraph()
	x := g.ResolveLayer("x")
	y := g.ResolveLayer("y")
	g.AddEdge(1, key(1), key(2), nil, x)
	g.AddEdge(1, key(1), key(2), nil, x)
	g.AddEdge(1, key(1), key(2), nil, y)
	g.DeleteEdge(5, key(1), key(2), x)
	es := g.DeleteEdge(5, key(1), key(2), y)

	assert.Equal(t, []int64{1, 1}, timeindex.Times(es.Additions(tgraph.LayerAll())))
	assert.Equal(t, []int64{5, 5}, timeindex.Times(es.Deletions(tgraph.LayerAll())))
	assert.Equal(t, []int64{5}, timeindex.Times(es.Deletions(tgraph.LayerOne(y))))
}

func TestDeleteCreatesMissingEdge(t *testing.T) {
	g := NewTemporalGraph()
	es := g.DeleteEdge(4, key(8), key(9), 0)
	assert.Equal(t, 2, g.NumVertices())
	assert.Empty(t, es.Additions(tgraph.LayerAll()))
	assert.Equal(t, []int64{4}, timeindex.Times(es.Deletions(tgraph.LayerAll())))
}

func TestConcurrentFirstInsertion(t *testing.T) {
	g := NewTemporalGraph()
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				g.AddEdge(int64(w), key(uint64(i)), key(uint64(i+1)), nil, 0)
				g.AddVertex(int64(i), key(uint64(1000+i)), nil)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 51+50, g.NumVertices())
	assert.Equal(t, 50, g.NumEdges())
	for _, es := range g.EdgeStores() {
		assert.Len(t, es.Additions(tgraph.LayerAll()), 16)
	}
}

func TestVertexPropertyHistory(t *testing.T) {
	g := NewTemporalGraph()
	weight := g.VertexMeta().GetOrCreate("weight")
	v := g.AddVertex(2, key(1), map[int]tgraph.Prop{weight: int64(10)})
	g.AddVertex(2, key(1), map[int]tgraph.Prop{weight: int64(10)})
	g.AddVertexProperties(4, v, map[int]tgraph.Prop{weight: int64(20)})

	vs := g.Vertex(v)
	assert.Equal(t, 1, vs.Additions().Len(), "same timestamp is recorded once")

	tp, ok := vs.Props().Temporal(weight)
	require.True(t, ok)
	assert.Equal(t, []tgraph.TimedProp{{T: 2, Value: int64(10)}, {T: 4, Value: int64(20)}}, tp.History())
	assert.Equal(t, []tgraph.TimedProp{{T: 4, Value: int64(20)}}, tp.Window(3, 10))
	assert.Empty(t, tp.Window(5, 5))
}

func TestTPropKeepsDistinctValuesAtSameTime(t *testing.T) {
	p := newTProp()
	assert.True(t, p.Add(timeindex.Entry{T: 1, Seq: 1}, "a"))
	assert.True(t, p.Add(timeindex.Entry{T: 1, Seq: 2}, "b"))
	assert.False(t, p.Add(timeindex.Entry{T: 1, Seq: 3}, "a"))
	assert.Equal(t, []tgraph.TimedProp{{T: 1, Value: "a"}, {T: 1, Value: "b"}}, p.History())
}

func TestStaticProps(t *testing.T) {
	pt := newPropTable()
	_, ok := pt.Static(0)
	assert.False(t, ok)
	pt.SetStatic(1, "x")
	pt.SetStatic(1, "y")
	pt.SetStatic(0, int64(3))
	v, ok := pt.Static(1)
	require.True(t, ok)
	assert.Equal(t, "y", v)
	assert.Equal(t, []int{0, 1}, pt.StaticIDs())
}

func TestAdjacency(t *testing.T) {
	g := NewTemporalGraph()
	g.AddEdge(1, key(1), key(3), nil, 0)
	g.AddEdge(1, key(1), key(2), nil, 0)
	g.AddEdge(1, key(4), key(1), nil, 0)

	v, _ := g.FindVertex(1)
	vs := g.Vertex(v)
	assert.Len(t, vs.Adjacency(tgraph.Out), 2)
	assert.Len(t, vs.Adjacency(tgraph.In), 1)

	adj := vs.Adjacency(tgraph.Both)
	require.Len(t, adj, 3)
	assert.Equal(t, tgraph.Out, adj[0].Dir)
	assert.Less(t, uint64(adj[0].Nbr), uint64(adj[1].Nbr), "sorted by neighbour")
	assert.Equal(t, tgraph.In, adj[2].Dir)
}
