package db

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/metrics"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
	"github.com/wbrown/janus-tgraph/tgraph/view"
)

func edgeNames(v view.View) []string {
	var out []string
	for e := range v.Edges() {
		out = append(out, e.String())
	}
	slices.Sort(out)
	return out
}

// edgeHistories maps each visible edge to its addition and deletion times.
func edgeHistories(v view.View) map[string]string {
	out := make(map[string]string)
	for e := range v.Edges() {
		out[e.String()] = fmt.Sprint(e.History(), e.DeletionHistory())
	}
	return out
}

func TestAddVertexIsIdempotent(t *testing.T) {
	g := New()
	require.NoError(t, g.AddVertex(1, "a", tgraph.Props{"x": 1}))
	require.NoError(t, g.AddVertex(1, "a", tgraph.Props{"x": 1}))

	assert.Equal(t, 1, g.NumVertices())
	v, ok := g.Vertex("a")
	require.True(t, ok)
	assert.Equal(t, []int64{1}, v.History())
	x, ok := v.Property("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), x)
}

func TestAddEdgeCreatesEndpoints(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge(3, 1, 2, nil, ""))

	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 1, g.NumEdges())
	for _, id := range []uint64{1, 2} {
		v, ok := g.Vertex(id)
		require.True(t, ok)
		assert.Equal(t, []int64{3}, v.History())
	}
	e, ok := g.Edge(1, 2)
	require.True(t, ok)
	assert.Equal(t, "1->2", e.String())
}

func TestMutationErrors(t *testing.T) {
	setup := func(t *testing.T) *Graph {
		g := New()
		require.NoError(t, g.AddVertex(1, "a", nil))
		require.NoError(t, g.AddVertex(1, "b", nil))
		require.NoError(t, g.AddEdge(1, "a", "c", nil, "x"))
		return g
	}

	tests := []struct {
		name   string
		mutate func(g *Graph) error
		want   error
	}{
		{"unparseable time", func(g *Graph) error {
			return g.AddVertex("yesterday", "z", nil)
		}, tgraph.ErrParseTime},
		{"unsupported time type", func(g *Graph) error {
			return g.AddVertex(1.5, "z", nil)
		}, tgraph.ErrUnsupportedTime},
		{"custom format on integer time", func(g *Graph) error {
			return g.Apply(Event{Op: storage.OpAddVertex, Time: 5, Format: "%Y", Src: "z"})
		}, tgraph.ErrUnsupportedTime},
		{"unsupported vertex id", func(g *Graph) error {
			return g.AddEdge(1, "z", 2.5, nil, "")
		}, tgraph.ErrUnsupportedVertexID},
		{"negative vertex id", func(g *Graph) error {
			return g.AddVertex(1, -4, nil)
		}, tgraph.ErrUnsupportedVertexID},
		{"unsupported property", func(g *Graph) error {
			return g.AddVertex(1, "z", tgraph.Props{"p": struct{}{}})
		}, tgraph.ErrUnsupportedProp},
		{"properties on missing vertex", func(g *Graph) error {
			return g.AddVertexProperties(2, "ghost", tgraph.Props{"p": 1})
		}, tgraph.ErrVertexNotFound},
		{"static properties on missing vertex", func(g *Graph) error {
			return g.AddVertexStaticProperties("ghost", tgraph.Props{"p": 1})
		}, tgraph.ErrVertexNotFound},
		{"properties on missing edge", func(g *Graph) error {
			return g.AddEdgeProperties(2, "a", "b", tgraph.Props{"p": 1}, "")
		}, tgraph.ErrEdgeNotFound},
		{"properties on edge missing from layer", func(g *Graph) error {
			return g.AddEdgeProperties(2, "a", "c", tgraph.Props{"p": 1}, "")
		}, tgraph.ErrEdgeNotFound},
		{"properties in unknown layer", func(g *Graph) error {
			return g.AddEdgeStaticProperties("a", "c", tgraph.Props{"p": 1}, "nope")
		}, tgraph.ErrInvalidLayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := setup(t)
			err := tt.mutate(g)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, 3, g.NumVertices())
			assert.Equal(t, 1, g.NumEdges())
			assert.Equal(t, []string{tgraph.DefaultLayer, "x"}, g.Store().Layers().Names())
		})
	}
}

func TestCustomTimeFormats(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdgeWithCustomTimeFormat("2021-01-01 00:00:00", "%Y-%m-%d %H:%M:%S", "a", "b", nil, ""))
	require.NoError(t, g.AddVertexWithCustomTimeFormat("02/01/2021", "02/01/2006", "c", nil))
	require.NoError(t, g.DeleteEdgeWithCustomTimeFormat("2021-01-03", "%Y-%m-%d", "a", "b", ""))
	require.NoError(t, g.AddPropertiesWithCustomTimeFormat("2021-01-04T00:00:00Z", "2006-01-02T15:04:05Z07:00", tgraph.Props{"k": "v"}))

	const day = int64(24 * 60 * 60 * 1000)
	start := int64(1609459200000)

	earliest, ok := g.EarliestTime()
	require.True(t, ok)
	assert.Equal(t, start, earliest)

	c, ok := g.Vertex("c")
	require.True(t, ok)
	assert.Equal(t, []int64{start + day}, c.History())

	e, ok := g.Edge("a", "b")
	require.True(t, ok)
	assert.Equal(t, []int64{start + 2*day}, e.DeletionHistory())

	history := g.TemporalProperty("k")
	require.Len(t, history, 1)
	assert.Equal(t, start+3*day, history[0].T)
}

func TestProperties(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge(1, "a", "b", tgraph.Props{"w": 1.5}, "x"))
	require.NoError(t, g.AddEdgeProperties(4, "a", "b", tgraph.Props{"w": 2.5}, "x"))
	require.NoError(t, g.AddEdgeStaticProperties("a", "b", tgraph.Props{"kind": "road"}, "x"))
	require.NoError(t, g.AddVertexProperties(2, "a", tgraph.Props{"age": 3}))
	require.NoError(t, g.AddVertexStaticProperties("a", tgraph.Props{"type": "city"}))
	require.NoError(t, g.AddProperties(7, tgraph.Props{"version": 2}))
	require.NoError(t, g.AddStaticProperties(tgraph.Props{"name": "roads"}))

	e, ok := g.Edge("a", "b")
	require.True(t, ok)
	w, ok := e.Property("w")
	require.True(t, ok)
	assert.Equal(t, 2.5, w)
	kind, ok := e.StaticProperty("kind")
	require.True(t, ok)
	assert.Equal(t, "road", kind)

	early, ok := g.Window(0, 3).Edge("a", "b")
	require.True(t, ok)
	w, ok = early.Property("w")
	require.True(t, ok)
	assert.Equal(t, 1.5, w)

	a, ok := g.Vertex("a")
	require.True(t, ok)
	assert.Equal(t, []string{"age", "type"}, a.PropertyNames())
	typ, ok := a.Property("type")
	require.True(t, ok)
	assert.Equal(t, "city", typ)

	version, ok := g.Property("version")
	require.True(t, ok)
	assert.Equal(t, int64(2), version)
	name, ok := g.StaticProperty("name")
	require.True(t, ok)
	assert.Equal(t, "roads", name)
}

func TestConcurrentGrowth(t *testing.T) {
	g := New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				assert.NoError(t, g.AddEdge(i, "hub", fmt.Sprint(i), nil, ""))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 101, g.NumVertices())
	assert.Equal(t, 100, g.NumEdges())
	hub, ok := g.Vertex("hub")
	require.True(t, ok)
	assert.Equal(t, 100, hub.OutDegree())
	assert.Len(t, hub.History(), 100)
}

func TestPersistentView(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge(1, 1, 2, nil, ""))
	require.NoError(t, g.DeleteEdge(5, 1, 2, ""))

	assert.True(t, g.Window(0, 3).HasEdge(1, 2))
	assert.False(t, g.Window(2, 4).HasEdge(1, 2))
	assert.False(t, g.Window(6, 10).HasEdge(1, 2))

	p := g.Persistent()
	assert.True(t, p.Window(0, 3).HasEdge(1, 2))
	assert.True(t, p.Window(2, 4).HasEdge(1, 2))
	assert.False(t, p.Window(5, 10).HasEdge(1, 2))
	assert.False(t, p.Window(6, 10).HasEdge(1, 2))
}

func TestJournalRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	j, err := storage.OpenBadgerJournal(dir)
	require.NoError(t, err)
	g, err := Open(ctx, j)
	require.NoError(t, err)
	id := g.ID()

	require.NoError(t, g.AddVertex(1, "a", tgraph.Props{"x": 1}))
	require.NoError(t, g.AddEdge(2, "a", "b", tgraph.Props{"w": 0.5}, "road"))
	require.NoError(t, g.DeleteEdge(4, "a", "b", "road"))
	require.NoError(t, g.AddEdgeStaticProperties("a", "b", tgraph.Props{"kind": "toll"}, "road"))
	require.NoError(t, g.AddStaticProperties(tgraph.Props{"name": "g"}))
	require.Error(t, g.AddVertexProperties(5, "ghost", tgraph.Props{"x": 2}))
	require.NoError(t, g.Close())

	j, err = storage.OpenBadgerJournal(dir)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), j.Len())

	var replayData map[string]interface{}
	replayed, err := Open(ctx, j, WithAnnotations(func(ev annotations.Event) {
		if ev.Name == annotations.ReplayComplete {
			replayData = ev.Data
		}
	}))
	require.NoError(t, err)
	defer replayed.Close()
	require.NotNil(t, replayData)
	assert.Equal(t, 5, replayData["records"])
	assert.Equal(t, uint64(5), replayData["journal_len"])

	assert.Equal(t, id, replayed.ID())
	assert.Equal(t, g.NumVertices(), replayed.NumVertices())
	assert.Equal(t, edgeHistories(g.View), edgeHistories(replayed.View))
	assert.Equal(t, g.LayerNames(), replayed.LayerNames())

	e, ok := replayed.Edge("a", "b")
	require.True(t, ok)
	kind, ok := e.StaticProperty("kind")
	require.True(t, ok)
	assert.Equal(t, "toll", kind)
	name, ok := replayed.StaticProperty("name")
	require.True(t, ok)
	assert.Equal(t, "g", name)

	require.NoError(t, replayed.AddVertex(9, "c", nil))
	assert.Equal(t, uint64(6), j.Len())
}

func TestReplayCancelled(t *testing.T) {
	j, err := storage.OpenMemJournal()
	require.NoError(t, err)
	defer j.Close()

	g := New(WithJournal(j))
	require.NoError(t, g.AddVertex(1, "a", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Replay(ctx, j)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFailedJournalAppendLeavesGraphUnchanged(t *testing.T) {
	j, err := storage.OpenMemJournal()
	require.NoError(t, err)

	g := New(WithJournal(j))
	require.NoError(t, g.AddVertex(1, "a", nil))
	require.NoError(t, j.Close())

	err = g.AddEdge(2, "a", "b", nil, "")
	require.ErrorIs(t, err, tgraph.ErrJournalClosed)
	assert.Equal(t, 1, g.NumVertices())
	assert.Equal(t, 0, g.NumEdges())
}

func TestObservability(t *testing.T) {
	var (
		mu     sync.Mutex
		events []annotations.Event
	)
	handler := func(ev annotations.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}
	m := &metrics.Basic{}
	g := New(WithMetrics(m), WithAnnotations(handler))

	require.NoError(t, g.AddEdge(1, "a", "b", nil, ""))
	require.Error(t, g.AddVertexProperties(1, "ghost", tgraph.Props{"p": 1}))

	assert.Equal(t, int64(2), m.Mutations.Load())
	assert.Equal(t, int64(1), m.MutationErrors.Load())
	assert.Equal(t, int64(2), m.Vertices.Load())
	assert.Equal(t, int64(1), m.Edges.Load())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, annotations.MutationApplied, events[0].Name)
	assert.Equal(t, "a", events[0].Data["src"])
	assert.Equal(t, annotations.MutationFailed, events[1].Name)
}

func TestMaterialize(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge(1, "a", "b", tgraph.Props{"w": 1}, "x"))
	require.NoError(t, g.AddEdge(3, "a", "b", tgraph.Props{"w": 2}, "y"))
	require.NoError(t, g.AddEdge(6, "b", "c", nil, "x"))
	require.NoError(t, g.DeleteEdge(7, "a", "b", "x"))

	v, err := g.Window(0, 5).Layers("x")
	require.NoError(t, err)

	m := Materialize(v)
	assert.NotEqual(t, g.ID(), m.ID())
	assert.Equal(t, v.NumVertices(), m.NumVertices())
	assert.Equal(t, edgeNames(v), edgeNames(m.View))
	assert.Equal(t, edgeHistories(v), edgeHistories(m.View))

	e, ok := m.Edge("a", "b")
	require.True(t, ok)
	w, ok := e.Property("w")
	require.True(t, ok)
	assert.Equal(t, int64(1), w)

	require.NoError(t, m.AddEdge(9, "c", "d", nil, ""))
	assert.False(t, g.HasVertex("d"))
}
