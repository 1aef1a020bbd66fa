package generate

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/db"
)

func TestPreferentialAttachmentOnEmptyGraph(t *testing.T) {
	g := db.New()
	require.NoError(t, PreferentialAttachment(context.Background(), g, 1000, 10, rand.New(rand.NewSource(1))))

	assert.Equal(t, 1010, g.NumVertices())
	assert.Equal(t, 10009, g.NumEdges())

	latest, ok := g.LatestTime()
	require.True(t, ok)
	assert.Equal(t, int64(1000), latest)
}

func TestPreferentialAttachmentOnIsolatedVertices(t *testing.T) {
	g := db.New()
	for i := 0; i < 10; i++ {
		require.NoError(t, g.AddVertex(i, i, nil))
	}
	require.NoError(t, PreferentialAttachment(context.Background(), g, 1000, 5, rand.New(rand.NewSource(2))))

	assert.Equal(t, 1010, g.NumVertices())
	assert.Equal(t, 5009, g.NumEdges())
}

func TestPreferentialAttachmentOnPriorGraph(t *testing.T) {
	g := db.New()
	rng := rand.New(rand.NewSource(3))
	require.NoError(t, RandomAttachment(context.Background(), g, 1000, 3, rng))
	assert.Equal(t, 1003, g.NumVertices())
	assert.Equal(t, 3000, g.NumEdges())

	require.NoError(t, PreferentialAttachment(context.Background(), g, 500, 4, rng))
	assert.Equal(t, 1503, g.NumVertices())
	assert.Equal(t, 5000, g.NumEdges())
}

func TestNewVerticesHaveRequestedOutDegree(t *testing.T) {
	g := db.New()
	require.NoError(t, PreferentialAttachment(context.Background(), g, 50, 3, rand.New(rand.NewSource(4))))

	for v := range g.Vertices() {
		if v.ID() > 3 {
			assert.Equal(t, 3, v.OutDegree(), "vertex %s", v.Name())
			assert.Equal(t, []int64{int64(v.ID() - 3)}, v.Window(0, int64(v.ID()-2)).History())
		}
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	build := func() []string {
		g := db.New()
		require.NoError(t, PreferentialAttachment(context.Background(), g, 200, 2, rand.New(rand.NewSource(7))))
		var out []string
		for e := range g.Edges() {
			out = append(out, e.String())
		}
		return out
	}
	assert.Equal(t, build(), build())
}

func TestSingleVertexWithoutEdges(t *testing.T) {
	g := db.New()
	require.NoError(t, g.AddVertex(0, "solo", nil))
	require.NoError(t, PreferentialAttachment(context.Background(), g, 5, 1, rand.New(rand.NewSource(5))))

	assert.Equal(t, 6, g.NumVertices())
	assert.Equal(t, 5, g.NumEdges())
}

func TestGeneratorArguments(t *testing.T) {
	g := db.New()
	rng := rand.New(rand.NewSource(6))
	assert.Error(t, PreferentialAttachment(context.Background(), g, -1, 2, rng))
	assert.Error(t, RandomAttachment(context.Background(), g, 2, -1, rng))

	require.NoError(t, RandomAttachment(context.Background(), g, 3, 0, rng))
	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 0, g.NumEdges())
}

func TestGenerateAnnotation(t *testing.T) {
	var names []string
	g := db.New(db.WithAnnotations(func(ev annotations.Event) {
		if ev.Name == annotations.GenerateComplete {
			names = append(names, ev.Data["model"].(string))
		}
	}))
	require.NoError(t, RandomAttachment(context.Background(), g, 10, 2, rand.New(rand.NewSource(8))))
	assert.Equal(t, []string{"random_attachment"}, names)
}

func TestCancelledGeneratorStopsBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events []annotations.Event
	g := db.New(db.WithAnnotations(func(e annotations.Event) { events = append(events, e) }))
	err := PreferentialAttachment(ctx, g, 100, 2, rand.New(rand.NewSource(9)))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, g.NumVertices())

	err = RandomAttachment(ctx, g, 100, 2, rand.New(rand.NewSource(9)))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, g.NumVertices())

	for _, e := range events {
		assert.NotEqual(t, annotations.GenerateComplete, e.Name)
	}
}
