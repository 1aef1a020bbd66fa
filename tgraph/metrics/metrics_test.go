package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	p := NewPrometheus("tgraph")
	p.RecordMutation("add_edge", time.Millisecond, nil)
	p.RecordMutation("add_edge", time.Millisecond, nil)
	p.RecordMutation("add_edge", time.Millisecond, errors.New("bad time"))
	p.RecordIngest(10, 2, time.Second)
	p.RecordReplay(7, time.Second, nil)
	p.SetGraphSize(4, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.mutations.WithLabelValues("add_edge", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.mutations.WithLabelValues("add_edge", "error")))
	assert.Equal(t, 8.0, testutil.ToFloat64(p.ingested.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.ingested.WithLabelValues("error")))
	assert.Equal(t, 7.0, testutil.ToFloat64(p.replayed))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.vertices))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.edges))

	expected := `
# HELP tgraph_edges Number of edges in the graph
# TYPE tgraph_edges gauge
tgraph_edges 3
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "tgraph_edges"))
}

func TestPrometheusWriteTextfile(t *testing.T) {
	p := NewPrometheus("tgraph")
	p.SetGraphSize(1, 0)
	path := filepath.Join(t.TempDir(), "tgraph.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tgraph_vertices 1")
}

func TestBasicCollector(t *testing.T) {
	var b Basic
	b.RecordMutation("add_vertex", 10*time.Nanosecond, nil)
	b.RecordMutation("add_vertex", 5*time.Nanosecond, errors.New("x"))
	b.RecordIngest(3, 1, 0)
	b.SetGraphSize(2, 1)

	assert.Equal(t, int64(2), b.Mutations.Load())
	assert.Equal(t, int64(1), b.MutationErrors.Load())
	assert.Equal(t, int64(15), b.MutationNanos.Load())
	assert.Equal(t, int64(3), b.IngestEvents.Load())
	assert.Equal(t, int64(1), b.IngestFailed.Load())
	assert.Equal(t, int64(2), b.Vertices.Load())

	var _ Collector = Noop{}
	var _ Collector = &b
	var _ Collector = NewPrometheus("x")
}
