package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/db"
)

func testGraph(t *testing.T) *db.Graph {
	g := db.New()
	require.NoError(t, g.AddEdge(1, "a", "b", nil, "x"))
	require.NoError(t, g.AddEdge(3, "a", "b", nil, "x"))
	require.NoError(t, g.AddEdge(2, "b", "c", nil, "y"))
	require.NoError(t, g.AddEdge(4, "c", "a", nil, ""))
	return g
}

// rowValue finds the value cell of metric in a rendered markdown table.
func rowValue(t *testing.T, table, metric string) string {
	for _, line := range strings.Split(table, "\n") {
		cells := strings.Split(line, "|")
		if len(cells) < 3 {
			continue
		}
		if strings.TrimSpace(cells[1]) == metric {
			return strings.TrimSpace(cells[2])
		}
	}
	t.Fatalf("metric %q not in table:\n%s", metric, table)
	return ""
}

func TestSummarizeFullGraph(t *testing.T) {
	s := Summarize(testGraph(t).View)

	assert.Equal(t, "[-inf, +inf)", s.Window)
	assert.Equal(t, []string{tgraph.DefaultLayer, "x", "y"}, s.Layers)
	assert.Equal(t, 3, s.Vertices)
	assert.Equal(t, 3, s.Edges)
	assert.Equal(t, 4, s.Occurrences)
	require.True(t, s.HasTimes)
	assert.Equal(t, int64(1), s.Earliest)
	assert.Equal(t, int64(4), s.Latest)
	assert.Equal(t, []LayerCount{{tgraph.DefaultLayer, 1}, {"x", 1}, {"y", 1}}, s.PerLayer)
	assert.Equal(t, 2.0, s.DegreeMean)
	assert.Equal(t, 0.0, s.DegreeStdDev)
	assert.Equal(t, 2.0, s.DegreeMedian)
	assert.Equal(t, 2, s.DegreeMax)
}

func TestSummarizeWindow(t *testing.T) {
	s := Summarize(testGraph(t).Window(2, 4))

	assert.Equal(t, "[2, 4)", s.Window)
	assert.Equal(t, 3, s.Vertices)
	assert.Equal(t, 2, s.Edges)
	assert.Equal(t, 2, s.Occurrences)
	assert.Equal(t, int64(2), s.Earliest)
	assert.Equal(t, int64(3), s.Latest)
	assert.InDelta(t, 4.0/3.0, s.DegreeMean, 1e-9)
	assert.InDelta(t, 0.57735, s.DegreeStdDev, 1e-5)
	assert.Equal(t, 1.0, s.DegreeMedian)
	assert.Equal(t, 2, s.DegreeMax)
}

func TestSummarizeLayerAndEmptyView(t *testing.T) {
	g := testGraph(t)
	v, err := g.Layers("x")
	require.NoError(t, err)
	s := Summarize(v)
	assert.Equal(t, []string{"x"}, s.Layers)
	assert.Equal(t, []LayerCount{{"x", 1}}, s.PerLayer)
	assert.Equal(t, 1, s.Edges)
	assert.Equal(t, 2, s.Occurrences)

	empty := Summarize(g.Window(100, 200))
	assert.Equal(t, 0, empty.Vertices)
	assert.False(t, empty.HasTimes)
	assert.Equal(t, 0.0, empty.DegreeMean)
}

func TestFormat(t *testing.T) {
	s := Summarize(testGraph(t).View)
	out := Format(s)

	assert.Equal(t, "3", rowValue(t, out, "vertices"))
	assert.Equal(t, "3", rowValue(t, out, "edges"))
	assert.Equal(t, "1", rowValue(t, out, "earliest"))
	assert.Equal(t, "1", rowValue(t, out, "edges in x"))
	assert.Equal(t, "2.00", rowValue(t, out, "degree mean"))

	info := s.Info()
	assert.Equal(t, 3, info.Vertices)
	assert.Equal(t, s.Window, s.Data()["window"])
}
