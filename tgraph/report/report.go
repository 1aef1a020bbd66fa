// Package report summarizes graph views as markdown tables.
package report

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gonum.org/v1/gonum/stat"

	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/view"
)

// LayerCount is the number of edges visible in one layer.
type LayerCount struct {
	Layer string
	Edges int
}

// Summary describes what a view shows.
type Summary struct {
	Window      string
	Layers      []string
	Vertices    int
	Edges       int
	Occurrences int
	Earliest    int64
	Latest      int64
	HasTimes    bool
	PerLayer    []LayerCount

	DegreeMean   float64
	DegreeStdDev float64
	DegreeMedian float64
	DegreeMax    int
}

// Summarize walks v once for vertices and once for edges. Time bounds are
// those of the visible vertices, which include their edges' times.
func Summarize(v view.View) Summary {
	s := Summary{
		Window:   v.Internal().ViewWindow().String(),
		Layers:   v.LayerNames(),
		Earliest: math.MaxInt64,
		Latest:   math.MinInt64,
	}

	var degrees []float64
	for vv := range v.Vertices() {
		s.Vertices++
		d := vv.Degree()
		degrees = append(degrees, float64(d))
		s.DegreeMax = max(s.DegreeMax, d)
		if t, ok := vv.EarliestTime(); ok {
			s.Earliest = min(s.Earliest, t)
			s.HasTimes = true
		}
		if t, ok := vv.LatestTime(); ok {
			s.Latest = max(s.Latest, t)
		}
	}
	if !s.HasTimes {
		s.Earliest, s.Latest = 0, 0
	}

	perLayer := make(map[string]int)
	for e := range v.Edges() {
		s.Edges++
		for range e.Explode() {
			s.Occurrences++
		}
		for _, name := range e.LayerNames() {
			perLayer[name]++
		}
	}
	for _, name := range s.Layers {
		s.PerLayer = append(s.PerLayer, LayerCount{Layer: name, Edges: perLayer[name]})
	}

	switch len(degrees) {
	case 0:
	case 1:
		s.DegreeMean = degrees[0]
		s.DegreeMedian = degrees[0]
	default:
		s.DegreeMean, s.DegreeStdDev = stat.MeanStdDev(degrees, nil)
		slices.Sort(degrees)
		s.DegreeMedian = stat.Quantile(0.5, stat.Empirical, degrees, nil)
	}
	return s
}

// Info is the summary in the form the annotation renderer prints.
func (s Summary) Info() annotations.ViewInfo {
	return annotations.ViewInfo{
		Window:   s.Window,
		Layers:   s.Layers,
		Vertices: s.Vertices,
		Edges:    s.Edges,
	}
}

// Data is the summary as annotation event data.
func (s Summary) Data() map[string]interface{} {
	return map[string]interface{}{
		"window":   s.Window,
		"layers":   s.Layers,
		"vertices": s.Vertices,
		"edges":    s.Edges,
	}
}

// Format renders s as a two-column markdown table.
func Format(s Summary) string {
	out := &strings.Builder{}
	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment([]tw.Align{tw.AlignNone, tw.AlignNone}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"metric", "value"})

	layers := "*"
	if len(s.Layers) > 0 {
		layers = strings.Join(s.Layers, ", ")
	}
	rows := [][]string{
		{"window", s.Window},
		{"layers", layers},
		{"vertices", fmt.Sprintf("%d", s.Vertices)},
		{"edges", fmt.Sprintf("%d", s.Edges)},
		{"occurrences", fmt.Sprintf("%d", s.Occurrences)},
	}
	if s.HasTimes {
		rows = append(rows,
			[]string{"earliest", fmt.Sprintf("%d", s.Earliest)},
			[]string{"latest", fmt.Sprintf("%d", s.Latest)},
		)
	}
	for _, lc := range s.PerLayer {
		rows = append(rows, []string{"edges in " + lc.Layer, fmt.Sprintf("%d", lc.Edges)})
	}
	rows = append(rows,
		[]string{"degree mean", fmt.Sprintf("%.2f", s.DegreeMean)},
		[]string{"degree stddev", fmt.Sprintf("%.2f", s.DegreeStdDev)},
		[]string{"degree median", fmt.Sprintf("%.2f", s.DegreeMedian)},
		[]string{"degree max", fmt.Sprintf("%d", s.DegreeMax)},
	)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	return out.String()
}
