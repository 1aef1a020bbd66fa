package annotations

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ViewInfo is what the renderer shows of a graph view.
type ViewInfo struct {
	Window   string
	Layers   []string
	Vertices int
	Edges    int
}

// ViewRenderer pretty-prints view summaries.
type ViewRenderer struct {
	useColor bool
}

// NewViewRenderer creates a new view renderer
func NewViewRenderer(useColor bool) *ViewRenderer {
	return &ViewRenderer{useColor: useColor}
}

// RenderView renders a view as View(window, [layers], N vertices, M edges).
func (r *ViewRenderer) RenderView(v ViewInfo) string {
	layers := "*"
	if len(v.Layers) > 0 {
		layers = strings.Join(v.Layers, " ")
	}

	if r.useColor {
		return fmt.Sprintf("%s%s%s%s%s%s%s%s%s",
			color.BlueString("View("),
			color.CyanString(v.Window),
			color.BlueString(", ["),
			color.CyanString(layers),
			color.BlueString("], "),
			r.colorizeCount("vertices", v.Vertices),
			color.BlueString(", "),
			r.colorizeCount("edges", v.Edges),
			color.BlueString(")"))
	}

	return fmt.Sprintf("View(%s, [%s], %d vertices, %d edges)", v.Window, layers, v.Vertices, v.Edges)
}

// colorizeCount formats a count with color based on size
func (r *ViewRenderer) colorizeCount(label string, count int) string {
	if !r.useColor {
		return fmt.Sprintf("%d %s", count, label)
	}

	countStr := fmt.Sprintf("%d", count)

	switch {
	case count == 0:
		countStr = color.RedString(countStr)
	case count < 100:
		countStr = color.GreenString(countStr)
	case count < 10000:
		countStr = color.YellowString(countStr)
	default:
		countStr = color.RedString(countStr)
	}

	return fmt.Sprintf("%s %s", countStr, label)
}
