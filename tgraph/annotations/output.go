package annotations

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// OutputFormatter formats events for human-readable display.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
	renderer *ViewRenderer
}

// NewOutputFormatter creates a formatter, enabling color when w is a
// terminal.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}

	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isTerminal(f.Fd())
	}

	return &OutputFormatter{
		useColor: useColor,
		writer:   w,
		renderer: NewViewRenderer(useColor),
	}
}

// Handle prints events as they occur.
func (f *OutputFormatter) Handle(event Event) {
	output := f.Format(event)
	if output != "" {
		fmt.Fprintln(f.writer, output)
	}
}

// Format converts an event to a human-readable string.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event.Latency)

	switch event.Name {
	case MutationApplied:
		return fmt.Sprintf("%s %s t=%v %s",
			latency,
			f.colorize(fmt.Sprint(event.Data["op"]), color.FgCyan),
			event.Data["time"],
			f.describeEntity(event.Data))

	case MutationFailed:
		return fmt.Sprintf("%s %s %v failed: %v",
			latency,
			f.colorize("✗", color.FgRed),
			event.Data["op"],
			event.Data["error"])

	case IngestBegin:
		return fmt.Sprintf("%s %s Ingesting %s with %d workers",
			latency,
			f.colorize("===", color.FgYellow),
			f.colorizeCount("events", intOf(event.Data["events"])),
			intOf(event.Data["workers"]))

	case IngestComplete:
		if err, ok := event.Data["error"]; ok && err != nil {
			return fmt.Sprintf("%s %s Ingest failed: %v", latency, f.colorize("✗", color.FgRed), err)
		}
		return fmt.Sprintf("%s %s Ingested %s",
			latency,
			f.colorize("===", color.FgGreen),
			f.colorizeCount("events", intOf(event.Data["events"])))

	case ReplayComplete:
		return fmt.Sprintf("%s Replayed %s",
			latency,
			f.colorizeCount("records", intOf(event.Data["records"])))

	case ViewMaterialized, ViewSummarized:
		verb := "Materialized"
		if event.Name == ViewSummarized {
			verb = "Summarized"
		}
		return fmt.Sprintf("%s %s %s",
			latency,
			verb,
			f.renderer.RenderView(ViewInfo{
				Window:   fmt.Sprint(event.Data["window"]),
				Layers:   stringsOf(event.Data["layers"]),
				Vertices: intOf(event.Data["vertices"]),
				Edges:    intOf(event.Data["edges"]),
			}))

	case GenerateComplete:
		return fmt.Sprintf("%s Generated %v graph: %s, %s",
			latency,
			event.Data["model"],
			f.colorizeCount("vertices", intOf(event.Data["vertices"])),
			f.colorizeCount("edges", intOf(event.Data["edges"])))

	case ErrorJournal:
		return fmt.Sprintf("%s %s journal: %v",
			latency,
			f.colorize("✗", color.FgRed),
			event.Data["error"])

	default:
		return fmt.Sprintf("%s %s %s", latency, event.Name, formatData(event.Data))
	}
}

func (f *OutputFormatter) describeEntity(data map[string]interface{}) string {
	src, hasSrc := data["src"]
	dst, hasDst := data["dst"]
	switch {
	case hasSrc && hasDst:
		layer, _ := data["layer"].(string)
		if layer == "" {
			return fmt.Sprintf("%v->%v", src, dst)
		}
		return fmt.Sprintf("%v->%v [%s]", src, dst, layer)
	case hasSrc:
		return fmt.Sprint(src)
	}
	return "graph"
}

// formatLatency formats a duration as [XXXms] or [XXXµs] with color coding.
func (f *OutputFormatter) formatLatency(d time.Duration) string {
	// Use microseconds for sub-millisecond durations
	if d < time.Millisecond {
		s := fmt.Sprintf("[%dµs]", d.Microseconds())
		if !f.useColor {
			return s
		}
		return color.GreenString(s)
	}

	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("[%.1fms]", ms)

	if !f.useColor {
		return s
	}

	switch {
	case ms < 50:
		return color.GreenString(s)
	case ms < 200:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// colorizeCount formats a count with a label, using color based on the label type.
func (f *OutputFormatter) colorizeCount(label string, count int) string {
	text := fmt.Sprintf("%d %s", count, label)

	if !f.useColor {
		return text
	}

	switch strings.ToLower(label) {
	case "vertices":
		return color.CyanString(text)
	case "edges":
		return color.MagentaString(text)
	case "events", "records":
		return color.BlueString(text)
	default:
		return text
	}
}

// colorize applies color if enabled.
func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

func formatData(data map[string]interface{}) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, data[k])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func intOf(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	}
	return 0
}

func stringsOf(v interface{}) []string {
	s, _ := v.([]string)
	return s
}

// ConsoleHandler creates a handler that prints formatted events to stdout.
func ConsoleHandler() Handler {
	return NewOutputFormatter(os.Stdout).Handle
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
