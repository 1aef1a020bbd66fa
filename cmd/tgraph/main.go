package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/config"
	"github.com/wbrown/janus-tgraph/tgraph/db"
	"github.com/wbrown/janus-tgraph/tgraph/generate"
	"github.com/wbrown/janus-tgraph/tgraph/metrics"
	"github.com/wbrown/janus-tgraph/tgraph/report"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
	"github.com/wbrown/janus-tgraph/tgraph/view"
)

type flags struct {
	configPath string
	replay     bool
	verbose    bool
	window     string
	layers     string
	cfg        config.Config
}

func parseFlags() (flags, error) {
	var f flags
	var (
		journal      string
		metricsPath  string
		model        string
		vertices     int
		edgesPerStep int
		seed         int64
		persistent   bool
		logLevel     string
		logFormat    string
		help         bool
	)

	flag.StringVar(&f.configPath, "config", "", "YAML configuration file")
	flag.StringVar(&journal, "journal", "", "journal directory; mutations are persisted there")
	flag.BoolVar(&f.replay, "replay", false, "only replay the journal, do not generate")
	flag.IntVar(&vertices, "vertices", 0, "vertices to generate")
	flag.IntVar(&edgesPerStep, "edges-per-step", 0, "edges added with each generated vertex")
	flag.StringVar(&model, "model", "", "generator model: pa or random")
	flag.Int64Var(&seed, "seed", 0, "generator seed")
	flag.StringVar(&f.window, "window", "", "query window as start,end")
	flag.StringVar(&f.layers, "layers", "", "query layers as a,b")
	flag.BoolVar(&persistent, "persistent", false, "query with deletion-aware semantics")
	flag.BoolVar(&f.verbose, "verbose", false, "verbose mode (show graph annotations)")
	flag.StringVar(&metricsPath, "metrics", "", "write Prometheus metrics to this textfile")
	flag.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flag.StringVar(&logFormat, "log-format", "", "text or json")
	flag.BoolVar(&help, "h", false, "show help")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generates or replays a temporal graph and summarizes views of it.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -vertices 1000 -edges-per-step 5          # Generate in memory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -journal graph.db -model random           # Generate into a journal\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -journal graph.db -replay -window 0,500   # Summarize a replayed window\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config tgraph.yaml -verbose              # Show annotations\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return f, err
	}

	// Flags override the file only when given.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "journal":
			cfg.Journal = journal
		case "metrics":
			cfg.Metrics = metricsPath
		case "model":
			cfg.Generator.Model = model
		case "vertices":
			cfg.Generator.Vertices = vertices
		case "edges-per-step":
			cfg.Generator.EdgesPerStep = edgesPerStep
		case "seed":
			cfg.Generator.Seed = seed
		case "window":
			cfg.Query.Window = config.ParseList(f.window)
		case "layers":
			cfg.Query.Layers = config.ParseList(f.layers)
		case "persistent":
			cfg.Query.Persistent = persistent
		case "log-level":
			cfg.Log.Level = logLevel
		case "log-format":
			cfg.Log.Format = logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		return f, err
	}
	if f.replay && cfg.Journal == "" {
		return f, errors.New("-replay needs a journal")
	}
	f.cfg = cfg
	return f, nil
}

func newLogger(cfg config.LogConfig) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}
	opts := log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "tgraph",
	}
	if cfg.Format == "json" {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func main() {
	f, err := parseFlags()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	logger := newLogger(f.cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, f, logger); err != nil {
		logger.Fatal("tgraph failed", "err", err)
	}
}

func run(ctx context.Context, f flags, logger *log.Logger) error {
	cfg := f.cfg

	var (
		collector metrics.Collector = &metrics.Basic{}
		prom      *metrics.Prometheus
	)
	if cfg.Metrics != "" {
		prom = metrics.NewPrometheus("tgraph")
		collector = prom
	}

	opts := []db.Option{
		db.WithLogger(db.NewLogger(logger)),
		db.WithMetrics(collector),
	}
	if f.verbose {
		opts = append(opts, db.WithAnnotations(annotations.ConsoleHandler()))
	}

	g, err := openGraph(ctx, cfg.Journal, opts)
	if err != nil {
		return err
	}
	defer g.Close()
	logger.Info("graph ready", "id", g.ID(), "vertices", g.NumVertices(), "edges", g.NumEdges())

	if !f.replay {
		rng := rand.New(rand.NewSource(cfg.Generator.Seed))
		gen := generate.PreferentialAttachment
		if cfg.Generator.Model == config.ModelRandom {
			gen = generate.RandomAttachment
		}
		if err := gen(ctx, g, cfg.Generator.Vertices, cfg.Generator.EdgesPerStep, rng); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		logger.Info("generated",
			"model", cfg.Generator.Model,
			"vertices", g.NumVertices(),
			"edges", g.NumEdges())
	}

	base := g.View
	if cfg.Query.Persistent {
		base = g.Persistent()
	}
	summarize(g, "Graph", base)

	query, restricted, err := queryView(base, cfg.Query)
	if err != nil {
		return err
	}
	if restricted {
		summarize(g, "Query", query)
	}

	if prom != nil {
		if err := prom.WriteTextfile(cfg.Metrics); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Debug("metrics written", "path", cfg.Metrics)
	}
	return nil
}

func openGraph(ctx context.Context, dir string, opts []db.Option) (*db.Graph, error) {
	if dir == "" {
		return db.New(opts...), nil
	}
	j, err := storage.OpenBadgerJournal(dir)
	if err != nil {
		return nil, err
	}
	g, err := db.Open(ctx, j, opts...)
	if err != nil {
		j.Close()
		return nil, err
	}
	return g, nil
}

// queryView applies the configured window and layers to base. restricted
// is false when neither is set.
func queryView(base view.View, q config.QueryConfig) (view.View, bool, error) {
	v := base
	start, end, windowed, err := q.Bounds()
	if err != nil {
		return v, false, err
	}
	if windowed {
		v = v.Window(start, end)
	}
	if len(q.Layers) > 0 {
		if v, err = v.Layers(q.Layers...); err != nil {
			return v, false, err
		}
	}
	return v, windowed || len(q.Layers) > 0, nil
}

func summarize(g *db.Graph, title string, v view.View) {
	start := time.Now()
	s := report.Summarize(v)
	g.Annotate(annotations.ViewSummarized, start, s.Data())
	fmt.Printf("\n## %s\n\n%s\n", title, report.Format(s))
}
