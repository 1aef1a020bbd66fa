package db

import (
	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/metrics"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
)

type options struct {
	logger  *Logger
	metrics metrics.Collector
	handler annotations.Handler
	journal storage.Journal
}

// Option configures a Graph.
type Option func(*options)

// WithLogger configures structured logging for mutations, ingestion and
// replay. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics configures the metrics collector.
//
//	m := metrics.NewPrometheus("tgraph")
//	g := db.New(db.WithMetrics(m))
func WithMetrics(mc metrics.Collector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithAnnotations sends annotation events to handler.
func WithAnnotations(handler annotations.Handler) Option {
	return func(o *options) {
		o.handler = handler
	}
}

// WithJournal appends every successful mutation to j. Use Open to also
// rebuild the graph from j's existing records.
func WithJournal(j storage.Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metrics: metrics.Noop{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = metrics.Noop{}
	}
	return o
}
