package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements Collector on its own registry, so several graphs
// in one process do not collide.
type Prometheus struct {
	registry *prometheus.Registry

	mutations       *prometheus.CounterVec
	mutationLatency *prometheus.HistogramVec
	ingested        *prometheus.CounterVec
	replayed        prometheus.Counter
	vertices        prometheus.Gauge
	edges           prometheus.Gauge
}

// NewPrometheus creates the collector and registers its metrics under
// namespace.
func NewPrometheus(namespace string) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Total number of graph mutations, by op and status",
			},
			[]string{"op", "status"},
		),
		mutationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "mutation_duration_seconds",
				Help:      "Duration of graph mutations in seconds",
				Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
			[]string{"op"},
		),
		ingested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingested_events_total",
				Help:      "Events applied by bulk ingestion, by status",
			},
			[]string{"status"},
		),
		replayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replayed_records_total",
			Help:      "Journal records replayed",
		}),
		vertices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vertices",
			Help:      "Number of vertices in the graph",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "edges",
			Help:      "Number of edges in the graph",
		}),
	}
	p.registry.MustRegister(p.mutations, p.mutationLatency, p.ingested, p.replayed, p.vertices, p.edges)
	return p
}

// Registry exposes the registry for an HTTP handler or a textfile export.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile writes the current metrics in the text exposition format.
func (p *Prometheus) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordMutation increments the mutation counter by op and status and
// observes the latency.
func (p *Prometheus) RecordMutation(op string, duration time.Duration, err error) {
	p.mutations.WithLabelValues(op, status(err)).Inc()
	p.mutationLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordIngest splits count into ok and error samples.
func (p *Prometheus) RecordIngest(count, failed int, _ time.Duration) {
	p.ingested.WithLabelValues("ok").Add(float64(count - failed))
	p.ingested.WithLabelValues("error").Add(float64(failed))
}

// RecordReplay adds to the replayed records counter.
func (p *Prometheus) RecordReplay(records int, _ time.Duration, _ error) {
	p.replayed.Add(float64(records))
}

// SetGraphSize sets the vertex and edge gauges.
func (p *Prometheus) SetGraphSize(vertices, edges int) {
	p.vertices.Set(float64(vertices))
	p.edges.Set(float64(edges))
}
