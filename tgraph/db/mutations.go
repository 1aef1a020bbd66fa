package db

import (
	"fmt"
	"time"

	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/annotations"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
)

// Every mutation resolves its inputs into a storage.Record, validates it
// against the store, journals it and only then applies it, so a failed
// mutation leaves no trace.

// AddVertex records an addition of vertex id at t. t is anything
// tgraph.TryIntoTime accepts.
func (g *Graph) AddVertex(t any, id any, props tgraph.Props) error {
	return g.vertexOp(storage.OpAddVertex, t, "", id, props)
}

// AddVertexWithCustomTimeFormat is AddVertex with t parsed using format.
func (g *Graph) AddVertexWithCustomTimeFormat(t, format string, id any, props tgraph.Props) error {
	return g.vertexOp(storage.OpAddVertex, t, format, id, props)
}

// AddVertexProperties adds temporal properties to an existing vertex.
func (g *Graph) AddVertexProperties(t any, id any, props tgraph.Props) error {
	return g.vertexOp(storage.OpAddVertexProperties, t, "", id, props)
}

// AddVertexStaticProperties sets static properties on an existing vertex.
func (g *Graph) AddVertexStaticProperties(id any, props tgraph.Props) error {
	return g.vertexOp(storage.OpAddVertexStaticProperties, int64(0), "", id, props)
}

// AddEdge records an addition of src->dst in layer at t, creating the
// endpoints and the edge as needed. The empty layer is the default layer.
func (g *Graph) AddEdge(t any, src, dst any, props tgraph.Props, layer string) error {
	return g.edgeOp(storage.OpAddEdge, t, "", src, dst, props, layer)
}

// AddEdgeWithCustomTimeFormat is AddEdge with t parsed using format.
func (g *Graph) AddEdgeWithCustomTimeFormat(t, format string, src, dst any, props tgraph.Props, layer string) error {
	return g.edgeOp(storage.OpAddEdge, t, format, src, dst, props, layer)
}

// DeleteEdge records a deletion of src->dst in layer at t. A missing edge
// is created so the deletion is not lost.
func (g *Graph) DeleteEdge(t any, src, dst any, layer string) error {
	return g.edgeOp(storage.OpDeleteEdge, t, "", src, dst, nil, layer)
}

// DeleteEdgeWithCustomTimeFormat is DeleteEdge with t parsed using format.
func (g *Graph) DeleteEdgeWithCustomTimeFormat(t, format string, src, dst any, layer string) error {
	return g.edgeOp(storage.OpDeleteEdge, t, format, src, dst, nil, layer)
}

// AddEdgeProperties adds temporal properties to an existing edge layer.
func (g *Graph) AddEdgeProperties(t any, src, dst any, props tgraph.Props, layer string) error {
	return g.edgeOp(storage.OpAddEdgeProperties, t, "", src, dst, props, layer)
}

// AddEdgeStaticProperties sets static properties on an existing edge layer.
func (g *Graph) AddEdgeStaticProperties(src, dst any, props tgraph.Props, layer string) error {
	return g.edgeOp(storage.OpAddEdgeStaticProperties, int64(0), "", src, dst, props, layer)
}

// AddProperties adds temporal graph properties at t.
func (g *Graph) AddProperties(t any, props tgraph.Props) error {
	return g.graphOp(storage.OpAddProperties, t, "", props)
}

// AddPropertiesWithCustomTimeFormat is AddProperties with t parsed using
// format.
func (g *Graph) AddPropertiesWithCustomTimeFormat(t, format string, props tgraph.Props) error {
	return g.graphOp(storage.OpAddProperties, t, format, props)
}

// AddStaticProperties sets static graph properties.
func (g *Graph) AddStaticProperties(props tgraph.Props) error {
	return g.graphOp(storage.OpAddStaticProperties, int64(0), "", props)
}

func resolveTime(t any, format string) (int64, error) {
	if format == "" {
		return tgraph.TryIntoTime(t)
	}
	s, ok := t.(string)
	if !ok {
		return 0, fmt.Errorf("%w: custom format needs a string, got %T", tgraph.ErrUnsupportedTime, t)
	}
	return tgraph.ParseTime(s, format)
}

func (g *Graph) vertexOp(op storage.Op, t any, format string, id any, props tgraph.Props) error {
	rec := storage.Record{Op: op}
	err := g.resolve(&rec, t, format, props)
	if err == nil {
		rec.Src, err = tgraph.ResolveVertex(id)
	}
	return g.commit(rec, err)
}

func (g *Graph) edgeOp(op storage.Op, t any, format string, src, dst any, props tgraph.Props, layer string) error {
	rec := storage.Record{Op: op, Layer: layer}
	err := g.resolve(&rec, t, format, props)
	if err == nil {
		rec.Src, err = tgraph.ResolveVertex(src)
	}
	if err == nil {
		rec.Dst, err = tgraph.ResolveVertex(dst)
	}
	return g.commit(rec, err)
}

func (g *Graph) graphOp(op storage.Op, t any, format string, props tgraph.Props) error {
	rec := storage.Record{Op: op}
	return g.commit(rec, g.resolve(&rec, t, format, props))
}

func (g *Graph) resolve(rec *storage.Record, t any, format string, props tgraph.Props) error {
	var err error
	if rec.T, err = resolveTime(t, format); err != nil {
		return err
	}
	rec.Props, err = tgraph.NormalizeProps(props)
	return err
}

// commit validates, journals and applies rec. err is an input resolution
// error that is reported without touching the store.
func (g *Graph) commit(rec storage.Record, err error) error {
	start := time.Now()
	if err == nil {
		err = g.validate(rec)
	}
	if err == nil && g.journal != nil {
		g.commitMu.Lock()
		defer g.commitMu.Unlock()
		if jerr := g.journal.Append(rec); jerr != nil {
			err = fmt.Errorf("journal append: %w", jerr)
			if g.notes.Enabled() {
				g.notes.AddTiming(annotations.ErrorJournal, start, map[string]interface{}{"error": jerr})
			}
		}
	}
	if err == nil {
		g.apply(rec)
	} else {
		err = fmt.Errorf("%s: %w", rec.Op, err)
	}
	g.observe(rec, start, err)
	return err
}

func (g *Graph) observe(rec storage.Record, start time.Time, err error) {
	g.metrics.RecordMutation(rec.Op.String(), time.Since(start), err)
	g.logger.LogMutation(rec.Op.String(), rec.T, err)
	if err == nil {
		g.metrics.SetGraphSize(g.store.NumVertices(), g.store.NumEdges())
	}
	if !g.notes.Enabled() {
		return
	}
	data := map[string]interface{}{"op": rec.Op.String(), "time": rec.T}
	if err != nil {
		data["error"] = err
		g.notes.AddTiming(annotations.MutationFailed, start, data)
		return
	}
	switch rec.Op {
	case storage.OpAddVertex, storage.OpAddVertexProperties, storage.OpAddVertexStaticProperties:
		data["src"] = rec.Src.Name
	case storage.OpAddEdge, storage.OpDeleteEdge, storage.OpAddEdgeProperties, storage.OpAddEdgeStaticProperties:
		data["src"] = rec.Src.Name
		data["dst"] = rec.Dst.Name
		data["layer"] = rec.Layer
	}
	g.notes.AddTiming(annotations.MutationApplied, start, data)
}

// validate checks that property mutations name an existing vertex, or an
// existing edge in an existing layer.
func (g *Graph) validate(rec storage.Record) error {
	switch rec.Op {
	case storage.OpAddVertex, storage.OpAddEdge, storage.OpDeleteEdge,
		storage.OpAddProperties, storage.OpAddStaticProperties:
		return nil
	case storage.OpAddVertexProperties, storage.OpAddVertexStaticProperties:
		if _, ok := g.store.FindVertex(rec.Src.ID); !ok {
			return fmt.Errorf("%w: %s", tgraph.ErrVertexNotFound, rec.Src.Name)
		}
		return nil
	case storage.OpAddEdgeProperties, storage.OpAddEdgeStaticProperties:
		_, err := g.edgeLayer(rec)
		return err
	}
	return fmt.Errorf("unknown mutation %s", rec.Op)
}

func (g *Graph) edgeLayer(rec storage.Record) (*storage.EdgeLayer, error) {
	layer, ok := g.store.FindLayer(rec.Layer)
	if !ok {
		return nil, fmt.Errorf("%w: %q", tgraph.ErrInvalidLayer, rec.Layer)
	}
	src, ok := g.store.FindVertex(rec.Src.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tgraph.ErrVertexNotFound, rec.Src.Name)
	}
	dst, ok := g.store.FindVertex(rec.Dst.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tgraph.ErrVertexNotFound, rec.Dst.Name)
	}
	eid, ok := g.store.FindEdge(src, dst)
	if !ok {
		return nil, fmt.Errorf("%w: %s->%s", tgraph.ErrEdgeNotFound, rec.Src.Name, rec.Dst.Name)
	}
	l, ok := g.store.Edge(eid).Layer(layer)
	if !ok {
		return nil, fmt.Errorf("%w: %s->%s in layer %q", tgraph.ErrEdgeNotFound, rec.Src.Name, rec.Dst.Name, rec.Layer)
	}
	return l, nil
}

// apply writes a validated record to the store.
func (g *Graph) apply(rec storage.Record) {
	s := g.store
	switch rec.Op {
	case storage.OpAddVertex:
		s.AddVertex(rec.T, rec.Src, intern(s.VertexMeta(), rec.Props))
	case storage.OpAddEdge:
		s.AddEdge(rec.T, rec.Src, rec.Dst, intern(s.EdgeMeta(), rec.Props), s.ResolveLayer(rec.Layer))
	case storage.OpDeleteEdge:
		s.DeleteEdge(rec.T, rec.Src, rec.Dst, s.ResolveLayer(rec.Layer))
	case storage.OpAddVertexProperties:
		v, _ := s.FindVertex(rec.Src.ID)
		s.AddVertexProperties(rec.T, v, intern(s.VertexMeta(), rec.Props))
	case storage.OpAddVertexStaticProperties:
		v, _ := s.FindVertex(rec.Src.ID)
		setStatic(s.Vertex(v).Props(), intern(s.VertexMeta(), rec.Props))
	case storage.OpAddEdgeProperties:
		l, _ := g.edgeLayer(rec)
		s.AddEdgeProperties(rec.T, l, intern(s.EdgeMeta(), rec.Props))
	case storage.OpAddEdgeStaticProperties:
		l, _ := g.edgeLayer(rec)
		setStatic(l.Props(), intern(s.EdgeMeta(), rec.Props))
	case storage.OpAddProperties:
		s.AddGraphProperties(rec.T, intern(s.GraphMeta(), rec.Props))
	case storage.OpAddStaticProperties:
		setStatic(s.GraphProps(), intern(s.GraphMeta(), rec.Props))
	}
}

func intern(meta *tgraph.DictMapper, props tgraph.Props) map[int]tgraph.Prop {
	if len(props) == 0 {
		return nil
	}
	out := make(map[int]tgraph.Prop, len(props))
	for name, value := range props {
		out[meta.GetOrCreate(name)] = value
	}
	return out
}

func setStatic(table *storage.PropTable, props map[int]tgraph.Prop) {
	for id, value := range props {
		table.SetStatic(id, value)
	}
}
