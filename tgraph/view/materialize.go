package view

import (
	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/storage"
)

// Materialize copies everything visible in v into a new, independent store.
// Layer and property ids keep their numbering.
func Materialize(v View) *storage.TemporalGraph {
	src := v.g.Core()
	out := storage.NewTemporalGraph()
	for _, name := range src.Layers().Names() {
		out.Layers().GetOrCreate(name)
	}
	for _, name := range src.VertexMeta().Names() {
		out.VertexMeta().GetOrCreate(name)
	}
	for _, name := range src.EdgeMeta().Names() {
		out.EdgeMeta().GetOrCreate(name)
	}
	for _, name := range src.GraphMeta().Names() {
		out.GraphMeta().GetOrCreate(name)
	}

	for vertex := range v.Vertices() {
		materializeVertex(out, vertex)
	}
	for edge := range v.Edges() {
		materializeEdge(out, edge)
	}
	for id, name := range src.GraphMeta().Names() {
		for _, tp := range v.TemporalProperty(name) {
			out.AddGraphProperties(tp.T, map[int]tgraph.Prop{id: tp.Value})
		}
		if value, ok := v.StaticProperty(name); ok {
			out.GraphProps().SetStatic(id, value)
		}
	}
	return out
}

func vertexKey(v VertexView) tgraph.VertexKey {
	return tgraph.VertexKey{ID: v.ID(), Name: v.Name()}
}

func materializeVertex(out *storage.TemporalGraph, v VertexView) {
	vid, _ := out.ResolveVertex(vertexKey(v))
	for _, t := range v.History() {
		out.AddVertex(t, vertexKey(v), nil)
	}
	props := v.g.Core().Vertex(v.vid).Props()
	for id, name := range v.g.Core().VertexMeta().Names() {
		for _, tp := range v.TemporalProperty(name) {
			out.AddVertexProperties(tp.T, vid, map[int]tgraph.Prop{id: tp.Value})
		}
		if value, ok := props.Static(id); ok {
			out.Vertex(vid).Props().SetStatic(id, value)
		}
	}
}

func materializeEdge(out *storage.TemporalGraph, e EdgeView) {
	src, dst := vertexKey(e.Src()), vertexKey(e.Dst())
	sv, _ := out.ResolveVertex(src)
	dv, _ := out.ResolveVertex(dst)
	es, _ := out.ResolveEdge(sv, dv)
	for x := range e.Explode() {
		t, _ := x.Time()
		layer, _ := x.ref.Layer()
		out.AddEdge(t, src, dst, nil, layer)
	}
	core := e.g.Core()
	for x := range e.ExplodeLayers() {
		layer, _ := x.ref.Layer()
		for _, t := range x.DeletionHistory() {
			out.DeleteEdge(t, src, dst, layer)
		}
		stored, ok := core.Edge(e.ref.EID).Layer(layer)
		if !ok {
			continue
		}
		target := es.LayerOrCreate(layer)
		for id, name := range core.EdgeMeta().Names() {
			for _, tp := range x.TemporalProperty(name) {
				out.AddEdgeProperties(tp.T, target, map[int]tgraph.Prop{id: tp.Value})
			}
			if value, ok := stored.Props().Static(id); ok {
				target.Props().SetStatic(id, value)
			}
		}
	}
}
