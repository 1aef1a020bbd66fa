package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/wbrown/janus-tgraph/tgraph"
)

// Op identifies a mutation kind in the journal.
type Op uint8

const (
	OpAddVertex Op = iota + 1
	OpAddEdge
	OpDeleteEdge
	OpAddVertexProperties
	OpAddEdgeProperties
	OpAddProperties
	OpAddStaticProperties
	OpAddVertexStaticProperties
	OpAddEdgeStaticProperties
)

var opNames = map[Op]string{
	OpAddVertex:                 "add_vertex",
	OpAddEdge:                   "add_edge",
	OpDeleteEdge:                "delete_edge",
	OpAddVertexProperties:       "add_vertex_properties",
	OpAddEdgeProperties:         "add_edge_properties",
	OpAddProperties:             "add_properties",
	OpAddStaticProperties:       "add_static_properties",
	OpAddVertexStaticProperties: "add_vertex_static_properties",
	OpAddEdgeStaticProperties:   "add_edge_static_properties",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Record is one resolved mutation. Vertex ops use Src only; graph property
// ops use neither endpoint. T is ignored by static property ops.
type Record struct {
	Op    Op
	T     int64
	Src   tgraph.VertexKey
	Dst   tgraph.VertexKey
	Layer string
	Props tgraph.Props
}

// Encode serializes the record:
//
//	op(1) t(8) src.id(8) src.name dst.id(8) dst.name layer nprops(4) {name prop}*
//
// Strings are length prefixed; property names are written in sorted order.
func (r Record) Encode() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, byte(r.Op))
	buf = binary.BigEndian.AppendUint64(buf, uint64(r.T))
	buf = binary.BigEndian.AppendUint64(buf, r.Src.ID)
	buf = tgraph.AppendString(buf, r.Src.Name)
	buf = binary.BigEndian.AppendUint64(buf, r.Dst.ID)
	buf = tgraph.AppendString(buf, r.Dst.Name)
	buf = tgraph.AppendString(buf, r.Layer)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(r.Props)))
	for _, name := range r.Props.Names() {
		buf = tgraph.AppendString(buf, name)
		buf = tgraph.AppendProp(buf, r.Props[name])
	}
	return buf
}

// DecodeRecord parses a record produced by Encode.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if len(data) < 1+8+8 {
		return r, fmt.Errorf("record too short: %d bytes", len(data))
	}
	r.Op = Op(data[0])
	r.T = int64(binary.BigEndian.Uint64(data[1:9]))
	r.Src.ID = binary.BigEndian.Uint64(data[9:17])
	data = data[17:]

	var err error
	if r.Src.Name, data, err = tgraph.ReadString(data); err != nil {
		return r, fmt.Errorf("src name: %w", err)
	}
	if len(data) < 8 {
		return r, fmt.Errorf("record truncated at dst")
	}
	r.Dst.ID = binary.BigEndian.Uint64(data[:8])
	if r.Dst.Name, data, err = tgraph.ReadString(data[8:]); err != nil {
		return r, fmt.Errorf("dst name: %w", err)
	}
	if r.Layer, data, err = tgraph.ReadString(data); err != nil {
		return r, fmt.Errorf("layer: %w", err)
	}
	if len(data) < 4 {
		return r, fmt.Errorf("record truncated at props")
	}
	n := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if n > 0 {
		r.Props = make(tgraph.Props, n)
	}
	for i := uint32(0); i < n; i++ {
		var name string
		if name, data, err = tgraph.ReadString(data); err != nil {
			return r, fmt.Errorf("prop name: %w", err)
		}
		var value tgraph.Prop
		if value, data, err = tgraph.ReadProp(data); err != nil {
			return r, fmt.Errorf("prop %q: %w", name, err)
		}
		r.Props[name] = value
	}
	if len(data) != 0 {
		return r, fmt.Errorf("record has %d trailing bytes", len(data))
	}
	return r, nil
}
