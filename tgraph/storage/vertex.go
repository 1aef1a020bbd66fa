package storage

import (
	"sync"

	"github.com/tidwall/btree"
	"github.com/wbrown/janus-tgraph/tgraph"
	"github.com/wbrown/janus-tgraph/tgraph/timeindex"
)

// VertexStore is the record of one vertex. Its addition index also holds
// the timestamps of every incident edge addition and deletion.
type VertexStore struct {
	vid  tgraph.VID
	id   uint64
	name string

	additions *timeindex.TimeIndex
	props     *PropTable

	mu  sync.RWMutex // guards adjacency
	out btree.Map[tgraph.VID, tgraph.EID]
	in  btree.Map[tgraph.VID, tgraph.EID]
}

func newVertexStore(vid tgraph.VID, key tgraph.VertexKey) *VertexStore {
	return &VertexStore{
		vid:       vid,
		id:        key.ID,
		name:      key.Name,
		additions: timeindex.New(),
		props:     newPropTable(),
	}
}

// Accessors for the vertex identity and property table.
func (v *VertexStore) VID() tgraph.VID   { return v.vid }
func (v *VertexStore) ID() uint64        { return v.id }
func (v *VertexStore) Name() string      { return v.name }
func (v *VertexStore) Props() *PropTable { return v.props }

// Additions returns the vertex's time index.
func (v *VertexStore) Additions() *timeindex.TimeIndex { return v.additions }

func (v *VertexStore) addEdge(nbr tgraph.VID, eid tgraph.EID, dir tgraph.Direction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if dir == tgraph.Out {
		v.out.Set(nbr, eid)
	} else {
		v.in.Set(nbr, eid)
	}
}

// Adjacent is one adjacency entry.
type Adjacent struct {
	Nbr tgraph.VID
	EID tgraph.EID
	Dir tgraph.Direction
}

// Adjacency returns the incident edges in dir, sorted by neighbour. For Both
// the out-edges come first. The entries are copied so the caller may take
// other locks while consuming them.
func (v *VertexStore) Adjacency(dir tgraph.Direction) []Adjacent {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Adjacent, 0, v.out.Len()+v.in.Len())
	collect := func(m *btree.Map[tgraph.VID, tgraph.EID], d tgraph.Direction) {
		m.Scan(func(nbr tgraph.VID, eid tgraph.EID) bool {
			out = append(out, Adjacent{Nbr: nbr, EID: eid, Dir: d})
			return true
		})
	}
	if dir == tgraph.Out || dir == tgraph.Both {
		collect(&v.out, tgraph.Out)
	}
	if dir == tgraph.In || dir == tgraph.Both {
		collect(&v.in, tgraph.In)
	}
	return out
}
