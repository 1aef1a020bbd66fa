package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-tgraph/tgraph"
)

func sampleRecords() []Record {
	return []Record{
		{Op: OpAddVertex, T: 1, Src: tgraph.VertexKey{ID: 1, Name: "alice"}, Props: tgraph.Props{"age": int64(30)}},
		{Op: OpAddEdge, T: 2, Src: key(1), Dst: key(2), Layer: "follows", Props: tgraph.Props{
			"w":     1.5,
			"since": time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			"tags":  []tgraph.Prop{"a", "b"},
		}},
		{Op: OpDeleteEdge, T: -5, Src: key(1), Dst: key(2)},
		{Op: OpAddStaticProperties, Props: tgraph.Props{"name": "g"}},
	}
}

func TestRecordEncoding(t *testing.T) {
	for _, rec := range sampleRecords() {
		t.Run(rec.Op.String(), func(t *testing.T) {
			got, err := DecodeRecord(rec.Encode())
			require.NoError(t, err)
			assert.Equal(t, rec.Op, got.Op)
			assert.Equal(t, rec.T, got.T)
			assert.Equal(t, rec.Src, got.Src)
			assert.Equal(t, rec.Dst, got.Dst)
			assert.Equal(t, rec.Layer, got.Layer)
			require.Len(t, got.Props, len(rec.Props))
			for name, v := range rec.Props {
				assert.True(t, tgraph.PropsEqual(v, got.Props[name]), name)
			}
		})
	}

	_, err := DecodeRecord([]byte{1, 2, 3})
	assert.Error(t, err)
	_, err = DecodeRecord(append(sampleRecords()[0].Encode(), 0))
	assert.Error(t, err)
}

func TestJournalReplaysInOrder(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenBadgerJournal(dir)
	require.NoError(t, err)

	records := sampleRecords()
	for _, rec := range records {
		require.NoError(t, j.Append(rec))
	}
	require.NoError(t, j.SetMeta("graph-id", "abc"))
	require.NoError(t, j.Close())

	// Reopen continues the sequence after the last record.
	j, err = OpenBadgerJournal(dir)
	require.NoError(t, err)
	defer j.Close()
	assert.Equal(t, uint64(len(records)), j.Len())

	id, ok, err := j.Meta("graph-id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
	_, ok, err = j.Meta("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, j.Append(Record{Op: OpAddVertex, T: 9, Src: key(7)}))

	var ops []Op
	require.NoError(t, j.Replay(func(r Record) error {
		ops = append(ops, r.Op)
		return nil
	}))
	assert.Equal(t, []Op{OpAddVertex, OpAddEdge, OpDeleteEdge, OpAddStaticProperties, OpAddVertex}, ops)
}

func TestJournalReplayStopsOnError(t *testing.T) {
	j, err := OpenMemJournal()
	require.NoError(t, err)
	defer j.Close()

	for _, rec := range sampleRecords() {
		require.NoError(t, j.Append(rec))
	}
	stop := errors.New("stop")
	n := 0
	err = j.Replay(func(Record) error {
		n++
		if n == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, n)
}

func TestJournalClosed(t *testing.T) {
	j, err := OpenMemJournal()
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	assert.ErrorIs(t, j.Append(Record{Op: OpAddVertex}), tgraph.ErrJournalClosed)
	assert.ErrorIs(t, j.Replay(func(Record) error { return nil }), tgraph.ErrJournalClosed)
}
