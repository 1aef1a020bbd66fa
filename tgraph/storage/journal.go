package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/wbrown/janus-tgraph/tgraph"
)

// Journal is an append-only log of mutations from which a graph can be
// rebuilt.
type Journal interface {
	Append(rec Record) error
	Replay(fn func(Record) error) error
	Len() uint64
	SetMeta(key, value string) error
	Meta(key string) (string, bool, error)
	Close() error
}

var (
	recordPrefix = []byte("r/")
	metaPrefix   = []byte("m/")
)

// BadgerJournal implements Journal on BadgerDB. Records are keyed by a
// big-endian sequence number so iteration returns them in append order.
type BadgerJournal struct {
	db     *badger.DB
	seq    atomic.Uint64
	mu     sync.RWMutex
	closed bool
}

// OpenBadgerJournal opens (or creates) a journal in dir.
func OpenBadgerJournal(dir string) (*BadgerJournal, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable BadgerDB logs
	return openJournal(opts)
}

// OpenMemJournal opens a journal that lives only in memory.
func OpenMemJournal() (*BadgerJournal, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openJournal(opts)
}

func openJournal(opts badger.Options) (*BadgerJournal, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	j := &BadgerJournal{db: db}

	last, err := j.lastSeq()
	if err != nil {
		db.Close()
		return nil, err
	}
	j.seq.Store(last)
	return j, nil
}

func (j *BadgerJournal) lastSeq() (uint64, error) {
	var last uint64
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the last key <= the seek key.
		seek := append(append([]byte{}, recordPrefix...), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
		it.Seek(seek)
		if it.ValidForPrefix(recordPrefix) {
			key := it.Item().Key()
			last = binary.BigEndian.Uint64(key[len(recordPrefix):])
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read journal tail: %w", err)
	}
	return last, nil
}

func recordKey(seq uint64) []byte {
	key := make([]byte, 0, len(recordPrefix)+8)
	key = append(key, recordPrefix...)
	return binary.BigEndian.AppendUint64(key, seq)
}

func (j *BadgerJournal) checkOpen() error {
	if j.closed {
		return tgraph.ErrJournalClosed
	}
	return nil
}

// Append writes rec under the next sequence number.
func (j *BadgerJournal) Append(rec Record) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if err := j.checkOpen(); err != nil {
		return err
	}

	key := recordKey(j.seq.Add(1))
	value := rec.Encode()
	if err := j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	}); err != nil {
		return fmt.Errorf("failed to append %v record: %w", rec.Op, err)
	}
	return nil
}

// Replay calls fn for every record in append order, stopping at the first
// error.
func (j *BadgerJournal) Replay(fn func(Record) error) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if err := j.checkOpen(); err != nil {
		return err
	}

	return j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 1000
		opts.Prefix = recordPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(recordPrefix); it.ValidForPrefix(recordPrefix); it.Next() {
			item := it.Item()
			var rec Record
			err := item.Value(func(val []byte) error {
				var err error
				rec, err = DecodeRecord(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("record %x: %w", item.Key(), err)
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of records appended over the journal's lifetime.
func (j *BadgerJournal) Len() uint64 {
	return j.seq.Load()
}

// SetMeta stores a metadata value.
func (j *BadgerJournal) SetMeta(key, value string) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if err := j.checkOpen(); err != nil {
		return err
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(append(append([]byte{}, metaPrefix...), key...), []byte(value))
	})
}

// Meta reads a metadata value.
func (j *BadgerJournal) Meta(key string) (string, bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if err := j.checkOpen(); err != nil {
		return "", false, err
	}

	var value string
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(append(append([]byte{}, metaPrefix...), key...))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Close closes the underlying database. Later calls fail with
// ErrJournalClosed.
func (j *BadgerJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
