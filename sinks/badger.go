package sinks

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/tarungka/rxwire/internal/logger"
)

var (
	valuePrefix = []byte("v/")
	sequenceKey = []byte("!seq")
)

// BadgerSink persists every value under a monotonically increasing sequence
// number, so values written by successive runs keep their arrival order.
// Writes are batched and flushed when the stream terminates.
type BadgerSink struct {
	sinkBase

	dbPath string
	db     *badger.DB
	seq    *badger.Sequence
	batch  *badger.WriteBatch
}

var _ Sink = (*BadgerSink)(nil)

// NewBadgerSink opens a badger database at path. An empty path opens an
// in-memory database.
func NewBadgerSink(path string) (*BadgerSink, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	seq, err := db.GetSequence(sequenceKey, 128)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sequence: %w", err)
	}

	l := logger.GetLogger("badger-sink")
	if path == "" {
		l.Debug().Msg("opened a in-memory database")
	} else {
		l.Debug().Msgf("opened a file-based database at %s", path)
	}

	return &BadgerSink{
		sinkBase: sinkBase{logger: l},
		dbPath:   path,
		db:       db,
		seq:      seq,
		batch:    db.NewWriteBatch(),
	}, nil
}

func (b *BadgerSink) OnNext(v int) {
	if b.failed() {
		return
	}
	n, err := b.seq.Next()
	if err != nil {
		b.fail(fmt.Errorf("failed to allocate sequence: %w", err))
		return
	}
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(int64(v)))
	if err := b.batch.Set(valueKey(n), val); err != nil {
		b.fail(fmt.Errorf("failed to write value %d: %w", v, err))
	}
}

func (b *BadgerSink) OnError(err error) {
	b.logger.Err(err).Msg("upstream failed")
	b.flush()
}

func (b *BadgerSink) OnComplete() {
	b.flush()
}

func (b *BadgerSink) flush() {
	if err := b.batch.Flush(); err != nil {
		b.fail(fmt.Errorf("failed to flush batch: %w", err))
	}
	// a flushed batch cannot be reused
	b.batch = b.db.NewWriteBatch()
}

// Values reads back every stored value in sequence order.
func (b *BadgerSink) Values() ([]int, error) {
	var out []int
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = valuePrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(data []byte) error {
				out = append(out, int(int64(binary.BigEndian.Uint64(data))))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close discards unflushed writes and closes the database.
func (b *BadgerSink) Close() error {
	b.batch.Cancel()
	if err := b.seq.Release(); err != nil {
		b.logger.Err(err).Msg("failed to release sequence")
	}
	return b.db.Close()
}

func valueKey(n uint64) []byte {
	key := make([]byte, len(valuePrefix)+8)
	copy(key, valuePrefix)
	binary.BigEndian.PutUint64(key[len(valuePrefix):], n)
	return key
}
