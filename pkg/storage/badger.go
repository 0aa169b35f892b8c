package storage

import (
	"context"
	"errors"
	"runtime"
	"strconv"

	"github.com/DataDog/zstd"
	"github.com/dgraph-io/badger/v4"
	"github.com/kelindar/binary"
	"github.com/lintang-b-s/Roadgraphx/pkg/concurrent"
	"go.uber.org/zap"
)

var ErrDocumentNotFound = errors.New("intersection document not found")

const intersectionKeyPrefix = "intersection:"

// BadgerStore keeps one zstd compressed, binary encoded document per intersection, keyed by osm id.
type BadgerStore struct {
	db      *badger.DB
	workers int
}

// OpenBadgerStore opens a badger database in dir. An empty dir opens an in-memory database.
func OpenBadgerStore(dir string, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger.Sugar()})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return NewBadgerStore(db), nil
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:      db,
		workers: runtime.GOMAXPROCS(0),
	}
}

func (s *BadgerStore) Name() string {
	return "badger"
}

type encodedDocument struct {
	key []byte
	val []byte
	err error
}

func (s *BadgerStore) InsertMany(ctx context.Context, docs []IntersectionDocument) error {
	encoded := concurrent.Map(s.workers, docs, func(doc IntersectionDocument) encodedDocument {
		val, err := encodeDocument(doc)
		return encodedDocument{key: intersectionKey(doc.ID), val: val, err: err}
	})

	batch := s.db.NewWriteBatch()
	defer batch.Cancel()

	for _, e := range encoded {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.err != nil {
			return e.err
		}
		if err := batch.Set(e.key, e.val); err != nil {
			return err
		}
	}
	return batch.Flush()
}

func (s *BadgerStore) Get(id int64) (IntersectionDocument, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(intersectionKey(id))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return IntersectionDocument{}, ErrDocumentNotFound
	}
	if err != nil {
		return IntersectionDocument{}, err
	}
	return decodeDocument(val)
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func intersectionKey(id int64) []byte {
	return strconv.AppendInt([]byte(intersectionKeyPrefix), id, 10)
}

func encodeDocument(doc IntersectionDocument) ([]byte, error) {
	bb, err := binary.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return zstd.Compress(nil, bb)
}

func decodeDocument(bbCompressed []byte) (IntersectionDocument, error) {
	var doc IntersectionDocument
	bb, err := zstd.Decompress(nil, bbCompressed)
	if err != nil {
		return doc, err
	}
	err = binary.Unmarshal(bb, &doc)
	return doc, err
}

// badgerLogger routes badger's own logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
