package badger

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/finsight/cardpilot/core"
	"github.com/finsight/cardpilot/storage"
)

// SnapshotStore implements storage.SnapshotStore for BadgerDB.
type SnapshotStore struct {
	backend *Backend
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore opens a snapshot store backed by a BadgerDB database at
// the given path.
func NewSnapshotStore(path string) (storage.SnapshotStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{backend: backend}, nil
}

// newSnapshotStore wraps an already-open backend. The store takes ownership:
// Close closes the backend too.
func newSnapshotStore(backend *Backend) *SnapshotStore {
	return &SnapshotStore{backend: backend}
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.backend.Close()
}

// SaveSnapshot persists the snapshot, replacing any previously saved one.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap *core.Snapshot) error {
	if err := core.ValidateSnapshot(snap); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := clearPrefix(tx, productPrefix); err != nil {
			return err
		}
		if err := clearPrefix(tx, vectorPrefix); err != nil {
			return err
		}

		for i := range snap.Products {
			value := storage.MarshalProduct(&snap.Products[i])
			if err := tx.Set(makeProductKey(i), value); err != nil {
				return err
			}
		}
		for i := range snap.Vectors {
			value := storage.MarshalProductVector(&snap.Vectors[i])
			if err := tx.Set(makeVectorKey(i), value); err != nil {
				return err
			}
		}

		meta := make([]byte, 8)
		binary.BigEndian.PutUint64(meta, uint64(snap.BuiltAt.UnixMicro()))
		if err := tx.Set(makeSnapshotMetaKey(), meta); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadSnapshot retrieves the persisted snapshot. Returns storage.ErrNotFound
// when nothing has been saved yet.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*core.Snapshot, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	snap := &core.Snapshot{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSnapshotMetaKey())
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return storage.ErrTruncatedData
			}
			snap.BuiltAt = time.UnixMicro(int64(binary.BigEndian.Uint64(val))).UTC()
			return nil
		})
		if err != nil {
			return err
		}

		if err := iteratePrefix(tx, productPrefix, func(val []byte) error {
			product, err := storage.UnmarshalProduct(val)
			if err != nil {
				return err
			}
			snap.Products = append(snap.Products, *product)
			return nil
		}); err != nil {
			return err
		}

		return iteratePrefix(tx, vectorPrefix, func(val []byte) error {
			vector, err := storage.UnmarshalProductVector(val)
			if err != nil {
				return err
			}
			snap.Vectors = append(snap.Vectors, *vector)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// iteratePrefix walks every value under prefix in key order.
func iteratePrefix(tx *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := iter.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// clearPrefix deletes every key under prefix.
func clearPrefix(tx *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix + ":")
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
