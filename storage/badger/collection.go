package badger

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/douglasmakey/chatting-with-docs/core"
	"github.com/douglasmakey/chatting-with-docs/storage"
)

// CollectionStore implements storage.CollectionStore for BadgerDB.
// All collections live in one database; entries are keyed under their
// collection's content-based ID.
type CollectionStore struct {
	backend *Backend
	logger  *slog.Logger

	mu   sync.Mutex
	seqs map[core.ID]*badger.Sequence
}

var _ storage.CollectionStore = (*CollectionStore)(nil)

// NewCollectionStore creates a new CollectionStore over an open backend.
// Closing the store closes the backend as well.
func NewCollectionStore(backend *Backend) (*CollectionStore, error) {
	return &CollectionStore{
		backend: backend,
		logger:  slog.Default().With("component", "collection-store"),
		seqs:    make(map[core.ID]*badger.Sequence),
	}, nil
}

// Close releases the entry ID sequences and closes the backend.
func (s *CollectionStore) Close() error {
	s.mu.Lock()
	for id, seq := range s.seqs {
		if err := seq.Release(); err != nil {
			s.logger.Warn("failed to release sequence", "collection", id, "err", err)
		}
	}
	s.seqs = make(map[core.ID]*badger.Sequence)
	s.mu.Unlock()

	return s.backend.Close()
}

// sequence returns (lazily creating) the entry ID sequence for a collection.
func (s *CollectionStore) sequence(collectionID core.ID) (*badger.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq, ok := s.seqs[collectionID]; ok {
		return seq, nil
	}
	seq, err := s.backend.GetSequence(makeEntrySeqName(collectionID))
	if err != nil {
		return nil, err
	}
	s.seqs[collectionID] = seq
	return seq, nil
}

// AppendEntries appends entries to the named collection, creating the
// collection on first use. Entries are never deduplicated: appending the
// same chunk twice stores it twice.
func (s *CollectionStore) AppendEntries(ctx context.Context, collection string, entries ...*core.Entry) ([]*core.Entry, error) {
	if err := core.ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	collectionID := core.IDFromContent(collection)

	seq, err := s.sequence(collectionID)
	if err != nil {
		return nil, err
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		if err := s.ensureCollection(tx, collectionID, collection); err != nil {
			return err
		}

		for _, entry := range entries {
			nextID, err := seq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = seq.Next()
				if err != nil {
					return err
				}
			}
			entry.Id = core.ID(nextID)
			entry.InsertedAt = time.Now().UTC()

			if err := entry.Validate(); err != nil {
				return err
			}

			key := makeEntryKey(collectionID, entry.Id)
			if err := tx.Set(key, storage.MarshalEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("appended entries", "collection", collection, "entries", len(entries))
	return entries, nil
}

// ensureCollection writes the registry record if the collection is new.
func (s *CollectionStore) ensureCollection(tx *badger.Txn, id core.ID, name string) error {
	_, err := tx.Get(makeCollectionKey(id))
	if err == nil {
		return nil
	}
	if err != badger.ErrKeyNotFound {
		return err
	}

	record := &core.Collection{
		Id:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.logger.Info("creating collection", "name", name)
	return tx.Set(makeCollectionKey(id), storage.MarshalCollection(record))
}

// GetCollection retrieves a collection's registry record by name.
func (s *CollectionStore) GetCollection(ctx context.Context, name string) (*core.Collection, error) {
	if err := core.ValidateCollectionName(name); err != nil {
		return nil, err
	}

	var collection *core.Collection
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCollectionKey(core.IDFromContent(name)))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			collection, err = storage.UnmarshalCollection(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return collection, nil
}

// ListCollections returns all collections ordered by name.
func (s *CollectionStore) ListCollections(ctx context.Context) ([]*core.Collection, error) {
	var collections []*core.Collection

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(collectionPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				collection, err := storage.UnmarshalCollection(val)
				if err != nil {
					return err
				}
				collections = append(collections, collection)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(collections, func(a, b *core.Collection) int {
		return strings.Compare(a.Name, b.Name)
	})
	return collections, nil
}

// DeleteCollection removes a collection, its entries, and its ID sequence.
func (s *CollectionStore) DeleteCollection(ctx context.Context, name string) error {
	if err := core.ValidateCollectionName(name); err != nil {
		return err
	}
	collectionID := core.IDFromContent(name)

	// Drop the cached sequence first so its key can go too.
	s.mu.Lock()
	if seq, ok := s.seqs[collectionID]; ok {
		if err := seq.Release(); err != nil {
			s.logger.Warn("failed to release sequence", "collection", name, "err", err)
		}
		delete(s.seqs, collectionID)
	}
	s.mu.Unlock()

	return s.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get(makeCollectionKey(collectionID)); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		// Collect entry keys before deleting; badger iterators don't
		// tolerate concurrent writes within the same transaction loop.
		var keys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeEntryScanPrefix(collectionID)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		if err := tx.Delete([]byte(makeEntrySeqName(collectionID))); err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		if err := tx.Delete(makeCollectionKey(collectionID)); err != nil {
			return err
		}

		s.logger.Info("deleted collection", "name", name, "entries", len(keys))
		return tx.Commit()
	}, true)
}

// CountEntries returns the number of entries stored in a collection.
func (s *CollectionStore) CountEntries(ctx context.Context, name string) (int, error) {
	if _, err := s.GetCollection(ctx, name); err != nil {
		return 0, err
	}

	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeEntryScanPrefix(core.IDFromContent(name))
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListEntries returns up to limit entries with IDs greater than afterID,
// in ID order. Used to walk a collection in batches.
func (s *CollectionStore) ListEntries(ctx context.Context, collection string, afterID core.ID, limit int) ([]*core.Entry, error) {
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return nil, err
	}
	collectionID := core.IDFromContent(collection)

	var entries []*core.Entry
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEntryScanPrefix(collectionID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		iter.Seek(makeEntryKey(collectionID, afterID+1))
		for ; iter.Valid() && len(entries) < limit; iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				entry, err := storage.UnmarshalEntry(val)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateEntries rewrites existing entries in place, keyed by their IDs.
func (s *CollectionStore) UpdateEntries(ctx context.Context, collection string, entries ...*core.Entry) error {
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return err
	}
	collectionID := core.IDFromContent(collection)

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if entry.Id == 0 {
				return storage.ErrNotFound
			}
			if err := entry.Validate(); err != nil {
				return err
			}
			key := makeEntryKey(collectionID, entry.Id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Set(key, storage.MarshalEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar finds entries in the named collection similar to the given
// vector. Similarity is the dot product, which equals cosine similarity
// because vectors are normalized on insert and on query.
func (s *CollectionStore) FindSimilar(ctx context.Context, collection string, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return nil, err
	}

	var results []*core.SearchResult
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEntryScanPrefix(core.IDFromContent(collection))
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.Entry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}

			similarity := core.DotProduct(vector, entry.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.SearchResult{
					Entry: entry,
					Score: similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
