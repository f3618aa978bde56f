package storage

import (
	"context"

	"github.com/douglasmakey/chatting-with-docs/core"
)

// CollectionStore provides operations for named, persistent collections
// of embedded chunks. Implementations must be safe for concurrent reads;
// concurrent feeds into the same collection are unsupported.
type CollectionStore interface {
	// AppendEntries appends entries to the named collection, creating
	// the collection if it does not exist yet. Entries are never
	// deduplicated or overwritten. For entries with Id=0, generates new
	// IDs from a per-collection sequence, and sets InsertedAt.
	// Returns the entries with IDs and timestamps populated.
	AppendEntries(ctx context.Context, collection string, entries ...*core.Entry) ([]*core.Entry, error)

	// GetCollection retrieves a collection's registry record by name.
	// Returns ErrNotFound if the collection doesn't exist.
	GetCollection(ctx context.Context, name string) (*core.Collection, error)

	// ListCollections returns all collections ordered by name.
	ListCollections(ctx context.Context) ([]*core.Collection, error)

	// DeleteCollection removes a collection and all of its entries.
	// Returns ErrNotFound if the collection doesn't exist.
	DeleteCollection(ctx context.Context, name string) error

	// CountEntries returns the number of entries stored in a collection.
	// Returns ErrNotFound if the collection doesn't exist.
	CountEntries(ctx context.Context, name string) (int, error)

	// FindSimilar finds entries in the named collection similar to the
	// given vector. Returns entries with similarity >= minSimilarity, up
	// to limit results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, collection string, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
