package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a collection store is not provided.
	ErrStoreRequired = errors.New("collection store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbedding wraps failures of the embedding backend during a feed.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStore wraps failures of the vector store during a feed.
	ErrStore = errors.New("store failed")
)
