package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Collection IDs are content-based hashes of the collection name;
// entry IDs come from a per-collection database sequence.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Metadata describes where a piece of text came from.
// It is copied, never shared, so a Document can be discarded once
// its chunks are created.
type Metadata struct {
	Source string // origin file path
	Page   int    // 1-based page number for paged formats, 0 for flat text
}

// Document is a single text record produced by the loader.
// For paged formats (PDF) one page is one Document; for flat text
// one file is one Document. Immutable after creation.
type Document struct {
	Text     string
	Metadata Metadata
}

// Chunk is a window of a Document's text bounded by the splitter
// configuration. Index is the 0-based position of the chunk within
// its originating Document.
type Chunk struct {
	Text     string
	Metadata Metadata
	Index    int
}

// Entry is what a collection persists: a chunk, its embedding vector,
// and when it was inserted. Entries are append-only; feeding the same
// directory twice stores every chunk twice.
type Entry struct {
	Id         ID
	Text       string
	Metadata   Metadata
	ChunkIndex int
	Vector     []float32
	InsertedAt time.Time
}

// Collection is the registry record for a named collection.
type Collection struct {
	Id        ID
	Name      string
	CreatedAt time.Time
}

// SearchResult is an entry matched by vector similarity search.
type SearchResult struct {
	Entry *Entry
	Score float32
}
