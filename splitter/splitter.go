package splitter

import (
	"errors"
	"fmt"

	"github.com/douglasmakey/chatting-with-docs/core"
)

// ErrInvalidConfig indicates a chunk configuration that cannot produce
// a terminating sequence of chunks.
var ErrInvalidConfig = errors.New("invalid chunk config")

// Defaults match the feed command's original behavior.
const (
	DefaultChunkSize    = 600
	DefaultChunkOverlap = 150
)

// Config controls how documents are split into chunks.
// Boundaries are purely length-based over runes; the last chunk of a
// document may be shorter than ChunkSize.
type Config struct {
	ChunkSize    int // maximum chunk length in characters, > 0
	ChunkOverlap int // characters shared with the previous chunk, >= 0 and < ChunkSize
}

// DefaultConfig returns the default chunking configuration.
func DefaultConfig() Config {
	return Config{ChunkSize: DefaultChunkSize, ChunkOverlap: DefaultChunkOverlap}
}

// Validate checks the configuration. It is called on every split, not
// just the first, so a bad config always fails.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap must be non-negative, got %d", ErrInvalidConfig, c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			ErrInvalidConfig, c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Split produces the ordered chunks of a single document. Metadata is
// copied onto every chunk so the document can be discarded afterwards.
// Concatenating the chunks with the overlap removed reconstructs the
// document text exactly.
func Split(doc core.Document, cfg Config) ([]core.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return []core.Chunk{{Text: "", Metadata: doc.Metadata, Index: 0}}, nil
	}

	stride := cfg.ChunkSize - cfg.ChunkOverlap
	chunks := make([]core.Chunk, 0, (len(runes)+stride-1)/stride)
	for start, idx := 0, 0; start < len(runes); start, idx = start+stride, idx+1 {
		end := start + cfg.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, core.Chunk{
			Text:     string(runes[start:end]),
			Metadata: doc.Metadata,
			Index:    idx,
		})
	}
	return chunks, nil
}

// SplitAll flattens the chunks of all documents into one ordered
// sequence, preserving document order.
func SplitAll(docs []core.Document, cfg Config) ([]core.Chunk, error) {
	var all []core.Chunk
	for _, doc := range docs {
		chunks, err := Split(doc, cfg)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	return all, nil
}

// PassThrough converts documents into chunks without splitting: one
// chunk per document, text and metadata unchanged, index 0.
func PassThrough(docs []core.Document) []core.Chunk {
	chunks := make([]core.Chunk, len(docs))
	for i, doc := range docs {
		chunks[i] = core.Chunk{Text: doc.Text, Metadata: doc.Metadata, Index: 0}
	}
	return chunks
}
