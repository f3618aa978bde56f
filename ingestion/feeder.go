// Copyright 2025 The chatting-with-docs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/douglasmakey/chatting-with-docs/ai"
	"github.com/douglasmakey/chatting-with-docs/core"
	"github.com/douglasmakey/chatting-with-docs/loader"
	"github.com/douglasmakey/chatting-with-docs/splitter"
	"github.com/douglasmakey/chatting-with-docs/storage"
)

// Feeder loads documents from disk and appends their embedded chunks to
// a vector store collection.
type Feeder struct {
	store    storage.CollectionStore
	embedder ai.Embedder
	splitCfg splitter.Config
	logger   *slog.Logger
}

// Option configures a Feeder.
type Option func(*Feeder) error

// WithSplitterConfig sets the chunking parameters used when a feed
// requests splitting. Default is splitter.DefaultConfig().
func WithSplitterConfig(cfg splitter.Config) Option {
	return func(f *Feeder) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		f.splitCfg = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Feeder) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewFeeder creates a new Feeder.
func NewFeeder(store storage.CollectionStore, embedder ai.Embedder, opts ...Option) (*Feeder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	f := &Feeder{
		store:    store,
		embedder: embedder,
		splitCfg: splitter.DefaultConfig(),
		logger:   slog.Default().With("component", "feeder"),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Request describes a single feed operation.
type Request struct {
	// SourcePath is the directory to load documents from.
	SourcePath string

	// Collection is the collection name to append to. Created on first use.
	Collection string

	// DataType selects which files to load, by extension. See
	// loader.SupportedTypes. Default is "txt".
	DataType string

	// Split enables chunking of documents before embedding. When false,
	// each document becomes a single entry.
	Split bool
}

// Result reports what a feed stored.
type Result struct {
	Documents int
	Chunks    int
	Elapsed   time.Duration
}

// Feed runs one ingestion pass: load, chunk, embed, store. The stages
// run strictly in order; a failing stage aborts the feed. Entries
// appended by earlier feeds into the same collection are kept, feeding
// the same source twice stores its chunks twice.
func (f *Feeder) Feed(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	dataType := req.DataType
	if dataType == "" {
		dataType = "txt"
	}

	if err := core.ValidateCollectionName(req.Collection); err != nil {
		return nil, err
	}

	docs, err := loader.Load(ctx, req.SourcePath, dataType)
	if err != nil {
		return nil, err
	}
	f.logger.Info("loaded documents", "path", req.SourcePath, "type", dataType, "documents", len(docs))

	var chunks []core.Chunk
	if req.Split {
		chunks, err = splitter.SplitAll(docs, f.splitCfg)
		if err != nil {
			return nil, err
		}
	} else {
		chunks = splitter.PassThrough(docs)
	}

	// Empty documents produce empty chunks; nothing to embed or store.
	kept := chunks[:0]
	for _, chunk := range chunks {
		if chunk.Text != "" {
			kept = append(kept, chunk)
		}
	}
	chunks = kept

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := f.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbedding, len(vectors), len(chunks))
	}

	entries := make([]*core.Entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = &core.Entry{
			Text:       chunk.Text,
			Metadata:   chunk.Metadata,
			ChunkIndex: chunk.Index,
			Vector:     core.Normalize(vectors[i]),
		}
	}

	if _, err := f.store.AppendEntries(ctx, req.Collection, entries...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	result := &Result{
		Documents: len(docs),
		Chunks:    len(chunks),
		Elapsed:   time.Since(started),
	}
	f.logger.Info("feed complete",
		"collection", req.Collection,
		"documents", result.Documents,
		"chunks", result.Chunks,
		"elapsed", result.Elapsed)
	return result, nil
}
