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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/douglasmakey/chatting-with-docs/ai"
	"github.com/douglasmakey/chatting-with-docs/core"
)

// EntryStore is the subset of the collection store reembedding needs.
type EntryStore interface {
	CountEntries(ctx context.Context, collection string) (int, error)
	ListEntries(ctx context.Context, collection string, afterID core.ID, limit int) ([]*core.Entry, error)
	UpdateEntries(ctx context.Context, collection string, entries ...*core.Entry) error
}

// Config holds configuration for a reembedding run.
type Config struct {
	// BatchSize is the number of entries embedded per API call.
	BatchSize int

	// ReportInterval is how often progress is reported, in entries.
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the vectors of every entry in a collection.
type Reembedder struct {
	store    EntryStore
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr).
func NewReembedder(store EntryStore, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Reembedder{
		store:    store,
		embedder: embedder,
		config:   config,
		progress: progress,
	}
}

// Run reembeds every entry of the collection in batches. Existing
// entries keep their IDs and texts; only the vectors change.
func (r *Reembedder) Run(ctx context.Context, collection string) error {
	total, err := r.store.CountEntries(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "Collection %q has no entries\n", collection)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d entries (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	var afterID core.ID
	for {
		entries, err := r.store.ListEntries(ctx, collection, afterID, r.config.BatchSize)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		if len(entries) == 0 {
			break
		}

		if err := r.processBatch(ctx, collection, entries); err != nil {
			return err
		}

		afterID = entries[len(entries)-1].Id
		processed += len(entries)
		tracker.Update(processed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d entries in %v (%.1f entries/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	return nil
}

// processBatch embeds one batch of entries with retry and rewrites them.
func (r *Reembedder) processBatch(ctx context.Context, collection string, entries []*core.Entry) error {
	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = r.embedder.EmbedTexts(ctx, texts)
		return err
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
	}

	if len(vectors) != len(entries) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entries), len(vectors))
	}

	for i := range entries {
		entries[i].Vector = core.Normalize(vectors[i])
	}

	if err := r.store.UpdateEntries(ctx, collection, entries...); err != nil {
		return fmt.Errorf("failed to update entries: %w", err)
	}
	return nil
}
