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

package badger

import (
	"context"
	"testing"

	"github.com/douglasmakey/chatting-with-docs/core"
	"github.com/douglasmakey/chatting-with-docs/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *CollectionStore {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func makeEntry(text string, vector []float32) *core.Entry {
	return &core.Entry{
		Text:     text,
		Metadata: core.Metadata{Source: "test.txt"},
		Vector:   core.Normalize(vector),
	}
}

func TestAppendEntriesCreatesCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetCollection(ctx, "docs")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	entries, err := store.AppendEntries(ctx, "docs", makeEntry("hello", []float32{1, 0}))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotZero(t, entries[0].Id)
	assert.False(t, entries[0].InsertedAt.IsZero())

	collection, err := store.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", collection.Name)
	assert.Equal(t, core.IDFromContent("docs"), collection.Id)
}

func TestAppendEntriesNoDeduplication(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := func() *core.Entry { return makeEntry("same text", []float32{1, 0}) }

	_, err := store.AppendEntries(ctx, "docs", entry())
	require.NoError(t, err)
	_, err = store.AppendEntries(ctx, "docs", entry())
	require.NoError(t, err)

	count, err := store.CountEntries(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAppendEntriesValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AppendEntries(ctx, "  ", makeEntry("hello", []float32{1, 0}))
	assert.ErrorIs(t, err, core.ErrEmptyCollectionName)

	_, err = store.AppendEntries(ctx, "docs", &core.Entry{Text: "no vector"})
	assert.ErrorIs(t, err, core.ErrMissingVector)
}

func TestListCollectionsOrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zoo", "alpha", "middle"} {
		_, err := store.AppendEntries(ctx, name, makeEntry("text", []float32{1, 0}))
		require.NoError(t, err)
	}

	collections, err := store.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 3)
	assert.Equal(t, "alpha", collections[0].Name)
	assert.Equal(t, "middle", collections[1].Name)
	assert.Equal(t, "zoo", collections[2].Name)
}

func TestDeleteCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AppendEntries(ctx, "docs",
		makeEntry("one", []float32{1, 0}),
		makeEntry("two", []float32{0, 1}),
	)
	require.NoError(t, err)
	_, err = store.AppendEntries(ctx, "other", makeEntry("keep", []float32{1, 0}))
	require.NoError(t, err)

	require.NoError(t, store.DeleteCollection(ctx, "docs"))

	_, err = store.GetCollection(ctx, "docs")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// The other collection is untouched.
	count, err := store.CountEntries(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.ErrorIs(t, store.DeleteCollection(ctx, "docs"), storage.ErrNotFound)
}

func TestFindSimilarOrderingAndThreshold(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AppendEntries(ctx, "docs",
		makeEntry("exact", []float32{1, 0, 0}),
		makeEntry("close", []float32{0.9, 0.1, 0}),
		makeEntry("far", []float32{0, 1, 0}),
		makeEntry("opposite", []float32{-1, 0, 0}),
	)
	require.NoError(t, err)

	query := core.Normalize([]float32{1, 0, 0})
	results, err := store.FindSimilar(ctx, "docs", query, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].Entry.Text)
	assert.Equal(t, "close", results[1].Entry.Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestFindSimilarLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AppendEntries(ctx, "docs",
		makeEntry("a", []float32{1, 0}),
		makeEntry("b", []float32{0.9, 0.1}),
		makeEntry("c", []float32{0.8, 0.2}),
	)
	require.NoError(t, err)

	results, err := store.FindSimilar(ctx, "docs", core.Normalize([]float32{1, 0}), 0, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestFindSimilarMissingCollection(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FindSimilar(context.Background(), "nope", []float32{1, 0}, 0, 10)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListEntriesPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AppendEntries(ctx, "docs",
		makeEntry("a", []float32{1, 0}),
		makeEntry("b", []float32{0, 1}),
		makeEntry("c", []float32{1, 1}),
	)
	require.NoError(t, err)

	first, err := store.ListEntries(ctx, "docs", 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Less(t, uint64(first[0].Id), uint64(first[1].Id))

	rest, err := store.ListEntries(ctx, "docs", first[1].Id, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Greater(t, uint64(rest[0].Id), uint64(first[1].Id))
}

func TestUpdateEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.AppendEntries(ctx, "docs", makeEntry("hello", []float32{1, 0}))
	require.NoError(t, err)

	stored[0].Vector = core.Normalize([]float32{0, 1})
	require.NoError(t, store.UpdateEntries(ctx, "docs", stored[0]))

	results, err := store.FindSimilar(ctx, "docs", core.Normalize([]float32{0, 1}), 0.99, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, stored[0].Id, results[0].Entry.Id)

	// Unknown IDs are rejected.
	ghost := makeEntry("ghost", []float32{1, 0})
	ghost.Id = 9999
	assert.ErrorIs(t, store.UpdateEntries(ctx, "docs", ghost), storage.ErrNotFound)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	store, err := NewCollectionStore(backend)
	require.NoError(t, err)

	_, err = store.AppendEntries(ctx, "docs", makeEntry("persisted", []float32{1, 0}))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	store, err = NewCollectionStore(backend)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.CountEntries(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
