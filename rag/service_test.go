package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/douglasmakey/chatting-with-docs/ai/mock"
	"github.com/douglasmakey/chatting-with-docs/core"
	"github.com/douglasmakey/chatting-with-docs/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCollection(t *testing.T, store *badger.CollectionStore, texts ...string) {
	t.Helper()
	entries := make([]*core.Entry, len(texts))
	for i, text := range texts {
		entries[i] = &core.Entry{
			Text:     text,
			Metadata: core.Metadata{Source: "notes.txt", Page: i + 1},
			Vector:   core.Normalize(mock.DeterministicVector(text, 8)),
		}
	}
	_, err := store.AppendEntries(context.Background(), "docs", entries...)
	require.NoError(t, err)
}

func newTestService(t *testing.T, provider *mock.MockProvider, opts ...Option) (*Service, *badger.CollectionStore) {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	service, err := NewService(store, provider, opts...)
	require.NoError(t, err)
	return service, store
}

func TestNewServiceValidation(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	_, err = NewService(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewService(store, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestAskReturnsAnswerWithSources(t *testing.T) {
	provider := mock.NewMockProvider()
	service, store := newTestService(t, provider, WithMinSimilarity(-1), WithTopK(2))
	seedCollection(t, store, "badgers eat roots", "owls hunt at night", "rivers flood in spring")

	answer, err := service.Ask(context.Background(), "docs", "what do badgers eat?")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Text)
	require.Len(t, answer.Sources, 2)
	for _, source := range answer.Sources {
		assert.Equal(t, "notes.txt", source.Path)
		assert.NotZero(t, source.Page)
	}
	// Results come back best match first.
	assert.GreaterOrEqual(t, answer.Sources[0].Score, answer.Sources[1].Score)
}

func TestAskStuffsRetrievedContextIntoPrompt(t *testing.T) {
	provider := mock.NewMockProvider()
	var gotUser string
	provider.MockChat.ReplyFunc = func(ctx context.Context, system, user string) (string, error) {
		gotUser = user
		return "ok", nil
	}

	service, store := newTestService(t, provider, WithMinSimilarity(-1))
	seedCollection(t, store, "badgers eat roots")

	_, err := service.Ask(context.Background(), "docs", "what do badgers eat?")
	require.NoError(t, err)
	assert.Contains(t, gotUser, "badgers eat roots")
	assert.Contains(t, gotUser, "what do badgers eat?")
}

func TestAskEmptyRetrieval(t *testing.T) {
	provider := mock.NewMockProvider()
	var gotUser string
	provider.MockChat.ReplyFunc = func(ctx context.Context, system, user string) (string, error) {
		gotUser = user
		return "I don't know.", nil
	}

	service, store := newTestService(t, provider, WithMinSimilarity(0.999))
	seedCollection(t, store, "completely unrelated text")

	answer, err := service.Ask(context.Background(), "docs", "zzzzzz?")
	require.NoError(t, err)
	assert.Empty(t, answer.Sources)
	assert.Contains(t, gotUser, "No relevant context")
}

func TestAskCustomTemplate(t *testing.T) {
	provider := mock.NewMockProvider()
	var gotUser string
	provider.MockChat.ReplyFunc = func(ctx context.Context, system, user string) (string, error) {
		gotUser = user
		return "ok", nil
	}

	service, store := newTestService(t, provider,
		WithMinSimilarity(-1),
		WithTemplate("CTX[{{.context}}] Q[{{.question}}]"))
	seedCollection(t, store, "some fact")

	_, err := service.Ask(context.Background(), "docs", "a question")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotUser, "CTX["), "prompt %q", gotUser)
	assert.Contains(t, gotUser, "Q[a question]")
}

func TestAskValidation(t *testing.T) {
	service, _ := newTestService(t, mock.NewMockProvider())

	_, err := service.Ask(context.Background(), "docs", "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = service.Ask(context.Background(), "missing", "hello?")
	assert.Error(t, err)
}
