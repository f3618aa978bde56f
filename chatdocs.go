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

package chatdocs

import (
	"log/slog"

	"github.com/douglasmakey/chatting-with-docs/ai"
	"github.com/douglasmakey/chatting-with-docs/ai/openai"
	"github.com/douglasmakey/chatting-with-docs/ingestion"
	"github.com/douglasmakey/chatting-with-docs/rag"
	"github.com/douglasmakey/chatting-with-docs/storage"
	"github.com/douglasmakey/chatting-with-docs/storage/badger"
)

// Database bundles the vector store and AI provider behind one handle.
type Database struct {
	store    storage.CollectionStore
	provider ai.Provider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI
// client. Used in tests.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the store without touching disk. Used in tests.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the vector store at filePath and connects the AI
// provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewCollectionStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	return &Database{
		store:    store,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the store.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing collection store", "err", err)
		return err
	}
	return nil
}

// Store returns the collection store.
func (db *Database) Store() storage.CollectionStore {
	return db.store
}

// NewFeeder creates a document ingestion feeder over this database.
func (db *Database) NewFeeder(opts ...ingestion.Option) (*ingestion.Feeder, error) {
	return ingestion.NewFeeder(db.store, db.provider.Embedder(), opts...)
}

// NewRAGService creates a retrieval QA service over this database.
func (db *Database) NewRAGService(opts ...rag.Option) (*rag.Service, error) {
	return rag.NewService(db.store, db.provider, opts...)
}
