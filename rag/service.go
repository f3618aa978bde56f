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

package rag

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/douglasmakey/chatting-with-docs/ai"
	"github.com/douglasmakey/chatting-with-docs/core"
	"github.com/douglasmakey/chatting-with-docs/storage"
)

// DefaultTemplate is the built-in prompt used when no custom template is
// configured. It receives the retrieved chunk texts as {{.context}} and
// the user's question as {{.question}}.
const DefaultTemplate = `Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

{{.context}}

Question: {{.question}}
Helpful Answer:`

const systemPrompt = "You are a helpful assistant answering questions about the user's documents."

const (
	// DefaultTopK is the number of entries retrieved per question.
	DefaultTopK = 4

	// DefaultMinSimilarity is the retrieval score cutoff.
	DefaultMinSimilarity = 0.0
)

// Source identifies a retrieved entry an answer was grounded on.
type Source struct {
	Path  string
	Page  int
	Score float32
}

// Answer is a chat model response with the sources it drew on.
type Answer struct {
	Text    string
	Sources []Source
}

// Service answers questions over a collection using retrieval-augmented
// generation.
type Service struct {
	store         storage.CollectionStore
	embedder      ai.Embedder
	chat          ai.Chat
	template      prompts.PromptTemplate
	topK          int
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithTemplate sets a custom prompt template. The template may reference
// {{.context}} and {{.question}}.
func WithTemplate(template string) Option {
	return func(s *Service) error {
		s.template = newTemplate(template)
		return nil
	}
}

// WithTopK sets how many entries are retrieved per question.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(s *Service) error {
		if k < 1 {
			k = 1
		}
		s.topK = k
		return nil
	}
}

// WithMinSimilarity sets the retrieval score cutoff.
// Default is DefaultMinSimilarity.
func WithMinSimilarity(min float32) Option {
	return func(s *Service) error {
		s.minSimilarity = min
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

func newTemplate(text string) prompts.PromptTemplate {
	return prompts.NewPromptTemplate(text, []string{"context", "question"})
}

// NewService creates a new retrieval QA service.
func NewService(store storage.CollectionStore, provider ai.Provider, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Service{
		store:         store,
		embedder:      provider.Embedder(),
		chat:          provider.Chat(),
		template:      newTemplate(DefaultTemplate),
		topK:          DefaultTopK,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default().With("component", "rag"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Ask embeds the question, retrieves the most similar entries from the
// collection, and asks the chat model with the retrieved texts stuffed
// into the prompt. Returns the model's answer together with one source
// per retrieved entry.
func (s *Service) Ask(ctx context.Context, collection, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	vector, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}

	results, err := s.store.FindSimilar(ctx, collection, core.Normalize(vector), s.minSimilarity, s.topK)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("retrieved context", "collection", collection, "results", len(results))

	prompt, err := s.template.Format(map[string]any{
		"context":  stuffContext(results),
		"question": question,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.chat.Reply(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	answer := &Answer{Text: text, Sources: make([]Source, 0, len(results))}
	for _, result := range results {
		answer.Sources = append(answer.Sources, Source{
			Path:  result.Entry.Metadata.Source,
			Page:  result.Entry.Metadata.Page,
			Score: result.Score,
		})
	}
	return answer, nil
}

// stuffContext joins the retrieved texts into a single context block.
func stuffContext(results []*core.SearchResult) string {
	if len(results) == 0 {
		return "No relevant context was found."
	}
	texts := make([]string, len(results))
	for i, result := range results {
		texts[i] = result.Entry.Text
	}
	return strings.Join(texts, "\n\n")
}
