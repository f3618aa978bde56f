package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Chat answers a single prompt with a chat completion model.
// Implementations must be thread-safe for concurrent use.
type Chat interface {
	// Reply sends a system prompt and a user message to the model and
	// returns the model's text response.
	Reply(ctx context.Context, system, user string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and Chat
// instances, ensuring they share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Chat returns the chat completion service.
	Chat() Chat

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
