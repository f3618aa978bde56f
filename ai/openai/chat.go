package openai

import (
	"context"
	"log/slog"

	"github.com/douglasmakey/chatting-with-docs/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Chat implements ai.Chat using OpenAI-compatible chat completion APIs.
type Chat struct {
	client llms.Model
	logger *slog.Logger
}

// newChat is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChat(config *ai.Config) (*Chat, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Chat{
		client: client,
		logger: slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChat creates a new chat client using the provided configuration.
//
// Returns ai.Chat interface to enforce abstraction.
func NewChat(config *ai.Config) (ai.Chat, error) {
	return newChat(config)
}

// Reply sends the system prompt and user message to the model and
// returns the first choice's text.
func (c *Chat) Reply(ctx context.Context, system, user string) (string, error) {
	c.logger.Debug("generating chat completion", "system_len", len(system), "user_len", len(user))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(user),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}
