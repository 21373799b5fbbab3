package googleai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
)

// Client wraps the Google Generative AI models behind the domain interfaces.
// One client serves both chat completions and embeddings, same API key.
type Client struct {
	Model      string
	EmbedModel string

	llm      *googleai.GoogleAI
	embedder *embeddings.EmbedderImpl
}

func New(ctx context.Context, apiKey, chatModel, embedModel string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}
	if chatModel == "" {
		chatModel = "gemini-1.5-flash-latest"
	}
	if embedModel == "" {
		embedModel = "embedding-001"
	}
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(chatModel),
		googleai.WithDefaultEmbeddingModel(embedModel),
	)
	if err != nil {
		return nil, fmt.Errorf("init googleai: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(model)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return &Client{
		Model:      chatModel,
		EmbedModel: embedModel,
		llm:        model,
		embedder:   embedder,
	}, nil
}

// Ask sends a system+user prompt pair and returns the model reply.
func (c *Client) Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, userPrompt),
	}
	resp, err := c.llm.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("googleai chat: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("no choices returned by model")
	}
	return resp.Choices[0].Content, nil
}

func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embedder.EmbedDocuments(ctx, texts)
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embedder.EmbedQuery(ctx, text)
}
