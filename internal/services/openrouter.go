package services

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenRouterConfig configures the chat-completion client. BaseURL may
// point at any OpenAI-compatible endpoint; the default is OpenRouter.
type OpenRouterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// OpenRouterClient is a thin wrapper around one chat-completion call.
// One request per Complete call, no retries: the caller surfaces the
// error and the user retries manually.
type OpenRouterClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	hasKey      bool
}

func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenRouterClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		hasKey:      cfg.APIKey != "",
	}
}

// Complete sends prompt as a single user-role message and returns the
// model's reply text.
func (c *OpenRouterClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.hasKey {
		return "", &GenerationError{Message: "OPENROUTER_API_KEY is not configured"}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("AI service request failed: %v", err)}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &GenerationError{Message: "no content received from AI service"}
	}

	return resp.Choices[0].Message.Content, nil
}
