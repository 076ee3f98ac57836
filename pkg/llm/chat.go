package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/aspirant/pkg/config"
)

// ChatCompleter talks to an OpenAI-compatible chat completions endpoint
type ChatCompleter struct {
	client *openai.Client
	config config.LLMConfig
}

// NewChatCompleter makes a chat completions client, custom endpoint replaces the OpenAI base URL
func NewChatCompleter(cfg config.LLMConfig) *ChatCompleter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &ChatCompleter{client: openai.NewClientWithConfig(clientConfig), config: cfg}
}

// Complete sends system and user messages and returns the first choice text
func (c *ChatCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}
	if resp.Choices[0].FinishReason == openai.FinishReasonLength {
		return "", fmt.Errorf("llm response truncated at %d tokens", c.config.MaxTokens)
	}
	return resp.Choices[0].Message.Content, nil
}
