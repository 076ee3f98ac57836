package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"github.com/umputun/aspirant/pkg/config"
)

// ResponsesCompleter talks to the OpenAI Responses API. An incomplete response cut by the
// token limit is retried once with the limit doubled.
type ResponsesCompleter struct {
	client openai.Client
	config config.LLMConfig
}

// NewResponsesCompleter makes a Responses API client
func NewResponsesCompleter(cfg config.LLMConfig) *ResponsesCompleter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(1)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	return &ResponsesCompleter{client: openai.NewClient(opts...), config: cfg}
}

// Complete sends instructions and input, returns the output text
func (c *ResponsesCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	maxOutputTokens := int64(c.config.MaxTokens)
	limit := maxOutputTokens * 2
	for {
		resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
			Model:           c.config.Model,
			MaxOutputTokens: openai.Int(maxOutputTokens),
			Temperature:     openai.Float(c.config.Temperature),
			Instructions:    openai.String(system),
			Input: responses.ResponseNewParamsInputUnion{
				OfString: openai.String(prompt),
			},
		})
		if err != nil {
			return "", fmt.Errorf("llm request failed: %w", err)
		}

		if resp.Status == "incomplete" {
			if resp.IncompleteDetails.Reason == "max_output_tokens" && maxOutputTokens < limit {
				maxOutputTokens = limit
				continue
			}
			return "", fmt.Errorf("llm response is incomplete (reason = %s, max output tokens = %d)",
				resp.IncompleteDetails.Reason, maxOutputTokens)
		}
		return resp.OutputText(), nil
	}
}
