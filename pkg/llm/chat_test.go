package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aspirant/pkg/config"
)

func TestChatCompleter_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, "be brief", req.Messages[0].Content)
		assert.Equal(t, "scan defense", req.Messages[1].Content)

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "---\nTITLE: Drill\n---"},
				FinishReason: openai.FinishReasonStop,
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewChatCompleter(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "test-key", Model: "gpt-test", MaxTokens: 100})
	text, err := c.Complete(context.Background(), "be brief", "scan defense")
	require.NoError(t, err)
	assert.Equal(t, "---\nTITLE: Drill\n---", text)
}

func TestChatCompleter_Errors(t *testing.T) {
	tbl := []struct {
		name    string
		resp    openai.ChatCompletionResponse
		wantErr string
	}{
		{"no choices", openai.ChatCompletionResponse{}, "no response from llm"},
		{"truncated", openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Content: "---\nTITLE: cut"},
			FinishReason: openai.FinishReasonLength,
		}}}, "truncated"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(tt.resp)
			}))
			defer server.Close()

			c := NewChatCompleter(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "k", Model: "m", MaxTokens: 10})
			_, err := c.Complete(context.Background(), "s", "p")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewChatCompleter(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "k", Model: "m"})
		_, err := c.Complete(context.Background(), "s", "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm request failed")
	})
}
