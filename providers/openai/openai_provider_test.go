package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/askdir/askdir/providers/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTokens struct {
	input  int
	output int
}

func (r *recordingTokens) UsedTokens(inputToken int, outputToken int) {
	r.input += inputToken
	r.output += outputToken
}
func (r *recordingTokens) GetCurrentTokenUsage() (int, int, int) {
	return r.input + r.output, r.input, r.output
}
func (r *recordingTokens) DisplayTokens(string, string) {}
func (r *recordingTokens) ClearToken()                  {}

func drain(t *testing.T, responseChan <-chan models.StreamResponse) (string, error) {
	t.Helper()
	var content string
	for response := range responseChan {
		if response.Err != nil {
			return content, response.Err
		}
		if response.Done {
			continue
		}
		content += response.Content
	}
	return content, nil
}

func TestOpenAIProvider_SendsFullConversation(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "the reply"}}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 5, "total_tokens": 25}
		}`))
	}))
	defer server.Close()

	tokens := &recordingTokens{}
	provider := NewOpenAIChatProvider(&OpenAIConfig{
		ProviderName:    "openai",
		BaseURL:         server.URL,
		Model:           "gpt-4o",
		ApiKey:          "test-key",
		TokenManagement: tokens,
	})

	messages := []models.ChatMessage{
		{Role: models.RoleSystem, Content: "briefing"},
		{Role: models.RoleUser, Content: "summarize"},
	}

	content, err := drain(t, provider.ChatCompletionRequest(context.Background(), messages))
	require.NoError(t, err)
	assert.Equal(t, "the reply", content)
	assert.Equal(t, 20, tokens.input)
	assert.Equal(t, 5, tokens.output)

	var request map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &request))
	assert.Equal(t, "gpt-4o", request["model"])
	sent, ok := request["messages"].([]any)
	require.True(t, ok)
	require.Len(t, sent, 2)
	first, ok := sent[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "briefing", first["content"])
}

func TestOpenAIProvider_PropagatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIChatProvider(&OpenAIConfig{
		ProviderName: "openai",
		BaseURL:      server.URL,
		Model:        "gpt-4o",
		ApiKey:       "bad-key",
	})

	_, err := drain(t, provider.ChatCompletionRequest(context.Background(), []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion request failed")
}

func TestOpenAIProvider_DefaultBaseURL(t *testing.T) {
	provider := NewOpenAIChatProvider(&OpenAIConfig{ProviderName: "openai", Model: "gpt-4o"})
	config, ok := provider.(*OpenAIConfig)
	require.True(t, ok)
	assert.Equal(t, defaultBaseURL, config.BaseURL)
}
