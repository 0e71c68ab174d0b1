package openai

import (
	"context"
	"fmt"

	"github.com/askdir/askdir/providers/contracts"
	"github.com/askdir/askdir/providers/models"
	contracts2 "github.com/askdir/askdir/token_management/contracts"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig implements the chat provider contract for OpenAI-compatible
// APIs (OpenAI, Azure OpenAI, DeepSeek, OpenRouter).
type OpenAIConfig struct {
	ProviderName    string
	BaseURL         string
	Model           string
	Temperature     *float32
	ApiKey          string
	ApiVersion      string
	TokenManagement contracts2.ITokenManagement
}

const defaultBaseURL = "https://api.openai.com/v1"

// NewOpenAIChatProvider initializes a new OpenAI chat provider.
func NewOpenAIChatProvider(config *OpenAIConfig) contracts.IChatAIProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return config
}

func (p *OpenAIConfig) ChatCompletionRequest(ctx context.Context, messages []models.ChatMessage) <-chan models.StreamResponse {
	responseChan := make(chan models.StreamResponse)

	go func() {
		defer close(responseChan)

		client := openai.NewClientWithConfig(p.clientConfig())

		request := openai.ChatCompletionRequest{
			Model:    p.Model,
			Messages: toOpenAIMessages(messages),
		}
		if p.Temperature != nil {
			request.Temperature = *p.Temperature
		}

		// One opaque request/response call; the caller drains the channel.
		response, err := client.CreateChatCompletion(ctx, request)
		if err != nil {
			responseChan <- models.StreamResponse{Err: fmt.Errorf("chat completion request failed: %w", err)}
			return
		}

		if len(response.Choices) == 0 {
			responseChan <- models.StreamResponse{Err: fmt.Errorf("no choices returned from %s", p.ProviderName)}
			return
		}

		responseChan <- models.StreamResponse{Content: response.Choices[0].Message.Content}

		if p.TokenManagement != nil && response.Usage.TotalTokens > 0 {
			p.TokenManagement.UsedTokens(response.Usage.PromptTokens, response.Usage.CompletionTokens)
		}

		responseChan <- models.StreamResponse{Done: true}
	}()

	return responseChan
}

func (p *OpenAIConfig) clientConfig() openai.ClientConfig {
	if p.ProviderName == "azure-openai" {
		config := openai.DefaultAzureConfig(p.ApiKey, p.BaseURL)
		if p.ApiVersion != "" {
			config.APIVersion = p.ApiVersion
		}
		return config
	}

	config := openai.DefaultConfig(p.ApiKey)
	config.BaseURL = p.BaseURL
	return config
}

func toOpenAIMessages(messages []models.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
