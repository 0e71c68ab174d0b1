package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/askdir/askdir/providers/contracts"
	"github.com/askdir/askdir/providers/models"
	ollama_models "github.com/askdir/askdir/providers/ollama/models"
	contracts2 "github.com/askdir/askdir/token_management/contracts"
)

// OllamaConfig implements the chat provider contract for a local Ollama
// server.
type OllamaConfig struct {
	BaseURL         string
	Model           string
	Temperature     *float32
	TokenManagement contracts2.ITokenManagement
}

const defaultBaseURL = "http://localhost:11434/api"

// NewOllamaChatProvider initializes a new Ollama chat provider.
func NewOllamaChatProvider(config *OllamaConfig) contracts.IChatAIProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return config
}

func (ollamaProvider *OllamaConfig) ChatCompletionRequest(ctx context.Context, messages []models.ChatMessage) <-chan models.StreamResponse {
	responseChan := make(chan models.StreamResponse)

	go func() {
		defer close(responseChan)

		reqBody := ollama_models.OllamaChatCompletionRequest{
			Model:       ollamaProvider.Model,
			Messages:    toOllamaMessages(messages),
			Stream:      true,
			Temperature: ollamaProvider.Temperature,
		}

		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			responseChan <- models.StreamResponse{Err: fmt.Errorf("error marshalling request body: %v", err)}
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat", ollamaProvider.BaseURL), bytes.NewBuffer(jsonData))
		if err != nil {
			responseChan <- models.StreamResponse{Err: fmt.Errorf("error creating request: %v", err)}
			return
		}

		req.Header.Set("Content-Type", "application/json")

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				responseChan <- models.StreamResponse{Err: fmt.Errorf("request canceled: %v", err)}
				return
			}
			responseChan <- models.StreamResponse{Err: fmt.Errorf("error sending request: %v", err)}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			var apiError models.AIError
			if err := json.Unmarshal(body, &apiError); err != nil {
				responseChan <- models.StreamResponse{Err: fmt.Errorf("error parsing error response: %v", err)}
				return
			}

			responseChan <- models.StreamResponse{Err: fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, apiError.Error.Message)}
			return
		}

		reader := bufio.NewReader(resp.Body)

		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					break
				}
				responseChan <- models.StreamResponse{Err: fmt.Errorf("error reading stream: %v", err)}
				return
			}

			if strings.TrimSpace(line) == "" {
				continue
			}

			var response ollama_models.OllamaChatCompletionResponse
			if err := json.Unmarshal([]byte(line), &response); err != nil {
				responseChan <- models.StreamResponse{Err: fmt.Errorf("error unmarshalling chunk: %v", err)}
				return
			}

			if len(response.Message.Content) > 0 {
				responseChan <- models.StreamResponse{Content: response.Message.Content}
			}

			if response.Done {
				if ollamaProvider.TokenManagement != nil && response.PromptEvalCount > 0 {
					ollamaProvider.TokenManagement.UsedTokens(response.PromptEvalCount, response.EvalCount)
				}
				responseChan <- models.StreamResponse{Done: true}
				return
			}
		}
	}()

	return responseChan
}

func toOllamaMessages(messages []models.ChatMessage) []ollama_models.Message {
	out := make([]ollama_models.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, ollama_models.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
