package providers

import (
	"fmt"

	"github.com/askdir/askdir/providers/contracts"
	"github.com/askdir/askdir/providers/ollama"
	"github.com/askdir/askdir/providers/openai"
	general_token_management "github.com/askdir/askdir/token_management/contracts"
)

// AIProviderConfig selects and configures the chat provider.
type AIProviderConfig struct {
	Provider    string   `mapstructure:"provider"`
	BaseURL     string   `mapstructure:"base_url"`
	Model       string   `mapstructure:"model"`
	Temperature *float32 `mapstructure:"temperature"`
	ApiKey      string   `mapstructure:"api_key"`
	ApiVersion  string   `mapstructure:"api_version"`
	Stream      bool     `mapstructure:"stream"`
}

// ChatProviderFactory creates the chat provider named in the config.
func ChatProviderFactory(config *AIProviderConfig, tokenManagement general_token_management.ITokenManagement) (contracts.IChatAIProvider, error) {
	switch config.Provider {
	case "openai", "azure-openai", "deepseek", "openrouter":
		return openai.NewOpenAIChatProvider(&openai.OpenAIConfig{
			ProviderName:    config.Provider,
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			Temperature:     config.Temperature,
			ApiKey:          config.ApiKey,
			ApiVersion:      config.ApiVersion,
			TokenManagement: tokenManagement,
		}), nil
	case "ollama":
		return ollama.NewOllamaChatProvider(&ollama.OllamaConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			Temperature:     config.Temperature,
			TokenManagement: tokenManagement,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
