package config

import (
	"fmt"
	"os"

	"github.com/askdir/askdir/constants/lipgloss"
	"github.com/askdir/askdir/dircontext"
	"github.com/askdir/askdir/providers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file.
type Config struct {
	Version          string                      `mapstructure:"version"`
	Theme            string                      `mapstructure:"theme"`
	FileDisplayMode  string                      `mapstructure:"file_display_mode"`
	MaxFileChars     int                         `mapstructure:"max_file_chars"`
	Verbose          bool                        `mapstructure:"verbose"`
	AIProviderConfig *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Version:         "0.3.0",
	Theme:           "dracula",
	FileDisplayMode: dircontext.DisplayModeFull,
	MaxFileChars:    dircontext.DefaultMaxFileChars,
	Verbose:         false,
	AIProviderConfig: &providers.AIProviderConfig{
		Provider:    "openai",
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o",
		Stream:      true,
		Temperature: nil,
		ApiVersion:  "",
		ApiKey:      "",
	},
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and
// environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		// Look for askdir-config.(yaml|yml|json) in the working directory.
		viper.SetConfigName("askdir-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
			}
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("file_display_mode", DefaultConfig.FileDisplayMode)
	viper.SetDefault("max_file_chars", DefaultConfig.MaxFileChars)
	viper.SetDefault("verbose", DefaultConfig.Verbose)
	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.temperature", DefaultConfig.AIProviderConfig.Temperature)
	viper.SetDefault("ai_provider_config.stream", DefaultConfig.AIProviderConfig.Stream)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	viper.SetDefault("ai_provider_config.api_version", DefaultConfig.AIProviderConfig.ApiVersion)
}

// bindEnv explicitly binds environment variables to configuration keys.
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("file_display_mode", "FILE_DISPLAY_MODE")
	_ = viper.BindEnv("max_file_chars", "MAX_FILE_CHARS")
	_ = viper.BindEnv("verbose", "VERBOSE")
	_ = viper.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = viper.BindEnv("ai_provider_config.base_url", "BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "MODEL")
	_ = viper.BindEnv("ai_provider_config.temperature", "TEMPERATURE")
	_ = viper.BindEnv("ai_provider_config.api_key", "API_KEY")
	_ = viper.BindEnv("ai_provider_config.api_version", "API_VERSION")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("file_display_mode", rootCmd.PersistentFlags().Lookup("file_display_mode"))
	_ = viper.BindPFlag("max_file_chars", rootCmd.PersistentFlags().Lookup("max_file_chars"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.temperature", rootCmd.PersistentFlags().Lookup("temperature"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
	_ = viper.BindPFlag("ai_provider_config.api_version", rootCmd.PersistentFlags().Lookup("api_version"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set customize theme for buffering response from ai. (e.g., 'dracula', 'light', 'dark')")
	rootCmd.PersistentFlags().String("file_display_mode", DefaultConfig.FileDisplayMode, "Set file display mode: 'full' (truncated file content), 'info' (file info only), 'relevant' (structural outline)")
	rootCmd.PersistentFlags().Int("max_file_chars", DefaultConfig.MaxFileChars, "Maximum number of characters included per file in the context block.")
	rootCmd.PersistentFlags().Bool("verbose", DefaultConfig.Verbose, "Enable verbose diagnostic logging.")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")

	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the AI provider (e.g., 'openai', 'azure-openai', 'ollama')")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "The base URL of AI Provider (e.g., default is 'https://api.openai.com/v1').")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The name of the model used for chat completions, such as 'gpt-4o'.")
	rootCmd.PersistentFlags().Float32("temperature", 0, "Adjusts the AI model's creativity (0-1).")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the AI service provider.")
	rootCmd.PersistentFlags().String("api_version", DefaultConfig.AIProviderConfig.ApiVersion, "The API version used to authenticate with the chat AI service provider.")
}
