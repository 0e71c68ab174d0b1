package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/askdir/askdir/chat"
	"github.com/askdir/askdir/config"
	"github.com/askdir/askdir/constants/lipgloss"
	"github.com/askdir/askdir/dircontext"
	"github.com/askdir/askdir/providers"
	contracts_provider "github.com/askdir/askdir/providers/contracts"
	"github.com/askdir/askdir/token_management"
	contracts_token "github.com/askdir/askdir/token_management/contracts"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootDependencies holds the process-wide state every command works with.
// It is constructed once per process; the session inside it owns the
// conversation log and the snapshot tracker.
type RootDependencies struct {
	Cwd                 string
	Config              *config.Config
	Logger              *zap.Logger
	TokenManagement     contracts_token.ITokenManagement
	CurrentChatProvider contracts_provider.IChatAIProvider
	Session             *chat.Session
}

var rootCmd = &cobra.Command{
	Use:   "askdir [prompt]",
	Short: "Chat with an AI model that knows the files in your current directory.",
	Long: `askdir augments a language-model conversation with the text files found in
the directory it is invoked from. With arguments, the joined prompt is answered
once and the process exits. Without arguments, an interactive session starts;
the injected file context is rebuilt automatically whenever the directory
changes, and '/reload' forces a rebuild without losing the conversation.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Println(config.DefaultConfig.Version)
			return
		}

		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		defer func() {
			_ = rootDependencies.Logger.Sync()
		}()

		if len(args) > 0 {
			handleOneShotCommand(rootDependencies, strings.Join(args, " "))
			return
		}
		handleChatCommand(rootDependencies)
	},
}

// handleRootCommand builds the shared dependencies for a command run.
// Returns nil after printing the error when setup fails.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigs(cmd, cwd)

	logger := newLogger(cfg.Verbose)

	tokenManagement := token_management.NewTokenManager()

	provider, err := providers.ChatProviderFactory(cfg.AIProviderConfig, tokenManagement)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	builder := dircontext.NewBuilder(cfg.MaxFileChars, cfg.FileDisplayMode, dircontext.SelfName(), logger)
	session := chat.NewSession(cwd, builder, provider, logger)

	return &RootDependencies{
		Cwd:                 cwd,
		Config:              cfg,
		Logger:              logger,
		TokenManagement:     tokenManagement,
		CurrentChatProvider: provider,
		Session:             session,
	}
}

// newLogger builds the diagnostic logger. Warnings and above always reach
// the terminal; verbose mode lowers the threshold to debug.
func newLogger(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}
