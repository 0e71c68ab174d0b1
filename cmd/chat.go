package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/askdir/askdir/constants/lipgloss"
	"github.com/askdir/askdir/dircontext"
	dirmodels "github.com/askdir/askdir/dircontext/models"
	"github.com/askdir/askdir/utils"
	"github.com/pterm/pterm"
)

// handleOneShotCommand processes a single prompt and exits. The provider
// error, if any, surfaces here and fails the process.
func handleOneShotCommand(rootDependencies *RootDependencies, prompt string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	output, err := rootDependencies.Session.Process(ctx, prompt, nil)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	language := utils.DetectLanguageFromCodeBlock(output)
	if err := utils.RenderAndPrintMarkdownWithContext(ctx, output, language, rootDependencies.Config.Theme); err != nil {
		fmt.Println(output)
	}
}

// handleChatCommand runs the interactive session: read a line, dispatch
// slash commands, otherwise process the line as a prompt.
func handleChatCommand(rootDependencies *RootDependencies) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	reader := bufio.NewReader(os.Stdin)

	chatOptionsBox := lipgloss.BoxStyle.Render("/help  Help for the interactive session")
	fmt.Println(chatOptionsBox)

	spinnerLoadContext, _ := spinner.Start("Loading Context...")

	report, err := rootDependencies.Session.Reload()

	spinnerLoadContext.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
	} else {
		printScanSummary(rootDependencies.Cwd, report)
	}

	for {
		select {
		case <-ctx.Done():
			return

		default:
			userInput, err := utils.InputPromptWithContext(ctx, reader)

			if err != nil {
				// End-of-input and interrupts are normal termination,
				// not errors.
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
					fmt.Println(lipgloss.Yellow.Render("\nExiting..."))
					return
				}
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			if userInput == "" {
				fmt.Print("\r")
				continue
			}

			handled, exit := findChatSubCommand(userInput, rootDependencies)
			if handled {
				continue
			}
			if exit {
				fmt.Println(lipgloss.Yellow.Render("Exiting..."))
				return
			}

			aiSpinner, _ := spinner.Start("Thinking...")

			firstChunk := true
			_, err = rootDependencies.Session.Process(ctx, userInput, func(chunk string) {
				if firstChunk {
					aiSpinner.Stop()
					fmt.Print("\n")
					firstChunk = false
				}
				language := utils.DetectLanguageFromCodeBlock(chunk)
				if renderErr := utils.RenderAndPrintMarkdownWithContext(ctx, chunk, language, rootDependencies.Config.Theme); renderErr != nil {
					fmt.Print(chunk)
				}
			})

			if firstChunk {
				aiSpinner.Stop()
			}

			if err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			fmt.Print("\n")
		}
	}
}

// findChatSubCommand dispatches slash commands. The first return value
// reports the input was consumed; the second requests termination. Any
// other input is treated as a prompt.
func findChatSubCommand(command string, rootDependencies *RootDependencies) (bool, bool) {
	switch command {
	case "/help":
		helps := "/exit, /quit  Exit the session\n" +
			"/reload  Rebuild the file context without losing the conversation\n" +
			"/files  List the files currently eligible for the context\n" +
			"/clear  Clear screen\n" +
			"/clear-history  Clear the conversation (file context is kept)\n" +
			"/token  Token usage for this session\n" +
			"/clear-token  Reset token usage\n" +
			"/display-mode  Show the current file display mode"
		fmt.Println(lipgloss.BoxStyle.Render(helps))
		return true, false
	case "/exit", "/quit":
		return false, true
	case "/reload":
		report, err := rootDependencies.Session.Reload()
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return true, false
		}
		printScanSummary(rootDependencies.Cwd, report)
		fmt.Println(lipgloss.Green.Render(">>> file context reloaded"))
		return true, false
	case "/files":
		_, report, err := dircontext.TakeSnapshot(rootDependencies.Cwd, dircontext.SelfName())
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return true, false
		}
		if len(report.Included) == 0 {
			fmt.Println(lipgloss.Yellow.Render("No eligible files in this directory."))
			return true, false
		}
		fmt.Println(lipgloss.BoxStyle.Render(strings.Join(report.Included, "\n")))
		return true, false
	case "/clear":
		fmt.Print("\033[2J\033[H")
		return true, false
	case "/clear-history":
		rootDependencies.Session.History().Clear()
		fmt.Println(lipgloss.Green.Render(">>> conversation cleared"))
		return true, false
	case "/token":
		rootDependencies.TokenManagement.DisplayTokens(
			rootDependencies.Config.AIProviderConfig.Provider,
			rootDependencies.Config.AIProviderConfig.Model,
		)
		return true, false
	case "/clear-token":
		rootDependencies.TokenManagement.ClearToken()
		return true, false
	case "/display-mode":
		fmt.Printf("Current file display mode: %s\n", rootDependencies.Config.FileDisplayMode)
		fmt.Println("Available modes:")
		fmt.Println("  full     - Truncated file content (default)")
		fmt.Println("  info     - File name, size and line count only")
		fmt.Println("  relevant - Structural outline for Python, first line otherwise")
		return true, false
	default:
		return false, false
	}
}

// printScanSummary reports how many files were loaded and warns about the
// ones skipped with an error.
func printScanSummary(cwd string, report *dirmodels.ScanReport) {
	if report == nil {
		return
	}
	fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("[info] loaded %d files from %s", len(report.Included), cwd)))
	for _, skipped := range report.Skipped {
		if skipped.Err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("[warn] skipped %s: %v", skipped.Name, skipped.Err)))
		}
	}
}
