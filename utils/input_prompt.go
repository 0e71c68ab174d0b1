package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/askdir/askdir/constants/lipgloss"
)

// InputPromptWithContext reads one line from the reader, with context
// cancellation support. End-of-input returns io.EOF so the caller can treat
// it as a normal termination request.
func InputPromptWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render("> "))

		userInput, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				errChan <- io.EOF
			} else {
				errChan <- fmt.Errorf("error reading input: %v", err)
			}
			return
		}

		inputChan <- strings.TrimSpace(userInput)
	}()

	select {
	case <-ctx.Done():
		fmt.Println()
		return "", ctx.Err()
	case err := <-errChan:
		return "", err
	case input := <-inputChan:
		return input, nil
	}
}
