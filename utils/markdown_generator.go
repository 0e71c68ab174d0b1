package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderAndPrintMarkdownWithContext renders assistant output line by line,
// highlighting fenced code blocks with chroma, with cancellation support.
func RenderAndPrintMarkdownWithContext(ctx context.Context, content string, language string, theme string) error {
	lines := strings.Split(content, "\n")

	insideCodeBlock := false
	for i, line := range lines {
		select {
		case <-ctx.Done():
			fmt.Print("\n\nOutput interrupted...\n")
			return ctx.Err()
		default:
		}

		if strings.HasPrefix(line, "```") {
			insideCodeBlock = !insideCodeBlock
			continue
		}

		if insideCodeBlock {
			var buf bytes.Buffer
			if err := quick.Highlight(&buf, line+"\n", language, "terminal256", theme); err != nil {
				return fmt.Errorf("error rendering markdown: %v", err)
			}
			fmt.Print(buf.String())
		} else {
			fmt.Println(line)
		}

		if i%5 == 0 {
			select {
			case <-ctx.Done():
				fmt.Print("\n\nOutput interrupted...\n")
				return ctx.Err()
			default:
			}
		}
	}

	return nil
}
