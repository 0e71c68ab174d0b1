package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguageFromCodeBlock(t *testing.T) {
	assert.Equal(t, "markdown", DetectLanguageFromCodeBlock("plain text, no fences"))
	assert.Equal(t, "go", DetectLanguageFromCodeBlock("intro\n```go\nfunc main() {}\n```\n"))
	assert.Equal(t, "markdown", DetectLanguageFromCodeBlock("```\nno tag\n```\n"))
	assert.Equal(t, "python", DetectLanguageFromCodeBlock("```go\nx\n```\ntext\n```python\ny\n```\n"))
}
