package utils

import "strings"

// DetectLanguageFromCodeBlock returns the language tag of the last fenced
// code block opener in content, or "markdown" when none carries one.
func DetectLanguageFromCodeBlock(content string) string {
	language := "markdown"
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			continue
		}
		tag := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
		if tag != "" {
			language = tag
		}
	}
	return language
}
