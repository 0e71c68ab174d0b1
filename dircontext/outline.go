package dircontext

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// pythonQueries pair a label with a tree-sitter query capturing the
// declarations worth surfacing in an outline. Held as an ordered slice so
// the outline is deterministic for a given source.
var pythonQueries = []struct {
	tag   string
	query string
}{
	{"class", "(class_definition name: (identifier) @name)"},
	{"function", "(function_definition name: (identifier) @name)"},
}

// OutlinePython parses Python source with tree-sitter and returns one line
// per class and function definition, e.g. "function: build_context".
func OutlinePython(source []byte) (string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return "", fmt.Errorf("failed to parse python source: %w", err)
	}
	defer tree.Close()

	lang := python.GetLanguage()
	var elements []string

	for _, q := range pythonQueries {
		query, err := sitter.NewQuery([]byte(q.query), lang)
		if err != nil {
			return "", fmt.Errorf("failed to compile query %q: %w", q.tag, err)
		}

		cursor := sitter.NewQueryCursor()
		cursor.Exec(query, tree.RootNode())

		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			for _, capture := range match.Captures {
				elements = append(elements, fmt.Sprintf("%s: %s", q.tag, capture.Node.Content(source)))
			}
		}
	}

	return strings.Join(elements, "\n"), nil
}
