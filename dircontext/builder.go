package dircontext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/askdir/askdir/dircontext/models"
	"go.uber.org/zap"
)

// FileContextTag is the first line of every briefing block. Entries carry an
// explicit flag as well, so the tag is presentation, not identification.
const FileContextTag = "__FILE_CONTEXT__"

// DefaultMaxFileChars is the per-file truncation cap applied in full mode.
const DefaultMaxFileChars = 8000

// File display modes supported by the builder.
const (
	DisplayModeFull     = "full"
	DisplayModeInfo     = "info"
	DisplayModeRelevant = "relevant"
)

// Builder formats the eligible files of a directory into a single briefing
// block for the model.
type Builder struct {
	MaxFileChars int
	DisplayMode  string
	ExcludeName  string
	logger       *zap.Logger
}

// NewBuilder creates a Builder with the given truncation cap and display
// mode. Zero or negative maxFileChars falls back to DefaultMaxFileChars; an
// unknown display mode falls back to full.
func NewBuilder(maxFileChars int, displayMode string, excludeName string, logger *zap.Logger) *Builder {
	if maxFileChars <= 0 {
		maxFileChars = DefaultMaxFileChars
	}
	switch displayMode {
	case DisplayModeFull, DisplayModeInfo, DisplayModeRelevant:
	default:
		displayMode = DisplayModeFull
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		MaxFileChars: maxFileChars,
		DisplayMode:  displayMode,
		ExcludeName:  excludeName,
		logger:       logger,
	}
}

// Build reads every eligible file under dir and concatenates the results
// into one briefing block. It returns the empty string when no eligible file
// could be included; a file that fails to read is reported and omitted, never
// fatal. For a fixed directory state and display mode the output is
// byte-identical across calls.
func (b *Builder) Build(dir string) (string, *models.ScanReport, error) {
	snapshot, report, err := TakeSnapshot(dir, b.ExcludeName)
	if err != nil {
		return "", nil, err
	}

	var fileBlocks []string
	var included []string

	for _, record := range snapshot.Records {
		section, err := b.renderFile(dir, record)
		if err != nil {
			b.logger.Warn("skipped file", zap.String("file", record.Name), zap.Error(err))
			report.Skip(record.Name, models.SkipRead, err)
			continue
		}
		included = append(included, record.Name)
		fileBlocks = append(fileBlocks, section)
	}

	report.Included = included

	b.logger.Info("loaded file context",
		zap.Int("files", len(included)),
		zap.String("dir", dir),
		zap.Strings("names", included),
	)

	if len(fileBlocks) == 0 {
		return "", report, nil
	}

	briefing := fmt.Sprintf(
		"%s\nProject directory: %s\n"+
			"You have access to the following files from the project directory. "+
			"Use them as context when answering. If the user asks about a file, "+
			"prefer quoting the relevant snippet and explaining it.\n\n%s",
		FileContextTag, dir, strings.Join(fileBlocks, "\n"),
	)

	return briefing, report, nil
}

// renderFile produces the labeled section for one file according to the
// configured display mode.
func (b *Builder) renderFile(dir string, record models.FileRecord) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, record.Name))
	if err != nil {
		return "", err
	}

	// Permissive decoding: invalid bytes become replacement runes instead
	// of failing the whole build.
	content := strings.ToValidUTF8(string(raw), "�")

	var body string
	switch b.DisplayMode {
	case DisplayModeInfo:
		body = fmt.Sprintf("(%d bytes, %d lines)", record.Size, countLines(content))
	case DisplayModeRelevant:
		body = b.renderRelevant(record.Name, raw, content)
	default:
		body = truncateChars(content, b.MaxFileChars)
	}

	return fmt.Sprintf("File: %s\n---\n%s\n", record.Name, body), nil
}

// renderRelevant returns a structural outline for Python files and the first
// line for everything else, the compact alternative to full content.
func (b *Builder) renderRelevant(name string, raw []byte, content string) string {
	if strings.EqualFold(filepath.Ext(name), ".py") {
		outline, err := OutlinePython(raw)
		if err == nil && outline != "" {
			return outline
		}
		if err != nil {
			b.logger.Debug("python outline failed, falling back to first line",
				zap.String("file", name), zap.Error(err))
		}
	}
	line, _, _ := strings.Cut(content, "\n")
	return line
}

// truncateChars returns a fixed-length prefix of s, counted in runes so a
// multi-byte character is never split.
func truncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
