package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdir/askdir/dircontext"
	dirmodels "github.com/askdir/askdir/dircontext/models"
	"github.com/askdir/askdir/providers/contracts"
	"github.com/askdir/askdir/providers/models"
	"go.uber.org/zap"
)

// Session owns the per-process conversation state: the entry log, the
// snapshot tracker and the provider handle. One turn is fully processed
// before the next prompt is accepted; nothing here is safe for concurrent
// callers.
type Session struct {
	dir      string
	builder  *dircontext.Builder
	tracker  *dircontext.Tracker
	provider contracts.IChatAIProvider
	history  *History
	logger   *zap.Logger
}

// NewSession creates a session rooted at dir.
func NewSession(dir string, builder *dircontext.Builder, provider contracts.IChatAIProvider, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		dir:      dir,
		builder:  builder,
		tracker:  dircontext.NewTracker(),
		provider: provider,
		history:  NewHistory(),
		logger:   logger,
	}
}

// History exposes the conversation log, mainly for commands and tests.
func (s *Session) History() *History {
	return s.history
}

// Dir returns the directory this session draws file context from.
func (s *Session) Dir() string {
	return s.dir
}

// Process runs one turn: refresh the briefing if the directory changed,
// append the user entry, send the whole conversation to the provider and
// append the reply. onChunk, when non-nil, observes streamed chunks as they
// arrive. A provider failure propagates with the user entry already
// appended and no assistant entry; a retried prompt appends a second user
// entry, never deduplicates.
func (s *Session) Process(ctx context.Context, prompt string, onChunk func(string)) (string, error) {
	if err := s.refreshIfStale(); err != nil {
		return "", err
	}

	s.history.Append(models.RoleUser, prompt)

	output, err := s.complete(ctx, onChunk)
	if err != nil {
		return "", err
	}

	s.history.Append(models.RoleAssistant, output)
	return output, nil
}

// Reload rebuilds the briefing unconditionally and refreshes the snapshot
// the automatic staleness check compares against. Two reloads in a row with
// no filesystem change produce identical briefings; that is expected.
func (s *Session) Reload() (*dirmodels.ScanReport, error) {
	snapshot, _, err := dircontext.TakeSnapshot(s.dir, s.builder.ExcludeName)
	if err != nil {
		return nil, err
	}
	report, err := s.rebuild()
	if err != nil {
		return nil, err
	}
	s.tracker.Observe(snapshot)
	return report, nil
}

// refreshIfStale compares a fresh snapshot against the last observed one
// and rebuilds the briefing only when they differ. The check runs on every
// turn.
func (s *Session) refreshIfStale() error {
	snapshot, _, err := dircontext.TakeSnapshot(s.dir, s.builder.ExcludeName)
	if err != nil {
		return err
	}

	if s.tracker.UpToDate(snapshot) {
		return nil
	}

	s.logger.Debug("file context stale, rebuilding",
		zap.Int("files", len(snapshot.Records)),
		zap.String("dir", s.dir),
	)

	if _, err := s.rebuild(); err != nil {
		return err
	}
	s.tracker.Observe(snapshot)
	return nil
}

// rebuild regenerates the briefing and swaps it into the log, or removes
// the briefing entirely when no eligible file remains.
func (s *Session) rebuild() (*dirmodels.ScanReport, error) {
	briefing, report, err := s.builder.Build(s.dir)
	if err != nil {
		return nil, err
	}
	if briefing == "" {
		s.history.RemoveBriefing()
		return report, nil
	}
	s.history.InsertBriefing(briefing)
	return report, nil
}

// complete sends the full ordered conversation to the provider and drains
// the response stream. The drain is the session's single suspension point.
func (s *Session) complete(ctx context.Context, onChunk func(string)) (string, error) {
	responseChan := s.provider.ChatCompletionRequest(ctx, s.history.Messages())

	var output strings.Builder
	for response := range responseChan {
		if response.Err != nil {
			return "", fmt.Errorf("chat completion failed: %w", response.Err)
		}
		if response.Done {
			break
		}
		output.WriteString(response.Content)
		if onChunk != nil && response.Content != "" {
			onChunk(response.Content)
		}
	}

	return output.String(), nil
}
