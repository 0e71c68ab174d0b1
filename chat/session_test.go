package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/askdir/askdir/dircontext"
	"github.com/askdir/askdir/providers/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays canned replies and records every conversation it
// was sent.
type scriptedProvider struct {
	reply string
	err   error
	calls [][]models.ChatMessage
}

func (p *scriptedProvider) ChatCompletionRequest(_ context.Context, messages []models.ChatMessage) <-chan models.StreamResponse {
	p.calls = append(p.calls, messages)

	responseChan := make(chan models.StreamResponse, 2)
	if p.err != nil {
		responseChan <- models.StreamResponse{Err: p.err}
	} else {
		responseChan <- models.StreamResponse{Content: p.reply}
		responseChan <- models.StreamResponse{Done: true}
	}
	close(responseChan)
	return responseChan
}

func newTestSession(t *testing.T, provider *scriptedProvider) (*Session, string) {
	t.Helper()
	tempDir := t.TempDir()
	builder := dircontext.NewBuilder(0, dircontext.DisplayModeFull, "", nil)
	return NewSession(tempDir, builder, provider, nil), tempDir
}

func writeFile(t *testing.T, dir string, name string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestSession_FirstTurnBuildsBriefing(t *testing.T) {
	provider := &scriptedProvider{reply: "the reply"}
	session, tempDir := newTestSession(t, provider)

	writeFile(t, tempDir, "a.md", "hello")
	writeFile(t, tempDir, "notes.txt", "world")

	output, err := session.Process(context.Background(), "summarize", nil)
	require.NoError(t, err)
	assert.Equal(t, "the reply", output)

	entries := session.History().Entries()
	require.Len(t, entries, 3)
	assert.True(t, entries[0].FileContext)
	assert.Contains(t, entries[0].Content, "File: a.md")
	assert.Contains(t, entries[0].Content, "File: notes.txt")
	assert.Equal(t, Entry{Role: models.RoleUser, Content: "summarize"}, entries[1])
	assert.Equal(t, Entry{Role: models.RoleAssistant, Content: "the reply"}, entries[2])

	// The provider saw the full ordered conversation, briefing first.
	require.Len(t, provider.calls, 1)
	require.Len(t, provider.calls[0], 2)
	assert.Equal(t, models.RoleSystem, provider.calls[0][0].Role)
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: "summarize"}, provider.calls[0][1])
}

func TestSession_UnchangedDirectorySkipsRebuild(t *testing.T) {
	provider := &scriptedProvider{reply: "reply"}
	session, tempDir := newTestSession(t, provider)

	writeFile(t, tempDir, "a.md", "hello")

	_, err := session.Process(context.Background(), "summarize", nil)
	require.NoError(t, err)
	lenAfterFirst := session.History().Len()

	// Flip the display mode without touching the directory. If the second
	// turn rebuilt, the briefing would change shape; it must not.
	session.builder.DisplayMode = dircontext.DisplayModeInfo

	_, err = session.Process(context.Background(), "again", nil)
	require.NoError(t, err)

	assert.Equal(t, lenAfterFirst+2, session.History().Len())

	briefing, ok := session.History().Briefing()
	require.True(t, ok)
	assert.Contains(t, briefing.Content, "hello", "briefing must be untouched by the second turn")

	// Touching a file makes the next turn rebuild, now in info mode.
	newTime := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(tempDir, "a.md"), newTime, newTime))

	_, err = session.Process(context.Background(), "once more", nil)
	require.NoError(t, err)

	briefing, ok = session.History().Briefing()
	require.True(t, ok)
	assert.NotContains(t, briefing.Content, "hello", "modified directory must trigger exactly one rebuild")
	assert.Contains(t, briefing.Content, "bytes")
}

func TestSession_ReloadIsIdempotent(t *testing.T) {
	provider := &scriptedProvider{reply: "reply"}
	session, tempDir := newTestSession(t, provider)

	writeFile(t, tempDir, "a.md", "hello")

	_, err := session.Reload()
	require.NoError(t, err)
	first, ok := session.History().Briefing()
	require.True(t, ok)

	_, err = session.Reload()
	require.NoError(t, err)
	second, ok := session.History().Briefing()
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, session.History().Len())
	assert.True(t, session.History().Entries()[0].FileContext)
}

func TestSession_ReloadRefreshesStalenessCheck(t *testing.T) {
	provider := &scriptedProvider{reply: "reply"}
	session, tempDir := newTestSession(t, provider)

	writeFile(t, tempDir, "a.md", "hello")

	_, err := session.Reload()
	require.NoError(t, err)

	// The next turn must not rebuild: flip the mode and verify the
	// briefing keeps its full-mode shape.
	session.builder.DisplayMode = dircontext.DisplayModeInfo

	_, err = session.Process(context.Background(), "summarize", nil)
	require.NoError(t, err)

	briefing, ok := session.History().Briefing()
	require.True(t, ok)
	assert.Contains(t, briefing.Content, "hello")
}

func TestSession_FileRemovalUpdatesBriefing(t *testing.T) {
	provider := &scriptedProvider{reply: "reply"}
	session, tempDir := newTestSession(t, provider)

	writeFile(t, tempDir, "a.md", "hello")
	writeFile(t, tempDir, "notes.txt", "world")

	_, err := session.Process(context.Background(), "summarize", nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(tempDir, "notes.txt")))

	_, err = session.Reload()
	require.NoError(t, err)

	briefing, ok := session.History().Briefing()
	require.True(t, ok)
	assert.Contains(t, briefing.Content, "File: a.md")
	assert.NotContains(t, briefing.Content, "File: notes.txt")

	// Prior conversation entries are untouched and in order.
	entries := session.History().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "summarize", entries[1].Content)
	assert.Equal(t, models.RoleAssistant, entries[2].Role)
}

func TestSession_EmptyDirectoryHasNoBriefing(t *testing.T) {
	provider := &scriptedProvider{reply: "reply"}
	session, _ := newTestSession(t, provider)

	_, err := session.Process(context.Background(), "anything there?", nil)
	require.NoError(t, err)

	_, ok := session.History().Briefing()
	assert.False(t, ok)

	entries := session.History().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, models.RoleUser, entries[0].Role)
}

func TestSession_BriefingRemovedWhenAllFilesGo(t *testing.T) {
	provider := &scriptedProvider{reply: "reply"}
	session, tempDir := newTestSession(t, provider)

	writeFile(t, tempDir, "a.md", "hello")

	_, err := session.Process(context.Background(), "summarize", nil)
	require.NoError(t, err)
	_, ok := session.History().Briefing()
	require.True(t, ok)

	require.NoError(t, os.Remove(filepath.Join(tempDir, "a.md")))

	_, err = session.Process(context.Background(), "and now?", nil)
	require.NoError(t, err)

	_, ok = session.History().Briefing()
	assert.False(t, ok)
}

func TestSession_ProviderFailureLeavesDanglingUserEntry(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("provider unreachable")}
	session, tempDir := newTestSession(t, provider)

	writeFile(t, tempDir, "a.md", "hello")

	_, err := session.Process(context.Background(), "summarize", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider unreachable")

	entries := session.History().Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].FileContext)
	assert.Equal(t, models.RoleUser, entries[1].Role)

	// A retried prompt appends a second user entry, no deduplication.
	provider.err = nil
	provider.reply = "late reply"

	_, err = session.Process(context.Background(), "summarize", nil)
	require.NoError(t, err)

	entries = session.History().Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "summarize", entries[1].Content)
	assert.Equal(t, "summarize", entries[2].Content)
	assert.Equal(t, "late reply", entries[3].Content)
}

func TestSession_ChunksReachCallback(t *testing.T) {
	provider := &scriptedProvider{reply: "streamed"}
	session, _ := newTestSession(t, provider)

	var chunks []string
	output, err := session.Process(context.Background(), "hi", func(chunk string) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, err)

	assert.Equal(t, "streamed", output)
	assert.Equal(t, []string{"streamed"}, chunks)
}
