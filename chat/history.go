// Package chat holds the conversation state of one process: the ordered
// entry log and the session that runs a prompt through staleness check,
// briefing rebuild and the model call.
package chat

import (
	"github.com/askdir/askdir/providers/models"
	"github.com/samber/lo"
)

// Entry is one element of the conversation. FileContext marks the single
// synthetic system entry carrying the directory briefing; the flag, not the
// content, is what identifies it.
type Entry struct {
	Role        string
	Content     string
	FileContext bool
}

// History is the ordered conversation log. Entries are appended in
// conversation order, except the briefing entry which is pinned at the
// front. At most one briefing entry exists at any time.
type History struct {
	entries []Entry
}

// NewHistory creates an empty conversation log.
func NewHistory() *History {
	return &History{}
}

// Append adds a plain entry to the end of the log.
func (h *History) Append(role string, content string) {
	h.entries = append(h.entries, Entry{Role: role, Content: content})
}

// InsertBriefing removes any existing briefing entry and inserts the new
// one at the front. All other entries keep their relative order.
func (h *History) InsertBriefing(content string) {
	h.RemoveBriefing()
	entry := Entry{Role: models.RoleSystem, Content: content, FileContext: true}
	h.entries = append([]Entry{entry}, h.entries...)
}

// RemoveBriefing drops the briefing entry wherever it sits. Identification
// is by flag, so it is safe even if entries were ever interleaved.
func (h *History) RemoveBriefing() {
	h.entries = lo.Filter(h.entries, func(e Entry, _ int) bool {
		return !e.FileContext
	})
}

// Briefing returns the current briefing entry, if present.
func (h *History) Briefing() (Entry, bool) {
	for _, e := range h.entries {
		if e.FileContext {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the log in conversation order.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Messages converts the log into the wire form sent to a chat provider.
func (h *History) Messages() []models.ChatMessage {
	messages := make([]models.ChatMessage, 0, len(h.entries))
	for _, e := range h.entries {
		messages = append(messages, models.ChatMessage{Role: e.Role, Content: e.Content})
	}
	return messages
}

// Len returns the number of entries, briefing included.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear drops every conversation entry but keeps the briefing, so a cleared
// session still answers with file context.
func (h *History) Clear() {
	if briefing, ok := h.Briefing(); ok {
		h.entries = []Entry{briefing}
		return
	}
	h.entries = nil
}
