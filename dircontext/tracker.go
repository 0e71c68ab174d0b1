package dircontext

import (
	"github.com/askdir/askdir/dircontext/models"
)

// Tracker remembers the last snapshot that was turned into a briefing, so
// callers can tell whether the directory has changed since. It is not safe
// for concurrent use; the session processes one turn at a time.
type Tracker struct {
	last *models.Snapshot
}

// NewTracker returns a tracker that has observed nothing yet, so the first
// UpToDate call always reports stale.
func NewTracker() *Tracker {
	return &Tracker{}
}

// UpToDate reports whether fresh matches the last observed snapshot.
func (t *Tracker) UpToDate(fresh *models.Snapshot) bool {
	if t.last == nil {
		return false
	}
	return t.last.Equal(fresh)
}

// Observe records fresh as the last observed snapshot.
func (t *Tracker) Observe(fresh *models.Snapshot) {
	t.last = fresh
}

// Last returns the last observed snapshot, or nil before the first Observe.
func (t *Tracker) Last() *models.Snapshot {
	return t.last
}
