package models

import "time"

// FileRecord is the comparable fingerprint of a single eligible file.
type FileRecord struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// Snapshot captures the eligible files of a directory at one point in time.
// Records are sorted by file name. Signature is a 64-bit hash over the
// canonical serialization of Records, so two snapshots are equal iff their
// signatures and lengths match.
type Snapshot struct {
	Records   []FileRecord
	Signature uint64
}

// Equal reports whether two snapshots describe the same directory state.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil {
		return false
	}
	return len(s.Records) == len(other.Records) && s.Signature == other.Signature
}

// SkipReason explains why a file was left out of a snapshot or briefing.
type SkipReason string

const (
	SkipNotRegular SkipReason = "not a regular file"
	SkipExtension  SkipReason = "extension not allowed"
	SkipSelf       SkipReason = "agent's own artifact"
	SkipStat       SkipReason = "stat failed"
	SkipRead       SkipReason = "read failed"
)

// FileResult records the outcome of scanning one directory entry.
type FileResult struct {
	Name   string
	Reason SkipReason
	Err    error
}

// ScanReport collects per-file outcomes of a directory scan so callers can
// assert on skip reasons instead of relying on swallowed errors.
type ScanReport struct {
	Included []string
	Skipped  []FileResult
}

// Skip appends a skipped-file outcome to the report.
func (r *ScanReport) Skip(name string, reason SkipReason, err error) {
	r.Skipped = append(r.Skipped, FileResult{Name: name, Reason: reason, Err: err})
}
