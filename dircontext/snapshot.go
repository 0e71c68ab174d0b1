// Package dircontext builds and tracks the file context injected into the
// chat conversation: it scans a single directory for eligible files, formats
// their contents into one briefing block, and detects when the on-disk set
// has changed so the briefing can be rebuilt.
package dircontext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/askdir/askdir/dircontext/models"
	"github.com/zeebo/xxh3"
)

// IncludeExtensions is the allow-list of file extensions exposed to the
// model, matched case-insensitively.
var IncludeExtensions = map[string]bool{
	".txt":    true,
	".md":     true,
	".py":     true,
	".json":   true,
	".yaml":   true,
	".yml":    true,
	".tf":     true,
	".tfvars": true,
}

// SelfName returns the base name of the running executable, which is
// excluded from scans so the agent never feeds itself to the model.
func SelfName() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Base(exe)
}

// Eligible reports whether a file name passes the extension allow-list and
// the self-exclusion check.
func Eligible(name string, excludeName string) bool {
	if excludeName != "" && name == excludeName {
		return false
	}
	return IncludeExtensions[strings.ToLower(filepath.Ext(name))]
}

// TakeSnapshot enumerates the eligible regular files directly under dir and
// reduces them to a comparable fingerprint. Files that disappear between
// listing and stat are skipped, never fatal; the report records why each
// entry was left out.
func TakeSnapshot(dir string, excludeName string) (*models.Snapshot, *models.ScanReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	snapshot := &models.Snapshot{}
	report := &models.ScanReport{}

	// os.ReadDir returns entries sorted by name, which fixes the record
	// order and keeps the signature deterministic.
	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() {
			continue
		}
		if !entry.Type().IsRegular() {
			report.Skip(name, models.SkipNotRegular, nil)
			continue
		}
		if excludeName != "" && name == excludeName {
			report.Skip(name, models.SkipSelf, nil)
			continue
		}
		if !IncludeExtensions[strings.ToLower(filepath.Ext(name))] {
			report.Skip(name, models.SkipExtension, nil)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			report.Skip(name, models.SkipStat, err)
			continue
		}

		snapshot.Records = append(snapshot.Records, models.FileRecord{
			Name:    name,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
		report.Included = append(report.Included, name)
	}

	snapshot.Signature = signRecords(snapshot.Records)

	return snapshot, report, nil
}

// signRecords hashes the canonical (name, mtime, size) serialization of the
// records into a single signature.
func signRecords(records []models.FileRecord) uint64 {
	var sb strings.Builder
	for _, record := range records {
		fmt.Fprintf(&sb, "%s\x00%d\x00%d\n", record.Name, record.ModTime.UnixNano(), record.Size)
	}
	return xxh3.HashString(sb.String())
}
