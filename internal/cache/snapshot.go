package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spiffcs/rdm/internal/constants"
	"github.com/spiffcs/rdm/internal/model"
)

// Snapshot is the reference data held in memory and persisted to the cache file.
// A nil field has never been fetched; an empty non-nil field was fetched and empty.
type Snapshot struct {
	IssueStatuses []model.IssueStatus `json:"issue_statuses"`
	Users         []model.User        `json:"users"`

	// Timestamp is when the snapshot was last written (the file's mtime on load).
	Timestamp time.Time `json:"-"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		IssueStatuses: slices.Clone(s.IssueStatuses),
		Users:         slices.Clone(s.Users),
		Timestamp:     s.Timestamp,
	}
}

// PathFor returns the cache file location for a config file: same directory, fixed name.
func PathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), constants.CacheFileName)
}

// IsFresh reports whether a cache written at cacheMod may be trusted at now,
// given the config was last modified at configMod. A cache written at the
// same instant as the config counts as fresh; one exactly FreshnessWindow
// old does not.
func IsFresh(configMod, cacheMod, now time.Time) bool {
	if configMod.After(cacheMod) {
		return false
	}
	return now.Sub(cacheMod) < constants.FreshnessWindow
}

// freshness stats both files. Any stat failure makes the cache stale.
func freshness(configPath, cachePath string, now time.Time) (fresh bool, cacheMod time.Time) {
	configInfo, err := os.Stat(configPath)
	if err != nil {
		return false, time.Time{}
	}
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false, time.Time{}
	}
	return IsFresh(configInfo.ModTime(), cacheInfo.ModTime(), now), cacheInfo.ModTime()
}

func readSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// writeSnapshot replaces the file at path with snap. The data is written to a
// temporary file in the same directory and renamed over the target, so a
// reader never observes a half-written cache.
func writeSnapshot(path string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".rdm-cache-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
