package cache

import (
	"errors"
	"os"
	"time"
)

// Info describes the cache file without loading it into a Cache.
type Info struct {
	Path        string
	Exists      bool
	ModTime     time.Time
	Age         time.Duration
	Fresh       bool
	HasStatuses bool
	StatusCount int
	HasUsers    bool
	UserCount   int
	// Corrupt holds the parse error when the file exists but is not valid JSON.
	Corrupt string
}

// Inspect reports on the cache belonging to configPath. A corrupt file is
// reported in Info.Corrupt rather than returned as an error.
func Inspect(configPath string, now time.Time) (*Info, error) {
	info := &Info{Path: PathFor(configPath)}

	stat, err := os.Stat(info.Path)
	if errors.Is(err, os.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return nil, &Error{Op: "inspect", Path: info.Path, Err: err}
	}

	info.Exists = true
	info.ModTime = stat.ModTime()
	info.Age = now.Sub(stat.ModTime())
	info.Fresh, _ = freshness(configPath, info.Path, now)

	snap, err := readSnapshot(info.Path)
	if err != nil {
		info.Corrupt = err.Error()
		info.Fresh = false
		return info, nil
	}

	info.HasStatuses = snap.IssueStatuses != nil
	info.StatusCount = len(snap.IssueStatuses)
	info.HasUsers = snap.Users != nil
	info.UserCount = len(snap.Users)
	return info, nil
}
