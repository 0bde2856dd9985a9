package cache

import "fmt"

// Error is a failure reading or writing the cache file. It is never retried.
type Error struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cache %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
