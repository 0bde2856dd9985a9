package config

import (
	"fmt"
	"strings"
)

// ErrorKind classifies configuration failures.
type ErrorKind int

const (
	// KindLoading means the config file exists but could not be read.
	KindLoading ErrorKind = iota
	// KindParsing means the file was read but its content is invalid.
	KindParsing
	// KindNoConfigFile means discovery reached the filesystem root without a match.
	KindNoConfigFile
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindParsing:
		return "parsing"
	case KindNoConfigFile:
		return "no config file"
	default:
		return "unknown"
	}
}

// Error is returned by Discover and Load.
type Error struct {
	Kind          ErrorKind
	Path          string
	Detail        string
	SearchedPaths []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindLoading:
		return fmt.Sprintf("Configuration error: failed to read %s: %s", e.Path, e.Detail)
	case KindParsing:
		return fmt.Sprintf("Configuration error: invalid config %s: %s", e.Path, e.Detail)
	case KindNoConfigFile:
		return fmt.Sprintf("Configuration error: Unable to find a config file. Searched paths: [%s]",
			strings.Join(e.SearchedPaths, ", "))
	default:
		return "Configuration error: " + e.Detail
	}
}
