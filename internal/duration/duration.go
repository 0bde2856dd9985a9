// Package duration parses the compact relative ages accepted by --updated-since.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var units = map[string]time.Duration{
	"h":  time.Hour,
	"d":  day,
	"w":  7 * day,
	"mo": 30 * day,
	"y":  365 * day,
}

// Parse parses a count followed by a unit (h, d, w, mo, y), such as "36h",
// "2w" or "6mo".
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return 0, fmt.Errorf("invalid duration %q (use e.g. 36h, 2w, 6mo)", s)
	}

	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	unit, ok := units[s[i:]]
	if !ok {
		return 0, fmt.Errorf("unknown duration unit %q in %q (use h, d, w, mo or y)", s[i:], s)
	}
	return time.Duration(n) * unit, nil
}

// Since returns the instant s before now.
func Since(s string, now time.Time) (time.Time, error) {
	d, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d), nil
}
