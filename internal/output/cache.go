package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/rdm/internal/cache"
	"github.com/spiffcs/rdm/internal/format"
)

// FormatCacheInfo writes the result of cache.Inspect.
func FormatCacheInfo(info *cache.Info, w io.Writer) error {
	var b strings.Builder

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(format.PadRight(label+":", 16)), value)
	}

	field("Cache file", info.Path)
	if !info.Exists {
		field("State", dimStyle.Render("not created yet"))
		_, err := io.WriteString(w, b.String())
		return err
	}

	field("Modified", fmt.Sprintf("%s (%s ago)", info.ModTime.Format("2006-01-02 15:04:05"), format.Age(info.Age)))

	switch {
	case info.Corrupt != "":
		field("State", errorStyle.Render("corrupt: "+info.Corrupt))
	case info.Fresh:
		field("State", freshStyle.Render("fresh"))
	default:
		field("State", staleStyle.Render("stale"))
	}

	if info.Corrupt == "" {
		field("Issue statuses", countOrMissing(info.HasStatuses, info.StatusCount))
		field("Users", countOrMissing(info.HasUsers, info.UserCount))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func countOrMissing(present bool, n int) string {
	if !present {
		return dimStyle.Render("not fetched")
	}
	return fmt.Sprintf("%d", n)
}

// FormatConfigPath writes the discovered config file and its cache file.
func FormatConfigPath(configPath, cachePath string, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %s\n%s %s\n",
		labelStyle.Render(format.PadRight("Config file:", 13)), configPath,
		labelStyle.Render(format.PadRight("Cache file:", 13)), dimStyle.Render(cachePath),
	)
	return err
}
